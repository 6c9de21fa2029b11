package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/fintrack/fintrack/internal/common"
	"github.com/fintrack/fintrack/internal/models"
)

type userStorage struct {
	store  *Store
	logger *common.Logger
}

// NewUserStorage creates a UserStore backed by BadgerHold.
func NewUserStorage(store *Store, logger *common.Logger) *userStorage {
	return &userStorage{store: store, logger: logger}
}

func (s *userStorage) Get(_ context.Context, userID string) (*models.User, error) {
	var user models.User
	err := s.store.db.Get(userID, &user)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", userID, err)
	}
	return &user, nil
}

func (s *userStorage) GetByEmail(_ context.Context, email string) (*models.User, error) {
	var users []models.User
	if err := s.store.db.Find(&users, badgerhold.Where("Email").Eq(email).Index("Email")); err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if len(users) == 0 {
		return nil, models.ErrUserNotFound
	}
	return &users[0], nil
}

func (s *userStorage) Create(ctx context.Context, user *models.User) error {
	if _, err := s.GetByEmail(ctx, user.Email); err == nil {
		return models.ErrDuplicateEmail
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := s.store.db.Insert(user.UserID, user); err != nil {
		if err == badgerhold.ErrKeyExists {
			return models.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.Debug().Str("user_id", user.UserID).Msg("User created")
	return nil
}

func (s *userStorage) Save(_ context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	if err := s.store.db.Upsert(user.UserID, user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (s *userStorage) List(_ context.Context) ([]*models.User, error) {
	var users []*models.User
	if err := s.store.db.Find(&users, nil); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
