// Package watchlist manages per-user price triggers
package watchlist

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/common"
	"github.com/fintrack/fintrack/internal/interfaces"
	"github.com/fintrack/fintrack/internal/models"
)

// Compile-time interface check
var _ interfaces.WatchlistService = (*Service)(nil)

// Service implements WatchlistService
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new watchlist service
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// AddTrigger registers a new price trigger for a user and symbol. Fails with
// models.ErrDuplicateWatchlistEntry when the symbol is already watched, and
// models.ErrInvalidPrice when a limit is non-positive or the limits are
// inverted.
func (s *Service) AddTrigger(ctx context.Context, userID, symbol string, upper, lower *decimal.Decimal) (*models.WatchlistTrigger, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, models.ErrInvalidSymbol
	}
	if upper == nil && lower == nil {
		return nil, fmt.Errorf("at least one of upper or lower limit is required: %w", models.ErrInvalidPrice)
	}
	if upper != nil && !upper.IsPositive() {
		return nil, fmt.Errorf("upper limit must be positive: %w", models.ErrInvalidPrice)
	}
	if lower != nil && !lower.IsPositive() {
		return nil, fmt.Errorf("lower limit must be positive: %w", models.ErrInvalidPrice)
	}
	if upper != nil && lower != nil && upper.LessThan(*lower) {
		return nil, fmt.Errorf("upper limit below lower limit: %w", models.ErrInvalidPrice)
	}

	trigger := &models.WatchlistTrigger{
		Key:        models.TriggerKey(userID, symbol),
		UserID:     userID,
		Symbol:     symbol,
		UpperLimit: upper,
		LowerLimit: lower,
	}
	if err := s.storage.Watchlists().Create(ctx, trigger); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", userID).Str("symbol", symbol).Msg("Watchlist trigger added")
	return trigger, nil
}

// GetTriggers returns all triggers for a user.
func (s *Service) GetTriggers(ctx context.Context, userID string) ([]*models.WatchlistTrigger, error) {
	return s.storage.Watchlists().ListByUser(ctx, userID)
}

// RemoveTrigger removes a trigger by symbol.
func (s *Service) RemoveTrigger(ctx context.Context, userID, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if err := s.storage.Watchlists().Delete(ctx, userID, symbol); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Str("symbol", symbol).Msg("Watchlist trigger removed")
	return nil
}
