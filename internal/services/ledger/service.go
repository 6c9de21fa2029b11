// Package ledger applies trade intents to cash balance, position, and trade
// history as one settlement unit.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/common"
	"github.com/fintrack/fintrack/internal/interfaces"
	"github.com/fintrack/fintrack/internal/models"
)

// Compile-time interface check
var _ interfaces.LedgerService = (*Service)(nil)

// Service implements LedgerService. Trades for one user are serialized
// through a per-user lock (the lock covers the shared cash balance as well as
// every position of that user); trades for different users run concurrently.
// The storage commit is a single transaction, retried a bounded number of
// times on conflict.
type Service struct {
	storage    interfaces.StorageManager
	logger     *common.Logger
	locks      *keyLock
	lockWait   time.Duration
	maxRetries int
	now        func() time.Time // injectable clock for testing
}

// NewService creates a new ledger service.
func NewService(storage interfaces.StorageManager, cfg common.LedgerConfig, logger *common.Logger) *Service {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Service{
		storage:    storage,
		logger:     logger,
		locks:      newKeyLock(),
		lockWait:   cfg.GetLockWait(),
		maxRetries: maxRetries,
		now:        time.Now,
	}
}

// ExecuteTrade validates and settles one order against the user's balance and
// position, appends the immutable trade record, and returns the new balance
// plus the realized P&L (zero for buys).
func (s *Service) ExecuteTrade(ctx context.Context, userID, symbol string, quantity int64, price decimal.Decimal, side models.TradeSide) (*models.TradeResult, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, models.ErrInvalidSymbol
	}
	if quantity <= 0 {
		return nil, models.ErrInvalidQuantity
	}
	if !price.IsPositive() {
		return nil, models.ErrInvalidPrice
	}
	if side != models.TradeSideBuy && side != models.TradeSideSell {
		return nil, models.ErrInvalidSide
	}

	release, err := s.locks.acquire(ctx, userID, s.lockWait)
	if err != nil {
		return nil, err
	}
	defer release()

	var result *models.TradeResult
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		result, err = s.settle(ctx, userID, symbol, quantity, price, side)
		if err == nil || !errors.Is(err, models.ErrBusy) {
			break
		}
		s.logger.Warn().
			Str("user_id", userID).
			Str("symbol", symbol).
			Int("attempt", attempt+1).
			Msg("Trade commit conflict, retrying")
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("symbol", symbol).
		Str("side", string(side)).
		Int64("quantity", quantity).
		Str("price", price.String()).
		Str("realized_pnl", result.RealizedPnL.String()).
		Msg("Trade executed")

	return result, nil
}

// settle performs one read-check-mutate-append pass. Runs under the per-user
// lock; the storage commit is atomic.
func (s *Service) settle(ctx context.Context, userID, symbol string, quantity int64, price decimal.Decimal, side models.TradeSide) (*models.TradeResult, error) {
	user, err := s.storage.Users().Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	position, err := s.storage.Positions().Get(ctx, userID, symbol)
	if err != nil {
		return nil, err
	}

	qty := decimal.NewFromInt(quantity)
	gross := price.Mul(qty)

	app := &interfaces.TradeApplication{User: user}
	realized := decimal.Zero

	switch side {
	case models.TradeSideBuy:
		if user.Balance.LessThan(gross) {
			return nil, fmt.Errorf("buy costs %s but balance is %s: %w",
				gross.StringFixed(2), user.Balance.StringFixed(2), models.ErrInsufficientFunds)
		}
		user.Balance = user.Balance.Sub(gross)

		if position == nil {
			app.Position = &models.Position{
				Key:      models.PositionKey(userID, symbol),
				UserID:   userID,
				Symbol:   symbol,
				Quantity: quantity,
				AvgCost:  price,
			}
		} else {
			// Re-average: (oldQty*oldAvg + qty*price) / (oldQty+qty)
			newQty := position.Quantity + quantity
			position.AvgCost = position.CostBasis().Add(gross).Div(decimal.NewFromInt(newQty))
			position.Quantity = newQty
			app.Position = position
		}

	case models.TradeSideSell:
		if position == nil || position.Quantity < quantity {
			held := int64(0)
			if position != nil {
				held = position.Quantity
			}
			return nil, fmt.Errorf("sell of %d exceeds held %d: %w",
				quantity, held, models.ErrInsufficientShares)
		}

		// Realized P&L against the average cost before any mutation
		realized = price.Sub(position.AvgCost).Mul(qty)
		user.Balance = user.Balance.Add(gross)

		remaining := position.Quantity - quantity
		if remaining == 0 {
			// Positions are never persisted at zero quantity
			app.DeletePositionKey = position.Key
		} else {
			position.Quantity = remaining // AvgCost unchanged on sells
			app.Position = position
		}
	}

	user.UpdatedAt = s.now()
	app.Trade = &models.Trade{
		ID:          uuid.New().String(),
		UserID:      userID,
		Symbol:      symbol,
		Quantity:    quantity,
		Price:       price,
		Side:        side,
		RealizedPnL: realized,
		ExecutedAt:  s.now(),
	}

	if err := s.storage.ApplyTrade(ctx, app); err != nil {
		return nil, err
	}

	return &models.TradeResult{
		Trade:       app.Trade,
		Balance:     user.Balance,
		RealizedPnL: realized,
	}, nil
}
