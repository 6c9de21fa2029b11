// Package alert evaluates watchlist triggers against current prices and
// emits at most one notification per user/symbol/day.
package alert

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/common"
	"github.com/fintrack/fintrack/internal/interfaces"
	"github.com/fintrack/fintrack/internal/models"
)

// Compile-time interface check
var _ interfaces.AlertService = (*Service)(nil)

// Service implements AlertService. The daily bound is enforced by an atomic
// insert-if-absent on the alert record: whichever concurrent evaluation wins
// the insert emits; every other one is suppressed.
type Service struct {
	storage interfaces.StorageManager
	quotes  interfaces.QuoteService
	sink    interfaces.NotificationSink
	logger  *common.Logger
	now     func() time.Time // injectable clock for testing
}

// NewService creates a new alert service. quotes is only needed for Sweep and
// may be nil when alerts are checked with caller-supplied prices.
func NewService(storage interfaces.StorageManager, quotes interfaces.QuoteService, sink interfaces.NotificationSink, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		quotes:  quotes,
		sink:    sink,
		logger:  logger,
		now:     time.Now,
	}
}

// CheckAlerts evaluates the user's trigger on symbol at currentPrice. The
// upper limit is checked first; at most one event per call. Returns true when
// a notification was emitted.
func (s *Service) CheckAlerts(ctx context.Context, userID, symbol string, currentPrice decimal.Decimal) (bool, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	trigger, err := s.storage.Watchlists().Get(ctx, userID, symbol)
	if err != nil {
		if errors.Is(err, models.ErrTriggerNotFound) {
			return false, nil
		}
		return false, err
	}

	var kind models.AlertKind
	var message string

	switch {
	case trigger.UpperLimit != nil && currentPrice.GreaterThanOrEqual(*trigger.UpperLimit):
		kind = models.AlertKindUpper
		message = fmt.Sprintf("%s has hit your upper limit of $%s! Current: $%s",
			symbol, trigger.UpperLimit.String(), currentPrice.String())
	case trigger.LowerLimit != nil && currentPrice.LessThanOrEqual(*trigger.LowerLimit):
		kind = models.AlertKindLower
		message = fmt.Sprintf("%s has dropped to your lower limit of $%s! Current: $%s",
			symbol, trigger.LowerLimit.String(), currentPrice.String())
	default:
		return false, nil
	}

	now := s.now()
	record := &models.AlertRecord{
		Hash:      models.AlertHash(userID, symbol, now),
		UserID:    userID,
		Symbol:    symbol,
		Kind:      kind,
		Day:       now.Format("2006-01-02"),
		CreatedAt: now,
	}

	inserted, err := s.storage.Alerts().InsertOnce(ctx, record)
	if err != nil {
		return false, err
	}
	if !inserted {
		// Already alerted for this user/symbol today
		return false, nil
	}

	if err := s.sink.Notify(ctx, userID, message, now); err != nil {
		return false, fmt.Errorf("failed to emit notification: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("symbol", symbol).
		Str("kind", string(kind)).
		Msg("Alert emitted")

	return true, nil
}

// Sweep evaluates every stored trigger against a live quote. Quote failures
// skip the trigger rather than aborting the sweep.
func (s *Service) Sweep(ctx context.Context) error {
	triggers, err := s.storage.Watchlists().ListAll(ctx)
	if err != nil {
		return err
	}

	for _, trigger := range triggers {
		q, err := s.quotes.GetQuote(ctx, trigger.Symbol)
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", trigger.Symbol).Msg("Skipping trigger, quote unavailable")
			continue
		}
		if _, err := s.CheckAlerts(ctx, trigger.UserID, trigger.Symbol, decimal.NewFromFloat(q.Price)); err != nil {
			s.logger.Error().Err(err).
				Str("user_id", trigger.UserID).
				Str("symbol", trigger.Symbol).
				Msg("Alert check failed during sweep")
		}
	}
	return nil
}
