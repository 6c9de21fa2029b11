// Package portfolio derives holdings views, summaries, and allocation from
// positions, live quotes, and the trade log.
package portfolio

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/common"
	"github.com/fintrack/fintrack/internal/interfaces"
	"github.com/fintrack/fintrack/internal/models"
)

// Compile-time interface check
var _ interfaces.PortfolioService = (*Service)(nil)

var oneHundred = decimal.NewFromInt(100)

// Service implements PortfolioService. Valuation always goes through the
// quote service; stored position prices are informational only. When a quote
// is unavailable the average cost stands in and the holding is flagged stale.
type Service struct {
	storage interfaces.StorageManager
	quotes  interfaces.QuoteService
	logger  *common.Logger
}

// NewService creates a new portfolio service.
func NewService(storage interfaces.StorageManager, quotes interfaces.QuoteService, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		quotes:  quotes,
		logger:  logger,
	}
}

// GetHoldingsView joins every position of the user with its current quote.
func (s *Service) GetHoldingsView(ctx context.Context, userID string) ([]models.HoldingView, error) {
	positions, err := s.storage.Positions().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]models.HoldingView, 0, len(positions))
	for _, pos := range positions {
		views = append(views, s.buildView(ctx, pos))
	}
	return views, nil
}

// buildView values one position at its live price, falling back to average
// cost (flagged stale) when no quote is available.
func (s *Service) buildView(ctx context.Context, pos *models.Position) models.HoldingView {
	currentPrice := pos.AvgCost
	stale := true

	if q, err := s.quotes.GetQuote(ctx, pos.Symbol); err == nil {
		currentPrice = decimal.NewFromFloat(q.Price)
		stale = false
	} else {
		s.logger.Warn().Err(err).Str("symbol", pos.Symbol).Msg("Quote unavailable, valuing at average cost")
	}

	qty := decimal.NewFromInt(pos.Quantity)
	invested := pos.AvgCost.Mul(qty)
	current := currentPrice.Mul(qty)
	unrealized := current.Sub(invested)

	returnPct := decimal.Zero
	if invested.IsPositive() {
		returnPct = unrealized.Div(invested).Mul(oneHundred)
	}

	return models.HoldingView{
		Symbol:        pos.Symbol,
		Quantity:      pos.Quantity,
		AvgCost:       pos.AvgCost,
		CurrentPrice:  currentPrice,
		InvestedValue: invested,
		CurrentValue:  current,
		UnrealizedPnL: unrealized,
		ReturnPct:     returnPct,
		Stale:         stale,
	}
}

// GetSummary sums invested/current/unrealized across holdings and reads the
// realized P&L total from the trade log.
func (s *Service) GetSummary(ctx context.Context, userID string) (*models.PortfolioSummary, error) {
	views, err := s.GetHoldingsView(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &models.PortfolioSummary{
		Invested:      decimal.Zero,
		CurrentValue:  decimal.Zero,
		UnrealizedPnL: decimal.Zero,
	}
	for _, v := range views {
		summary.Invested = summary.Invested.Add(v.InvestedValue)
		summary.CurrentValue = summary.CurrentValue.Add(v.CurrentValue)
		summary.UnrealizedPnL = summary.UnrealizedPnL.Add(v.UnrealizedPnL)
	}

	realized, err := s.storage.Trades().SumRealizedPnL(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary.RealizedPnL = realized

	return summary, nil
}

// GetAllocation produces normalized weights per symbol. Symbols with
// non-positive current value are excluded; a zero total yields an empty
// allocation rather than a division by zero.
func (s *Service) GetAllocation(ctx context.Context, userID string) ([]models.AllocationEntry, error) {
	views, err := s.GetHoldingsView(ctx, userID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, v := range views {
		if v.CurrentValue.IsPositive() {
			total = total.Add(v.CurrentValue)
		}
	}
	if !total.IsPositive() {
		return []models.AllocationEntry{}, nil
	}

	allocation := make([]models.AllocationEntry, 0, len(views))
	for _, v := range views {
		if !v.CurrentValue.IsPositive() {
			continue
		}
		allocation = append(allocation, models.AllocationEntry{
			Symbol:       v.Symbol,
			CurrentValue: v.CurrentValue,
			WeightPct:    v.CurrentValue.Div(total).Mul(oneHundred),
		})
	}
	return allocation, nil
}

// GetHistory returns the user's snapshots oldest-first.
func (s *Service) GetHistory(ctx context.Context, userID string) ([]*models.Snapshot, error) {
	return s.storage.Snapshots().ListByUser(ctx, userID)
}

// RecordSnapshot captures the portfolio's total value (holdings + cash) now.
func (s *Service) RecordSnapshot(ctx context.Context, userID string) (*models.Snapshot, error) {
	summary, err := s.GetSummary(ctx, userID)
	if err != nil {
		return nil, err
	}
	user, err := s.storage.Users().Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	snapshot := &models.Snapshot{
		UserID:         userID,
		PortfolioValue: summary.CurrentValue.Add(user.Balance),
		Timestamp:      time.Now(),
	}
	if err := s.storage.Snapshots().Append(ctx, snapshot); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("user_id", userID).
		Str("value", snapshot.PortfolioValue.String()).
		Msg("Snapshot recorded")

	return snapshot, nil
}
