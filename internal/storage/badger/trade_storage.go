package badger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/timshannon/badgerhold/v4"

	"github.com/fintrack/fintrack/internal/common"
	"github.com/fintrack/fintrack/internal/models"
)

type tradeStorage struct {
	store  *Store
	logger *common.Logger
}

// NewTradeStorage creates a TradeStore backed by BadgerHold. The log is
// append-only: records are inserted, never updated or deleted.
func NewTradeStorage(store *Store, logger *common.Logger) *tradeStorage {
	return &tradeStorage{store: store, logger: logger}
}

func (s *tradeStorage) Append(_ context.Context, trade *models.Trade) error {
	if err := s.store.db.Insert(trade.ID, trade); err != nil {
		return fmt.Errorf("failed to append trade: %w", err)
	}
	s.logger.Debug().Str("id", trade.ID).Str("symbol", trade.Symbol).Msg("Trade appended")
	return nil
}

func (s *tradeStorage) ListByUser(_ context.Context, userID string) ([]*models.Trade, error) {
	var trades []*models.Trade
	query := badgerhold.Where("UserID").Eq(userID).Index("UserID").SortBy("ExecutedAt").Reverse()
	if err := s.store.db.Find(&trades, query); err != nil {
		return nil, fmt.Errorf("failed to list trades for '%s': %w", userID, err)
	}
	return trades, nil
}

func (s *tradeStorage) SumRealizedPnL(ctx context.Context, userID string) (decimal.Decimal, error) {
	trades, err := s.ListByUser(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, t := range trades {
		total = total.Add(t.RealizedPnL)
	}
	return total, nil
}
