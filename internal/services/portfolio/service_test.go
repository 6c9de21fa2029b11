package portfolio

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack/fintrack/internal/common"
	"github.com/fintrack/fintrack/internal/interfaces"
	"github.com/fintrack/fintrack/internal/models"
	"github.com/fintrack/fintrack/internal/storage"
)

// --- Mock quote service ---

type mockQuoteService struct {
	prices map[string]float64
}

func (m *mockQuoteService) GetQuote(_ context.Context, symbol string) (*models.Quote, error) {
	price, ok := m.prices[symbol]
	if !ok {
		return nil, fmt.Errorf("no quote for %s: %w", symbol, models.ErrQuoteUnavailable)
	}
	return &models.Quote{Symbol: symbol, Price: price, FetchedAt: time.Now()}, nil
}

func newTestService(t *testing.T, prices map[string]float64) (*Service, interfaces.StorageManager) {
	t.Helper()

	logger := common.NewSilentLogger()
	mgr, err := storage.NewManagerAt(logger, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { mgr.Close() })

	return NewService(mgr, &mockQuoteService{prices: prices}, logger), mgr
}

func seedUser(t *testing.T, mgr interfaces.StorageManager, userID string) {
	t.Helper()
	err := mgr.Users().Create(context.Background(), &models.User{
		UserID:  userID,
		Email:   userID + "@test.local",
		Balance: models.StartingBalance,
	})
	require.NoError(t, err)
}

func seedPosition(t *testing.T, mgr interfaces.StorageManager, userID, symbol string, qty int64, avg string) {
	t.Helper()
	avgCost, err := decimal.NewFromString(avg)
	require.NoError(t, err)
	err = mgr.Positions().Upsert(context.Background(), &models.Position{
		UserID:   userID,
		Symbol:   symbol,
		Quantity: qty,
		AvgCost:  avgCost,
	})
	require.NoError(t, err)
}

func TestGetHoldingsView_LiveQuotes(t *testing.T) {
	svc, mgr := newTestService(t, map[string]float64{"AAPL": 190})
	ctx := context.Background()
	seedUser(t, mgr, "u1")
	seedPosition(t, mgr, "u1", "AAPL", 10, "170")

	views, err := svc.GetHoldingsView(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, views, 1)

	v := views[0]
	assert.Equal(t, "AAPL", v.Symbol)
	assert.False(t, v.Stale)
	assert.True(t, v.CurrentPrice.Equal(decimal.NewFromInt(190)))
	assert.True(t, v.InvestedValue.Equal(decimal.NewFromInt(1700)))
	assert.True(t, v.CurrentValue.Equal(decimal.NewFromInt(1900)))
	assert.True(t, v.UnrealizedPnL.Equal(decimal.NewFromInt(200)))
}

func TestGetHoldingsView_QuoteUnavailableFallsBackToAvgCost(t *testing.T) {
	svc, mgr := newTestService(t, map[string]float64{})
	ctx := context.Background()
	seedUser(t, mgr, "u1")
	seedPosition(t, mgr, "u1", "AAPL", 10, "170")

	views, err := svc.GetHoldingsView(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, views, 1)

	v := views[0]
	assert.True(t, v.Stale)
	assert.True(t, v.CurrentPrice.Equal(v.AvgCost))
	assert.True(t, v.UnrealizedPnL.IsZero(), "valuing at cost yields zero unrealized P&L")
}

func TestGetSummary_RealizedFromTradeLog(t *testing.T) {
	svc, mgr := newTestService(t, map[string]float64{"AAPL": 200})
	ctx := context.Background()
	seedUser(t, mgr, "u1")
	seedPosition(t, mgr, "u1", "AAPL", 5, "180")

	err := mgr.Trades().Append(ctx, &models.Trade{
		ID: "t1", UserID: "u1", Symbol: "AAPL", Quantity: 5,
		Price: decimal.NewFromInt(180), Side: models.TradeSideSell,
		RealizedPnL: decimal.NewFromInt(42), ExecutedAt: time.Now(),
	})
	require.NoError(t, err)

	summary, err := svc.GetSummary(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, summary.Invested.Equal(decimal.NewFromInt(900)))
	assert.True(t, summary.CurrentValue.Equal(decimal.NewFromInt(1000)))
	assert.True(t, summary.UnrealizedPnL.Equal(decimal.NewFromInt(100)))
	assert.True(t, summary.RealizedPnL.Equal(decimal.NewFromInt(42)))
}

func TestGetAllocation_WeightsSumToHundred(t *testing.T) {
	svc, mgr := newTestService(t, map[string]float64{"AAPL": 100, "MSFT": 300})
	ctx := context.Background()
	seedUser(t, mgr, "u1")
	seedPosition(t, mgr, "u1", "AAPL", 10, "90")  // 1000 current
	seedPosition(t, mgr, "u1", "MSFT", 10, "280") // 3000 current

	allocation, err := svc.GetAllocation(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, allocation, 2)

	total := decimal.Zero
	for _, entry := range allocation {
		total = total.Add(entry.WeightPct)
	}
	assert.True(t, total.Equal(decimal.NewFromInt(100)), "weights sum = %s", total)

	for _, entry := range allocation {
		switch entry.Symbol {
		case "AAPL":
			assert.True(t, entry.WeightPct.Equal(decimal.NewFromInt(25)))
		case "MSFT":
			assert.True(t, entry.WeightPct.Equal(decimal.NewFromInt(75)))
		}
	}
}

func TestGetAllocation_EmptyPortfolio(t *testing.T) {
	svc, mgr := newTestService(t, nil)
	ctx := context.Background()
	seedUser(t, mgr, "u1")

	allocation, err := svc.GetAllocation(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, allocation)
}

func TestRecordSnapshot_HoldingsPlusCash(t *testing.T) {
	svc, mgr := newTestService(t, map[string]float64{"AAPL": 150})
	ctx := context.Background()
	seedUser(t, mgr, "u1")
	seedPosition(t, mgr, "u1", "AAPL", 10, "140")

	snap, err := svc.RecordSnapshot(ctx, "u1")
	require.NoError(t, err)

	// 10*150 holdings + 10000 cash
	want := decimal.NewFromInt(1500).Add(models.StartingBalance)
	assert.True(t, snap.PortfolioValue.Equal(want), "value = %s, want %s", snap.PortfolioValue, want)

	history, err := svc.GetHistory(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestRenderHistoryChart(t *testing.T) {
	now := time.Now()
	snapshots := []*models.Snapshot{
		{UserID: "u1", PortfolioValue: decimal.NewFromInt(10000), Timestamp: now.Add(-48 * time.Hour)},
		{UserID: "u1", PortfolioValue: decimal.NewFromInt(10400), Timestamp: now.Add(-24 * time.Hour)},
		{UserID: "u1", PortfolioValue: decimal.NewFromInt(10150), Timestamp: now},
	}

	png, err := RenderHistoryChart(snapshots)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
	// PNG magic bytes
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestRenderHistoryChart_TooFewSnapshots(t *testing.T) {
	_, err := RenderHistoryChart([]*models.Snapshot{
		{PortfolioValue: decimal.NewFromInt(10000), Timestamp: time.Now()},
	})
	assert.Error(t, err)
}
