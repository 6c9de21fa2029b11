package finnhub

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack/fintrack/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(1000))
}

func TestGetQuote(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "test-key", r.URL.Query().Get("token"))

		json.NewEncoder(w).Encode(map[string]float64{
			"c": 172.5, "h": 174.0, "l": 171.2, "o": 173.0, "pc": 171.8, "dp": 0.41,
		})
	})

	q, err := client.GetQuote(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", q.Symbol)
	assert.Equal(t, 172.5, q.Price)
	assert.Equal(t, 174.0, q.High)
	assert.Equal(t, 171.8, q.PrevClose)
	assert.Equal(t, 0.41, q.ChangePercent)
	assert.False(t, q.FetchedAt.IsZero())
}

func TestGetQuote_UnknownSymbolIsZeroQuote(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]float64{"c": 0, "h": 0, "l": 0, "o": 0, "pc": 0})
	})

	_, err := client.GetQuote(context.Background(), "NOPE")
	assert.ErrorIs(t, err, models.ErrQuoteUnavailable)
}

func TestGetQuote_RateLimited(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.GetQuote(context.Background(), "AAPL")
	assert.ErrorIs(t, err, models.ErrQuoteUnavailable)
}

func TestGetQuote_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GetQuote(context.Background(), "AAPL")
	assert.ErrorIs(t, err, models.ErrQuoteUnavailable)
}

func TestGetQuote_EmptySymbol(t *testing.T) {
	client := NewClient("test-key")

	_, err := client.GetQuote(context.Background(), "  ")
	assert.Error(t, err)
}
