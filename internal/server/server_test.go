package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fintrack/fintrack/internal/app"
	"github.com/fintrack/fintrack/internal/common"
	"github.com/fintrack/fintrack/internal/models"
	"github.com/fintrack/fintrack/internal/services/alert"
	"github.com/fintrack/fintrack/internal/services/ledger"
	"github.com/fintrack/fintrack/internal/services/portfolio"
	"github.com/fintrack/fintrack/internal/services/watchlist"
	"github.com/fintrack/fintrack/internal/storage"
)

// mockQuoteService returns fixed prices for server tests.
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

// newTestServer builds a server over real storage in a temp dir, with quotes
// served from a fixed table.
func newTestServer(t *testing.T, prices map[string]float64) *Server {
	t.Helper()

	logger := common.NewSilentLogger()
	config := common.NewDefaultConfig()
	config.Storage.Path = t.TempDir()

	mgr, err := storage.NewManagerAt(logger, config.Storage.Path)
	require.NoError(t, err)
	t.Cleanup(func() { mgr.Close() })

	quotes := &mockQuoteService{prices: prices}
	sink := alert.NewStoreSink(mgr.Notifications())

	a := &app.App{
		Config:           config,
		Logger:           logger,
		Storage:          mgr,
		QuoteService:     quotes,
		LedgerService:    ledger.NewService(mgr, config.Ledger, logger),
		PortfolioService: portfolio.NewService(mgr, quotes, logger),
		WatchlistService: watchlist.NewService(mgr, logger),
		AlertService:     alert.NewService(mgr, quotes, sink, logger),
		StartupTime:      time.Now(),
	}

	return NewServer(a)
}

func doJSON(t *testing.T, srv *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

// signupUser creates an account and returns its bearer token.
func signupUser(t *testing.T, srv *Server, email string) string {
	t.Helper()

	rec := doJSON(t, srv, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name":     "Test Trader",
		"email":    email,
		"password": "secret-pass-123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	body := decodeBody(t, rec)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealthAndVersion(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decodeBody(t, rec)["status"])

	rec = doJSON(t, srv, http.MethodGet, "/api/version", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSignupLoginValidate(t *testing.T) {
	srv := newTestServer(t, nil)

	token := signupUser(t, srv, "trader@test.local")

	// Duplicate signup rejected
	rec := doJSON(t, srv, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Again", "email": "trader@test.local", "password": "secret-pass-123",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	// Login with the right password
	rec = doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "trader@test.local", "password": "secret-pass-123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	user := body["user"].(map[string]interface{})
	require.Equal(t, "10000", fmt.Sprint(user["balance"]), "starting balance")

	// Wrong password
	rec = doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "trader@test.local", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Validate token
	rec = doJSON(t, srv, http.MethodGet, "/api/auth/validate", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Garbage token
	rec = doJSON(t, srv, http.MethodGet, "/api/auth/validate", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTradeLifecycle(t *testing.T) {
	srv := newTestServer(t, map[string]float64{"AAPL": 190})
	token := signupUser(t, srv, "trader@test.local")

	// Unauthenticated trade rejected
	rec := doJSON(t, srv, http.MethodPost, "/api/trades", "", map[string]interface{}{
		"symbol": "AAPL", "quantity": 10, "price": "170", "side": "buy",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Buy 10 AAPL @ 170
	rec = doJSON(t, srv, http.MethodPost, "/api/trades", token, map[string]interface{}{
		"symbol": "AAPL", "quantity": 10, "price": "170", "side": "buy",
	})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	body := decodeBody(t, rec)
	require.Equal(t, "8300", fmt.Sprint(body["balance"]))

	// Overspend rejected with 422
	rec = doJSON(t, srv, http.MethodPost, "/api/trades", token, map[string]interface{}{
		"symbol": "AAPL", "quantity": 1000, "price": "170", "side": "buy",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Bad side rejected with 400
	rec = doJSON(t, srv, http.MethodPost, "/api/trades", token, map[string]interface{}{
		"symbol": "AAPL", "quantity": 1, "price": "170", "side": "short",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Trade log lists the settled trade
	rec = doJSON(t, srv, http.MethodGet, "/api/trades", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(1), decodeBody(t, rec)["count"])

	// Holdings valued at the live quote
	rec = doJSON(t, srv, http.MethodGet, "/api/portfolio/holdings", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	holdings := decodeBody(t, rec)["holdings"].([]interface{})
	require.Len(t, holdings, 1)
	h := holdings[0].(map[string]interface{})
	require.Equal(t, "AAPL", h["symbol"])
	require.Equal(t, false, h["stale"])

	// Summary and account endpoints respond
	rec = doJSON(t, srv, http.MethodGet, "/api/portfolio/summary", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/account", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "8300", fmt.Sprint(decodeBody(t, rec)["balance"]))
}

func TestWatchlistEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)
	token := signupUser(t, srv, "trader@test.local")

	rec := doJSON(t, srv, http.MethodPost, "/api/watchlist", token, map[string]interface{}{
		"symbol": "AAPL", "upper_limit": "200", "lower_limit": "150",
	})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	// Duplicate
	rec = doJSON(t, srv, http.MethodPost, "/api/watchlist", token, map[string]interface{}{
		"symbol": "aapl", "upper_limit": "210",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	// Inverted limits
	rec = doJSON(t, srv, http.MethodPost, "/api/watchlist", token, map[string]interface{}{
		"symbol": "MSFT", "upper_limit": "100", "lower_limit": "200",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/watchlist", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(1), decodeBody(t, rec)["count"])

	rec = doJSON(t, srv, http.MethodDelete, "/api/watchlist/AAPL", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/api/watchlist/AAPL", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAlertCheckAndNotifications(t *testing.T) {
	srv := newTestServer(t, nil)
	token := signupUser(t, srv, "trader@test.local")

	rec := doJSON(t, srv, http.MethodPost, "/api/watchlist", token, map[string]interface{}{
		"symbol": "AAPL", "upper_limit": "200",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/alerts/check", token, map[string]interface{}{
		"symbol": "AAPL", "current_price": "205",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, decodeBody(t, rec)["emitted"])

	// Second breach on the same day is deduplicated
	rec = doJSON(t, srv, http.MethodPost, "/api/alerts/check", token, map[string]interface{}{
		"symbol": "AAPL", "current_price": "206",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, false, decodeBody(t, rec)["emitted"])

	rec = doJSON(t, srv, http.MethodGet, "/api/notifications", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, float64(1), body["count"])
	require.Equal(t, float64(1), body["unread"])

	notifications := body["notifications"].([]interface{})
	id := notifications[0].(map[string]interface{})["id"].(string)

	rec = doJSON(t, srv, http.MethodPost, "/api/notifications/"+id+"/read", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/notifications", token, nil)
	require.Equal(t, float64(0), decodeBody(t, rec)["unread"])
}

func TestAlertCheckRejectsNonPositivePrice(t *testing.T) {
	srv := newTestServer(t, nil)
	token := signupUser(t, srv, "trader@test.local")

	rec := doJSON(t, srv, http.MethodPost, "/api/watchlist", token, map[string]interface{}{
		"symbol": "AAPL", "lower_limit": "150",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	for _, price := range []string{"0", "-5"} {
		rec = doJSON(t, srv, http.MethodPost, "/api/alerts/check", token, map[string]interface{}{
			"symbol": "AAPL", "current_price": price,
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	}

	// No notification was produced by the rejected checks
	rec = doJSON(t, srv, http.MethodGet, "/api/notifications", token, nil)
	require.Equal(t, float64(0), decodeBody(t, rec)["count"])
}

func TestMarketQuoteEndpoint(t *testing.T) {
	srv := newTestServer(t, map[string]float64{"AAPL": 172.5})

	rec := doJSON(t, srv, http.MethodGet, "/api/market/quote/AAPL", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 172.5, decodeBody(t, rec)["price"])

	rec = doJSON(t, srv, http.MethodGet, "/api/market/quote/NOPE", "", nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodDelete, "/api/trades", "", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
