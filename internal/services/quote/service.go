// Package quote provides a cached quote service over the market-data client
package quote

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fintrack/fintrack/internal/common"
	"github.com/fintrack/fintrack/internal/interfaces"
	"github.com/fintrack/fintrack/internal/models"
)

// Compile-time interface check
var _ interfaces.QuoteService = (*Service)(nil)

// Service implements QuoteService with an in-memory TTL cache in front of the
// Finnhub client. A fetch failure within the TTL window falls back to the
// cached quote (marked Cached) rather than failing the caller.
type Service struct {
	client interfaces.FinnhubClient
	ttl    time.Duration
	logger *common.Logger
	now    func() time.Time // injectable clock for testing

	mu    sync.RWMutex
	cache map[string]*models.Quote
}

// NewService creates a new quote service. ttl <= 0 disables caching.
func NewService(client interfaces.FinnhubClient, ttl time.Duration, logger *common.Logger) *Service {
	return &Service{
		client: client,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
		cache:  make(map[string]*models.Quote),
	}
}

// GetQuote returns the current quote for a symbol, serving from cache while
// fresh. Returns models.ErrQuoteUnavailable (wrapped) when neither the client
// nor the cache can produce a price.
func (s *Service) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if cached := s.fromCache(symbol); cached != nil {
		return cached, nil
	}

	q, err := s.client.GetQuote(ctx, symbol)
	if err != nil {
		// Serve an expired cached quote over nothing at all
		if stale := s.fromCacheAny(symbol); stale != nil {
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Quote fetch failed, serving expired cache entry")
			return stale, nil
		}
		return nil, err
	}

	s.mu.Lock()
	s.cache[symbol] = q
	s.mu.Unlock()

	return q, nil
}

// fromCache returns a copy of the cached quote while within the TTL, else nil.
func (s *Service) fromCache(symbol string) *models.Quote {
	if s.ttl <= 0 {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.cache[symbol]
	if !ok || s.now().Sub(q.FetchedAt) > s.ttl {
		return nil
	}
	out := *q
	out.Cached = true
	return &out
}

// fromCacheAny returns a copy of the cached quote regardless of age, else nil.
func (s *Service) fromCacheAny(symbol string) *models.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.cache[symbol]
	if !ok {
		return nil
	}
	out := *q
	out.Cached = true
	return &out
}
