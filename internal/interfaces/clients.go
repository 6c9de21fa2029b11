package interfaces

import (
	"context"

	"github.com/fintrack/fintrack/internal/models"
)

// FinnhubClient fetches live quotes from the Finnhub API.
type FinnhubClient interface {
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
}
