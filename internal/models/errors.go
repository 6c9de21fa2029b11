package models

import "errors"

// Sentinel errors shared across services and the HTTP layer. Services wrap
// these with context via fmt.Errorf("…: %w", err); callers test with errors.Is.
var (
	// Trade validation
	ErrInvalidQuantity = errors.New("quantity must be a positive whole number")
	ErrInvalidPrice    = errors.New("price must be a positive amount")
	ErrInvalidSide     = errors.New("side must be buy or sell")
	ErrInvalidSymbol   = errors.New("symbol is required")

	// Business rules
	ErrInsufficientFunds  = errors.New("insufficient balance")
	ErrInsufficientShares = errors.New("insufficient shares to sell")

	// Watchlist
	ErrDuplicateWatchlistEntry = errors.New("stock already in watchlist")
	ErrTriggerNotFound         = errors.New("watchlist trigger not found")

	// Concurrency: the per-user trade lock could not be acquired within the
	// configured wait, or storage reported a conflict after all retries.
	// Callers may retry.
	ErrBusy = errors.New("trade is busy, try again")

	// Quotes
	ErrQuoteUnavailable = errors.New("quote unavailable")

	// Accounts
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
