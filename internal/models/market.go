package models

import "time"

// Quote is a point-in-time price snapshot for a symbol from the market-data
// provider. Cached indicates it was served from the quote cache rather than
// fetched live.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Open          float64   `json:"open"`
	PrevClose     float64   `json:"prev_close"`
	ChangePercent float64   `json:"change_percent"`
	FetchedAt     time.Time `json:"fetched_at"`
	Cached        bool      `json:"cached,omitempty"`
}
