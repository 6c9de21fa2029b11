// Package models defines data structures for fintrack
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is an account holder. Balance is the virtual cash available for
// trading and is mutated exclusively by the ledger service as the settlement
// side of a trade; it never goes negative.
type User struct {
	UserID       string          `json:"user_id" badgerhold:"key"`
	Name         string          `json:"name"`
	Email        string          `json:"email" badgerhold:"unique"`
	PasswordHash string          `json:"-"`
	Balance      decimal.Decimal `json:"balance"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// StartingBalance is the virtual cash credited to every new account.
var StartingBalance = decimal.NewFromInt(10000)
