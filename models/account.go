package models

import (
	"time"
)

// Account represents a user's virtual-currency balances. All amounts are in
// cents. VirtualBalance is spendable; FrozenBalance is held pending the
// settlement of games the user is participating in. Freezing moves value
// between the two buckets; only explicit credits and debits change their sum.
type Account struct {
	UserID         int64     `db:"user_id"`
	Username       string    `db:"username"`
	VirtualBalance int64     `db:"virtual_balance"`
	FrozenBalance  int64     `db:"frozen_balance"`
	IsActive       bool      `db:"is_active"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// AvailableBalance returns the amount the account can stake or be charged
// right now. Frozen funds are already excluded from VirtualBalance.
func (a *Account) AvailableBalance() int64 {
	return a.VirtualBalance
}

// TotalBalance returns the account's total currency across both buckets.
func (a *Account) TotalBalance() int64 {
	return a.VirtualBalance + a.FrozenBalance
}
