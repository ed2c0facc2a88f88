package models

import (
	"sort"
	"time"
)

// GemType identifies a gem denomination. Each type carries an immutable price
// defined by the gem price table.
type GemType string

const (
	GemRuby     GemType = "ruby"
	GemAmber    GemType = "amber"
	GemTopaz    GemType = "topaz"
	GemSapphire GemType = "sapphire"
	GemEmerald  GemType = "emerald"
	GemDiamond  GemType = "diamond"
	GemMagic    GemType = "magic"
)

// gemPrices is the static price table, in cents per gem.
var gemPrices = map[GemType]int64{
	GemRuby:     100,
	GemAmber:    300,
	GemTopaz:    500,
	GemSapphire: 1000,
	GemEmerald:  2500,
	GemDiamond:  5000,
	GemMagic:    10000,
}

// Price returns the gem's unit price in cents, or 0 for an unknown type.
func (g GemType) Price() int64 {
	return gemPrices[g]
}

// IsValid reports whether the gem type exists in the price table.
func (g GemType) IsValid() bool {
	_, ok := gemPrices[g]
	return ok
}

// GemTypesByPrice returns all known gem types sorted by ascending unit price.
func GemTypesByPrice() []GemType {
	types := make([]GemType, 0, len(gemPrices))
	for t := range gemPrices {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		if gemPrices[types[i]] == gemPrices[types[j]] {
			return types[i] < types[j]
		}
		return gemPrices[types[i]] < gemPrices[types[j]]
	})
	return types
}

// GemHolding represents one user's stock of a single gem type.
// FrozenQuantity is held pending settlement; 0 <= FrozenQuantity <= Quantity.
type GemHolding struct {
	UserID         int64     `db:"user_id"`
	GemType        GemType   `db:"gem_type"`
	Quantity       int64     `db:"quantity"`
	FrozenQuantity int64     `db:"frozen_quantity"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Available returns the quantity not currently frozen.
func (h *GemHolding) Available() int64 {
	return h.Quantity - h.FrozenQuantity
}

// GemAmount is a multiset of gems keyed by type, e.g. a game stake.
type GemAmount map[GemType]int64

// Value returns the summed price of the multiset in cents.
func (g GemAmount) Value() int64 {
	var total int64
	for t, count := range g {
		total += t.Price() * count
	}
	return total
}

// Validate reports whether every entry names a known gem type with a
// positive count, and the multiset is non-empty.
func (g GemAmount) Validate() bool {
	if len(g) == 0 {
		return false
	}
	for t, count := range g {
		if !t.IsValid() || count <= 0 {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the multiset.
func (g GemAmount) Clone() GemAmount {
	out := make(GemAmount, len(g))
	for t, count := range g {
		out[t] = count
	}
	return out
}

// GemStock is a selector input row: a gem type and how many of it are
// available (not frozen) to draw from.
type GemStock struct {
	Type      GemType
	Available int64
}

// GemPick is a selector output row: how many of a gem type to use.
type GemPick struct {
	Type  GemType `json:"gem_type"`
	Count int64   `json:"count"`
}
