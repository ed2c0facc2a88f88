package service

import (
	"fmt"
	"sort"

	"gemplay/models"
)

// Strategy picks the order in which gem denominations are consumed when
// building a combination for a target amount.
type Strategy string

const (
	// StrategySmall consumes the cheapest denominations first.
	StrategySmall Strategy = "small"
	// StrategyBig consumes the most expensive denominations first.
	StrategyBig Strategy = "big"
	// StrategySmart prefers mid-priced denominations before falling back
	// to the extremes.
	StrategySmart Strategy = "smart"
)

// IsValid reports whether the strategy is one of the known values.
func (s Strategy) IsValid() bool {
	return s == StrategySmall || s == StrategyBig || s == StrategySmart
}

// SelectCombination returns an exact multiset of gems whose summed price
// equals target, drawn only from the available quantities in inventory.
// The function is pure: it never mutates inventory, and the same snapshot
// always yields the same result. Callers freeze only after a successful
// selection.
//
// The strategy orders the greedy pass; when greed alone cannot hit the
// target exactly the search backtracks rather than reporting a rounded
// amount. Infeasible targets fail with ErrInfeasibleCombination.
func SelectCombination(target int64, strategy Strategy, inventory []models.GemStock) ([]models.GemPick, error) {
	if target <= 0 {
		return nil, fmt.Errorf("%w: target amount must be positive", models.ErrInvalidBetAmount)
	}
	if !strategy.IsValid() {
		strategy = StrategySmall
	}

	stocks := orderedStocks(strategy, inventory)
	counts := make([]int64, len(stocks))
	if !pickExact(stocks, counts, 0, target) {
		return nil, fmt.Errorf("%w: no combination of available gems sums to %d", models.ErrInfeasibleCombination, target)
	}

	var picks []models.GemPick
	for i, stock := range stocks {
		if counts[i] > 0 {
			picks = append(picks, models.GemPick{Type: stock.Type, Count: counts[i]})
		}
	}
	return picks, nil
}

// pickExact is a depth-first search over denomination counts. At each level
// it tries the largest count of the preferred denomination first, so the
// first solution found is the greediest one the strategy order allows.
func pickExact(stocks []models.GemStock, counts []int64, idx int, remaining int64) bool {
	if remaining == 0 {
		return true
	}
	if idx >= len(stocks) {
		return false
	}

	price := stocks[idx].Type.Price()
	max := stocks[idx].Available
	if price > 0 && remaining/price < max {
		max = remaining / price
	}
	for n := max; n >= 0; n-- {
		counts[idx] = n
		if pickExact(stocks, counts, idx+1, remaining-n*price) {
			return true
		}
	}
	counts[idx] = 0
	return false
}

// orderedStocks copies the usable inventory rows into strategy order.
// Unknown types and empty rows are dropped.
func orderedStocks(strategy Strategy, inventory []models.GemStock) []models.GemStock {
	stocks := make([]models.GemStock, 0, len(inventory))
	for _, s := range inventory {
		if s.Type.IsValid() && s.Available > 0 {
			stocks = append(stocks, s)
		}
	}

	switch strategy {
	case StrategyBig:
		sort.Slice(stocks, func(i, j int) bool {
			return stocks[i].Type.Price() > stocks[j].Type.Price()
		})
	case StrategySmart:
		mid := medianGemPrice()
		sort.Slice(stocks, func(i, j int) bool {
			di := absInt64(stocks[i].Type.Price() - mid)
			dj := absInt64(stocks[j].Type.Price() - mid)
			if di == dj {
				return stocks[i].Type.Price() < stocks[j].Type.Price()
			}
			return di < dj
		})
	default: // StrategySmall
		sort.Slice(stocks, func(i, j int) bool {
			return stocks[i].Type.Price() < stocks[j].Type.Price()
		})
	}
	return stocks
}

// medianGemPrice is the reference band for the smart strategy: the middle
// of the full price table, independent of the user's inventory.
func medianGemPrice() int64 {
	types := models.GemTypesByPrice()
	return types[len(types)/2].Price()
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// StocksFromHoldings converts a user's holdings into selector input rows,
// exposing only the unfrozen quantities.
func StocksFromHoldings(holdings []*models.GemHolding) []models.GemStock {
	stocks := make([]models.GemStock, 0, len(holdings))
	for _, h := range holdings {
		stocks = append(stocks, models.GemStock{Type: h.GemType, Available: h.Available()})
	}
	return stocks
}

// AmountFromPicks converts selector output into the stake multiset.
func AmountFromPicks(picks []models.GemPick) models.GemAmount {
	gems := make(models.GemAmount, len(picks))
	for _, p := range picks {
		gems[p.Type] = p.Count
	}
	return gems
}
