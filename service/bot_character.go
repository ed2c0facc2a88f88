package service

import (
	"time"

	"gemplay/models"
)

// BotCharacter is the betting personality of a bot: how big it bets within
// its configured limits and how long it lingers between games. Dispatch is
// through this interface rather than branching on the character tag inside
// the scheduler.
type BotCharacter interface {
	ChooseBetSize(rng Rand, minBet, maxBet int64) int64
	ChooseDelay(rng Rand, base time.Duration) time.Duration
}

// CharacterFor returns the strategy for a character tag. Unknown tags fall
// back to balanced.
func CharacterFor(c models.BotCharacter) BotCharacter {
	switch c {
	case models.CharacterAggressive:
		return aggressiveCharacter{}
	case models.CharacterCautious:
		return cautiousCharacter{}
	default:
		return balancedCharacter{}
	}
}

// betSizeIn picks a whole-dollar amount in [lo, hi]. Whole dollars keep
// every size reachable with the cheapest denomination.
func betSizeIn(rng Rand, lo, hi int64) int64 {
	if hi < lo {
		hi = lo
	}
	span := (hi-lo)/100 + 1
	amount := lo + int64(rng.Intn(int(span)))*100
	if amount > hi {
		amount = hi
	}
	return amount
}

type aggressiveCharacter struct{}

// Aggressive bots bet in the top half of their range and come back fast.
func (aggressiveCharacter) ChooseBetSize(rng Rand, minBet, maxBet int64) int64 {
	return betSizeIn(rng, minBet+(maxBet-minBet)/2, maxBet)
}

func (aggressiveCharacter) ChooseDelay(rng Rand, base time.Duration) time.Duration {
	return base/2 + time.Duration(rng.Intn(int(base/2)+1))
}

type cautiousCharacter struct{}

// Cautious bots stay in the bottom half and wait out the full pause.
func (cautiousCharacter) ChooseBetSize(rng Rand, minBet, maxBet int64) int64 {
	return betSizeIn(rng, minBet, minBet+(maxBet-minBet)/2)
}

func (cautiousCharacter) ChooseDelay(rng Rand, base time.Duration) time.Duration {
	return base + time.Duration(rng.Intn(int(base)+1))
}

type balancedCharacter struct{}

func (balancedCharacter) ChooseBetSize(rng Rand, minBet, maxBet int64) int64 {
	return betSizeIn(rng, minBet, maxBet)
}

func (balancedCharacter) ChooseDelay(rng Rand, base time.Duration) time.Duration {
	return base
}
