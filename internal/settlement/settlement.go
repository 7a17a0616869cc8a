// Package settlement holds the payout arithmetic for crash sidebets and the
// counter commands applied to a user when a bet is placed or settled.
package settlement

import (
	"math/big"
	"time"

	"rugfork/internal/apperr"
)

const (
	MinMultiplier = 2
	MaxMultiplier = 100
	// multipliers are expressed in hundredths of the stake
	multiplierScale = 100

	PlacementXP = 10
	WinXP       = 25
	XPPerLevel  = 1000
)

// ValidatePlacement checks a stake and multiplier before anything is stored.
func ValidatePlacement(amount, multiplier int64) error {
	if amount <= 0 {
		return apperr.InvalidInputf("bet amount must be positive")
	}
	if multiplier < MinMultiplier || multiplier > MaxMultiplier {
		return apperr.InvalidInputf("multiplier must be between %d and %d", MinMultiplier, MaxMultiplier)
	}
	return nil
}

// Payout is floor(amount*multiplier/100) when the outcome reaches the
// multiplier, otherwise 0.
func Payout(amount, multiplier, outcome int64) int64 {
	if outcome < multiplier {
		return 0
	}
	p := new(big.Int).Mul(big.NewInt(amount), big.NewInt(multiplier))
	p.Quo(p, big.NewInt(multiplierScale))
	return p.Int64()
}

// BetState is the part of a bet settlement needs.
type BetState struct {
	Amount     int64
	Multiplier int64
	IsSettled  bool
}

// CounterDelta is a change to a user's running counters.
type CounterDelta struct {
	Bets     int64
	Winnings int64
	Losses   int64
	XP       int64
}

// UserCounters are the running totals kept on a user.
type UserCounters struct {
	TotalBets     int64
	TotalWinnings int64
	TotalLosses   int64
	TotalXP       int64
	Level         int
}

// Apply returns c moved by d.
func Apply(c UserCounters, d CounterDelta) UserCounters {
	c.TotalBets += d.Bets
	c.TotalWinnings += d.Winnings
	c.TotalLosses += d.Losses
	c.TotalXP += d.XP
	c.Level = LevelForXP(c.TotalXP)
	return c
}

// LevelForXP starts every user at level 1.
func LevelForXP(xp int64) int {
	if xp < 0 {
		xp = 0
	}
	return int(xp/XPPerLevel) + 1
}

// PlacementDelta is applied to the bettor when a bet is accepted.
func PlacementDelta() CounterDelta {
	return CounterDelta{Bets: 1, XP: PlacementXP}
}

// Outcome is the result of settling one bet.
type Outcome struct {
	Winnings   int64
	CrashPoint int64
	SettledAt  time.Time
	Won        bool
	Delta      CounterDelta
}

// Settle resolves a bet against an observed crash point. Exactly one of
// Delta.Winnings and Delta.Losses is non-zero.
func Settle(bet BetState, outcome int64, now time.Time) (Outcome, error) {
	if bet.IsSettled {
		return Outcome{}, apperr.Conflictf("bet already settled")
	}
	if outcome <= 0 {
		return Outcome{}, apperr.InvalidInputf("outcome must be positive")
	}

	winnings := Payout(bet.Amount, bet.Multiplier, outcome)
	out := Outcome{
		Winnings:   winnings,
		CrashPoint: outcome,
		SettledAt:  now,
		Won:        winnings > 0,
	}
	if out.Won {
		out.Delta = CounterDelta{Winnings: winnings, XP: WinXP}
	} else {
		out.Delta = CounterDelta{Losses: bet.Amount}
	}
	return out, nil
}
