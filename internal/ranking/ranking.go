// Package ranking ranks users by a metric and derives the ratios shown on
// leaderboards.
package ranking

import (
	"sort"

	"github.com/shopspring/decimal"

	"rugfork/internal/apperr"
)

// TopN is the size of a leaderboard page.
const TopN = 100

// Board selects the metric a leaderboard ranks by.
type Board string

const (
	TopTraders Board = "top_traders"
	TopWinners Board = "top_winners"
	TopVolume  Board = "top_volume"
	TopXP      Board = "top_xp"
)

func ParseBoard(s string) (Board, error) {
	switch b := Board(s); b {
	case "":
		return TopTraders, nil
	case TopTraders, TopWinners, TopVolume, TopXP:
		return b, nil
	}
	return "", apperr.InvalidInputf("unknown leaderboard type %q", s)
}

// Rank is one plus the number of values strictly greater than value.
// Equal values share a rank.
func Rank(value int64, population []int64) int {
	rank := 1
	for _, v := range population {
		if v > value {
			rank++
		}
	}
	return rank
}

// Entry is a ranked participant.
type Entry struct {
	ID    uint
	Value int64
	Rank  int
}

// Order sorts entries by value, highest first, and fills in ranks.
func Order(entries []Entry) []Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})
	for i := range entries {
		if i > 0 && entries[i].Value == entries[i-1].Value {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
	}
	return entries
}

// WinRate is winnings as a rounded percentage of winnings plus losses.
func WinRate(winnings, losses int64) int {
	total := winnings + losses
	if total <= 0 {
		return 0
	}
	pct := decimal.NewFromInt(winnings).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(total))
	return int(pct.Round(0).IntPart())
}

// Percent is part/total*100 rounded to places decimals; 0 when total is 0.
func Percent(part, total int64, places int32) float64 {
	if total == 0 {
		return 0
	}
	pct := decimal.NewFromInt(part).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(total))
	return pct.Round(places).InexactFloat64()
}

func NetProfit(winnings, losses int64) int64 {
	return winnings - losses
}
