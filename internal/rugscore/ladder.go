package rugscore

// step is one rung of a scoring ladder.
type step struct {
	bound float64
	score int
}

// ladder rungs are ordered from safest to riskiest.
type ladder []step

// atLeast returns the score of the first rung whose bound v reaches.
func (l ladder) atLeast(v float64, fallback int) int {
	for _, s := range l {
		if v >= s.bound {
			return s.score
		}
	}
	return fallback
}

// atMost returns the score of the first rung whose bound v does not exceed.
func (l ladder) atMost(v float64, fallback int) int {
	for _, s := range l {
		if v <= s.bound {
			return s.score
		}
	}
	return fallback
}

var (
	// whole SOL of pool liquidity
	liquidityLadder = ladder{{100, 10}, {50, 20}, {20, 40}, {10, 60}, {5, 80}}
	// largest holder's share of supply, 0..1
	holderLadder = ladder{{0.1, 10}, {0.2, 20}, {0.3, 40}, {0.5, 60}, {0.7, 80}}
	// traded volume over liquidity
	volumeLadder = ladder{{10, 10}, {5, 20}, {2, 40}, {1, 60}}
	// hours since the pool was created
	ageLadder = ladder{{168, 10}, {72, 20}, {24, 40}, {6, 60}, {1, 80}}
	// recent transactions on the mint
	txCountLadder = ladder{{1000, 10}, {500, 20}, {100, 40}, {50, 60}, {10, 80}}
)

const (
	worstScore    = 100
	volumeFloor   = 80
	neutralScore  = 50
	warnThreshold = 60
)

// Weights in percent; they sum to 100.
const (
	weightLiquidity = 25
	weightHolders   = 20
	weightVolume    = 15
	weightAge       = 15
	weightTxCount   = 10
	weightDevWallet = 10
	weightSocial    = 5
)
