// Package rugscore computes a 0-100 rug risk score for a token pool.
package rugscore

import (
	"time"

	"github.com/shopspring/decimal"

	"rugfork/internal/utils"
)

// RiskLevel is the band a score falls into.
type RiskLevel string

const (
	RiskLow     RiskLevel = "LOW"
	RiskMedium  RiskLevel = "MEDIUM"
	RiskHigh    RiskLevel = "HIGH"
	RiskExtreme RiskLevel = "EXTREME"
)

// Holder is one of the largest token accounts of a mint.
type Holder struct {
	Address    string  `json:"address"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"` // of total supply, 0..100
}

// ChainFacts is what the chain reports about a mint.
type ChainFacts struct {
	TotalSupply float64  `json:"totalSupply"`
	TopHolders  []Holder `json:"topHolders"`
	HolderCount int      `json:"holderCount"`
	TxCount     int      `json:"txCount"`
}

// PoolFacts is what the store knows about a pool. Amounts are lamports.
type PoolFacts struct {
	Liquidity   int64
	TotalVolume int64
	CreatedAt   time.Time
}

// Factors holds the per-factor sub-scores, 0 safest and 100 riskiest.
type Factors struct {
	Liquidity          int `json:"liquidity"`
	HolderDistribution int `json:"holderDistribution"`
	Volume             int `json:"volume"`
	Age                int `json:"age"`
	TransactionCount   int `json:"transactionCount"`
	DevWallet          int `json:"devWallet"`
	Social             int `json:"social"`
}

// Result is a full rug score assessment.
type Result struct {
	Score           int       `json:"score"`
	Factors         Factors   `json:"factors"`
	RiskLevel       RiskLevel `json:"riskLevel"`
	Recommendations []string  `json:"recommendations"`
	NotAnalyzed     []string  `json:"notAnalyzed,omitempty"`
	Degraded        bool      `json:"degraded,omitempty"`
}

const (
	AdviceLowLiquidity  = "Low liquidity detected - high slippage risk"
	AdviceConcentrated  = "Concentrated token ownership - potential rug pull risk"
	AdviceNewToken      = "Very new token - higher risk of abandonment"
	AdviceLowVolume     = "Low trading volume - potential liquidity issues"
	AdviceExtreme       = "EXTREME RISK - Consider avoiding this token"
	AdviceHigh          = "HIGH RISK - Only invest what you can afford to lose"
	AdviceMedium        = "MEDIUM RISK - Monitor closely"
	AdviceLow           = "LOW RISK - Relatively safe for trading"
	AdviceUnanalyzable  = "Unable to analyze token - proceed with extreme caution"
	factorDevWalletName = "devWallet"
	factorSocialName    = "social"
)

// Evaluate scores a pool from its stored facts and the chain's facts.
func Evaluate(pool PoolFacts, chain ChainFacts, now time.Time) Result {
	f := Factors{
		Liquidity:          LiquidityFactor(pool.Liquidity),
		HolderDistribution: HolderFactor(chain.TopHolders),
		Volume:             VolumeFactor(pool.TotalVolume, pool.Liquidity),
		Age:                AgeFactor(pool.CreatedAt, now),
		TransactionCount:   TxCountFactor(chain.TxCount),
		DevWallet:          neutralScore,
		Social:             neutralScore,
	}
	score := Weighted(f)
	level := LevelFor(score)

	return Result{
		Score:           score,
		Factors:         f,
		RiskLevel:       level,
		Recommendations: recommendations(f, level),
		NotAnalyzed:     []string{factorDevWalletName, factorSocialName},
	}
}

// WorstCase is returned when the chain cannot be consulted.
func WorstCase() Result {
	return Result{
		Score:           worstScore,
		RiskLevel:       RiskExtreme,
		Recommendations: []string{AdviceUnanalyzable},
		Degraded:        true,
	}
}

func LiquidityFactor(lamports int64) int {
	return liquidityLadder.atLeast(utils.LamportsToSOL(lamports).InexactFloat64(), worstScore)
}

// HolderFactor scores the largest holder's share. No holders is the worst case.
func HolderFactor(holders []Holder) int {
	if len(holders) == 0 {
		return worstScore
	}
	top := holders[0].Percentage
	for _, h := range holders[1:] {
		if h.Percentage > top {
			top = h.Percentage
		}
	}
	return holderLadder.atMost(top/100, worstScore)
}

func VolumeFactor(volume, liquidity int64) int {
	if liquidity <= 0 {
		return worstScore
	}
	ratio := decimal.New(volume, 0).Div(decimal.New(liquidity, 0)).InexactFloat64()
	return volumeLadder.atLeast(ratio, volumeFloor)
}

func AgeFactor(createdAt, now time.Time) int {
	hours := now.Sub(createdAt).Hours()
	if hours < 0 {
		hours = 0
	}
	return ageLadder.atLeast(hours, worstScore)
}

func TxCountFactor(n int) int {
	return txCountLadder.atLeast(float64(n), worstScore)
}

// Weighted combines factors into a score rounded half up.
func Weighted(f Factors) int {
	total := f.Liquidity*weightLiquidity +
		f.HolderDistribution*weightHolders +
		f.Volume*weightVolume +
		f.Age*weightAge +
		f.TransactionCount*weightTxCount +
		f.DevWallet*weightDevWallet +
		f.Social*weightSocial
	return (total + 50) / 100
}

// LevelFor maps a score to its risk band.
func LevelFor(score int) RiskLevel {
	switch {
	case score <= 25:
		return RiskLow
	case score <= 50:
		return RiskMedium
	case score <= 75:
		return RiskHigh
	default:
		return RiskExtreme
	}
}

func recommendations(f Factors, level RiskLevel) []string {
	var out []string
	if f.Liquidity > warnThreshold {
		out = append(out, AdviceLowLiquidity)
	}
	if f.HolderDistribution > warnThreshold {
		out = append(out, AdviceConcentrated)
	}
	if f.Age > warnThreshold {
		out = append(out, AdviceNewToken)
	}
	if f.Volume > warnThreshold {
		out = append(out, AdviceLowVolume)
	}

	switch level {
	case RiskExtreme:
		out = append(out, AdviceExtreme)
	case RiskHigh:
		out = append(out, AdviceHigh)
	case RiskMedium:
		out = append(out, AdviceMedium)
	default:
		out = append(out, AdviceLow)
	}
	return out
}
