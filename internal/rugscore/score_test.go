package rugscore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rugfork/internal/utils"
)

const sol = utils.LamportsPerSOL

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestLiquidityLadder(t *testing.T) {
	cases := []struct {
		lamports int64
		want     int
	}{
		{200 * sol, 10},
		{100 * sol, 10},
		{100*sol - 1, 20},
		{50 * sol, 20},
		{20 * sol, 40},
		{10 * sol, 60},
		{5 * sol, 80},
		{5*sol - 1, 100},
		{0, 100},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, LiquidityFactor(tc.lamports), "lamports=%d", tc.lamports)
	}
}

func TestHolderLadder(t *testing.T) {
	holders := func(pct ...float64) []Holder {
		out := make([]Holder, 0, len(pct))
		for _, p := range pct {
			out = append(out, Holder{Percentage: p})
		}
		return out
	}

	assert.Equal(t, 100, HolderFactor(nil))
	assert.Equal(t, 10, HolderFactor(holders(10)))
	assert.Equal(t, 20, HolderFactor(holders(10.5)))
	assert.Equal(t, 40, HolderFactor(holders(30)))
	assert.Equal(t, 60, HolderFactor(holders(50)))
	assert.Equal(t, 80, HolderFactor(holders(70)))
	assert.Equal(t, 100, HolderFactor(holders(71)))
	// largest share wins regardless of order
	assert.Equal(t, 60, HolderFactor(holders(5, 45, 12)))
}

func TestVolumeLadder(t *testing.T) {
	assert.Equal(t, 100, VolumeFactor(10*sol, 0))
	assert.Equal(t, 10, VolumeFactor(100*sol, 10*sol))
	assert.Equal(t, 20, VolumeFactor(50*sol, 10*sol))
	assert.Equal(t, 40, VolumeFactor(20*sol, 10*sol))
	assert.Equal(t, 60, VolumeFactor(10*sol, 10*sol))
	assert.Equal(t, 80, VolumeFactor(5*sol, 10*sol))
	assert.Equal(t, 80, VolumeFactor(0, 10*sol))
}

func TestAgeLadder(t *testing.T) {
	ago := func(d time.Duration) time.Time { return now.Add(-d) }

	assert.Equal(t, 10, AgeFactor(ago(168*time.Hour), now))
	assert.Equal(t, 20, AgeFactor(ago(72*time.Hour), now))
	assert.Equal(t, 40, AgeFactor(ago(24*time.Hour), now))
	assert.Equal(t, 60, AgeFactor(ago(6*time.Hour), now))
	assert.Equal(t, 80, AgeFactor(ago(time.Hour), now))
	assert.Equal(t, 100, AgeFactor(ago(59*time.Minute), now))
	assert.Equal(t, 100, AgeFactor(now.Add(time.Hour), now))
}

func TestTxCountLadder(t *testing.T) {
	assert.Equal(t, 10, TxCountFactor(1000))
	assert.Equal(t, 20, TxCountFactor(999))
	assert.Equal(t, 40, TxCountFactor(100))
	assert.Equal(t, 60, TxCountFactor(50))
	assert.Equal(t, 80, TxCountFactor(10))
	assert.Equal(t, 100, TxCountFactor(9))
}

func TestLevelBoundaries(t *testing.T) {
	assert.Equal(t, RiskLow, LevelFor(0))
	assert.Equal(t, RiskLow, LevelFor(25))
	assert.Equal(t, RiskMedium, LevelFor(26))
	assert.Equal(t, RiskMedium, LevelFor(50))
	assert.Equal(t, RiskHigh, LevelFor(51))
	assert.Equal(t, RiskHigh, LevelFor(75))
	assert.Equal(t, RiskExtreme, LevelFor(76))
	assert.Equal(t, RiskExtreme, LevelFor(100))
}

func TestEvaluateSafePool(t *testing.T) {
	res := Evaluate(
		PoolFacts{Liquidity: 200 * sol, TotalVolume: 3000 * sol, CreatedAt: now.Add(-200 * time.Hour)},
		ChainFacts{TopHolders: []Holder{{Address: "a", Percentage: 5}}, TxCount: 1500},
		now,
	)

	assert.Equal(t, 16, res.Score)
	assert.Equal(t, RiskLow, res.RiskLevel)
	assert.Equal(t, []string{AdviceLow}, res.Recommendations)
	assert.Equal(t, 50, res.Factors.DevWallet)
	assert.Equal(t, 50, res.Factors.Social)
	assert.ElementsMatch(t, []string{"devWallet", "social"}, res.NotAnalyzed)
	assert.False(t, res.Degraded)
}

func TestEvaluateFreshEmptyPool(t *testing.T) {
	res := Evaluate(PoolFacts{CreatedAt: now}, ChainFacts{}, now)

	// 100 on every measured factor plus neutral placeholders: 92.5 rounds up
	assert.Equal(t, 93, res.Score)
	assert.Equal(t, 100, res.Factors.Volume)
	assert.Equal(t, RiskExtreme, res.RiskLevel)
	assert.Equal(t, []string{
		AdviceLowLiquidity,
		AdviceConcentrated,
		AdviceNewToken,
		AdviceLowVolume,
		AdviceExtreme,
	}, res.Recommendations)
}

func TestScoreAlwaysInRange(t *testing.T) {
	for _, liq := range []int64{0, sol, 7 * sol, 60 * sol, 500 * sol} {
		for _, pct := range []float64{1, 25, 60, 99} {
			for _, tx := range []int{0, 20, 700, 5000} {
				res := Evaluate(
					PoolFacts{Liquidity: liq, TotalVolume: 3 * liq, CreatedAt: now.Add(-30 * time.Hour)},
					ChainFacts{TopHolders: []Holder{{Percentage: pct}}, TxCount: tx},
					now,
				)
				require.GreaterOrEqual(t, res.Score, 0)
				require.LessOrEqual(t, res.Score, 100)
				require.Equal(t, LevelFor(res.Score), res.RiskLevel)
			}
		}
	}
}

type stubFacts struct {
	facts map[string]*ChainFacts
	err   error
}

func (s stubFacts) TokenFacts(_ context.Context, mint string) (*ChainFacts, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.facts[mint], nil
}

func TestScorerDegradesOnChainFailure(t *testing.T) {
	s := NewScorer(stubFacts{err: errors.New("rpc timeout")}).WithClock(func() time.Time { return now })

	res := s.Score(context.Background(), "mint", PoolFacts{Liquidity: 500 * sol, CreatedAt: now.Add(-1000 * time.Hour)})

	assert.Equal(t, 100, res.Score)
	assert.Equal(t, RiskExtreme, res.RiskLevel)
	assert.Equal(t, Factors{}, res.Factors)
	assert.Equal(t, []string{AdviceUnanalyzable}, res.Recommendations)
	assert.True(t, res.Degraded)
}

func TestScorerCompareOrdersSafestFirst(t *testing.T) {
	s := NewScorer(stubFacts{facts: map[string]*ChainFacts{
		"safe":  {TopHolders: []Holder{{Percentage: 5}}, TxCount: 2000},
		"risky": {TopHolders: []Holder{{Percentage: 90}}, TxCount: 3},
	}}).WithClock(func() time.Time { return now })

	got := s.Compare(context.Background(), []Candidate{
		{Mint: "risky", Pool: PoolFacts{CreatedAt: now}},
		{Mint: "unknown", Pool: PoolFacts{CreatedAt: now}},
		{Mint: "safe", Pool: PoolFacts{Liquidity: 300 * sol, TotalVolume: 5000 * sol, CreatedAt: now.Add(-500 * time.Hour)}},
	})

	require.Len(t, got, 3)
	assert.Equal(t, "safe", got[0].Mint)
	assert.Equal(t, "risky", got[1].Mint)
	assert.Equal(t, "unknown", got[2].Mint)
	assert.True(t, got[2].Result.Degraded)
}
