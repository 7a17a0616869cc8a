package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rugfork/internal/apperr"
	"rugfork/internal/repository"
	"rugfork/internal/rugscore"
)

func TestToleranceFor(t *testing.T) {
	assert.Equal(t, ToleranceLow, ToleranceFor(0))
	assert.Equal(t, ToleranceLow, ToleranceFor(3))
	assert.Equal(t, ToleranceMedium, ToleranceFor(3.01))
	assert.Equal(t, ToleranceMedium, ToleranceFor(10))
	assert.Equal(t, ToleranceHigh, ToleranceFor(55))
}

func TestBucketPatterns(t *testing.T) {
	// 2026-03-01 is a Sunday
	sunday := time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC)
	points := []repository.BetPoint{
		{CreatedAt: sunday, Amount: sol},
		{CreatedAt: sunday.Add(10 * time.Minute), Amount: 2 * sol},
		{CreatedAt: sunday.Add(24*time.Hour + 5*time.Hour), Amount: sol},
	}

	p := bucketPatterns(points)
	assert.Equal(t, int64(3), p.TotalBets)
	assert.Equal(t, 14, p.PeakHour)
	assert.Equal(t, int64(2), p.Hourly[14].Bets)
	assert.Equal(t, int64(3*sol), p.Hourly[14].Volume)
	assert.Equal(t, int64(1), p.Hourly[19].Bets)
	assert.Equal(t, 0, p.PeakDay)
	assert.Equal(t, int64(1), p.Weekday[1].Bets)

	empty := bucketPatterns(nil)
	assert.Zero(t, empty.PeakHour)
	assert.Zero(t, empty.TotalBets)
}

func TestPlatformAndUserAnalytics(t *testing.T) {
	f := newFixture(t)
	creator := f.user(t, "creator")
	bettor := f.user(t, "bettor")
	pool := f.pool(t, wrappedSOL, creator.ID)
	closed := f.pool(t, usdcMint, creator.ID)
	require.NoError(t, f.repo.UpdateRugScore(f.ctx, pool.ID, 20, time.Now().UTC()))
	require.NoError(t, f.repo.UpdateRugScore(f.ctx, closed.ID, 80, time.Now().UTC()))

	bets := NewBetService(f.repo, nil, nil, nil)
	_, err := bets.PlaceBet(f.ctx, bettor.ID, placeReq(pool.ID, sol, 2))
	require.NoError(t, err)
	_, err = bets.PlaceBet(f.ctx, bettor.ID, placeReq(closed.ID, 3*sol, 4))
	require.NoError(t, err)
	require.NoError(t, f.repo.SetPoolActive(f.ctx, closed.ID, false))

	svc := NewAnalyticsService(f.repo)
	stats, err := svc.PlatformStats(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalPools)
	assert.Equal(t, int64(1), stats.ActivePools)
	assert.Equal(t, int64(2), stats.TotalBets)
	assert.Equal(t, int64(4*sol), stats.TotalVolume)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, 50.0, stats.AverageRugScore)

	ua, err := svc.UserAnalytics(f.ctx, bettor.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), ua.Bets)
	assert.Equal(t, 3.0, ua.AvgMultiplier)
	assert.Equal(t, ToleranceLow, ua.RiskTolerance)
	require.NotNil(t, ua.FavoriteMultiplier)
	assert.Equal(t, int64(2), *ua.FavoriteMultiplier)

	pa, err := svc.PoolAnalytics(f.ctx, closed.ID.String(), "1h")
	require.NoError(t, err)
	assert.Equal(t, int64(1), pa.Bets)
	assert.Equal(t, int64(3*sol), pa.Volume)
	assert.Equal(t, int64(1), pa.UniqueBettors)

	market, err := svc.MarketAnalytics(f.ctx, "all")
	require.NoError(t, err)
	assert.Equal(t, int64(1), market.RiskBands[rugscore.RiskLow])
	assert.Equal(t, int64(1), market.RiskBands[rugscore.RiskExtreme])
	require.NotEmpty(t, market.TopPools)
	assert.Equal(t, closed.ID, market.TopPools[0].ID)

	_, err = svc.TradingPatterns(f.ctx, "yearly")
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
}
