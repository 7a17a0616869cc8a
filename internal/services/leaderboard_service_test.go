package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rugfork/internal/apperr"
	"rugfork/internal/models"
	"rugfork/internal/ranking"
)

func setBets(t *testing.T, f *fixture, u *models.User, n int64) {
	t.Helper()
	require.NoError(t, f.repo.DB().Model(&models.User{}).Where("id = ?", u.ID).Update("total_bets", n).Error)
}

func TestLeaderboardTiesShareRank(t *testing.T) {
	f := newFixture(t)
	a, b, c, d := f.user(t, "a"), f.user(t, "b"), f.user(t, "c"), f.user(t, "d")
	setBets(t, f, a, 5)
	setBets(t, f, b, 5)
	setBets(t, f, c, 3)
	setBets(t, f, d, 1)
	svc := NewLeaderboardService(f.repo)

	lb, err := svc.GetLeaderboard(f.ctx, "", "all")
	require.NoError(t, err)
	assert.Equal(t, ranking.TopTraders, lb.Type)
	require.Len(t, lb.Entries, 4)

	ranks := make([]int, 0, 4)
	for _, e := range lb.Entries {
		ranks = append(ranks, e.Rank)
	}
	assert.Equal(t, []int{1, 1, 3, 4}, ranks)
	assert.Equal(t, int64(5), lb.Entries[0].Value)

	entry, err := svc.GetUserRank(f.ctx, c.ID, "top_traders", "all_time")
	require.NoError(t, err)
	assert.Equal(t, 3, entry.Rank)

	entry, err = svc.GetUserRank(f.ctx, b.ID, "top_traders", "")
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Rank)
}

func TestLeaderboardRejectsUnknownBoardAndWindow(t *testing.T) {
	f := newFixture(t)
	svc := NewLeaderboardService(f.repo)

	_, err := svc.GetLeaderboard(f.ctx, "top_losers", "")
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
	_, err = svc.GetLeaderboard(f.ctx, "", "fortnight")
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
}

func TestVolumeLeaderboard(t *testing.T) {
	f := newFixture(t)
	creator := f.user(t, "creator")
	whale := f.user(t, "whale")
	shrimp := f.user(t, "shrimp")
	pool := f.pool(t, wrappedSOL, creator.ID)
	other := f.pool(t, usdcMint, creator.ID)
	bets := NewBetService(f.repo, nil, nil, nil)

	_, err := bets.PlaceBet(f.ctx, whale.ID, placeReq(pool.ID, 5*sol, 10))
	require.NoError(t, err)
	_, err = bets.PlaceBet(f.ctx, whale.ID, placeReq(other.ID, 5*sol, 10))
	require.NoError(t, err)
	_, err = bets.PlaceBet(f.ctx, shrimp.ID, placeReq(pool.ID, sol, 10))
	require.NoError(t, err)

	svc := NewLeaderboardService(f.repo)
	lb, err := svc.GetLeaderboard(f.ctx, "top_volume", "weekly")
	require.NoError(t, err)
	assert.Equal(t, ranking.WindowWeek, lb.Period)
	require.Len(t, lb.Entries, 2)
	assert.Equal(t, whale.ID, lb.Entries[0].User.ID)
	assert.Equal(t, int64(10*sol), lb.Entries[0].Value)
	assert.Equal(t, 2, lb.Entries[1].Rank)

	entry, err := svc.GetUserRank(f.ctx, shrimp.ID, "top_volume", "7d")
	require.NoError(t, err)
	assert.Equal(t, 2, entry.Rank)
	assert.Equal(t, int64(sol), entry.Value)

	stats, err := svc.Stats(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(3), stats.TotalBets)
	assert.Equal(t, int64(11*sol), stats.TotalVolume)
	require.NotNil(t, stats.TopTrader)
	assert.Equal(t, whale.ID, stats.TopTrader.ID)
}
