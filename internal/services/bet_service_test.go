package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rugfork/internal/apperr"
	"rugfork/internal/models"
	"rugfork/internal/settlement"
)

func placeReq(poolID uuid.UUID, amount, mult int64) *models.PlaceBetRequest {
	return &models.PlaceBetRequest{PoolID: poolID.String(), Amount: amount, Multiplier: mult}
}

func TestPlaceBetUpdatesCounters(t *testing.T) {
	f := newFixture(t)
	creator := f.user(t, "creator")
	bettor := f.user(t, "bettor")
	pool := f.pool(t, wrappedSOL, creator.ID)
	svc := NewBetService(f.repo, nil, nil, nil)

	bet, err := svc.PlaceBet(f.ctx, bettor.ID, placeReq(pool.ID, 2*sol, 10))
	require.NoError(t, err)
	assert.False(t, bet.IsSettled)
	assert.Zero(t, bet.Winnings)

	p, err := f.repo.GetPoolByID(f.ctx, pool.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.TotalBets)
	assert.Equal(t, int64(2*sol), p.TotalVolume)

	u := f.reload(t, bettor.ID)
	assert.Equal(t, int64(1), u.TotalBets)
	assert.Equal(t, int64(settlement.PlacementXP), u.TotalXP)
}

func TestPlaceBetRejections(t *testing.T) {
	f := newFixture(t)
	creator := f.user(t, "creator")
	bettor := f.user(t, "bettor")
	pool := f.pool(t, wrappedSOL, creator.ID)
	closed := f.pool(t, usdcMint, creator.ID)
	require.NoError(t, f.repo.SetPoolActive(f.ctx, closed.ID, false))
	svc := NewBetService(f.repo, nil, nil, nil)

	_, err := svc.PlaceBet(f.ctx, bettor.ID, placeReq(pool.ID, 0, 10))
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
	_, err = svc.PlaceBet(f.ctx, bettor.ID, placeReq(pool.ID, sol, 1))
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
	_, err = svc.PlaceBet(f.ctx, bettor.ID, placeReq(pool.ID, sol, 101))
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
	_, err = svc.PlaceBet(f.ctx, bettor.ID, &models.PlaceBetRequest{PoolID: "nope", Amount: sol, Multiplier: 2})
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
	_, err = svc.PlaceBet(f.ctx, bettor.ID, placeReq(uuid.New(), sol, 10))
	assert.True(t, apperr.Is(err, apperr.NotFound))
	_, err = svc.PlaceBet(f.ctx, bettor.ID, placeReq(closed.ID, sol, 10))
	assert.True(t, apperr.Is(err, apperr.InvalidState))

	// nothing was recorded by the rejected attempts
	assert.Zero(t, f.reload(t, bettor.ID).TotalBets)
}

func TestSecondOpenBetConflictsUntilSettled(t *testing.T) {
	f := newFixture(t)
	creator := f.user(t, "creator")
	bettor := f.user(t, "bettor")
	pool := f.pool(t, wrappedSOL, creator.ID)
	svc := NewBetService(f.repo, nil, nil, nil)

	first, err := svc.PlaceBet(f.ctx, bettor.ID, placeReq(pool.ID, sol, 10))
	require.NoError(t, err)

	_, err = svc.PlaceBet(f.ctx, bettor.ID, placeReq(pool.ID, sol, 20))
	assert.True(t, apperr.Is(err, apperr.Conflict))

	_, err = svc.SettleBet(f.ctx, Actor{UserID: creator.ID}, first.ID.String(), 3)
	require.NoError(t, err)

	_, err = svc.PlaceBet(f.ctx, bettor.ID, placeReq(pool.ID, sol, 20))
	assert.NoError(t, err)
}

func TestSettleWinThenConflict(t *testing.T) {
	f := newFixture(t)
	creator := f.user(t, "creator")
	bettor := f.user(t, "bettor")
	pool := f.pool(t, wrappedSOL, creator.ID)
	svc := NewBetService(f.repo, nil, nil, nil)

	bet, err := svc.PlaceBet(f.ctx, bettor.ID, placeReq(pool.ID, sol, 10))
	require.NoError(t, err)

	settled, err := svc.SettleBet(f.ctx, Actor{UserID: creator.ID}, bet.ID.String(), 15)
	require.NoError(t, err)
	assert.True(t, settled.IsSettled)
	assert.Equal(t, int64(100_000_000), settled.Winnings)

	u := f.reload(t, bettor.ID)
	assert.Equal(t, int64(100_000_000), u.TotalWinnings)
	assert.Zero(t, u.TotalLosses)

	_, err = svc.SettleBet(f.ctx, Actor{UserID: creator.ID}, bet.ID.String(), 15)
	assert.True(t, apperr.Is(err, apperr.Conflict))

	again := f.reload(t, bettor.ID)
	assert.Equal(t, u.TotalWinnings, again.TotalWinnings)
	assert.Equal(t, u.TotalXP, again.TotalXP)
}

func TestSettleLossAndBoundary(t *testing.T) {
	f := newFixture(t)
	creator := f.user(t, "creator")
	bettor := f.user(t, "bettor")
	p1 := f.pool(t, wrappedSOL, creator.ID)
	p2 := f.pool(t, usdcMint, creator.ID)
	svc := NewBetService(f.repo, nil, nil, nil)
	owner := Actor{UserID: creator.ID}

	lose, err := svc.PlaceBet(f.ctx, bettor.ID, placeReq(p1.ID, sol, 10))
	require.NoError(t, err)
	edge, err := svc.PlaceBet(f.ctx, bettor.ID, placeReq(p2.ID, sol, 10))
	require.NoError(t, err)

	got, err := svc.SettleBet(f.ctx, owner, lose.ID.String(), 5)
	require.NoError(t, err)
	assert.Zero(t, got.Winnings)
	u := f.reload(t, bettor.ID)
	assert.Equal(t, int64(sol), u.TotalLosses)
	assert.Zero(t, u.TotalWinnings)

	got, err = svc.SettleBet(f.ctx, owner, edge.ID.String(), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(100_000_000), got.Winnings, "outcome equal to multiplier wins")
}

func TestSettleAuthorization(t *testing.T) {
	f := newFixture(t)
	creator := f.user(t, "creator")
	bettor := f.user(t, "bettor")
	pool := f.pool(t, wrappedSOL, creator.ID)
	svc := NewBetService(f.repo, nil, nil, adminList{"admin-wallet"})

	bet, err := svc.PlaceBet(f.ctx, bettor.ID, placeReq(pool.ID, sol, 10))
	require.NoError(t, err)

	_, err = svc.SettleBet(f.ctx, Actor{UserID: bettor.ID, Wallet: "bettor"}, bet.ID.String(), 50)
	assert.True(t, apperr.Is(err, apperr.Forbidden))

	_, err = svc.SettleBet(f.ctx, Actor{UserID: creator.ID}, bet.ID.String(), 0)
	assert.True(t, apperr.Is(err, apperr.InvalidInput))

	_, err = svc.SettleBet(f.ctx, Actor{UserID: creator.ID}, uuid.New().String(), 5)
	assert.True(t, apperr.Is(err, apperr.NotFound))

	_, err = svc.SettleBet(f.ctx, Actor{UserID: 999, Wallet: "admin-wallet"}, bet.ID.String(), 50)
	assert.NoError(t, err)
}

func TestListBetsAndStats(t *testing.T) {
	f := newFixture(t)
	creator := f.user(t, "creator")
	bettor := f.user(t, "bettor")
	p1 := f.pool(t, wrappedSOL, creator.ID)
	p2 := f.pool(t, usdcMint, creator.ID)
	svc := NewBetService(f.repo, nil, nil, nil)

	b1, err := svc.PlaceBet(f.ctx, bettor.ID, placeReq(p1.ID, sol, 2))
	require.NoError(t, err)
	_, err = svc.PlaceBet(f.ctx, bettor.ID, placeReq(p2.ID, 3*sol, 4))
	require.NoError(t, err)
	_, err = svc.SettleBet(f.ctx, Actor{UserID: creator.ID}, b1.ID.String(), 7)
	require.NoError(t, err)

	page, err := svc.ListBets(f.ctx, models.BetFilter{UserID: bettor.ID, Status: "active"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Bets, 1)
	assert.Equal(t, p2.ID, page.Bets[0].PoolID)

	_, err = svc.ListBets(f.ctx, models.BetFilter{Status: "pending"})
	assert.True(t, apperr.Is(err, apperr.InvalidInput))

	stats, err := svc.UserBetStats(f.ctx, bettor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalBets)
	assert.Equal(t, int64(4*sol), stats.TotalVolume)
	assert.Equal(t, int64(2*sol/100), stats.TotalWinnings)
	assert.Equal(t, 3.0, stats.AvgMultiplier)
	assert.Equal(t, 50.0, stats.WinRate)
}
