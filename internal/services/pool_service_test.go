package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rugfork/internal/apperr"
	"rugfork/internal/models"
	"rugfork/internal/rugscore"
)

type stubFacts struct {
	facts *rugscore.ChainFacts
	err   error
}

func (s stubFacts) TokenFacts(context.Context, string) (*rugscore.ChainFacts, error) {
	return s.facts, s.err
}

func healthyFacts() stubFacts {
	return stubFacts{facts: &rugscore.ChainFacts{
		TopHolders: []rugscore.Holder{{Address: "a", Percentage: 5}},
		TxCount:    2000,
	}}
}

func newPoolService(f *fixture, facts rugscore.FactsProvider, admins AdminChecker) *PoolService {
	bets := NewBetService(f.repo, nil, nil, admins)
	scores := NewRugScoreService(f.repo, rugscore.NewScorer(facts), nil)
	return NewPoolService(f.repo, bets, scores, nil, nil, admins)
}

func TestCreatePool(t *testing.T) {
	f := newFixture(t)
	creator := f.user(t, "creator")
	svc := newPoolService(f, healthyFacts(), nil)

	pool, err := svc.CreatePool(f.ctx, creator.ID, &models.CreatePoolRequest{
		TokenMint:        wrappedSOL,
		TokenName:        "Wrapped SOL",
		TokenSymbol:      "wsol",
		InitialLiquidity: 200 * sol,
	})
	require.NoError(t, err)
	assert.True(t, pool.IsActive)
	assert.Equal(t, "WSOL", pool.TokenSymbol)

	// 200 SOL liquidity, spread holders, busy mint, brand new, no volume
	stored, err := f.repo.GetPoolByID(f.ctx, pool.ID)
	require.NoError(t, err)
	assert.Equal(t, pool.RugScore, stored.RugScore)
	assert.NotNil(t, stored.RugScoreUpdatedAt)
	assert.Greater(t, stored.RugScore, 0)

	_, err = svc.CreatePool(f.ctx, creator.ID, &models.CreatePoolRequest{TokenMint: wrappedSOL, TokenName: "x", TokenSymbol: "x"})
	assert.True(t, apperr.Is(err, apperr.Conflict))

	_, err = svc.CreatePool(f.ctx, creator.ID, &models.CreatePoolRequest{TokenMint: "not-base58!", TokenName: "x", TokenSymbol: "x"})
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
}

func TestCreatePoolKeepsDefaultScoreWhenChainDown(t *testing.T) {
	f := newFixture(t)
	creator := f.user(t, "creator")
	svc := newPoolService(f, stubFacts{err: errors.New("timeout")}, nil)

	pool, err := svc.CreatePool(f.ctx, creator.ID, &models.CreatePoolRequest{TokenMint: wrappedSOL, TokenName: "x", TokenSymbol: "x"})
	require.NoError(t, err)

	stored, err := f.repo.GetPoolByID(f.ctx, pool.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.RugScoreUpdatedAt)
}

func TestSetStatus(t *testing.T) {
	f := newFixture(t)
	creator := f.user(t, "creator")
	other := f.user(t, "other")
	pool := f.pool(t, wrappedSOL, creator.ID)
	svc := newPoolService(f, healthyFacts(), nil)

	_, err := svc.SetStatus(f.ctx, Actor{UserID: other.ID}, pool.ID.String(), false)
	assert.True(t, apperr.Is(err, apperr.Forbidden))

	got, err := svc.SetStatus(f.ctx, Actor{UserID: creator.ID}, pool.ID.String(), false)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	page, err := svc.ListPools(f.ctx, 1, 10, "", "")
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	_, err = svc.ListPools(f.ctx, 1, 10, "password", "")
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
}

func TestCrashPoolSettlesOpenBets(t *testing.T) {
	f := newFixture(t)
	creator := f.user(t, "creator")
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	pool := f.pool(t, wrappedSOL, creator.ID)
	svc := newPoolService(f, healthyFacts(), nil)

	_, err := svc.bets.PlaceBet(f.ctx, alice.ID, placeReq(pool.ID, sol, 5))
	require.NoError(t, err)
	_, err = svc.bets.PlaceBet(f.ctx, bob.ID, placeReq(pool.ID, 2*sol, 20))
	require.NoError(t, err)

	res, err := svc.CrashPool(f.ctx, Actor{UserID: creator.ID}, pool.ID.String(), 12)
	require.NoError(t, err)
	assert.Len(t, res.SettledBets, 2)
	assert.Equal(t, int64(sol*5/100), res.TotalWinnings)
	assert.Equal(t, int64(2*sol), res.TotalLosses)
	assert.False(t, res.Pool.IsActive)

	assert.Equal(t, int64(sol*5/100), f.reload(t, alice.ID).TotalWinnings)
	assert.Equal(t, int64(2*sol), f.reload(t, bob.ID).TotalLosses)

	_, err = svc.CrashPool(f.ctx, Actor{UserID: creator.ID}, pool.ID.String(), 20)
	assert.True(t, apperr.Is(err, apperr.Conflict))

	_, err = svc.SetStatus(f.ctx, Actor{UserID: creator.ID}, pool.ID.String(), true)
	assert.True(t, apperr.Is(err, apperr.InvalidState))
}

func TestRugScoreServiceRefreshStale(t *testing.T) {
	f := newFixture(t)
	creator := f.user(t, "creator")
	f.pool(t, wrappedSOL, creator.ID)
	f.pool(t, usdcMint, creator.ID)
	svc := NewRugScoreService(f.repo, rugscore.NewScorer(healthyFacts()), nil)

	n, err := svc.RefreshStale(f.ctx, time.Hour, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.RefreshStale(f.ctx, time.Hour, 10)
	require.NoError(t, err)
	assert.Zero(t, n, "fresh scores are skipped")

	res, err := svc.ScoreMint(f.ctx, "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	require.NoError(t, err)
	assert.False(t, res.Degraded)

	_, err = svc.Compare(f.ctx, nil)
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
	ranked, err := svc.Compare(f.ctx, []string{wrappedSOL, usdcMint})
	require.NoError(t, err)
	assert.Len(t, ranked, 2)
}
