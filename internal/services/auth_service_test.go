package services

import (
	"crypto/ed25519"
	"encoding/hex"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rugfork/internal/apperr"
	"rugfork/internal/models"
)

func TestVerifyWalletSignature(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	wallet := base58.Encode(pub)
	sig := ed25519.Sign(priv, []byte(LoginMessage))

	assert.NoError(t, VerifyWalletSignature(wallet, base58.Encode(sig), LoginMessage))
	assert.NoError(t, VerifyWalletSignature(wallet, hex.EncodeToString(sig), LoginMessage))

	err = VerifyWalletSignature(wallet, base58.Encode(sig), "something else")
	assert.True(t, apperr.Is(err, apperr.Unauthorized))

	err = VerifyWalletSignature(wallet, "zz", LoginMessage)
	assert.True(t, apperr.Is(err, apperr.InvalidInput))

	err = VerifyWalletSignature("not a wallet", base58.Encode(sig), LoginMessage)
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
}

func TestProcessWalletLogin(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.repo)

	first, err := svc.ProcessWalletLogin(f.ctx, wrappedSOL)
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.NotEmpty(t, first.Username)
	assert.Equal(t, 1, first.Level)

	again, err := svc.ProcessWalletLogin(f.ctx, wrappedSOL)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, first.Username, again.Username)

	byID, err := svc.GetUserByID(f.ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, wrappedSOL, byID.WalletAddress)

	_, err = svc.GetUserByID(f.ctx, 9999)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	svc := NewUserService(f.repo)

	name := "  rugsurvivor "
	avatar := "https://example.com/a.png"
	p, err := svc.UpdateProfile(f.ctx, alice.ID, &models.UpdateProfileRequest{Username: &name, Avatar: &avatar})
	require.NoError(t, err)
	assert.Equal(t, "rugsurvivor", p.Username)
	require.NotNil(t, p.Avatar)
	assert.Equal(t, avatar, *p.Avatar)

	taken := "rugsurvivor"
	_, err = svc.UpdateProfile(f.ctx, bob.ID, &models.UpdateProfileRequest{Username: &taken})
	assert.True(t, apperr.Is(err, apperr.Conflict))

	// keeping your own name is not a conflict
	_, err = svc.UpdateProfile(f.ctx, alice.ID, &models.UpdateProfileRequest{Username: &taken})
	assert.NoError(t, err)

	blank := " "
	_, err = svc.UpdateProfile(f.ctx, bob.ID, &models.UpdateProfileRequest{Username: &blank})
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
}

func TestUserStats(t *testing.T) {
	f := newFixture(t)
	creator := f.user(t, "creator")
	bettor := f.user(t, "bettor")
	pool := f.pool(t, wrappedSOL, creator.ID)
	bets := NewBetService(f.repo, nil, nil, nil)

	bet, err := bets.PlaceBet(f.ctx, bettor.ID, placeReq(pool.ID, 4*sol, 50))
	require.NoError(t, err)
	_, err = bets.SettleBet(f.ctx, Actor{UserID: creator.ID}, bet.ID.String(), 80)
	require.NoError(t, err)

	stats, err := NewUserService(f.repo).GetStats(f.ctx, bettor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalBets)
	assert.Equal(t, int64(4*sol), stats.TotalVolume)
	assert.Equal(t, int64(2*sol), stats.TotalWinnings)
	assert.Equal(t, 100, stats.WinRate)
	assert.Equal(t, int64(1), stats.WonBets)
	assert.Zero(t, stats.ActiveBets)
	assert.Equal(t, 50.0, stats.AvgMultiplier)
}
