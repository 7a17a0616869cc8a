package services

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"errors"

	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"

	"rugfork/internal/apperr"
	"rugfork/internal/blockchain"
	"rugfork/internal/models"
	"rugfork/internal/repository"
	"rugfork/internal/utils"
)

// LoginMessage is the challenge a wallet signs to log in.
const LoginMessage = "Sign this message to authenticate with RugFork"

const usernameAttempts = 3

// AuthService handles wallet authentication
type AuthService struct {
	repo  *repository.Repository
	clock clock
	log   *logrus.Entry
}

func NewAuthService(repo *repository.Repository) *AuthService {
	return &AuthService{repo: repo, log: logrus.WithField("component", "auth")}
}

// VerifyWalletSignature checks an ed25519 signature over message by wallet.
// Signatures may be base58 or hex encoded.
func VerifyWalletSignature(wallet, signature, message string) error {
	pk, err := blockchain.ValidateAddress(wallet)
	if err != nil {
		return err
	}

	sig, err := base58.Decode(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		sig, err = hex.DecodeString(signature)
		if err != nil {
			return apperr.InvalidInputf("invalid signature format")
		}
	}
	if len(sig) != ed25519.SignatureSize {
		return apperr.InvalidInputf("invalid signature format")
	}

	if !ed25519.Verify(ed25519.PublicKey(pk[:]), []byte(message), sig) {
		return apperr.New(apperr.Unauthorized, "invalid signature")
	}
	return nil
}

// ProcessWalletLogin finds or creates a user by wallet address
func (s *AuthService) ProcessWalletLogin(ctx context.Context, wallet string) (*models.User, error) {
	now := s.clock.now()

	user, err := s.repo.GetUserByWallet(ctx, wallet)
	if err == nil {
		if err := s.repo.TouchUser(ctx, user.ID, now); err != nil {
			return nil, err
		}
		user.LastActiveAt = now
		s.log.WithFields(logrus.Fields{"wallet": wallet, "user_id": user.ID}).Info("User logged in")
		return user, nil
	}
	if !apperr.Is(err, apperr.NotFound) {
		return nil, err
	}

	for attempt := 0; attempt <= usernameAttempts; attempt++ {
		username := utils.WalletHandle(wallet)
		if attempt < usernameAttempts {
			if generated, genErr := utils.GenerateUsername(); genErr == nil {
				username = generated
			}
		}

		user = &models.User{
			WalletAddress: wallet,
			Username:      username,
			Level:         1,
			LastActiveAt:  now,
		}
		err = s.repo.CreateUser(ctx, user)
		if err == nil {
			s.log.WithFields(logrus.Fields{"wallet": wallet, "user_id": user.ID}).Info("New user created")
			return user, nil
		}
		if !repository.IsUniqueViolation(err) {
			return nil, err
		}
		// a concurrent login may have created the same wallet
		if existing, findErr := s.repo.GetUserByWallet(ctx, wallet); findErr == nil {
			return existing, nil
		}
	}
	return nil, errors.New("could not allocate a username")
}

func (s *AuthService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}
