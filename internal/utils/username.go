package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var moods = []string{
	"Diamond", "Paper", "Based", "Moon", "Rekt",
	"Degen", "Turbo", "Giga", "Sleepy", "Lucky",
	"Rugged", "Bullish", "Bearish", "Salty", "Hodl",
}

var creatures = []string{
	"Ape", "Whale", "Shrimp", "Crab", "Frog",
	"Doge", "Bull", "Bear", "Goblin", "Wojak",
	"Chad", "Jeet", "Sniper", "Farmer", "Bagholder",
}

func pick(words []string) (string, error) {
	idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(words))))
	if err != nil {
		return "", err
	}
	return words[idx.Int64()], nil
}

// GenerateUsername returns a random "Mood_Creature_NNNN" handle.
func GenerateUsername() (string, error) {
	mood, err := pick(moods)
	if err != nil {
		return "", fmt.Errorf("failed to pick username prefix: %w", err)
	}
	creature, err := pick(creatures)
	if err != nil {
		return "", fmt.Errorf("failed to pick username noun: %w", err)
	}
	suffix, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("failed to generate username suffix: %w", err)
	}
	return fmt.Sprintf("%s_%s_%04d", mood, creature, suffix.Int64()), nil
}

// WalletHandle is a deterministic fallback username built from a wallet.
func WalletHandle(wallet string) string {
	if len(wallet) <= 8 {
		return "wallet_" + wallet
	}
	return fmt.Sprintf("wallet_%s_%s", wallet[:4], wallet[len(wallet)-4:])
}
