package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUsername(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Za-z]+_[A-Za-z]+_\d{4}$`)
	for i := 0; i < 50; i++ {
		name, err := GenerateUsername()
		require.NoError(t, err)
		assert.Regexp(t, pattern, name)
	}
}

func TestWalletHandle(t *testing.T) {
	assert.Equal(t, "wallet_So11_1112", WalletHandle("So11111111111111111111111111111111111111112"))
	assert.Equal(t, "wallet_abc", WalletHandle("abc"))
}

func TestFormatSOL(t *testing.T) {
	assert.Equal(t, "1.5", FormatSOL(1_500_000_000))
	assert.Equal(t, "0.000000001", FormatSOL(1))
	assert.Equal(t, "0", FormatSOL(0))
}
