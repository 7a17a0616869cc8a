package blockchain

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rugfork/internal/apperr"
)

const wrappedSOL = "So11111111111111111111111111111111111111112"

// fakeRPC answers the three JSON-RPC methods token facts depend on.
func fakeRPC(t *testing.T, failMethod string) *httptest.Server {
	t.Helper()
	sig := solana.Signature{}.String()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var result string
		switch req.Method {
		case "getTokenSupply":
			result = `{"context":{"slot":1},"value":{"amount":"1000000000","decimals":6,"uiAmount":1000,"uiAmountString":"1000"}}`
		case "getTokenLargestAccounts":
			result = fmt.Sprintf(`{"context":{"slot":1},"value":[
				{"address":%q,"amount":"400000000","decimals":6,"uiAmount":400,"uiAmountString":"400"},
				{"address":%q,"amount":"100000000","decimals":6,"uiAmount":100,"uiAmountString":"100"}]}`,
				wrappedSOL, solana.SystemProgramID.String())
		case "getLatestBlockhash":
			result = fmt.Sprintf(`{"context":{"slot":7},"value":{"blockhash":%q,"lastValidBlockHeight":150}}`, solana.Hash{1}.String())
		case "getSignaturesForAddress":
			result = fmt.Sprintf(`[{"signature":%q,"slot":5,"err":null,"memo":null,"blockTime":null},
				{"signature":%q,"slot":4,"err":null,"memo":null,"blockTime":null}]`, sig, sig)
		}

		w.Header().Set("Content-Type", "application/json")
		if req.Method == failMethod || result == "" {
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"error":{"code":-32000,"message":"node is behind"}}`, req.ID)
			return
		}
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"result":%s}`, req.ID, result)
	}))
}

func TestTokenFacts(t *testing.T) {
	srv := fakeRPC(t, "")
	defer srv.Close()

	client := NewSolanaClient("devnet", srv.URL, time.Second, 50)
	facts, err := client.TokenFacts(context.Background(), wrappedSOL)
	require.NoError(t, err)

	assert.Equal(t, 1000.0, facts.TotalSupply)
	assert.Equal(t, 2, facts.HolderCount)
	require.Len(t, facts.TopHolders, 2)
	assert.Equal(t, wrappedSOL, facts.TopHolders[0].Address)
	assert.InDelta(t, 40.0, facts.TopHolders[0].Percentage, 1e-9)
	assert.InDelta(t, 10.0, facts.TopHolders[1].Percentage, 1e-9)
	assert.Equal(t, 2, facts.TxCount)
}

func TestTokenFactsRPCFailure(t *testing.T) {
	srv := fakeRPC(t, "getTokenLargestAccounts")
	defer srv.Close()

	client := NewSolanaClient("devnet", srv.URL, time.Second, 50)
	_, err := client.TokenFacts(context.Background(), wrappedSOL)
	assert.True(t, apperr.Is(err, apperr.Unavailable), "got %v", err)
}

func TestValidateAddress(t *testing.T) {
	_, err := ValidateAddress(wrappedSOL)
	assert.NoError(t, err)

	_, err = ValidateAddress("not-a-key")
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
}

func TestEndpointFor(t *testing.T) {
	assert.Contains(t, EndpointFor("mainnet-beta"), "mainnet-beta")
	assert.Contains(t, EndpointFor("testnet"), "testnet")
	assert.Contains(t, EndpointFor("anything"), "devnet")
}

func TestDiagnose(t *testing.T) {
	srv := fakeRPC(t, "")
	defer srv.Close()

	d := NewSolanaClient("devnet", srv.URL, time.Second, 0).Diagnose(context.Background())
	assert.True(t, d.RPCConnected)
	assert.Equal(t, srv.URL, d.RPCURL)
	assert.Equal(t, solana.Hash{1}.String(), d.LatestBlockhash)

	down := fakeRPC(t, "getLatestBlockhash")
	defer down.Close()
	d = NewSolanaClient("devnet", down.URL, time.Second, 0).Diagnose(context.Background())
	assert.False(t, d.RPCConnected)
	assert.NotEmpty(t, d.RPCError)
}
