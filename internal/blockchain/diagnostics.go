package blockchain

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
)

// Diagnostics reports whether the RPC node answers.
type Diagnostics struct {
	Network         string `json:"network"`
	RPCURL          string `json:"rpc_url"`
	RPCConnected    bool   `json:"rpc_connected"`
	RPCError        string `json:"rpc_error,omitempty"`
	LatestBlockhash string `json:"latest_blockhash,omitempty"`
	LatencyMS       int64  `json:"latency_ms"`
	CheckedAt       string `json:"checked_at"`
}

// Diagnose asks the node for its latest blockhash.
func (s *SolanaClient) Diagnose(ctx context.Context) *Diagnostics {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	d := &Diagnostics{
		Network:   s.network,
		RPCURL:    s.rpcURL,
		CheckedAt: started.UTC().Format(time.RFC3339),
	}

	out, err := s.rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	d.LatencyMS = time.Since(started).Milliseconds()
	if err != nil {
		d.RPCError = err.Error()
		s.log.WithError(err).Warn("RPC health check failed")
		return d
	}
	d.RPCConnected = true
	if out != nil && out.Value != nil {
		d.LatestBlockhash = out.Value.Blockhash.String()
	}
	return d
}
