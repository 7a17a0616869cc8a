package blockchain

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"rugfork/internal/apperr"
	"rugfork/internal/rugscore"
)

const defaultSignatureLimit = 1000

// SolanaClient reads token facts from a Solana RPC node.
type SolanaClient struct {
	rpcClient      *rpc.Client
	rpcURL         string
	network        string
	timeout        time.Duration
	signatureLimit int
	log            *logrus.Entry
}

// EndpointFor resolves a cluster name to its public RPC endpoint.
func EndpointFor(network string) string {
	switch network {
	case "mainnet-beta":
		return rpc.MainNetBeta_RPC
	case "testnet":
		return rpc.TestNet_RPC
	default:
		return rpc.DevNet_RPC
	}
}

// NewSolanaClient connects to rpcURL, or to the network's public endpoint when empty.
func NewSolanaClient(network, rpcURL string, timeout time.Duration, signatureLimit int) *SolanaClient {
	if rpcURL == "" {
		rpcURL = EndpointFor(network)
	}
	if signatureLimit <= 0 || signatureLimit > defaultSignatureLimit {
		signatureLimit = defaultSignatureLimit
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SolanaClient{
		rpcClient:      rpc.New(rpcURL),
		rpcURL:         rpcURL,
		network:        network,
		timeout:        timeout,
		signatureLimit: signatureLimit,
		log:            logrus.WithFields(logrus.Fields{"component": "solana", "network": network}),
	}
}

// ValidateAddress parses a base58 public key.
func ValidateAddress(address string) (solana.PublicKey, error) {
	pk, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return solana.PublicKey{}, apperr.InvalidInputf("invalid Solana address %q", address)
	}
	return pk, nil
}

// TokenFacts gathers supply, largest holders and recent activity for a mint.
func (s *SolanaClient) TokenFacts(ctx context.Context, mint string) (*rugscore.ChainFacts, error) {
	mintKey, err := ValidateAddress(mint)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	supplyRes, err := s.rpcClient.GetTokenSupply(ctx, mintKey, rpc.CommitmentConfirmed)
	if err != nil {
		return nil, unavailable(err, "getTokenSupply")
	}
	supply, err := uiAmount(supplyRes.Value)
	if err != nil {
		return nil, err
	}

	largest, err := s.rpcClient.GetTokenLargestAccounts(ctx, mintKey, rpc.CommitmentConfirmed)
	if err != nil {
		return nil, unavailable(err, "getTokenLargestAccounts")
	}

	facts := &rugscore.ChainFacts{
		TotalSupply: supply.InexactFloat64(),
		HolderCount: len(largest.Value),
		TopHolders:  make([]rugscore.Holder, 0, len(largest.Value)),
	}
	for _, acc := range largest.Value {
		amount, err := decimal.NewFromString(acc.UiAmountString)
		if err != nil {
			amount = decimal.Zero
		}
		pct := decimal.Zero
		if supply.IsPositive() {
			pct = amount.Div(supply).Mul(decimal.NewFromInt(100))
		}
		facts.TopHolders = append(facts.TopHolders, rugscore.Holder{
			Address:    acc.Address.String(),
			Amount:     amount.InexactFloat64(),
			Percentage: pct.InexactFloat64(),
		})
	}

	limit := s.signatureLimit
	sigs, err := s.rpcClient.GetSignaturesForAddressWithOpts(ctx, mintKey, &rpc.GetSignaturesForAddressOpts{
		Limit:      &limit,
		Commitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return nil, unavailable(err, "getSignaturesForAddress")
	}
	facts.TxCount = len(sigs)

	s.log.WithFields(logrus.Fields{
		"mint":    mint,
		"holders": facts.HolderCount,
		"txs":     facts.TxCount,
	}).Debug("token facts fetched")
	return facts, nil
}

func uiAmount(v *rpc.UiTokenAmount) (decimal.Decimal, error) {
	if v == nil {
		return decimal.Zero, apperr.New(apperr.Unavailable, "empty token supply response")
	}
	d, err := decimal.NewFromString(v.UiAmountString)
	if err != nil {
		return decimal.Zero, apperr.Wrap(err, apperr.Unavailable, "malformed token supply")
	}
	return d, nil
}

func unavailable(err error, method string) error {
	return apperr.Wrap(err, apperr.Unavailable, fmt.Sprintf("solana rpc %s failed", method))
}
