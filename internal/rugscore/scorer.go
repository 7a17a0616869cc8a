package rugscore

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// FactsProvider fetches chain facts for a mint.
type FactsProvider interface {
	TokenFacts(ctx context.Context, mint string) (*ChainFacts, error)
}

// Scorer evaluates pools against live chain facts.
type Scorer struct {
	facts FactsProvider
	now   func() time.Time
	log   *logrus.Entry
}

func NewScorer(facts FactsProvider) *Scorer {
	return &Scorer{
		facts: facts,
		now:   time.Now,
		log:   logrus.WithField("component", "rugscore"),
	}
}

// WithClock overrides the time source.
func (s *Scorer) WithClock(now func() time.Time) *Scorer {
	s.now = now
	return s
}

// Score never fails: when the chain cannot be read it returns WorstCase.
func (s *Scorer) Score(ctx context.Context, mint string, pool PoolFacts) Result {
	chain, err := s.facts.TokenFacts(ctx, mint)
	if err != nil || chain == nil {
		s.log.WithError(err).WithField("mint", mint).Warn("chain facts unavailable, assuming worst case")
		return WorstCase()
	}
	return Evaluate(pool, *chain, s.now())
}

// Candidate is a pool to score in a comparison.
type Candidate struct {
	Mint string
	Pool PoolFacts
}

// Assessment pairs a mint with its result.
type Assessment struct {
	Mint   string `json:"tokenMint"`
	Result Result `json:"rugScore"`
}

// Compare scores candidates and orders them safest first.
func (s *Scorer) Compare(ctx context.Context, candidates []Candidate) []Assessment {
	out := make([]Assessment, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, Assessment{Mint: c.Mint, Result: s.Score(ctx, c.Mint, c.Pool)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Result.Score < out[j].Result.Score
	})
	return out
}
