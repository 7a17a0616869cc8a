package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"rugfork/internal/apperr"
	"rugfork/internal/blockchain"
	"rugfork/internal/metrics"
	"rugfork/internal/models"
	"rugfork/internal/repository"
	"rugfork/internal/rugscore"
)

const maxCompare = 20

// RugScoreService scores pools and keeps their stored score fresh.
type RugScoreService struct {
	repo    *repository.Repository
	scorer  *rugscore.Scorer
	metrics *metrics.Metrics
	clock   clock
	log     *logrus.Entry
}

func NewRugScoreService(repo *repository.Repository, scorer *rugscore.Scorer, m *metrics.Metrics) *RugScoreService {
	return &RugScoreService{
		repo:    repo,
		scorer:  scorer,
		metrics: m,
		log:     logrus.WithField("component", "rugscore-service"),
	}
}

func poolFacts(p *models.Pool) rugscore.PoolFacts {
	return rugscore.PoolFacts{
		Liquidity:   p.Liquidity,
		TotalVolume: p.TotalVolume,
		CreatedAt:   p.CreatedAt,
	}
}

// ScorePool evaluates a stored pool and persists the score unless the chain
// was unreachable.
func (s *RugScoreService) ScorePool(ctx context.Context, pool *models.Pool) rugscore.Result {
	res := s.scorer.Score(ctx, pool.TokenMint, poolFacts(pool))
	s.metrics.RugScored(string(res.RiskLevel), res.Degraded)
	if res.Degraded {
		return res
	}

	now := s.clock.now()
	if err := s.repo.UpdateRugScore(ctx, pool.ID, res.Score, now); err != nil {
		s.log.WithError(err).WithField("pool_id", pool.ID).Warn("failed to store rug score")
		return res
	}
	pool.RugScore = res.Score
	pool.RugScoreUpdatedAt = &now
	return res
}

// ScoreMint scores a mint, using its pool's facts when a pool exists.
func (s *RugScoreService) ScoreMint(ctx context.Context, mint string) (rugscore.Result, error) {
	if _, err := blockchain.ValidateAddress(mint); err != nil {
		return rugscore.Result{}, err
	}
	pool, err := s.repo.GetPoolByMint(ctx, mint)
	switch {
	case err == nil:
		return s.ScorePool(ctx, pool), nil
	case apperr.Is(err, apperr.NotFound):
		// unlaunched token: nothing stored, judged on chain facts alone
		res := s.scorer.Score(ctx, mint, rugscore.PoolFacts{CreatedAt: s.clock.now()})
		s.metrics.RugScored(string(res.RiskLevel), res.Degraded)
		return res, nil
	default:
		return rugscore.Result{}, err
	}
}

// Compare scores several mints, safest first.
func (s *RugScoreService) Compare(ctx context.Context, mints []string) ([]rugscore.Assessment, error) {
	if len(mints) == 0 {
		return nil, apperr.InvalidInputf("at least one token mint is required")
	}
	if len(mints) > maxCompare {
		return nil, apperr.InvalidInputf("at most %d token mints can be compared", maxCompare)
	}

	candidates := make([]rugscore.Candidate, 0, len(mints))
	for _, mint := range mints {
		if _, err := blockchain.ValidateAddress(mint); err != nil {
			return nil, err
		}
		facts := rugscore.PoolFacts{CreatedAt: s.clock.now()}
		pool, err := s.repo.GetPoolByMint(ctx, mint)
		if err == nil {
			facts = poolFacts(pool)
		} else if !apperr.Is(err, apperr.NotFound) {
			return nil, err
		}
		candidates = append(candidates, rugscore.Candidate{Mint: mint, Pool: facts})
	}
	return s.scorer.Compare(ctx, candidates), nil
}

// RefreshStale rescores active pools whose score is older than maxAge.
func (s *RugScoreService) RefreshStale(ctx context.Context, maxAge time.Duration, limit int) (int, error) {
	pools, err := s.repo.PoolsDueForRescore(ctx, s.clock.now().Add(-maxAge), limit)
	if err != nil {
		return 0, err
	}
	refreshed := 0
	for _, p := range pools {
		if ctx.Err() != nil {
			break
		}
		if res := s.ScorePool(ctx, p); !res.Degraded {
			refreshed++
		}
	}
	return refreshed, nil
}
