package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"rugfork/internal/apperr"
	"rugfork/internal/blockchain"
	"rugfork/internal/events"
	"rugfork/internal/metrics"
	"rugfork/internal/models"
	"rugfork/internal/repository"
	"rugfork/internal/settlement"
)

// PoolService launches, lists and crashes token pools.
type PoolService struct {
	repo     *repository.Repository
	bets     *BetService
	rugScore *RugScoreService
	bus      *events.Bus
	metrics  *metrics.Metrics
	admins   AdminChecker
	clock    clock
	log      *logrus.Entry
}

func NewPoolService(
	repo *repository.Repository,
	bets *BetService,
	rugScore *RugScoreService,
	bus *events.Bus,
	m *metrics.Metrics,
	admins AdminChecker,
) *PoolService {
	if admins == nil {
		admins = noAdmins{}
	}
	return &PoolService{
		repo:     repo,
		bets:     bets,
		rugScore: rugScore,
		bus:      bus,
		metrics:  m,
		admins:   admins,
		log:      logrus.WithField("component", "pools"),
	}
}

// CreatePool launches a pool for a valid, not yet listed mint and scores it.
func (s *PoolService) CreatePool(ctx context.Context, creatorID uint, req *models.CreatePoolRequest) (*models.Pool, error) {
	mint := strings.TrimSpace(req.TokenMint)
	if _, err := blockchain.ValidateAddress(mint); err != nil {
		return nil, err
	}
	if req.InitialLiquidity < 0 {
		return nil, apperr.InvalidInputf("initial liquidity cannot be negative")
	}

	if _, err := s.repo.GetPoolByMint(ctx, mint); err == nil {
		return nil, apperr.Conflictf("pool for token %s already exists", mint)
	} else if !apperr.Is(err, apperr.NotFound) {
		return nil, err
	}

	pool := &models.Pool{
		TokenMint:   mint,
		TokenName:   strings.TrimSpace(req.TokenName),
		TokenSymbol: strings.ToUpper(strings.TrimSpace(req.TokenSymbol)),
		TokenURI:    req.TokenURI,
		Liquidity:   req.InitialLiquidity,
		IsActive:    true,
		CreatorID:   creatorID,
		CreatedAt:   s.clock.now(),
	}
	if err := s.repo.CreatePool(ctx, pool); err != nil {
		return nil, err
	}

	if s.rugScore != nil {
		s.rugScore.ScorePool(ctx, pool)
	}

	s.metrics.PoolCreated()
	s.bus.Publish(ctx, events.PoolCreated, pool)
	s.log.WithFields(logrus.Fields{
		"pool_id":   pool.ID,
		"mint":      mint,
		"rug_score": pool.RugScore,
	}).Info("Pool created")
	return pool, nil
}

func (s *PoolService) GetPool(ctx context.Context, rawID string) (*models.Pool, error) {
	id, err := parseID(rawID, "pool")
	if err != nil {
		return nil, err
	}
	return s.repo.GetPoolByID(ctx, id)
}

// PoolPage is one page of a pool listing.
type PoolPage struct {
	Pools []*models.Pool `json:"pools"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

func (s *PoolService) ListPools(ctx context.Context, page, limit int, sortBy, order string) (*PoolPage, error) {
	if sortBy == "" {
		sortBy = "created_at"
	}
	if _, ok := repository.PoolSortColumns[sortBy]; !ok {
		return nil, apperr.InvalidInputf("cannot sort pools by %q", sortBy)
	}
	limit, offset := repository.Page(page, limit, 100)
	pools, total, err := s.repo.ListActivePools(ctx, sortBy, order != "asc", limit, offset)
	if err != nil {
		return nil, err
	}
	return &PoolPage{Pools: pools, Total: total, Page: offset/limit + 1, Limit: limit}, nil
}

// SetStatus toggles whether a pool accepts bets. Creator or admin only.
func (s *PoolService) SetStatus(ctx context.Context, actor Actor, rawID string, active bool) (*models.Pool, error) {
	pool, err := s.GetPool(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if !canManage(s.admins, actor, pool.CreatorID) {
		return nil, apperr.Forbiddenf("only the pool creator can change its status")
	}
	if active && pool.CrashPoint != nil {
		return nil, apperr.InvalidStatef("a crashed pool cannot be reactivated")
	}
	if err := s.repo.SetPoolActive(ctx, pool.ID, active); err != nil {
		return nil, err
	}
	pool.IsActive = active
	return pool, nil
}

// CrashResult reports what a crash settled.
type CrashResult struct {
	Pool          *models.Pool  `json:"pool"`
	SettledBets   []*models.Bet `json:"settled_bets"`
	TotalWinnings int64         `json:"total_winnings"`
	TotalLosses   int64         `json:"total_losses"`
}

// CrashPool records the pool's crash point, closes it and settles every open
// bet at that point. A pool crashes once.
func (s *PoolService) CrashPool(ctx context.Context, actor Actor, rawID string, crashPoint int64) (*CrashResult, error) {
	if crashPoint <= 0 {
		return nil, apperr.InvalidInputf("crash point must be positive")
	}
	pool, err := s.GetPool(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if !canManage(s.admins, actor, pool.CreatorID) {
		return nil, apperr.Forbiddenf("only the pool creator can crash it")
	}

	now := s.clock.now()
	var (
		bets     []*models.Bet
		outcomes []settlement.Outcome
	)
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.MarkPoolCrashed(ctx, pool.ID, crashPoint, now); err != nil {
			return err
		}
		bets, outcomes, err = s.bets.settleOpenBets(ctx, tx, pool.ID, crashPoint)
		return err
	})
	if err != nil {
		return nil, err
	}

	pool.IsActive = false
	pool.CrashPoint = &crashPoint
	pool.CrashedAt = &now

	res := &CrashResult{Pool: pool, SettledBets: bets}
	for i, out := range outcomes {
		res.TotalWinnings += out.Delta.Winnings
		res.TotalLosses += out.Delta.Losses
		s.bets.afterSettle(ctx, bets[i], out)
	}

	s.bus.Publish(ctx, events.PoolCrashed, res)
	s.log.WithFields(logrus.Fields{
		"pool_id":     pool.ID,
		"crash_point": crashPoint,
		"settled":     len(bets),
	}).Info("Pool crashed")
	return res, nil
}
