package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"rugfork/internal/apperr"
	"rugfork/internal/events"
	"rugfork/internal/metrics"
	"rugfork/internal/models"
	"rugfork/internal/ranking"
	"rugfork/internal/repository"
	"rugfork/internal/settlement"
)

// BetService places and settles crash sidebets.
type BetService struct {
	repo    *repository.Repository
	bus     *events.Bus
	metrics *metrics.Metrics
	admins  AdminChecker
	clock   clock
	log     *logrus.Entry
}

func NewBetService(repo *repository.Repository, bus *events.Bus, m *metrics.Metrics, admins AdminChecker) *BetService {
	if admins == nil {
		admins = noAdmins{}
	}
	return &BetService{
		repo:    repo,
		bus:     bus,
		metrics: m,
		admins:  admins,
		log:     logrus.WithField("component", "bets"),
	}
}

// PlaceBet validates the stake, then records the bet and moves pool and user
// counters in one transaction.
func (s *BetService) PlaceBet(ctx context.Context, userID uint, req *models.PlaceBetRequest) (*models.Bet, error) {
	if err := settlement.ValidatePlacement(req.Amount, req.Multiplier); err != nil {
		return nil, err
	}
	poolID, err := parseID(req.PoolID, "pool")
	if err != nil {
		return nil, err
	}

	now := s.clock.now()
	bet := &models.Bet{
		UserID:     userID,
		PoolID:     poolID,
		Amount:     req.Amount,
		Multiplier: req.Multiplier,
		CreatedAt:  now,
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		pool, err := tx.GetPoolByID(ctx, poolID)
		if err != nil {
			return err
		}
		if !pool.IsActive {
			return apperr.InvalidStatef("pool is not active")
		}
		open, err := tx.HasOpenBet(ctx, userID, poolID)
		if err != nil {
			return err
		}
		if open {
			return apperr.Conflictf("an unsettled bet on this pool already exists")
		}
		if err := tx.CreateBet(ctx, bet); err != nil {
			return err
		}
		if err := tx.IncrementPoolStats(ctx, poolID, bet.Amount); err != nil {
			return err
		}
		return tx.ApplyCounterDelta(ctx, userID, settlement.PlacementDelta(), now)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.BetPlaced(bet.Amount)
	s.bus.Publish(ctx, events.BetPlaced, bet)
	s.log.WithFields(logrus.Fields{
		"bet_id":     bet.ID,
		"user_id":    userID,
		"pool_id":    poolID,
		"amount":     bet.Amount,
		"multiplier": bet.Multiplier,
	}).Info("Bet placed")
	return bet, nil
}

// SettleBet resolves one bet against an observed crash point. Only the pool's
// creator or an admin may settle.
func (s *BetService) SettleBet(ctx context.Context, actor Actor, rawID string, outcome int64) (*models.Bet, error) {
	if outcome <= 0 {
		return nil, apperr.InvalidInputf("outcome must be positive")
	}
	betID, err := parseID(rawID, "bet")
	if err != nil {
		return nil, err
	}
	bet, err := s.repo.GetBetByID(ctx, betID)
	if err != nil {
		return nil, err
	}
	if bet.Pool == nil || !canManage(s.admins, actor, bet.Pool.CreatorID) {
		return nil, apperr.Forbiddenf("only the pool creator can settle its bets")
	}

	var out settlement.Outcome
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		out, err = s.settle(ctx, tx, bet, outcome)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterSettle(ctx, bet, out)
	return bet, nil
}

// settle applies one settlement inside tx and mirrors it onto bet.
func (s *BetService) settle(ctx context.Context, tx *repository.Repository, bet *models.Bet, outcome int64) (settlement.Outcome, error) {
	out, err := settlement.Settle(settlement.BetState{
		Amount:     bet.Amount,
		Multiplier: bet.Multiplier,
		IsSettled:  bet.IsSettled,
	}, outcome, s.clock.now())
	if err != nil {
		return out, err
	}
	if err := tx.MarkBetSettled(ctx, bet.ID, out.Winnings, out.CrashPoint, out.SettledAt); err != nil {
		return out, err
	}
	if err := tx.ApplyCounterDelta(ctx, bet.UserID, out.Delta, out.SettledAt); err != nil {
		return out, err
	}

	bet.IsSettled = true
	bet.Winnings = out.Winnings
	bet.CrashPoint = &out.CrashPoint
	bet.SettledAt = &out.SettledAt
	return out, nil
}

func (s *BetService) afterSettle(ctx context.Context, bet *models.Bet, out settlement.Outcome) {
	s.metrics.BetSettled(out.Winnings)
	s.bus.Publish(ctx, events.BetSettled, bet)
	s.log.WithFields(logrus.Fields{
		"bet_id":      bet.ID,
		"user_id":     bet.UserID,
		"crash_point": out.CrashPoint,
		"winnings":    out.Winnings,
	}).Info("Bet settled")
}

// settleOpenBets settles every open bet on a pool at crashPoint inside tx.
func (s *BetService) settleOpenBets(ctx context.Context, tx *repository.Repository, poolID uuid.UUID, crashPoint int64) ([]*models.Bet, []settlement.Outcome, error) {
	bets, err := tx.OpenBetsForPool(ctx, poolID)
	if err != nil {
		return nil, nil, err
	}
	outcomes := make([]settlement.Outcome, 0, len(bets))
	for _, bet := range bets {
		out, err := s.settle(ctx, tx, bet, crashPoint)
		if err != nil {
			return nil, nil, err
		}
		outcomes = append(outcomes, out)
	}
	return bets, outcomes, nil
}

func (s *BetService) GetBet(ctx context.Context, rawID string) (*models.Bet, error) {
	id, err := parseID(rawID, "bet")
	if err != nil {
		return nil, err
	}
	return s.repo.GetBetByID(ctx, id)
}

// BetPage is one page of a bet listing.
type BetPage struct {
	Bets  []*models.Bet `json:"bets"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func (s *BetService) ListBets(ctx context.Context, f models.BetFilter) (*BetPage, error) {
	switch f.Status {
	case "", "settled", "active":
	default:
		return nil, apperr.InvalidInputf("status must be settled or active")
	}
	limit, offset := repository.Page(f.Page, f.Limit, 100)
	f.Limit = limit
	f.Page = offset/limit + 1

	bets, total, err := s.repo.ListBets(ctx, f)
	if err != nil {
		return nil, err
	}
	return &BetPage{Bets: bets, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

// BetStats summarises a user's bets.
type BetStats struct {
	TotalBets     int64   `json:"total_bets"`
	TotalVolume   int64   `json:"total_volume"`
	TotalWinnings int64   `json:"total_winnings"`
	AvgMultiplier float64 `json:"avg_multiplier"`
	WinningBets   int64   `json:"winning_bets"`
	WinRate       float64 `json:"win_rate"`
}

func (s *BetService) UserBetStats(ctx context.Context, userID uint) (*BetStats, error) {
	agg, err := s.repo.AggregateBets(ctx, repository.BetQuery{UserID: &userID})
	if err != nil {
		return nil, err
	}
	return &BetStats{
		TotalBets:     agg.Count,
		TotalVolume:   agg.Volume,
		TotalWinnings: agg.Winnings,
		AvgMultiplier: roundTo(agg.AvgMultiplier, 2),
		WinningBets:   agg.Won,
		WinRate:       ranking.Percent(agg.Won, agg.Count, 2),
	}, nil
}
