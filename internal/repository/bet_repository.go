package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rugfork/internal/apperr"
	"rugfork/internal/models"
)

// CreateBet inserts a bet; a second open bet on the same pool is a Conflict.
func (r *Repository) CreateBet(ctx context.Context, bet *models.Bet) error {
	err := r.db.WithContext(ctx).Create(bet).Error
	if IsUniqueViolation(err) {
		return apperr.Conflictf("an unsettled bet on this pool already exists")
	}
	return err
}

func (r *Repository) GetBetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	var bet models.Bet
	err := r.db.WithContext(ctx).
		Preload("Pool").
		Preload("User").
		Where("id = ?", id).
		First(&bet).Error
	if err != nil {
		return nil, notFound(err, "bet")
	}
	return &bet, nil
}

func (r *Repository) HasOpenBet(ctx context.Context, userID uint, poolID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Bet{}).
		Where("user_id = ? AND pool_id = ? AND is_settled = ?", userID, poolID, false).
		Count(&count).Error
	return count > 0, err
}

// ListBets pages through bets matching the filter, newest first.
func (r *Repository) ListBets(ctx context.Context, f models.BetFilter) ([]*models.Bet, int64, error) {
	limit, offset := Page(f.Page, f.Limit, 100)

	scope := func(q *gorm.DB) *gorm.DB {
		if f.UserID != 0 {
			q = q.Where("user_id = ?", f.UserID)
		}
		if f.PoolID != nil {
			q = q.Where("pool_id = ?", *f.PoolID)
		}
		switch f.Status {
		case "settled":
			q = q.Where("is_settled = ?", true)
		case "active":
			q = q.Where("is_settled = ?", false)
		}
		return q
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Bet{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bets []*models.Bet
	err := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("Pool").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&bets).Error
	return bets, total, err
}

func (r *Repository) OpenBetsForPool(ctx context.Context, poolID uuid.UUID) ([]*models.Bet, error) {
	var bets []*models.Bet
	err := r.db.WithContext(ctx).
		Where("pool_id = ? AND is_settled = ?", poolID, false).
		Order("created_at ASC").
		Find(&bets).Error
	return bets, err
}

// MarkBetSettled flips an open bet to settled. Zero rows means someone else
// settled it first and is reported as a Conflict.
func (r *Repository) MarkBetSettled(ctx context.Context, id uuid.UUID, winnings, crashPoint int64, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.Bet{}).
		Where("id = ? AND is_settled = ?", id, false).
		Updates(map[string]interface{}{
			"is_settled":  true,
			"winnings":    winnings,
			"crash_point": crashPoint,
			"settled_at":  at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Conflictf("bet already settled")
	}
	return nil
}

// BetQuery narrows bet aggregates.
type BetQuery struct {
	UserID *uint
	PoolID *uuid.UUID
	// by created_at
	Since *time.Time
	Until *time.Time
	// by settled_at; implies settled bets only
	SettledSince *time.Time
	SettledUntil *time.Time
}

func (f BetQuery) apply(q *gorm.DB) *gorm.DB {
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.PoolID != nil {
		q = q.Where("pool_id = ?", *f.PoolID)
	}
	if f.Since != nil {
		q = q.Where("created_at >= ?", *f.Since)
	}
	if f.Until != nil {
		q = q.Where("created_at < ?", *f.Until)
	}
	if f.SettledSince != nil || f.SettledUntil != nil {
		q = q.Where("is_settled = ?", true)
	}
	if f.SettledSince != nil {
		q = q.Where("settled_at >= ?", *f.SettledSince)
	}
	if f.SettledUntil != nil {
		q = q.Where("settled_at <= ?", *f.SettledUntil)
	}
	return q
}

// BetAggregate summarises a set of bets.
type BetAggregate struct {
	Count         int64
	Volume        int64
	Winnings      int64
	Losses        int64
	Settled       int64
	Won           int64
	AvgMultiplier float64
	UniqueUsers   int64
}

const betAggregateSelect = "COUNT(*) AS count, " +
	"COALESCE(SUM(amount), 0) AS volume, " +
	"COALESCE(SUM(winnings), 0) AS winnings, " +
	"COALESCE(SUM(CASE WHEN is_settled = ? AND winnings = 0 THEN amount ELSE 0 END), 0) AS losses, " +
	"COALESCE(SUM(CASE WHEN is_settled = ? THEN 1 ELSE 0 END), 0) AS settled, " +
	"COALESCE(SUM(CASE WHEN winnings > 0 THEN 1 ELSE 0 END), 0) AS won, " +
	"COALESCE(AVG(multiplier), 0) AS avg_multiplier, " +
	"COUNT(DISTINCT user_id) AS unique_users"

func (r *Repository) AggregateBets(ctx context.Context, f BetQuery) (BetAggregate, error) {
	var agg BetAggregate
	err := f.apply(r.db.WithContext(ctx).Model(&models.Bet{})).
		Select(betAggregateSelect, true, true).
		Scan(&agg).Error
	return agg, err
}

// UserValue is a per-user sum.
type UserValue struct {
	UserID uint  `json:"user_id"`
	Value  int64 `json:"value"`
}

// VolumeByUser sums stakes per user, largest first.
func (r *Repository) VolumeByUser(ctx context.Context, f BetQuery, limit int) ([]UserValue, error) {
	var rows []UserValue
	err := f.apply(r.db.WithContext(ctx).Model(&models.Bet{})).
		Select("user_id, SUM(amount) AS value").
		Group("user_id").
		Order("value DESC").
		Order("user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// CountUsersWithVolumeAbove counts users whose summed stake exceeds value.
func (r *Repository) CountUsersWithVolumeAbove(ctx context.Context, f BetQuery, value int64) (int64, error) {
	sub := f.apply(r.db.WithContext(ctx).Model(&models.Bet{})).
		Select("user_id").
		Group("user_id").
		Having("SUM(amount) > ?", value)

	var count int64
	err := r.db.WithContext(ctx).Table("(?) AS ranked", sub).Count(&count).Error
	return count, err
}

// NetProfitByUser sums winnings minus losing stakes of settled bets per user.
func (r *Repository) NetProfitByUser(ctx context.Context, f BetQuery, userIDs []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var rows []UserValue
	err := f.apply(r.db.WithContext(ctx).Model(&models.Bet{})).
		Where("is_settled = ?", true).
		Where("user_id IN ?", userIDs).
		Select("user_id, COALESCE(SUM(CASE WHEN winnings > 0 THEN winnings ELSE -amount END), 0) AS value").
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.UserID] = row.Value
	}
	return out, nil
}

// MultiplierCount is how often a multiplier was chosen.
type MultiplierCount struct {
	Multiplier int64 `json:"multiplier"`
	Count      int64 `json:"count"`
}

func (r *Repository) MultiplierCounts(ctx context.Context, f BetQuery) ([]MultiplierCount, error) {
	var rows []MultiplierCount
	err := f.apply(r.db.WithContext(ctx).Model(&models.Bet{})).
		Select("multiplier, COUNT(*) AS count").
		Group("multiplier").
		Order("count DESC").
		Order("multiplier ASC").
		Scan(&rows).Error
	return rows, err
}

// BetPoint is the timestamp and stake of one bet.
type BetPoint struct {
	CreatedAt time.Time
	Amount    int64
}

func (r *Repository) BetPoints(ctx context.Context, f BetQuery) ([]BetPoint, error) {
	var rows []BetPoint
	err := f.apply(r.db.WithContext(ctx).Model(&models.Bet{})).
		Select("created_at, amount").
		Order("created_at ASC").
		Scan(&rows).Error
	return rows, err
}
