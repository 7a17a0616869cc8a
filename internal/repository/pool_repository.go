package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rugfork/internal/apperr"
	"rugfork/internal/models"
)

// CreatePool inserts a pool; a duplicate mint is a Conflict.
func (r *Repository) CreatePool(ctx context.Context, pool *models.Pool) error {
	err := r.db.WithContext(ctx).Create(pool).Error
	if IsUniqueViolation(err) {
		return apperr.Conflictf("pool for token %s already exists", pool.TokenMint)
	}
	return err
}

func (r *Repository) GetPoolByID(ctx context.Context, id uuid.UUID) (*models.Pool, error) {
	var pool models.Pool
	if err := r.db.WithContext(ctx).Preload("Creator").Where("id = ?", id).First(&pool).Error; err != nil {
		return nil, notFound(err, "pool")
	}
	return &pool, nil
}

func (r *Repository) GetPoolByMint(ctx context.Context, mint string) (*models.Pool, error) {
	var pool models.Pool
	if err := r.db.WithContext(ctx).Where("token_mint = ?", mint).First(&pool).Error; err != nil {
		return nil, notFound(err, "pool")
	}
	return &pool, nil
}

// PoolSortColumns whitelists the columns pools can be listed by.
var PoolSortColumns = map[string]string{
	"created_at":   "created_at",
	"total_volume": "total_volume",
	"total_bets":   "total_bets",
	"rug_score":    "rug_score",
	"liquidity":    "liquidity",
}

// ListActivePools pages through active pools.
func (r *Repository) ListActivePools(ctx context.Context, sortBy string, desc bool, limit, offset int) ([]*models.Pool, int64, error) {
	column, ok := PoolSortColumns[sortBy]
	if !ok {
		column = "created_at"
	}
	dir := " ASC"
	if desc {
		dir = " DESC"
	}

	var total int64
	q := r.db.WithContext(ctx).Model(&models.Pool{}).Where("is_active = ?", true)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var pools []*models.Pool
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Where("is_active = ?", true).
		Order(column + dir).
		Limit(limit).
		Offset(offset).
		Find(&pools).Error
	return pools, total, err
}

func (r *Repository) SetPoolActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&models.Pool{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

// MarkPoolCrashed records the crash point once; a second crash is a Conflict.
func (r *Repository) MarkPoolCrashed(ctx context.Context, id uuid.UUID, crashPoint int64, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.Pool{}).
		Where("id = ? AND crash_point IS NULL", id).
		Updates(map[string]interface{}{
			"crash_point": crashPoint,
			"crashed_at":  at,
			"is_active":   false,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Conflictf("pool already crashed")
	}
	return nil
}

// IncrementPoolStats adds one bet of the given stake to the pool's counters.
func (r *Repository) IncrementPoolStats(ctx context.Context, id uuid.UUID, stake int64) error {
	return r.db.WithContext(ctx).Model(&models.Pool{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"total_bets":   gorm.Expr("total_bets + ?", 1),
			"total_volume": gorm.Expr("total_volume + ?", stake),
		}).Error
}

func (r *Repository) UpdateRugScore(ctx context.Context, id uuid.UUID, score int, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Pool{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"rug_score":            score,
			"rug_score_updated_at": at,
		}).Error
}

// PoolsDueForRescore returns active pools scored before the cutoff or never.
func (r *Repository) PoolsDueForRescore(ctx context.Context, cutoff time.Time, limit int) ([]*models.Pool, error) {
	var pools []*models.Pool
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("rug_score_updated_at IS NULL OR rug_score_updated_at < ?", cutoff).
		Order("rug_score_updated_at ASC").
		Limit(limit).
		Find(&pools).Error
	return pools, err
}

// PoolFilter narrows pool aggregates.
type PoolFilter struct {
	Since      *time.Time
	ActiveOnly bool
}

func (f PoolFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Since != nil {
		q = q.Where("created_at >= ?", *f.Since)
	}
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	return q
}

// PoolAggregate summarises a set of pools.
type PoolAggregate struct {
	Count       int64
	Volume      int64
	AvgRugScore float64
	TotalBets   int64
}

func (r *Repository) AggregatePools(ctx context.Context, f PoolFilter) (PoolAggregate, error) {
	var agg PoolAggregate
	q := f.apply(r.db.WithContext(ctx).Model(&models.Pool{}))
	err := q.Select(
		"COUNT(*) AS count, " +
			"COALESCE(SUM(total_volume), 0) AS volume, " +
			"COALESCE(AVG(rug_score), 0) AS avg_rug_score, " +
			"COALESCE(SUM(total_bets), 0) AS total_bets",
	).Scan(&agg).Error
	return agg, err
}

// TopPoolsByVolume returns the busiest pools created inside the filter.
func (r *Repository) TopPoolsByVolume(ctx context.Context, f PoolFilter, limit int) ([]*models.Pool, error) {
	var pools []*models.Pool
	err := f.apply(r.db.WithContext(ctx)).
		Order("total_volume DESC").
		Limit(limit).
		Find(&pools).Error
	return pools, err
}

// ScoreCount is the number of pools holding one rug score.
type ScoreCount struct {
	RugScore int   `json:"rug_score"`
	Count    int64 `json:"count"`
}

func (r *Repository) RugScoreDistribution(ctx context.Context, f PoolFilter) ([]ScoreCount, error) {
	var rows []ScoreCount
	err := f.apply(r.db.WithContext(ctx).Model(&models.Pool{})).
		Select("rug_score, COUNT(*) AS count").
		Group("rug_score").
		Order("rug_score ASC").
		Scan(&rows).Error
	return rows, err
}
