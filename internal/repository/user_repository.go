package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"rugfork/internal/models"
	"rugfork/internal/settlement"
)

func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *Repository) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

func (r *Repository) GetUserByWallet(ctx context.Context, wallet string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("wallet_address = ?", wallet).First(&user).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

func (r *Repository) GetUsersByIDs(ctx context.Context, ids []uint) (map[uint]*models.User, error) {
	out := make(map[uint]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []*models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// UsernameTaken reports whether another user already holds username.
func (r *Repository) UsernameTaken(ctx context.Context, username string, exceptID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? AND id <> ?", username, exceptID).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) UpdateUserFields(ctx context.Context, userID uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(fields).Error
}

func (r *Repository) TouchUser(ctx context.Context, userID uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("last_active_at", at).Error
}

// ApplyCounterDelta moves a user's counters in place; level follows total_xp.
func (r *Repository) ApplyCounterDelta(ctx context.Context, userID uint, d settlement.CounterDelta, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumns(map[string]interface{}{
			"total_bets":     gorm.Expr("total_bets + ?", d.Bets),
			"total_winnings": gorm.Expr("total_winnings + ?", d.Winnings),
			"total_losses":   gorm.Expr("total_losses + ?", d.Losses),
			"total_xp":       gorm.Expr("total_xp + ?", d.XP),
			"level":          gorm.Expr("((total_xp + ?) / ?) + 1", d.XP, settlement.XPPerLevel),
			"last_active_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "user")
	}
	return nil
}

// UserMetricColumn maps a counter metric to its column.
var UserMetricColumn = map[string]string{
	"total_bets":     "total_bets",
	"total_winnings": "total_winnings",
	"total_xp":       "total_xp",
}

// TopUsersBy returns users ordered by a counter column, active since the bound.
func (r *Repository) TopUsersBy(ctx context.Context, column string, since *time.Time, limit int) ([]*models.User, error) {
	var users []*models.User
	q := r.db.WithContext(ctx).Model(&models.User{})
	if since != nil {
		q = q.Where("last_active_at >= ?", *since)
	}
	err := q.Order(column + " DESC").Order("id ASC").Limit(limit).Find(&users).Error
	return users, err
}

// CountUsersAbove counts active users whose column is strictly greater than value.
func (r *Repository) CountUsersAbove(ctx context.Context, column string, value int64, since *time.Time) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.User{}).Where(column+" > ?", value)
	if since != nil {
		q = q.Where("last_active_at >= ?", *since)
	}
	err := q.Count(&count).Error
	return count, err
}

func (r *Repository) CountUsers(ctx context.Context, since *time.Time) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.User{})
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}
	err := q.Count(&count).Error
	return count, err
}
