package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rugfork/internal/apperr"
	"rugfork/internal/models"
)

func (r *Repository) CreateTournament(ctx context.Context, t *models.Tournament) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *Repository) GetTournament(ctx context.Context, id uuid.UUID) (*models.Tournament, error) {
	var t models.Tournament
	err := r.db.WithContext(ctx).
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("rank ASC").Order("joined_at ASC")
		}).
		Preload("Participants.User").
		Where("id = ?", id).
		First(&t).Error
	if err != nil {
		return nil, notFound(err, "tournament")
	}
	return &t, nil
}

func (r *Repository) ListTournaments(ctx context.Context, activeOnly bool, limit, offset int) ([]*models.Tournament, int64, error) {
	scope := func(q *gorm.DB) *gorm.DB {
		if activeOnly {
			q = q.Where("is_active = ?", true)
		}
		return q
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Tournament{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []*models.Tournament
	err := r.db.WithContext(ctx).Scopes(scope).
		Order("end_time ASC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error
	return out, total, err
}

// AddParticipant enrolls a user once.
func (r *Repository) AddParticipant(ctx context.Context, p *models.TournamentParticipant) error {
	err := r.db.WithContext(ctx).Create(p).Error
	if IsUniqueViolation(err) {
		return apperr.Conflictf("already joined this tournament")
	}
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&models.Tournament{}).
		Where("id = ?", p.TournamentID).
		UpdateColumn("total_participants", gorm.Expr("total_participants + ?", 1)).Error
}

func (r *Repository) Participants(ctx context.Context, tournamentID uuid.UUID) ([]*models.TournamentParticipant, error) {
	var out []*models.TournamentParticipant
	err := r.db.WithContext(ctx).
		Where("tournament_id = ?", tournamentID).
		Order("joined_at ASC").
		Order("id ASC").
		Find(&out).Error
	return out, err
}

// CloseTournament deactivates a tournament once; a second close is a Conflict.
func (r *Repository) CloseTournament(ctx context.Context, id uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.Tournament{}).
		Where("id = ? AND finalized_at IS NULL", id).
		Updates(map[string]interface{}{
			"is_active":    false,
			"finalized_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Conflictf("tournament already finalized")
	}
	return nil
}

func (r *Repository) SaveStanding(ctx context.Context, p *models.TournamentParticipant) error {
	return r.db.WithContext(ctx).Model(&models.TournamentParticipant{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"net_profit":   p.NetProfit,
			"rank":         p.Rank,
			"prize_amount": p.PrizeAmount,
		}).Error
}

// EndedTournaments returns active tournaments whose end has passed.
func (r *Repository) EndedTournaments(ctx context.Context, now time.Time) ([]*models.Tournament, error) {
	var out []*models.Tournament
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND finalized_at IS NULL AND end_time <= ?", true, now).
		Find(&out).Error
	return out, err
}
