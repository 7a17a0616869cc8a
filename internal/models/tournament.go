package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tournament is a timed Rug Royale; participants compete on net profit.
type Tournament struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name              string     `gorm:"size:255;not null" json:"name"`
	CreatorID         uint       `gorm:"not null;index" json:"creator_id"`
	PrizePool         int64      `gorm:"not null" json:"prize_pool"`
	EntryFee          int64      `gorm:"not null" json:"entry_fee"`
	StartTime         time.Time  `gorm:"not null" json:"start_time"`
	EndTime           time.Time  `gorm:"not null;index" json:"end_time"`
	IsActive          bool       `gorm:"not null;default:true;index" json:"is_active"`
	TotalParticipants int64      `gorm:"not null;default:0" json:"total_participants"`
	FinalizedAt       *time.Time `json:"finalized_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	Participants []TournamentParticipant `gorm:"foreignKey:TournamentID" json:"participants,omitempty"`
}

func (Tournament) TableName() string {
	return "tournaments"
}

func (t *Tournament) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TournamentParticipant is one user's entry into a tournament.
type TournamentParticipant struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TournamentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tournament_user" json:"tournament_id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_tournament_user" json:"user_id"`
	User         *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	NetProfit    int64     `gorm:"not null;default:0" json:"net_profit"`
	Rank         *int      `json:"rank,omitempty"`
	PrizeAmount  int64     `gorm:"not null;default:0" json:"prize_amount"`
	JoinedAt     time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

func (TournamentParticipant) TableName() string {
	return "tournament_participants"
}

type CreateTournamentRequest struct {
	Name            string `json:"name" binding:"required,max=255"`
	PrizePool       int64  `json:"prize_pool"`
	DurationSeconds int64  `json:"duration_seconds"`
}
