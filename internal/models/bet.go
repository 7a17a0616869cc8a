package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bet is a crash sidebet: it wins when the pool's crash point reaches Multiplier.
type Bet struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PoolID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"pool_id"`
	Pool       *Pool      `gorm:"foreignKey:PoolID" json:"pool,omitempty"`
	Amount     int64      `gorm:"not null" json:"amount"`
	Multiplier int64      `gorm:"not null" json:"multiplier"`
	IsSettled  bool       `gorm:"not null;default:false;index" json:"is_settled"`
	Winnings   int64      `gorm:"not null;default:0" json:"winnings"`
	CrashPoint *int64     `json:"crash_point,omitempty"`
	SettledAt  *time.Time `gorm:"index" json:"settled_at,omitempty"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (Bet) TableName() string {
	return "bets"
}

func (b *Bet) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

type PlaceBetRequest struct {
	PoolID     string `json:"pool_id" binding:"required"`
	Amount     int64  `json:"amount"`
	Multiplier int64  `json:"multiplier"`
}

type SettleBetRequest struct {
	CrashPoint int64 `json:"crash_point"`
}

// BetFilter narrows bet listings.
type BetFilter struct {
	UserID uint
	PoolID *uuid.UUID
	// "settled", "active" or empty for both
	Status string
	Page   int
	Limit  int
}
