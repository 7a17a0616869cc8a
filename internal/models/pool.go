package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Pool is a launched token market that bets are placed against.
type Pool struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TokenMint         string     `gorm:"uniqueIndex;size:64;not null" json:"token_mint"`
	TokenName         string     `gorm:"size:255;not null" json:"token_name"`
	TokenSymbol       string     `gorm:"size:32;not null" json:"token_symbol"`
	TokenURI          string     `gorm:"size:500" json:"token_uri"`
	Liquidity         int64      `gorm:"not null;default:0" json:"liquidity"`
	TotalVolume       int64      `gorm:"not null;default:0" json:"total_volume"`
	TotalBets         int64      `gorm:"not null;default:0" json:"total_bets"`
	RugScore          int        `gorm:"not null;default:0;index" json:"rug_score"`
	RugScoreUpdatedAt *time.Time `json:"rug_score_updated_at,omitempty"`
	IsActive          bool       `gorm:"not null;default:true;index" json:"is_active"`
	CrashPoint        *int64     `json:"crash_point,omitempty"`
	CrashedAt         *time.Time `json:"crashed_at,omitempty"`
	CreatorID         uint       `gorm:"not null;index" json:"creator_id"`
	Creator           *User      `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	CreatedAt         time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (Pool) TableName() string {
	return "pools"
}

func (p *Pool) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// CreatePoolRequest launches a pool for a mint.
type CreatePoolRequest struct {
	TokenMint        string `json:"token_mint" binding:"required"`
	TokenName        string `json:"token_name" binding:"required,max=255"`
	TokenSymbol      string `json:"token_symbol" binding:"required,max=32"`
	TokenURI         string `json:"token_uri" binding:"omitempty,max=500"`
	InitialLiquidity int64  `json:"initial_liquidity" binding:"gte=0"`
}

type UpdatePoolStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type CrashPoolRequest struct {
	CrashPoint int64 `json:"crash_point" binding:"required"`
}
