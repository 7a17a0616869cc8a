package models

import (
	"time"
)

// User is a wallet-authenticated player. Counters only ever move forward.
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	WalletAddress string    `gorm:"uniqueIndex;not null" json:"wallet_address"`
	Username      string    `gorm:"uniqueIndex;not null" json:"username"`
	Email         *string   `gorm:"uniqueIndex" json:"email,omitempty"`
	Avatar        *string   `gorm:"size:500" json:"avatar,omitempty"`
	TotalBets     int64     `gorm:"not null;default:0" json:"total_bets"`
	TotalWinnings int64     `gorm:"not null;default:0" json:"total_winnings"`
	TotalLosses   int64     `gorm:"not null;default:0" json:"total_losses"`
	TotalXP       int64     `gorm:"column:total_xp;not null;default:0" json:"total_xp"`
	Level         int       `gorm:"not null;default:1" json:"level"`
	LastActiveAt  time.Time `gorm:"index" json:"last_active_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserSummary is the public slice of a user embedded in other responses.
type UserSummary struct {
	ID            uint    `json:"id"`
	Username      string  `json:"username"`
	WalletAddress string  `json:"wallet_address"`
	Avatar        *string `json:"avatar,omitempty"`
	Level         int     `json:"level"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:            u.ID,
		Username:      u.Username,
		WalletAddress: u.WalletAddress,
		Avatar:        u.Avatar,
		Level:         u.Level,
	}
}

// UpdateProfileRequest carries the editable profile fields.
type UpdateProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=32"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Avatar   *string `json:"avatar" binding:"omitempty,url,max=500"`
}

// WalletLoginRequest is a signed login challenge.
type WalletLoginRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required"`
	Signature     string `json:"signature" binding:"required"`
}
