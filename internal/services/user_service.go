package services

import (
	"context"
	"strings"

	"rugfork/internal/apperr"
	"rugfork/internal/models"
	"rugfork/internal/ranking"
	"rugfork/internal/repository"
)

// UserService handles profiles and per-user statistics
type UserService struct {
	repo *repository.Repository
}

func NewUserService(repo *repository.Repository) *UserService {
	return &UserService{repo: repo}
}

// Profile is a user with derived ratios.
type Profile struct {
	*models.User
	WinRate   int   `json:"win_rate"`
	NetProfit int64 `json:"net_profit"`
}

func newProfile(u *models.User) *Profile {
	return &Profile{
		User:      u,
		WinRate:   ranking.WinRate(u.TotalWinnings, u.TotalLosses),
		NetProfit: ranking.NetProfit(u.TotalWinnings, u.TotalLosses),
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return newProfile(u), nil
}

// UpdateProfile changes username, email or avatar. Taken usernames are a Conflict.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req *models.UpdateProfileRequest) (*Profile, error) {
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Username != nil {
		name := strings.TrimSpace(*req.Username)
		if name == "" {
			return nil, apperr.InvalidInputf("username cannot be empty")
		}
		taken, err := s.repo.UsernameTaken(ctx, name, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflictf("username already taken")
		}
		fields["username"] = name
	}
	if req.Email != nil {
		if email := strings.TrimSpace(*req.Email); email != "" {
			fields["email"] = email
		} else {
			fields["email"] = nil
		}
	}
	if req.Avatar != nil {
		fields["avatar"] = strings.TrimSpace(*req.Avatar)
	}

	if err := s.repo.UpdateUserFields(ctx, userID, fields); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Conflictf("username or email already in use")
		}
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

// UserStats summarises a user's betting record.
type UserStats struct {
	TotalBets     int64   `json:"total_bets"`
	TotalVolume   int64   `json:"total_volume"`
	TotalWinnings int64   `json:"total_winnings"`
	TotalLosses   int64   `json:"total_losses"`
	NetProfit     int64   `json:"net_profit"`
	WinRate       int     `json:"win_rate"`
	ActiveBets    int64   `json:"active_bets"`
	SettledBets   int64   `json:"settled_bets"`
	WonBets       int64   `json:"won_bets"`
	AvgMultiplier float64 `json:"avg_multiplier"`
	TotalXP       int64   `json:"total_xp"`
	Level         int     `json:"level"`
}

func (s *UserService) GetStats(ctx context.Context, userID uint) (*UserStats, error) {
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	agg, err := s.repo.AggregateBets(ctx, repository.BetQuery{UserID: &userID})
	if err != nil {
		return nil, err
	}
	return &UserStats{
		TotalBets:     u.TotalBets,
		TotalVolume:   agg.Volume,
		TotalWinnings: u.TotalWinnings,
		TotalLosses:   u.TotalLosses,
		NetProfit:     ranking.NetProfit(u.TotalWinnings, u.TotalLosses),
		WinRate:       ranking.WinRate(u.TotalWinnings, u.TotalLosses),
		ActiveBets:    agg.Count - agg.Settled,
		SettledBets:   agg.Settled,
		WonBets:       agg.Won,
		AvgMultiplier: roundTo(agg.AvgMultiplier, 2),
		TotalXP:       u.TotalXP,
		Level:         u.Level,
	}, nil
}
