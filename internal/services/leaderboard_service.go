package services

import (
	"context"

	"rugfork/internal/models"
	"rugfork/internal/ranking"
	"rugfork/internal/repository"
)

var boardColumn = map[ranking.Board]string{
	ranking.TopTraders: "total_bets",
	ranking.TopWinners: "total_winnings",
	ranking.TopXP:      "total_xp",
}

// LeaderboardService ranks users by activity, winnings, volume or XP.
type LeaderboardService struct {
	repo  *repository.Repository
	clock clock
}

func NewLeaderboardService(repo *repository.Repository) *LeaderboardService {
	return &LeaderboardService{repo: repo}
}

// LeaderboardEntry is one ranked user.
type LeaderboardEntry struct {
	Rank          int                `json:"rank"`
	User          models.UserSummary `json:"user"`
	Value         int64              `json:"value"`
	TotalBets     int64              `json:"total_bets"`
	TotalWinnings int64              `json:"total_winnings"`
	TotalLosses   int64              `json:"total_losses"`
	TotalXP       int64              `json:"total_xp"`
	WinRate       int                `json:"win_rate"`
	NetProfit     int64              `json:"net_profit"`
}

// Leaderboard is a ranked page for one board and window.
type Leaderboard struct {
	Type    ranking.Board      `json:"type"`
	Period  ranking.Window     `json:"period"`
	Entries []LeaderboardEntry `json:"entries"`
}

func entryFor(u *models.User, value int64, rank int) LeaderboardEntry {
	return LeaderboardEntry{
		Rank:          rank,
		User:          u.Summary(),
		Value:         value,
		TotalBets:     u.TotalBets,
		TotalWinnings: u.TotalWinnings,
		TotalLosses:   u.TotalLosses,
		TotalXP:       u.TotalXP,
		WinRate:       ranking.WinRate(u.TotalWinnings, u.TotalLosses),
		NetProfit:     ranking.NetProfit(u.TotalWinnings, u.TotalLosses),
	}
}

func counterValue(board ranking.Board, u *models.User) int64 {
	switch board {
	case ranking.TopWinners:
		return u.TotalWinnings
	case ranking.TopXP:
		return u.TotalXP
	default:
		return u.TotalBets
	}
}

// GetLeaderboard returns the top users. Users with equal values share a rank.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, rawType, rawPeriod string) (*Leaderboard, error) {
	board, err := ranking.ParseBoard(rawType)
	if err != nil {
		return nil, err
	}
	window, err := ranking.ParseWindow(rawPeriod, ranking.WindowAllTime)
	if err != nil {
		return nil, err
	}
	since := window.Since(s.clock.now())

	var (
		entries []ranking.Entry
		users   map[uint]*models.User
	)
	if board == ranking.TopVolume {
		rows, err := s.repo.VolumeByUser(ctx, repository.BetQuery{Since: since}, ranking.TopN)
		if err != nil {
			return nil, err
		}
		ids := make([]uint, 0, len(rows))
		for _, row := range rows {
			entries = append(entries, ranking.Entry{ID: row.UserID, Value: row.Value})
			ids = append(ids, row.UserID)
		}
		if users, err = s.repo.GetUsersByIDs(ctx, ids); err != nil {
			return nil, err
		}
	} else {
		top, err := s.repo.TopUsersBy(ctx, boardColumn[board], since, ranking.TopN)
		if err != nil {
			return nil, err
		}
		users = make(map[uint]*models.User, len(top))
		for _, u := range top {
			entries = append(entries, ranking.Entry{ID: u.ID, Value: counterValue(board, u)})
			users[u.ID] = u
		}
	}

	lb := &Leaderboard{Type: board, Period: window, Entries: make([]LeaderboardEntry, 0, len(entries))}
	for _, e := range ranking.Order(entries) {
		u, ok := users[e.ID]
		if !ok {
			continue
		}
		lb.Entries = append(lb.Entries, entryFor(u, e.Value, e.Rank))
	}
	return lb, nil
}

// GetUserRank places one user on a board: one plus the number of users
// strictly ahead of them.
func (s *LeaderboardService) GetUserRank(ctx context.Context, userID uint, rawType, rawPeriod string) (*LeaderboardEntry, error) {
	board, err := ranking.ParseBoard(rawType)
	if err != nil {
		return nil, err
	}
	window, err := ranking.ParseWindow(rawPeriod, ranking.WindowAllTime)
	if err != nil {
		return nil, err
	}
	since := window.Since(s.clock.now())

	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var value, ahead int64
	if board == ranking.TopVolume {
		agg, err := s.repo.AggregateBets(ctx, repository.BetQuery{UserID: &userID, Since: since})
		if err != nil {
			return nil, err
		}
		value = agg.Volume
		if ahead, err = s.repo.CountUsersWithVolumeAbove(ctx, repository.BetQuery{Since: since}, value); err != nil {
			return nil, err
		}
	} else {
		value = counterValue(board, u)
		if ahead, err = s.repo.CountUsersAbove(ctx, boardColumn[board], value, since); err != nil {
			return nil, err
		}
	}

	entry := entryFor(u, value, int(ahead)+1)
	return &entry, nil
}

// LeaderboardStats is the headline summary shown above the boards.
type LeaderboardStats struct {
	TotalUsers  int64               `json:"total_users"`
	TotalBets   int64               `json:"total_bets"`
	TotalVolume int64               `json:"total_volume"`
	TopTrader   *models.UserSummary `json:"top_trader,omitempty"`
	TopWinner   *models.UserSummary `json:"top_winner,omitempty"`
}

func (s *LeaderboardService) Stats(ctx context.Context) (*LeaderboardStats, error) {
	users, err := s.repo.CountUsers(ctx, nil)
	if err != nil {
		return nil, err
	}
	agg, err := s.repo.AggregateBets(ctx, repository.BetQuery{})
	if err != nil {
		return nil, err
	}
	stats := &LeaderboardStats{TotalUsers: users, TotalBets: agg.Count, TotalVolume: agg.Volume}

	if top, err := s.repo.TopUsersBy(ctx, "total_bets", nil, 1); err != nil {
		return nil, err
	} else if len(top) > 0 {
		sum := top[0].Summary()
		stats.TopTrader = &sum
	}
	if top, err := s.repo.TopUsersBy(ctx, "total_winnings", nil, 1); err != nil {
		return nil, err
	} else if len(top) > 0 {
		sum := top[0].Summary()
		stats.TopWinner = &sum
	}
	return stats, nil
}
