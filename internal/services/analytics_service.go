package services

import (
	"context"

	"rugfork/internal/models"
	"rugfork/internal/ranking"
	"rugfork/internal/repository"
	"rugfork/internal/rugscore"
	"rugfork/internal/utils"
)

const topPoolsLimit = 10

// AnalyticsService computes platform, market, pool and user analytics.
type AnalyticsService struct {
	repo  *repository.Repository
	clock clock
}

func NewAnalyticsService(repo *repository.Repository) *AnalyticsService {
	return &AnalyticsService{repo: repo}
}

// PlatformStats are all-time platform totals.
type PlatformStats struct {
	TotalPools      int64   `json:"total_pools"`
	ActivePools     int64   `json:"active_pools"`
	TotalBets       int64   `json:"total_bets"`
	TotalVolume     int64   `json:"total_volume"`
	TotalVolumeSOL  string  `json:"total_volume_sol"`
	TotalUsers      int64   `json:"total_users"`
	AverageRugScore float64 `json:"average_rug_score"`
}

func (s *AnalyticsService) PlatformStats(ctx context.Context) (*PlatformStats, error) {
	all, err := s.repo.AggregatePools(ctx, repository.PoolFilter{})
	if err != nil {
		return nil, err
	}
	active, err := s.repo.AggregatePools(ctx, repository.PoolFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	bets, err := s.repo.AggregateBets(ctx, repository.BetQuery{})
	if err != nil {
		return nil, err
	}
	users, err := s.repo.CountUsers(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &PlatformStats{
		TotalPools:      all.Count,
		ActivePools:     active.Count,
		TotalBets:       bets.Count,
		TotalVolume:     bets.Volume,
		TotalVolumeSOL:  utils.FormatSOL(bets.Volume),
		TotalUsers:      users,
		AverageRugScore: roundTo(all.AvgRugScore, 2),
	}, nil
}

// PoolAnalytics covers one pool's betting inside a window.
type PoolAnalytics struct {
	Pool          *models.Pool   `json:"pool"`
	Period        ranking.Window `json:"period"`
	Bets          int64          `json:"bets"`
	Volume        int64          `json:"volume"`
	VolumeSOL     string         `json:"volume_sol"`
	UniqueBettors int64          `json:"unique_bettors"`
	AvgMultiplier float64        `json:"avg_multiplier"`
	Settled       int64          `json:"settled"`
	WinningBets   int64          `json:"winning_bets"`
	PaidOut       int64          `json:"paid_out"`
	HouseProfit   int64          `json:"house_profit"`
}

func (s *AnalyticsService) PoolAnalytics(ctx context.Context, rawID, rawPeriod string) (*PoolAnalytics, error) {
	poolID, err := parseID(rawID, "pool")
	if err != nil {
		return nil, err
	}
	window, err := ranking.ParseWindow(rawPeriod, ranking.WindowDay)
	if err != nil {
		return nil, err
	}
	pool, err := s.repo.GetPoolByID(ctx, poolID)
	if err != nil {
		return nil, err
	}
	agg, err := s.repo.AggregateBets(ctx, repository.BetQuery{PoolID: &poolID, Since: window.Since(s.clock.now())})
	if err != nil {
		return nil, err
	}
	return &PoolAnalytics{
		Pool:          pool,
		Period:        window,
		Bets:          agg.Count,
		Volume:        agg.Volume,
		VolumeSOL:     utils.FormatSOL(agg.Volume),
		UniqueBettors: agg.UniqueUsers,
		AvgMultiplier: roundTo(agg.AvgMultiplier, 2),
		Settled:       agg.Settled,
		WinningBets:   agg.Won,
		PaidOut:       agg.Winnings,
		HouseProfit:   agg.Losses - agg.Winnings,
	}, nil
}

// RiskTolerance buckets a user's average multiplier.
type RiskTolerance string

const (
	ToleranceLow    RiskTolerance = "LOW"
	ToleranceMedium RiskTolerance = "MEDIUM"
	ToleranceHigh   RiskTolerance = "HIGH"
)

func ToleranceFor(avgMultiplier float64) RiskTolerance {
	switch {
	case avgMultiplier <= 3:
		return ToleranceLow
	case avgMultiplier <= 10:
		return ToleranceMedium
	default:
		return ToleranceHigh
	}
}

// UserAnalytics covers one user's betting inside a window.
type UserAnalytics struct {
	User               models.UserSummary `json:"user"`
	Period             ranking.Window     `json:"period"`
	Bets               int64              `json:"bets"`
	Volume             int64              `json:"volume"`
	Winnings           int64              `json:"winnings"`
	Losses             int64              `json:"losses"`
	NetProfit          int64              `json:"net_profit"`
	WinRate            int                `json:"win_rate"`
	AvgMultiplier      float64            `json:"avg_multiplier"`
	FavoriteMultiplier *int64             `json:"favorite_multiplier,omitempty"`
	RiskTolerance      RiskTolerance      `json:"risk_tolerance"`
	Level              int                `json:"level"`
	TotalXP            int64              `json:"total_xp"`
}

func (s *AnalyticsService) UserAnalytics(ctx context.Context, userID uint, rawPeriod string) (*UserAnalytics, error) {
	window, err := ranking.ParseWindow(rawPeriod, ranking.WindowMonth)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	q := repository.BetQuery{UserID: &userID, Since: window.Since(s.clock.now())}
	agg, err := s.repo.AggregateBets(ctx, q)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.MultiplierCounts(ctx, q)
	if err != nil {
		return nil, err
	}

	out := &UserAnalytics{
		User:          u.Summary(),
		Period:        window,
		Bets:          agg.Count,
		Volume:        agg.Volume,
		Winnings:      agg.Winnings,
		Losses:        agg.Losses,
		NetProfit:     ranking.NetProfit(agg.Winnings, agg.Losses),
		WinRate:       ranking.WinRate(agg.Winnings, agg.Losses),
		AvgMultiplier: roundTo(agg.AvgMultiplier, 2),
		RiskTolerance: ToleranceFor(agg.AvgMultiplier),
		Level:         u.Level,
		TotalXP:       u.TotalXP,
	}
	if len(counts) > 0 {
		fav := counts[0].Multiplier
		out.FavoriteMultiplier = &fav
	}
	return out, nil
}

// RiskBands counts pools per risk level.
type RiskBands map[rugscore.RiskLevel]int64

// MarketAnalytics summarises the whole market inside a window.
type MarketAnalytics struct {
	Period           ranking.Window          `json:"period"`
	PoolsCreated     int64                   `json:"pools_created"`
	Bets             int64                   `json:"bets"`
	Volume           int64                   `json:"volume"`
	VolumeSOL        string                  `json:"volume_sol"`
	ActiveUsers      int64                   `json:"active_users"`
	AverageRugScore  float64                 `json:"average_rug_score"`
	TopPools         []*models.Pool          `json:"top_pools"`
	RiskDistribution []repository.ScoreCount `json:"risk_distribution"`
	RiskBands        RiskBands               `json:"risk_bands"`
}

func (s *AnalyticsService) MarketAnalytics(ctx context.Context, rawPeriod string) (*MarketAnalytics, error) {
	window, err := ranking.ParseWindow(rawPeriod, ranking.WindowDay)
	if err != nil {
		return nil, err
	}
	since := window.Since(s.clock.now())
	pf := repository.PoolFilter{Since: since}

	pools, err := s.repo.AggregatePools(ctx, pf)
	if err != nil {
		return nil, err
	}
	bets, err := s.repo.AggregateBets(ctx, repository.BetQuery{Since: since})
	if err != nil {
		return nil, err
	}
	top, err := s.repo.TopPoolsByVolume(ctx, pf, topPoolsLimit)
	if err != nil {
		return nil, err
	}
	dist, err := s.repo.RugScoreDistribution(ctx, pf)
	if err != nil {
		return nil, err
	}

	bands := RiskBands{}
	for _, row := range dist {
		bands[rugscore.LevelFor(row.RugScore)] += row.Count
	}

	return &MarketAnalytics{
		Period:           window,
		PoolsCreated:     pools.Count,
		Bets:             bets.Count,
		Volume:           bets.Volume,
		VolumeSOL:        utils.FormatSOL(bets.Volume),
		ActiveUsers:      bets.UniqueUsers,
		AverageRugScore:  roundTo(pools.AvgRugScore, 2),
		TopPools:         top,
		RiskDistribution: dist,
		RiskBands:        bands,
	}, nil
}

// Bucket is the bet count and volume in one time slot.
type Bucket struct {
	Bets   int64 `json:"bets"`
	Volume int64 `json:"volume"`
}

// TradingPatterns shows when bets are placed, in UTC.
type TradingPatterns struct {
	Period    ranking.Window `json:"period"`
	Hourly    [24]Bucket     `json:"hourly"`
	Weekday   [7]Bucket      `json:"weekday"`
	PeakHour  int            `json:"peak_hour"`
	PeakDay   int            `json:"peak_day"`
	TotalBets int64          `json:"total_bets"`
}

// bucketPatterns groups bets by hour of day and day of week (Sunday = 0).
func bucketPatterns(points []repository.BetPoint) TradingPatterns {
	var p TradingPatterns
	for _, pt := range points {
		t := pt.CreatedAt.UTC()
		p.Hourly[t.Hour()].Bets++
		p.Hourly[t.Hour()].Volume += pt.Amount
		p.Weekday[int(t.Weekday())].Bets++
		p.Weekday[int(t.Weekday())].Volume += pt.Amount
		p.TotalBets++
	}
	for h := range p.Hourly {
		if p.Hourly[h].Bets > p.Hourly[p.PeakHour].Bets {
			p.PeakHour = h
		}
	}
	for d := range p.Weekday {
		if p.Weekday[d].Bets > p.Weekday[p.PeakDay].Bets {
			p.PeakDay = d
		}
	}
	return p
}

func (s *AnalyticsService) TradingPatterns(ctx context.Context, rawPeriod string) (*TradingPatterns, error) {
	window, err := ranking.ParseWindow(rawPeriod, ranking.WindowWeek)
	if err != nil {
		return nil, err
	}
	points, err := s.repo.BetPoints(ctx, repository.BetQuery{Since: window.Since(s.clock.now())})
	if err != nil {
		return nil, err
	}
	p := bucketPatterns(points)
	p.Period = window
	return &p, nil
}
