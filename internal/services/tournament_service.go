package services

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"rugfork/internal/apperr"
	"rugfork/internal/events"
	"rugfork/internal/models"
	"rugfork/internal/ranking"
	"rugfork/internal/repository"
)

const (
	entryFeeDivisor = 100
	maxDuration     = 30 * 24 * time.Hour
)

// prize split for first, second and third place, in percent
var prizeShares = []int64{50, 30, 20}

// TournamentService runs Rug Royale tournaments.
type TournamentService struct {
	repo   *repository.Repository
	bus    *events.Bus
	admins AdminChecker
	clock  clock
	log    *logrus.Entry
}

func NewTournamentService(repo *repository.Repository, bus *events.Bus, admins AdminChecker) *TournamentService {
	if admins == nil {
		admins = noAdmins{}
	}
	return &TournamentService{
		repo:   repo,
		bus:    bus,
		admins: admins,
		log:    logrus.WithField("component", "tournaments"),
	}
}

func (s *TournamentService) Create(ctx context.Context, creatorID uint, req *models.CreateTournamentRequest) (*models.Tournament, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.InvalidInputf("tournament name is required")
	}
	if req.PrizePool <= 0 {
		return nil, apperr.InvalidInputf("prize pool must be positive")
	}
	duration := time.Duration(req.DurationSeconds) * time.Second
	if req.DurationSeconds <= 0 || duration > maxDuration {
		return nil, apperr.InvalidInputf("duration must be between 1 second and %s", maxDuration)
	}

	now := s.clock.now()
	t := &models.Tournament{
		Name:      name,
		CreatorID: creatorID,
		PrizePool: req.PrizePool,
		EntryFee:  req.PrizePool / entryFeeDivisor,
		StartTime: now,
		EndTime:   now.Add(duration),
		IsActive:  true,
	}
	if err := s.repo.CreateTournament(ctx, t); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"tournament_id": t.ID, "prize_pool": t.PrizePool}).Info("Tournament created")
	return t, nil
}

func (s *TournamentService) Get(ctx context.Context, rawID string) (*models.Tournament, error) {
	id, err := parseID(rawID, "tournament")
	if err != nil {
		return nil, err
	}
	return s.repo.GetTournament(ctx, id)
}

// TournamentPage is one page of a tournament listing.
type TournamentPage struct {
	Tournaments []*models.Tournament `json:"tournaments"`
	Total       int64                `json:"total"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
}

func (s *TournamentService) List(ctx context.Context, activeOnly bool, page, limit int) (*TournamentPage, error) {
	limit, offset := repository.Page(page, limit, 50)
	ts, total, err := s.repo.ListTournaments(ctx, activeOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	return &TournamentPage{Tournaments: ts, Total: total, Page: offset/limit + 1, Limit: limit}, nil
}

// Join enrolls a user in an open tournament, once.
func (s *TournamentService) Join(ctx context.Context, userID uint, rawID string) (*models.TournamentParticipant, error) {
	t, err := s.Get(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if !t.IsActive || !s.clock.now().Before(t.EndTime) {
		return nil, apperr.InvalidStatef("tournament is not open")
	}

	p := &models.TournamentParticipant{TournamentID: t.ID, UserID: userID, JoinedAt: s.clock.now()}
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		return tx.AddParticipant(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Standings are the final ranks of a tournament.
type Standings struct {
	Tournament   *models.Tournament              `json:"tournament"`
	TotalPrize   int64                           `json:"total_prize"`
	Participants []*models.TournamentParticipant `json:"participants"`
}

// Finalize closes an ended tournament, ranks participants by net profit over
// the tournament window and splits the prize 50/30/20. A nil actor is the
// scheduler.
func (s *TournamentService) Finalize(ctx context.Context, actor *Actor, rawID string) (*Standings, error) {
	t, err := s.Get(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if actor != nil && !canManage(s.admins, *actor, t.CreatorID) {
		return nil, apperr.Forbiddenf("only the tournament creator can finalize it")
	}
	now := s.clock.now()
	if now.Before(t.EndTime) {
		return nil, apperr.InvalidStatef("tournament has not ended")
	}

	var standings *Standings
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.CloseTournament(ctx, t.ID, now); err != nil {
			return err
		}
		standings, err = s.rank(ctx, tx, t)
		return err
	})
	if err != nil {
		return nil, err
	}

	t.IsActive = false
	t.FinalizedAt = &now
	s.bus.Publish(ctx, events.TournamentFinalized, standings)
	s.log.WithFields(logrus.Fields{
		"tournament_id": t.ID,
		"participants":  len(standings.Participants),
		"total_prize":   standings.TotalPrize,
	}).Info("Tournament finalized")
	return standings, nil
}

func (s *TournamentService) rank(ctx context.Context, tx *repository.Repository, t *models.Tournament) (*Standings, error) {
	participants, err := tx.Participants(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(participants))
	for _, p := range participants {
		ids = append(ids, p.UserID)
	}
	start, end := t.StartTime, t.EndTime
	profits, err := tx.NetProfitByUser(ctx, repository.BetQuery{SettledSince: &start, SettledUntil: &end}, ids)
	if err != nil {
		return nil, err
	}

	byUser := make(map[uint]*models.TournamentParticipant, len(participants))
	entries := make([]ranking.Entry, 0, len(participants))
	for _, p := range participants {
		byUser[p.UserID] = p
		entries = append(entries, ranking.Entry{ID: p.UserID, Value: profits[p.UserID]})
	}

	total := t.PrizePool + t.EntryFee*int64(len(participants))
	ordered := ranking.Order(entries)
	out := &Standings{Tournament: t, TotalPrize: total}
	for i, e := range ordered {
		p := byUser[e.ID]
		rank := e.Rank
		p.Rank = &rank
		p.NetProfit = e.Value
		if i < len(prizeShares) {
			p.PrizeAmount = total * prizeShares[i] / 100
		}
		if err := tx.SaveStanding(ctx, p); err != nil {
			return nil, err
		}
		out.Participants = append(out.Participants, p)
	}
	return out, nil
}

// FinalizeEnded finalizes every tournament whose end has passed.
func (s *TournamentService) FinalizeEnded(ctx context.Context) (int, error) {
	ended, err := s.repo.EndedTournaments(ctx, s.clock.now())
	if err != nil {
		return 0, err
	}
	done := 0
	for _, t := range ended {
		if _, err := s.Finalize(ctx, nil, t.ID.String()); err != nil {
			if apperr.Is(err, apperr.Conflict) {
				continue
			}
			s.log.WithError(err).WithField("tournament_id", t.ID).Error("failed to finalize tournament")
			continue
		}
		done++
	}
	return done, nil
}
