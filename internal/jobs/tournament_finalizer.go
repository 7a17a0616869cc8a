package jobs

import (
	"context"

	"github.com/sirupsen/logrus"
)

type endedFinalizer interface {
	FinalizeEnded(ctx context.Context) (int, error)
}

// TournamentFinalizer closes tournaments whose end time has passed.
type TournamentFinalizer struct {
	tournaments endedFinalizer
	log         *logrus.Entry
}

func NewTournamentFinalizer(tournaments endedFinalizer) *TournamentFinalizer {
	return &TournamentFinalizer{
		tournaments: tournaments,
		log:         logrus.WithField("component", "tournament-finalizer"),
	}
}

func (f *TournamentFinalizer) Name() string { return "tournament-finalize" }

func (f *TournamentFinalizer) Run(ctx context.Context) error {
	n, err := f.tournaments.FinalizeEnded(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		f.log.WithField("finalized", n).Info("Tournaments finalized")
	}
	return nil
}
