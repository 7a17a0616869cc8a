package jobs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type staleRefresher interface {
	RefreshStale(ctx context.Context, maxAge time.Duration, limit int) (int, error)
}

// RugScoreRefresher rescores active pools whose stored score has aged out.
type RugScoreRefresher struct {
	scores staleRefresher
	maxAge time.Duration
	batch  int
	log    *logrus.Entry
}

func NewRugScoreRefresher(scores staleRefresher, maxAge time.Duration, batch int) *RugScoreRefresher {
	if batch <= 0 {
		batch = 50
	}
	return &RugScoreRefresher{
		scores: scores,
		maxAge: maxAge,
		batch:  batch,
		log:    logrus.WithField("component", "rugscore-refresher"),
	}
}

func (r *RugScoreRefresher) Name() string { return "rugscore-refresh" }

func (r *RugScoreRefresher) Run(ctx context.Context) error {
	n, err := r.scores.RefreshStale(ctx, r.maxAge, r.batch)
	if err != nil {
		return err
	}
	if n > 0 {
		r.log.WithField("refreshed", n).Info("Rug scores refreshed")
	}
	return nil
}
