package jobs

import (
	"context"

	"github.com/billix/billix-be/logging"
	"github.com/billix/billix-be/model"
	"github.com/sirupsen/logrus"
)

const (
	RefreshGroupTreeJob   = "refresh-group-tree"
	ExpireReliefJob       = "expire-relief-requests"
	CancelStaleSwapsJob   = "cancel-stale-swaps"
	RateLimiterCleanupJob = "rate-limiter-cleanup"
	DrawGiveawayJob       = "draw-giveaway"
)

type TreeRefresher interface {
	RefreshTree(ctx context.Context) error
}

type ReliefExpirer interface {
	ExpireRequests(ctx context.Context) (int64, error)
}

type StaleSwapCanceller interface {
	CancelStale(ctx context.Context) (int64, error)
}

type GiveawayDrawer interface {
	DrawGiveaway(ctx context.Context) (*model.GiveawayDraw, error)
}

type LimiterCleaner interface {
	Cleanup() int
}

func RefreshGroupTree(spec string, groups TreeRefresher) Job {
	return Job{
		Name: RefreshGroupTreeJob,
		Spec: spec,
		Run:  groups.RefreshTree,
	}
}

func ExpireReliefRequests(spec string, relief ReliefExpirer) Job {
	return Job{
		Name: ExpireReliefJob,
		Spec: spec,
		Run: func(ctx context.Context) error {
			expired, err := relief.ExpireRequests(ctx)
			if err != nil {
				return err
			}
			if expired > 0 {
				logging.Component("scheduler").WithField("count", expired).Info("expired relief requests")
			}
			return nil
		},
	}
}

func CancelStaleSwaps(spec string, swaps StaleSwapCanceller) Job {
	return Job{
		Name: CancelStaleSwapsJob,
		Spec: spec,
		Run: func(ctx context.Context) error {
			cancelled, err := swaps.CancelStale(ctx)
			if err != nil {
				return err
			}
			if cancelled > 0 {
				logging.Component("scheduler").WithField("count", cancelled).Info("cancelled swaps past their deadline")
			}
			return nil
		},
	}
}

// DrawGiveaway runs more often than weekly so a missed tick is caught up.
// Weeks already drawn are skipped.
func DrawGiveaway(spec string, giveaways GiveawayDrawer) Job {
	return Job{
		Name: DrawGiveawayJob,
		Spec: spec,
		Run: func(ctx context.Context) error {
			draw, err := giveaways.DrawGiveaway(ctx)
			if err != nil {
				return err
			}
			if draw != nil {
				logging.Component("scheduler").WithFields(logrus.Fields{
					"week":    draw.Week,
					"winner":  draw.WinnerId,
					"entries": draw.Entries,
				}).Info("drew weekly giveaway")
			}
			return nil
		},
	}
}

func CleanupRateLimiter(spec string, limiter LimiterCleaner) Job {
	return Job{
		Name: RateLimiterCleanupJob,
		Spec: spec,
		Run: func(ctx context.Context) error {
			limiter.Cleanup()
			return nil
		},
	}
}
