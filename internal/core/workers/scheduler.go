package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const DefaultRolloverSpec = "0 0 * * *"

type UserLister interface {
	ListIDs(ctx context.Context) ([]string, error)
}

type Enqueuer interface {
	Enqueue(userID string)
}

// Scheduler re-enqueues every user when the calendar day changes, so streaks
// that broke overnight are reflected without waiting for the next save.
type Scheduler struct {
	cron  *cron.Cron
	users UserLister
	queue Enqueuer
	log   logrus.FieldLogger
}

func NewScheduler(spec string, loc *time.Location, users UserLister, queue Enqueuer, log logrus.FieldLogger) (*Scheduler, error) {
	if spec == "" {
		spec = DefaultRolloverSpec
	}
	if loc == nil {
		loc = time.UTC
	}

	s := &Scheduler{
		cron:  cron.New(cron.WithLocation(loc)),
		users: users,
		queue: queue,
		log:   log,
	}

	if _, err := s.cron.AddFunc(spec, func() { s.Rollover(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid rollover schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Rollover scheduler started")
}

// Stop waits for a running rollover to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// Rollover enqueues a stats recomputation for every registered user.
func (s *Scheduler) Rollover(ctx context.Context) int {
	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		s.log.WithError(err).Error("Rollover failed to list users")
		return 0
	}

	for _, id := range ids {
		s.queue.Enqueue(id)
	}
	s.log.WithField("users", len(ids)).Info("Day rollover enqueued")
	return len(ids)
}
