package workers

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/dominos-engine/internal/core/domain"
)

const defaultQueueSize = 100

type LifetimeCalculator interface {
	Lifetime(ctx context.Context, userID string) domain.LifetimeSummary
}

// StatsRecorder receives freshly computed lifetime statistics, e.g. to export them
// as gauges.
type StatsRecorder interface {
	RecordLifetime(userID string, summary domain.LifetimeSummary)
}

type StatsJob struct {
	UserID string
}

// StatsWorker recomputes lifetime statistics in the background after saves and
// at day rollover.
type StatsWorker struct {
	stats    LifetimeCalculator
	recorder StatsRecorder
	jobs     chan StatsJob
	log      logrus.FieldLogger

	wg sync.WaitGroup
}

func NewStatsWorker(stats LifetimeCalculator, recorder StatsRecorder, queueSize int, log logrus.FieldLogger) *StatsWorker {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &StatsWorker{
		stats:    stats,
		recorder: recorder,
		jobs:     make(chan StatsJob, queueSize),
		log:      log,
	}
}

func (w *StatsWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.log.Info("Stats worker started in background")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				w.log.Info("Stats worker shutting down")
				return
			}
		}
	}()
}

// Wait blocks until the worker goroutine has exited after its context was cancelled.
func (w *StatsWorker) Wait() {
	w.wg.Wait()
}

// Enqueue never blocks. When the queue is full the job is dropped.
func (w *StatsWorker) Enqueue(userID string) {
	select {
	case w.jobs <- StatsJob{UserID: userID}:
	default:
		w.log.WithField("user_id", userID).Warn("Stats worker queue full, dropping job")
	}
}

func (w *StatsWorker) processJob(ctx context.Context, job StatsJob) {
	summary := w.stats.Lifetime(ctx, job.UserID)
	w.recorder.RecordLifetime(job.UserID, summary)

	w.log.WithFields(logrus.Fields{
		"user_id":        job.UserID,
		"current_streak": summary.CurrentStreak,
		"total_dominos":  summary.TotalDominos,
		"best_week":      summary.BestWeek,
	}).Debug("Stats recomputed")
}
