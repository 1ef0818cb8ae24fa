// Package tasks runs the background maintenance loops.
package tasks

import (
	"context"
	"log/slog"
	"time"

	"talkx/internal/observability"

	"gorm.io/gorm"
)

// Reconciler periodically recomputes the denormalized counters from the edge
// tables. The write path keeps counters consistent transactionally; this
// sweep repairs any drift left by crashes or manual data surgery.
type Reconciler struct {
	db       *gorm.DB
	interval time.Duration
}

func NewReconciler(db *gorm.DB, interval time.Duration) *Reconciler {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Reconciler{db: db, interval: interval}
}

// Start runs the reconciliation loop until ctx is cancelled.
func (r *Reconciler) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("counter reconciler stopped")
			return
		case <-ticker.C:
			if err := r.RunOnce(ctx); err != nil {
				slog.Error("counter reconciliation failed", "error", err)
			}
		}
	}
}

// RunOnce performs a single reconciliation sweep over both counters.
func (r *Reconciler) RunOnce(ctx context.Context) error {
	repaired, err := r.reconcileTweetCounts(ctx)
	if err != nil {
		return err
	}
	if repaired > 0 {
		observability.CounterRepairs.WithLabelValues("tweet_count").Add(float64(repaired))
		slog.Warn("repaired drifted tweet counts", "rows", repaired)
	}

	repaired, err = r.reconcileLikeCounts(ctx)
	if err != nil {
		return err
	}
	if repaired > 0 {
		observability.CounterRepairs.WithLabelValues("like_count").Add(float64(repaired))
		slog.Warn("repaired drifted like counts", "rows", repaired)
	}
	return nil
}

func (r *Reconciler) reconcileTweetCounts(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE users
		SET tweet_count = (SELECT COUNT(*) FROM tweets WHERE tweets.author_id = users.id)
		WHERE tweet_count <> (SELECT COUNT(*) FROM tweets WHERE tweets.author_id = users.id)`)
	return res.RowsAffected, res.Error
}

func (r *Reconciler) reconcileLikeCounts(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE tweets
		SET like_count = (SELECT COUNT(*) FROM likes WHERE likes.tweet_id = tweets.id)
		WHERE like_count <> (SELECT COUNT(*) FROM likes WHERE likes.tweet_id = tweets.id)`)
	return res.RowsAffected, res.Error
}
