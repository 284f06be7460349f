package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"eagle/internal/metrics"
	"eagle/internal/repository"
)

// Reconciler periodically repairs article comment references in the background.
type Reconciler struct {
	repo     repository.ReconcileRepository
	interval time.Duration
	log      zerolog.Logger
}

// NewReconciler creates a Reconciler. A non-positive interval disables the ticker loop.
func NewReconciler(repo repository.ReconcileRepository, interval time.Duration, log zerolog.Logger) *Reconciler {
	return &Reconciler{
		repo:     repo,
		interval: interval,
		log:      log.With().Str("component", "reconciler").Logger(),
	}
}

// Run sweeps once per interval until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	if r.interval <= 0 {
		r.log.Info().Msg("reconciler disabled")
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil && ctx.Err() == nil {
				r.log.Error().Err(err).Msg("reconcile sweep failed")
			}
		case <-ctx.Done():
			return
		}
	}
}

// RunOnce performs a single sweep and logs its report.
func (r *Reconciler) RunOnce(ctx context.Context) (repository.ReconcileReport, error) {
	start := time.Now()
	report, err := r.repo.Reconcile(ctx)
	metrics.RecordReconcile(report.RefsPruned, report.RefsAdded, int(report.OrphansDeleted))
	if err != nil {
		return report, err
	}

	event := r.log.Debug()
	if report.ArticlesRepaired > 0 || report.OrphansDeleted > 0 {
		event = r.log.Info()
	}
	event.
		Int("articles_scanned", report.ArticlesScanned).
		Int("articles_repaired", report.ArticlesRepaired).
		Int("refs_pruned", report.RefsPruned).
		Int("refs_added", report.RefsAdded).
		Int64("orphans_deleted", report.OrphansDeleted).
		Dur("took", time.Since(start)).
		Msg("reconcile sweep finished")
	return report, nil
}
