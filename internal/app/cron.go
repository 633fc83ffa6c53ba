package app

import (
	"context"

	"github.com/jbest-eyes/core/internal/config"
	"github.com/jbest-eyes/core/internal/modules/content/category"
	pkgcron "github.com/jbest-eyes/core/internal/pkg/cron"
	"go.uber.org/zap"
)

// registerCronJobs registers the configured background jobs and returns how
// many were registered.
func registerCronJobs(sched *pkgcron.Scheduler, categories *category.Service, cfg *config.AppConfig, logger *zap.Logger) int {
	interval := cfg.Counters.ReconcileInterval
	if interval <= 0 {
		return 0
	}
	cronLogger := logger.Named("CronService")

	sched.Register(pkgcron.Job{
		Name:        "reconcile_post_counts",
		Description: "Recount category post totals from the posts collection",
		Interval:    interval,
		RunOnStart:  true,
		Fn: func(ctx context.Context) error {
			if err := categories.RecountPostCounts(ctx); err != nil {
				return err
			}
			cronLogger.Info("category post counts reconciled")
			return nil
		},
	})
	return 1
}
