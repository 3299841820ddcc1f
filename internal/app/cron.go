package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/inkstone-app/inkstone/internal/modules/document"
	pkgcron "github.com/inkstone-app/inkstone/internal/pkg/cron"
)

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, docSvc *document.Service, logger *zap.Logger) {
	cronLogger := logger.Named("cron")

	sched.Register(pkgcron.Job{
		Name:        "archive_due_documents",
		Description: "archive documents whose archive_at time has passed",
		Interval:    time.Minute,
		Fn: func(ctx context.Context) error {
			n, err := docSvc.ArchiveDue(ctx, time.Now())
			if err != nil {
				cronLogger.Warn("archive sweep failed", zap.Error(err))
				return err
			}
			if n > 0 {
				cronLogger.Info(fmt.Sprintf("archived %d due documents", n))
			}
			return nil
		},
	})
}
