package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/merenda-app/merenda/internal/jobs"
	"github.com/merenda-app/merenda/internal/reports"
)

// ReportWarmer is the slice of the report service the warmup uses.
type ReportWarmer interface {
	Monthly(ctx context.Context, year int, month time.Month, menuTypeID *int64) (reports.MonthlyReport, error)
	Annual(ctx context.Context, year int, menuTypeID *int64) (reports.AnnualReport, error)
}

// ReportsWarmupDeps collects what the warmup task needs.
type ReportsWarmupDeps struct {
	Service ReportWarmer
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewReportsWarmupHandler returns the asynq handler for TaskReportsWarmup.
// It touches the month and year reports so the first viewer of the day hits
// a warm cache.
func NewReportsWarmupHandler(deps ReportsWarmupDeps) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		tracker := deps.Metrics.Track(TaskReportsWarmup)
		var payload ReportsWarmupPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return tracker.End(asynq.SkipRetry)
		}

		now := time.Now().UTC()
		year := payload.Year
		if year == 0 {
			year = now.Year()
		}
		month := time.Month(payload.Month)
		if month < time.January || month > time.December {
			month = now.Month()
		}

		if _, err := deps.Service.Monthly(ctx, year, month, nil); err != nil {
			return tracker.End(err)
		}
		if _, err := deps.Service.Annual(ctx, year, nil); err != nil {
			return tracker.End(err)
		}
		deps.Logger.Info("report cache warmed",
			slog.Int("year", year), slog.Int("month", int(month)))
		return tracker.End(nil)
	}
}
