package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/unitflow/unitflow/internal/jobs"
	"github.com/unitflow/unitflow/internal/shared"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// ReportWarmer builds and caches dashboard reports for the given ranges.
type ReportWarmer interface {
	Warm(ctx context.Context, keys ...shared.RangeKey) error
}

// DashboardWarmupJob pre-populates the dashboard cache for each range.
type DashboardWarmupJob struct {
	Dashboard ReportWarmer
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
}

// NewDashboardWarmupJob wires dependencies for the warmup handler.
func NewDashboardWarmupJob(reports ReportWarmer, logger *slog.Logger, metrics *jobmetrics.Metrics) *DashboardWarmupJob {
	return &DashboardWarmupJob{Dashboard: reports, Logger: logger, Metrics: metrics}
}

// Handle processes dashboard warmup tasks.
func (j *DashboardWarmupJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Dashboard == nil {
		return errors.New("dashboard warmup: handler not configured")
	}
	var payload DashboardWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	keys := shared.RangeKeys
	if len(payload.Ranges) > 0 {
		keys = make([]shared.RangeKey, 0, len(payload.Ranges))
		for _, raw := range payload.Ranges {
			key, err := shared.ParseRangeKey(raw)
			if err != nil {
				return errors.Join(err, asynq.SkipRetry)
			}
			keys = append(keys, key)
		}
	}

	tracker := metricsOrDefault(j.Metrics).Track(TaskDashboardWarmup)
	defer func() { resultErr = tracker.End(resultErr) }()

	logger := jobLogger(j.Logger, TaskDashboardWarmup)
	start := time.Now()
	if err := j.Dashboard.Warm(ctx, keys...); err != nil {
		logger.Error("dashboard warmup failed", slog.Any("error", err))
		return err
	}
	logger.Info("completed dashboard warmup", slog.Int("ranges", len(keys)), slog.Duration("duration", time.Since(start)))
	return nil
}

func jobLogger(logger *slog.Logger, job string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(slog.String("job", job))
}

func metricsOrDefault(m *jobmetrics.Metrics) *jobmetrics.Metrics {
	if m != nil {
		return m
	}
	return defaultJobMetrics
}
