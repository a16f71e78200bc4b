package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/unitflow/unitflow/internal/inventory"
	jobmetrics "github.com/unitflow/unitflow/internal/jobs"
)

// DefaultStaleAfterDays matches the oldest dashboard aging bucket.
const DefaultStaleAfterDays = 90

// StaleFinder lists in-stock items held longer than days.
type StaleFinder interface {
	Stale(ctx context.Context, days int) ([]inventory.StaleItem, error)
}

// InventoryStaleScanJob logs slow-moving stock and publishes its count.
type InventoryStaleScanJob struct {
	Inventory      StaleFinder
	Logger         *slog.Logger
	Metrics        *jobmetrics.Metrics
	StaleAfterDays int
}

// NewInventoryStaleScanJob initialises the stale scan handler.
func NewInventoryStaleScanJob(finder StaleFinder, staleAfterDays int, logger *slog.Logger, metrics *jobmetrics.Metrics) *InventoryStaleScanJob {
	return &InventoryStaleScanJob{Inventory: finder, StaleAfterDays: staleAfterDays, Logger: logger, Metrics: metrics}
}

// Handle executes the stale scan.
func (j *InventoryStaleScanJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Inventory == nil {
		return errors.New("stale scan: handler not configured")
	}
	var payload StaleScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	days := payload.Days
	if days <= 0 {
		days = j.StaleAfterDays
	}
	if days <= 0 {
		days = DefaultStaleAfterDays
	}

	metrics := metricsOrDefault(j.Metrics)
	tracker := metrics.Track(TaskInventoryStaleScan)
	defer func() { resultErr = tracker.End(resultErr) }()

	logger := jobLogger(j.Logger, TaskInventoryStaleScan)
	items, err := j.Inventory.Stale(ctx, days)
	if err != nil {
		logger.Error("load stale items", slog.Any("error", err))
		return err
	}
	metrics.SetStaleItems(len(items))

	var tied float64
	for _, it := range items {
		tied += it.PurchaseCost
		logger.Warn("stale inventory item",
			slog.String("item_id", it.ItemID),
			slog.String("model", it.Model),
			slog.Int("days_held", it.DaysHeld),
		)
	}
	logger.Info("completed stale scan", slog.Int("threshold_days", days), slog.Int("items", len(items)), slog.Float64("capital", tied))
	return nil
}
