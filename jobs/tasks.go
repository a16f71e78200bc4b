package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDashboardWarmup rebuilds cached dashboard reports.
	TaskDashboardWarmup = "dashboard:warmup"
	// TaskInventoryStaleScan reports in-stock items held past the stale threshold.
	TaskInventoryStaleScan = "inventory:stale_scan"
)

// Cron schedules, evaluated in the worker's business timezone.
const (
	CronDashboardWarmup    = "*/30 * * * *"
	CronInventoryStaleScan = "0 7 * * *"
)

// DashboardWarmupPayload limits a warmup to the named ranges; empty means all.
type DashboardWarmupPayload struct {
	Ranges []string `json:"ranges,omitempty"`
}

// StaleScanPayload overrides the stale threshold in days.
type StaleScanPayload struct {
	Days int `json:"days,omitempty"`
}

// NewDashboardWarmupTask constructs a dashboard warmup task.
func NewDashboardWarmupTask(payload DashboardWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDashboardWarmup, data), nil
}

// NewStaleScanTask constructs a stale inventory scan task.
func NewStaleScanTask(payload StaleScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInventoryStaleScan, data), nil
}

// NewTaskByType builds a task with its default payload, for manual triggers.
func NewTaskByType(taskType string) (*asynq.Task, error) {
	switch taskType {
	case TaskDashboardWarmup:
		return NewDashboardWarmupTask(DashboardWarmupPayload{})
	case TaskInventoryStaleScan:
		return NewStaleScanTask(StaleScanPayload{})
	default:
		return nil, fmt.Errorf("jobs: unknown task type %q", taskType)
	}
}

// DefaultCron returns the periodic schedule run by the worker.
func DefaultCron() ([]CronRegistration, error) {
	warmup, err := NewDashboardWarmupTask(DashboardWarmupPayload{})
	if err != nil {
		return nil, err
	}
	stale, err := NewStaleScanTask(StaleScanPayload{})
	if err != nil {
		return nil, err
	}
	return []CronRegistration{
		{Spec: CronDashboardWarmup, Task: warmup, Options: []asynq.Option{asynq.Queue(QueueDefault), asynq.Unique(CronUniqueTTL)}},
		{Spec: CronInventoryStaleScan, Task: stale, Options: []asynq.Option{asynq.Queue(QueueDefault), asynq.Unique(CronUniqueTTL)}},
	}, nil
}
