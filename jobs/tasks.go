// Package jobs defines background tasks: the menu total integrity scan and
// the report cache warmup.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCostIntegrity re-derives menu totals from their lines and repairs drift.
	TaskCostIntegrity = "menu:cost_integrity"
	// TaskReportsWarmup pre-populates the report cache for a period.
	TaskReportsWarmup = "reports:warmup"
)

// CostIntegrityPayload bounds the scan to one month when Year is set;
// a zero payload scans everything.
type CostIntegrityPayload struct {
	Year  int `json:"year,omitempty"`
	Month int `json:"month,omitempty"`
}

// NewCostIntegrityTask constructs the integrity scan task.
func NewCostIntegrityTask(payload CostIntegrityPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCostIntegrity, data), nil
}

// ReportsWarmupPayload selects the period to warm. Zero values default to
// the current month and year at execution time.
type ReportsWarmupPayload struct {
	Year  int `json:"year,omitempty"`
	Month int `json:"month,omitempty"`
}

// NewReportsWarmupTask constructs the warmup task.
func NewReportsWarmupTask(payload ReportsWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportsWarmup, data), nil
}
