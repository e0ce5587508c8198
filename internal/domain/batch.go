package domain

import "time"

// BatchState enumerates pipeline milestones for one work item.
type BatchState string

const (
	StatePending           BatchState = "pending"
	StateFetching          BatchState = "fetching"
	StateNormalizing       BatchState = "normalizing"
	StateClassifying       BatchState = "classifying"
	StatePersisting        BatchState = "persisting"
	StateDispatchingAlerts BatchState = "dispatching_alerts"
	StateDone              BatchState = "done"
)

// BatchReport summarises one pipeline run.
type BatchReport struct {
	RunID         string    `json:"run_id"`
	WorkItems     int       `json:"work_items"`
	SourcesTried  int       `json:"sources_tried"`
	SourcesFailed int       `json:"sources_failed"`
	Fetched       int       `json:"fetched"`
	Persisted     int       `json:"persisted"`
	Duplicates    int       `json:"duplicates"`
	Discarded     int       `json:"discarded"`
	Failed        int       `json:"failed"`
	Alerts        int       `json:"alerts"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
}

// Add folds another report's counters into r.
func (r *BatchReport) Add(other BatchReport) {
	r.WorkItems += other.WorkItems
	r.SourcesTried += other.SourcesTried
	r.SourcesFailed += other.SourcesFailed
	r.Fetched += other.Fetched
	r.Persisted += other.Persisted
	r.Duplicates += other.Duplicates
	r.Discarded += other.Discarded
	r.Failed += other.Failed
	r.Alerts += other.Alerts
}
