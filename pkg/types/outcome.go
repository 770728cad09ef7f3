// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// OutcomeStatus indicates what happened to one notification record.
type OutcomeStatus string

const (
	OutcomeProcessed OutcomeStatus = "processed"
	OutcomeSkipped   OutcomeStatus = "skipped"
	OutcomeFailed    OutcomeStatus = "failed"
)

// Stage names the pipeline step that produced a failure.
type Stage string

const (
	StageExtract   Stage = "extract"
	StageTransform Stage = "transform"
	StageLoad      Stage = "load"
)

// RecordOutcome is the result of dispatching a single notification record.
type RecordOutcome struct {
	// Bucket and Key identify the object named by the notification.
	Bucket string `json:"bucket" yaml:"bucket"`
	Key    string `json:"key" yaml:"key"`

	// Input and Output are the resolved locators. Both are empty for skipped records.
	Input  string `json:"input,omitempty" yaml:"input,omitempty"`
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	Status OutcomeStatus `json:"status" yaml:"status"`

	// Stage is set for failed records.
	Stage Stage `json:"stage,omitempty" yaml:"stage,omitempty"`

	// Rows is the number of data rows written.
	Rows int64 `json:"rows" yaml:"rows"`

	// Reason explains a skip or carries the error text of a failure.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`

	ProcessedAt time.Time `json:"processed_at" yaml:"processed_at"`
}

// BatchReport holds the outcomes of one notification batch.
type BatchReport struct {
	InvocationID string          `json:"invocation_id" yaml:"invocation_id"`
	Processed    int             `json:"processed" yaml:"processed"`
	Skipped      int             `json:"skipped" yaml:"skipped"`
	Failed       int             `json:"failed" yaml:"failed"`
	Outcomes     []RecordOutcome `json:"outcomes" yaml:"outcomes"`
}

// Add appends an outcome and updates the counters.
func (r *BatchReport) Add(o RecordOutcome) {
	switch o.Status {
	case OutcomeProcessed:
		r.Processed++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
	}
	r.Outcomes = append(r.Outcomes, o)
}

// Total returns the number of records in the batch.
func (r BatchReport) Total() int {
	return r.Processed + r.Skipped + r.Failed
}

// HasFailures reports whether any record failed.
func (r BatchReport) HasFailures() bool {
	return r.Failed > 0
}
