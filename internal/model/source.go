package model

import "time"

// ManualSourceID is the sentinel source for values entered by a human editor.
const ManualSourceID = "manual"

// SourceType indicates what kind of upstream a source is.
type SourceType string

// Source type constants.
const (
	SourceAggregator SourceType = "aggregator"
	SourceVendor     SourceType = "vendor"
	SourceManual     SourceType = "manual"
)

// Source is an upstream that contributes spec values, offers, or mappings.
type Source struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Type    SourceType `json:"type"`
	BaseURL string     `json:"base_url,omitempty"`
}

// RunStatus is the terminal state of one ingestion run.
type RunStatus string

// Run status constants.
const (
	RunSuccess RunStatus = "success"
	RunPartial RunStatus = "partial"
	RunFailed  RunStatus = "failed"
)

// IngestionRun records one pass of pulling data from a source.
type IngestionRun struct {
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	SourceID  string    `json:"source_id"`
	Status    RunStatus `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	ID        int64     `json:"id"`
}
