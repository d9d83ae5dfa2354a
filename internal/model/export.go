package model

import "time"

// AttemptExport is the top-level JSON structure written by the export command.
type AttemptExport struct {
	ExportedAt time.Time        `json:"exported_at"`
	Total      int              `json:"total"`
	Attempts   []AttemptSummary `json:"attempts"`
}
