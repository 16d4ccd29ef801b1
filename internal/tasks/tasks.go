// Package tasks wraps pipeline runs in identified, reportable task
// executions: every run gets a task id and produces a Result that can be
// printed and optionally stored in a shared result backend.
package tasks

import (
	"time"

	"github.com/flockwood/Offside-Tool/internal/player"
)

// Kind names a task type in stored results.
type Kind string

const (
	KindScrapePlayer   Kind = "scrape_player"
	KindBulkScrape     Kind = "bulk_scrape"
	KindRefreshCatalog Kind = "refresh_catalog"
)

// Result is the terminal report of one task execution. Single-target tasks
// carry an Outcome; bulk tasks carry the Summary plus per-item outcomes.
type Result struct {
	TaskID    string           `json:"task_id"`
	TaskName  Kind             `json:"task_name"`
	Timestamp time.Time        `json:"timestamp"`
	Outcome   *player.Outcome  `json:"outcome,omitempty"`
	Summary   *player.Summary  `json:"summary,omitempty"`
	Items     []player.Outcome `json:"items,omitempty"`
}
