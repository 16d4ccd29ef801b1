package player

// Status is the terminal state of one scrape job item.
type Status string

const (
	StatusCreated   Status = "created"
	StatusUpdated   Status = "updated"
	StatusUnchanged Status = "unchanged"
	StatusNotFound  Status = "not_found"
	StatusError     Status = "error"
)

// Outcome is the terminal result of one job item. A job always produces an
// Outcome; failures never propagate past the job boundary.
type Outcome struct {
	Target        string   `json:"target"`
	Status        Status   `json:"status"`
	PlayerID      int64    `json:"player_id,omitempty"`
	ExternalID    string   `json:"external_id,omitempty"`
	ChangedFields []string `json:"changed_fields,omitempty"`
	Detail        string   `json:"detail,omitempty"`
}

// Summary aggregates the outcomes of a bulk or refresh run.
type Summary struct {
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	NotFound  int `json:"not_found"`
	Errors    int `json:"error"`
}

// Add counts one outcome into the summary.
func (s *Summary) Add(o Outcome) {
	switch o.Status {
	case StatusCreated:
		s.Created++
	case StatusUpdated:
		s.Updated++
	case StatusUnchanged:
		s.Unchanged++
	case StatusNotFound:
		s.NotFound++
	default:
		s.Errors++
	}
}

// Summarize aggregates a list of outcomes.
func Summarize(outcomes []Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		s.Add(o)
	}
	return s
}

// Total returns the number of outcomes counted.
func (s Summary) Total() int {
	return s.Created + s.Updated + s.Unchanged + s.NotFound + s.Errors
}
