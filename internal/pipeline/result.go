package pipeline

// Status is the outcome of processing one file.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusPartial   Status = "partial"
)

// Result records the outcome of processing a single file. Errors are
// collected rather than aborting: one file's failure never stops the batch.
type Result struct {
	File     string   `json:"file"`
	Output   string   `json:"output,omitempty"`
	Status   Status   `json:"status"`
	Phase    string   `json:"phase"` // phase reached when processing stopped
	Headings int      `json:"headings"`
	Figures  int      `json:"figures"`
	Errors   []string `json:"errors,omitempty"`
}

func (r *Result) fail(phase, msg string) {
	r.Status = StatusFailed
	r.Phase = phase
	r.Errors = append(r.Errors, msg)
}

// Summary aggregates a batch run.
type Summary struct {
	Results   []Result `json:"results"`
	Completed int      `json:"completed"`
	Failed    int      `json:"failed"`
}

func (s *Summary) add(r Result) {
	s.Results = append(s.Results, r)
	switch r.Status {
	case StatusFailed:
		s.Failed++
	default:
		s.Completed++
	}
}
