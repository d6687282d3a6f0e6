package testcase

// Outcome of one item in a bulk operation
type Outcome string

const (
	OutcomeDeleted  Outcome = "deleted"
	OutcomeNotFound Outcome = "not_found"
	OutcomeFailed   Outcome = "failed"
)

// ItemResult reports what happened to a single id in a bulk delete
type ItemResult struct {
	ID      string  `json:"id"`
	Outcome Outcome `json:"outcome"`
	Error   string  `json:"error,omitempty"`
}

// BulkDeleteResult lists per-id outcomes plus totals
type BulkDeleteResult struct {
	Results   []ItemResult `json:"results"`
	Attempted int          `json:"attempted"`
	Deleted   int          `json:"deleted"`
	NotFound  int          `json:"notFound"`
	Failed    int          `json:"failed"`
}

// Add records one outcome and updates the totals
func (r *BulkDeleteResult) Add(item ItemResult) {
	r.Results = append(r.Results, item)
	r.Attempted++
	switch item.Outcome {
	case OutcomeDeleted:
		r.Deleted++
	case OutcomeNotFound:
		r.NotFound++
	case OutcomeFailed:
		r.Failed++
	}
}
