package importers

import "fmt"

// ImportResult summarizes one import batch. It is returned to the caller and
// never stored by the engine.
type ImportResult struct {
	SuccessCount int      `json:"success_count"`
	FailedCount  int      `json:"failed_count"`
	Errors       []string `json:"errors"`
	CreatedCount int      `json:"created_count"`
	UpdatedCount int      `json:"updated_count"`
}

func newImportResult() ImportResult {
	return ImportResult{Errors: []string{}}
}

func (r *ImportResult) recordOutcome(outcome Outcome) {
	r.SuccessCount++
	switch outcome {
	case OutcomeCreated:
		r.CreatedCount++
	case OutcomeUpdated:
		r.UpdatedCount++
	}
}

func (r *ImportResult) recordFailure(line int, err error) {
	r.FailedCount++
	r.Errors = append(r.Errors, fmt.Sprintf("Row %d: %s", line, err.Error()))
}

func (r *ImportResult) recordAbort(unprocessed int, reason error) {
	r.FailedCount += unprocessed
	r.Errors = append(r.Errors, fmt.Sprintf("Import aborted: %d rows not processed (%v)", unprocessed, reason))
}

// Total is the number of rows the result accounts for.
func (r ImportResult) Total() int {
	return r.SuccessCount + r.FailedCount
}
