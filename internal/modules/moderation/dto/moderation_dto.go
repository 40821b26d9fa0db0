package dto

// GreetingReport summarizes a bulk greeting run. Partial failure is expected
// operation, not an error: the report carries both tallies and the individual
// failures.
type GreetingReport struct {
	Total  int      `json:"total"`
	Sent   int      `json:"sent"`
	Failed int      `json:"failed"`
	Errors []string `json:"errors"`
}
