package deploy

// InvalidationResult reports the outcome of the edge cache invalidation
// step. A failed invalidation does not fail the deploy; the published
// objects are already live and caches converge as their TTLs expire.
type InvalidationResult struct {
	Requested bool     `json:"requested"`
	Succeeded bool     `json:"succeeded"`
	Paths     []string `json:"paths,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// Result summarizes a single deployment run.
type Result struct {
	Environment  string              `json:"environment"`
	Destination  string              `json:"destination"`
	Status       Status              `json:"status"`
	RunID        string              `json:"run_id"`
	Uploaded     int                 `json:"uploaded"`
	Deleted      int                 `json:"deleted"`
	Invalidation *InvalidationResult `json:"invalidation,omitempty"`
	Warnings     []string            `json:"warnings,omitempty"`
}
