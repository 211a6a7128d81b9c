package handler

// Response is the invocation result returned to the trigger.
// The body is fixed; per-item failures surface only in logs.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// Summary accounts for what one invocation did. Logged at the end of
// the run; never part of the response.
type Summary struct {
	TotalInstances    int `json:"total_instances"`
	CompliantCount    int `json:"compliant_count"`
	RemediatedCount   int `json:"remediated_count"`
	SkippedCount      int `json:"skipped_count"`
	SuspendedCount    int `json:"suspended_count"`
	SuspendFailures   int `json:"suspend_failures"`
	TerminateFailures int `json:"terminate_failures"`
}
