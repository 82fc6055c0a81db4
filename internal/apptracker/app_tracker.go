package apptracker

// AppTracker receives the unexpected failures of transaction pipelines.
type AppTracker interface {
	// CaptureException reports the error and returns the id the tracker assigned to it, or "" when it has none.
	CaptureException(exception error) string
}
