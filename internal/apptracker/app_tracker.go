package apptracker

// AppTracker reports notable events and exceptions to an external error
// tracking backend.
type AppTracker interface {
	CaptureMessage(message string)
	CaptureException(exception error)
}
