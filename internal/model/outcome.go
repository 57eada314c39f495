package model

// Status represents the three-way result of running an example.
type Status string

const (
	// StatusPassed indicates the body completed without failure.
	StatusPassed Status = "passed"
	// StatusFailed indicates the body or a before hook raised a failure.
	StatusFailed Status = "failed"
	// StatusSkipped indicates the example did not run to completion, either
	// marked pending at declaration or skipped from inside the body.
	StatusSkipped Status = "skipped"
)

// Outcome is the result of running one example.
type Outcome struct {
	Status Status
	Err    error  // failure cause, set when Status is StatusFailed
	Reason string // skip reason, set when Status is StatusSkipped
}

// Passed returns a passing outcome.
func Passed() Outcome {
	return Outcome{Status: StatusPassed}
}

// Failed returns a failing outcome carrying its cause.
func Failed(cause error) Outcome {
	return Outcome{Status: StatusFailed, Err: cause}
}

// Skipped returns a skipped outcome carrying the reason the body was not run.
func Skipped(reason string) Outcome {
	return Outcome{Status: StatusSkipped, Reason: reason}
}
