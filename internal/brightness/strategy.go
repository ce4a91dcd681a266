// Package brightness owns the active brightness mode and dispatches levels to the matching strategy.
package brightness

// Strategy applies a brightness level to every display it can reach.
//
// Apply is best effort: per-display failures are recorded in the Report,
// never returned as errors.
type Strategy interface {
	Mode() Mode
	Apply(percent int) Report
}

// Observer is notified about every application and mode switch.
type Observer interface {
	ObserveApply(r Report)
	ObserveToggle(from, to Mode)
}

// Failure records one display that could not be updated.
type Failure struct {
	Display string `json:"display"`
	Error   string `json:"error"`
}

// Report summarizes one strategy application.
type Report struct {
	Mode             Mode      `json:"mode"`
	Percent          int       `json:"percent"`
	Targets          int       `json:"targets"`
	Applied          int       `json:"applied"`
	Failures         []Failure `json:"failures,omitempty"`
	EnumerationError string    `json:"enumerationError,omitempty"`
}

// Fail records a per-display failure.
func (r *Report) Fail(display string, err error) {
	r.Failures = append(r.Failures, Failure{Display: display, Error: err.Error()})
}

// OK reports whether every enumerated display was updated.
func (r Report) OK() bool {
	return r.EnumerationError == "" && len(r.Failures) == 0
}
