package valueobject

import "fmt"

// Outcome classifies how a best-effort sub-operation finished.
type Outcome string

// Outcome constants.
const (
	// OutcomeOK means the remote call succeeded and its result is complete.
	OutcomeOK Outcome = "ok"
	// OutcomeDegraded means the remote call returned a non-success status and
	// the result was replaced by an empty value.
	OutcomeDegraded Outcome = "degraded"
)

// NewOutcome parses an outcome string.
func NewOutcome(outcome string) (Outcome, error) {
	switch o := Outcome(outcome); o {
	case OutcomeOK, OutcomeDegraded:
		return o, nil
	default:
		return "", fmt.Errorf("invalid outcome: %s", outcome)
	}
}

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	return string(o)
}

// IsDegraded reports whether the result was replaced by an empty value.
func (o Outcome) IsDegraded() bool {
	return o == OutcomeDegraded
}
