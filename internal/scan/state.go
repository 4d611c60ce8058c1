package scan

import (
	"fmt"

	"github.com/yildizm/sensescan/internal/report"
)

// Kind identifies which lifecycle state holds
type Kind int

const (
	KindIdle Kind = iota
	KindSubmitting
	KindSucceeded
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindIdle:
		return "idle"
	case KindSubmitting:
		return "submitting"
	case KindSucceeded:
		return "succeeded"
	case KindFailed:
		return "failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// State is exactly one of Idle, Submitting, Succeeded(report) or
// Failed(reason). Only the Controller constructs states, so the payload of a
// state is never present on another kind.
type State struct {
	kind   Kind
	scanID string
	source string
	report *report.Report
	reason string
}

// Kind returns the active state
func (s State) Kind() Kind {
	return s.kind
}

// ScanID returns the ID of the request a Submitting, Succeeded or Failed
// state belongs to
func (s State) ScanID() string {
	return s.scanID
}

// Source returns the display name of the file the state refers to
func (s State) Source() string {
	return s.source
}

// Report returns the stored report; nil unless Succeeded
func (s State) Report() *report.Report {
	return s.report
}

// Reason returns the failure reason; empty unless Failed
func (s State) Reason() string {
	return s.reason
}

func (s State) String() string {
	switch s.kind {
	case KindSucceeded:
		return fmt.Sprintf("succeeded(%s)", s.source)
	case KindFailed:
		return fmt.Sprintf("failed(%s)", s.reason)
	default:
		return s.kind.String()
	}
}

func idleState() State {
	return State{kind: KindIdle}
}

func submittingState(scanID, source string) State {
	return State{kind: KindSubmitting, scanID: scanID, source: source}
}

func succeededState(scanID, source string, r *report.Report) State {
	return State{kind: KindSucceeded, scanID: scanID, source: source, report: r}
}

func failedState(scanID, source, reason string) State {
	return State{kind: KindFailed, scanID: scanID, source: source, reason: reason}
}
