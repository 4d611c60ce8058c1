package scan

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/yildizm/sensescan/internal/report"
	"github.com/yildizm/sensescan/internal/selector"
)

// mockScanner records calls and returns a canned response
type mockScanner struct {
	calls  int
	files  []string
	report *report.Report
	err    error
}

func (m *mockScanner) ScanFile(_ context.Context, file *selector.PendingFile, _ string) (*report.Report, error) {
	m.calls++
	m.files = append(m.files, file.Name())
	return m.report, m.err
}

func sampleReport() *report.Report {
	return &report.Report{
		Counts: []report.CountEntry{
			{Category: "Email", Count: 10},
			{Category: "Phone", Count: 5},
		},
		Inspection: []report.InspectionEntry{
			{Model: "M1", Accuracy: 0.92, Missed: "x"},
			{Model: "M2", Accuracy: 0.5, Missed: "y"},
		},
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("scan-%d", n)
	}
}

func newTestController(scanner Scanner, notices *[]string) *Controller {
	return NewController(scanner, selector.New(),
		WithIDGenerator(sequentialIDs()),
		WithNotifier(NotifierFunc(func(msg string) { *notices = append(*notices, msg) })),
	)
}

func TestInitialState(t *testing.T) {
	var notices []string
	c := newTestController(&mockScanner{}, &notices)

	if c.State().Kind() != KindIdle {
		t.Errorf("Expected idle, got %s", c.State())
	}
	if c.CanSubmit() {
		t.Error("Expected CanSubmit false without a file")
	}
}

func TestSubmitWithoutFileIsNoop(t *testing.T) {
	scanner := &mockScanner{report: sampleReport()}
	var notices []string
	c := newTestController(scanner, &notices)

	if req := c.Submit(context.Background()); req != nil {
		t.Error("Expected nil request without a file")
	}
	if _, ok := c.Run(context.Background()); ok {
		t.Error("Expected Run to report a no-op")
	}
	if scanner.calls != 0 {
		t.Errorf("Expected no outbound request, got %d", scanner.calls)
	}
	if c.State().Kind() != KindIdle {
		t.Errorf("Expected idle, got %s", c.State())
	}
	if len(notices) != 0 {
		t.Errorf("Expected no notification, got %v", notices)
	}
}

func TestSubmitWhileSubmittingIsNoop(t *testing.T) {
	scanner := &mockScanner{report: sampleReport()}
	var notices []string
	c := newTestController(scanner, &notices)
	c.Selector().Select(selector.FromBytes("a.csv", nil))

	first := c.Submit(context.Background())
	if first == nil {
		t.Fatal("Expected a request")
	}
	if c.State().Kind() != KindSubmitting {
		t.Fatalf("Expected submitting, got %s", c.State())
	}
	if c.CanSubmit() {
		t.Error("Expected CanSubmit false while submitting")
	}
	if second := c.Submit(context.Background()); second != nil {
		t.Error("Expected duplicate submit to be ignored")
	}

	c.Resolve(first())
	if scanner.calls != 1 {
		t.Errorf("Expected exactly one outbound request, got %d", scanner.calls)
	}
}

func TestSuccessfulScan(t *testing.T) {
	scanner := &mockScanner{report: sampleReport()}
	var notices []string
	c := newTestController(scanner, &notices)
	c.Selector().Select(selector.FromBytes("people.csv", nil))

	state, ok := c.Run(context.Background())
	if !ok {
		t.Fatal("Expected Run to submit")
	}
	if state.Kind() != KindSucceeded {
		t.Fatalf("Expected succeeded, got %s", state)
	}
	if state.Report() != scanner.report {
		t.Error("Expected the report to be stored verbatim")
	}
	if state.Source() != "people.csv" || state.ScanID() != "scan-1" {
		t.Errorf("Unexpected state metadata: %s %s", state.Source(), state.ScanID())
	}
	if state.Reason() != "" {
		t.Errorf("Expected no reason on success, got %q", state.Reason())
	}

	view := c.View()
	if len(view.Series) != 2 || len(view.Rows) != 2 {
		t.Errorf("Expected 2 slices and 2 rows, got %d and %d", len(view.Series), len(view.Rows))
	}
	if len(notices) != 0 {
		t.Errorf("Expected no notification, got %v", notices)
	}
	if !c.CanSubmit() {
		t.Error("Expected CanSubmit true after completion")
	}
}

func TestFailedScanNotifiesOnce(t *testing.T) {
	scanner := &mockScanner{err: errors.New("connection refused")}
	var notices []string
	c := newTestController(scanner, &notices)
	c.Selector().Select(selector.FromBytes("people.csv", nil))

	state, _ := c.Run(context.Background())
	if state.Kind() != KindFailed {
		t.Fatalf("Expected failed, got %s", state)
	}
	if state.Report() != nil {
		t.Error("Expected no report on failure")
	}
	if state.Reason() == "" {
		t.Error("Expected a failure reason")
	}
	if len(notices) != 1 || notices[0] != FailureNotice {
		t.Errorf("Expected one generic notice, got %v", notices)
	}

	view := c.View()
	if len(view.Series) != 0 || len(view.Rows) != 0 {
		t.Error("Expected empty view after failure")
	}
}

func TestNilReportWithoutErrorFails(t *testing.T) {
	var notices []string
	c := newTestController(&mockScanner{}, &notices)
	c.Selector().Select(selector.FromBytes("a.csv", nil))

	state, _ := c.Run(context.Background())
	if state.Kind() != KindFailed {
		t.Errorf("Expected failed, got %s", state)
	}
}

func TestStaleOutcomeDiscarded(t *testing.T) {
	var notices []string
	c := newTestController(&mockScanner{report: sampleReport()}, &notices)
	c.Selector().Select(selector.FromBytes("a.csv", nil))

	req := c.Submit(context.Background())
	outcome := req()

	if c.Resolve(Outcome{ScanID: "other", Err: errors.New("late")}) {
		t.Error("Expected foreign outcome to be discarded")
	}
	if c.State().Kind() != KindSubmitting {
		t.Errorf("Expected still submitting, got %s", c.State())
	}

	if !c.Resolve(outcome) {
		t.Fatal("Expected matching outcome to apply")
	}
	if c.Resolve(outcome) {
		t.Error("Expected replayed outcome to be discarded")
	}
	if len(notices) != 0 {
		t.Errorf("Unexpected notices %v", notices)
	}
}

func TestReselectionKeepsPreviousResult(t *testing.T) {
	scanner := &mockScanner{report: sampleReport()}
	var notices []string
	c := newTestController(scanner, &notices)
	c.Selector().Select(selector.FromBytes("first.csv", nil))
	c.Run(context.Background())

	c.Selector().Select(selector.FromBytes("second.pdf", nil))
	if c.State().Kind() != KindSucceeded || c.State().Source() != "first.csv" {
		t.Errorf("Expected previous result kept, got %s", c.State())
	}

	c.Run(context.Background())
	if c.State().Source() != "second.pdf" {
		t.Errorf("Expected new result for second.pdf, got %s", c.State().Source())
	}
	if scanner.files[1] != "second.pdf" {
		t.Errorf("Expected second request for second.pdf, got %v", scanner.files)
	}
}

func TestExactlyOneStateAcrossSequence(t *testing.T) {
	scanner := &mockScanner{}
	var notices []string
	c := newTestController(scanner, &notices)

	check := func(step string) {
		s := c.State()
		hasReport := s.Report() != nil
		hasReason := s.Reason() != ""
		switch s.Kind() {
		case KindIdle, KindSubmitting:
			if hasReport || hasReason {
				t.Errorf("%s: %s carries a payload", step, s)
			}
		case KindSucceeded:
			if !hasReport || hasReason {
				t.Errorf("%s: inconsistent succeeded state", step)
			}
		case KindFailed:
			if hasReport || !hasReason {
				t.Errorf("%s: inconsistent failed state", step)
			}
		}
	}

	check("start")
	c.Submit(context.Background())
	check("submit without file")

	c.Selector().Select(selector.FromBytes("a.csv", nil))
	scanner.err = errors.New("503")
	req := c.Submit(context.Background())
	check("submitting")
	c.Resolve(req())
	check("failed")

	scanner.err = nil
	scanner.report = sampleReport()
	req = c.Submit(context.Background())
	check("resubmitting")
	c.Resolve(req())
	check("succeeded")
}

func TestKindString(t *testing.T) {
	names := map[Kind]string{
		KindIdle:       "idle",
		KindSubmitting: "submitting",
		KindSucceeded:  "succeeded",
		KindFailed:     "failed",
	}
	for kind, want := range names {
		if kind.String() != want {
			t.Errorf("Expected %s, got %s", want, kind.String())
		}
	}
}
