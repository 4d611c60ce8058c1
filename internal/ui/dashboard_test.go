package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/sensescan/internal/report"
	"github.com/yildizm/sensescan/internal/scan"
	"github.com/yildizm/sensescan/internal/selector"
)

type mockScanner struct {
	calls  int
	report *report.Report
	err    error
}

func (m *mockScanner) ScanFile(_ context.Context, _ *selector.PendingFile, _ string) (*report.Report, error) {
	m.calls++
	return m.report, m.err
}

func exampleReport() *report.Report {
	return &report.Report{
		Type: "csv",
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

func writeTempFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "people.csv")
	if err := os.WriteFile(path, []byte("name,email\nalice,alice@example.com\n"), 0o600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	return path
}

func newTestModel(t *testing.T, scanner scan.Scanner, path string) *Model {
	t.Helper()
	return NewModel(context.Background(), scanner, Options{
		InitialPath: path,
		TableRows:   8,
		ChartWidth:  22,
	})
}

func key(s string) tea.KeyMsg {
	switch s {
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// completeScan runs the request carried by cmd and feeds its outcome back
func completeScan(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("Expected a command from submit")
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		msg = nil
		for _, c := range batch {
			if c == nil {
				continue
			}
			if done, ok := c().(scanCompleteMsg); ok {
				msg = done
				break
			}
		}
	}
	done, ok := msg.(scanCompleteMsg)
	if !ok {
		t.Fatalf("Expected scanCompleteMsg, got %T", msg)
	}
	m.Update(done)
}

func TestDashboardEndToEndSuccess(t *testing.T) {
	scanner := &mockScanner{report: exampleReport()}
	m := newTestModel(t, scanner, writeTempFile(t))

	_, cmd := m.Update(key("ctrl+s"))
	if m.Controller().State().Kind() != scan.KindSubmitting {
		t.Fatalf("Expected submitting, got %s", m.Controller().State())
	}
	if !strings.Contains(m.View(), "Scanning people.csv") {
		t.Error("Expected spinner status while submitting")
	}

	completeScan(t, m, cmd)

	if m.Controller().State().Kind() != scan.KindSucceeded {
		t.Fatalf("Expected succeeded, got %s", m.Controller().State())
	}
	if len(m.donut.Sectors()) != 2 {
		t.Errorf("Expected 2 sectors, got %d", len(m.donut.Sectors()))
	}
	if len(m.table.Rows) != 2 {
		t.Errorf("Expected 2 rows, got %d", len(m.table.Rows))
	}

	view := m.View()
	for _, want := range []string{"Email", "Phone", "M1", "M2", "92%", "50%", "Scanned people.csv"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q", want)
		}
	}
	if scanner.calls != 1 {
		t.Errorf("Expected one request, got %d", scanner.calls)
	}
}

func TestDashboardFailureShowsAlert(t *testing.T) {
	scanner := &mockScanner{err: errors.New("connection refused")}
	m := newTestModel(t, scanner, writeTempFile(t))

	_, cmd := m.Update(key("ctrl+s"))
	completeScan(t, m, cmd)

	if m.Controller().State().Kind() != scan.KindFailed {
		t.Fatalf("Expected failed, got %s", m.Controller().State())
	}
	if len(m.table.Rows) != 0 || len(m.donut.Sectors()) != 0 {
		t.Error("Expected zero rendered data rows after failure")
	}

	view := m.View()
	if !strings.Contains(view, scan.FailureNotice) {
		t.Error("Expected the failure alert")
	}
	if strings.Contains(view, "connection refused") {
		t.Error("Expected no error detail in the alert")
	}

	// Alert swallows the key that dismisses it
	_, cmd = m.Update(key("q"))
	if cmd != nil {
		t.Error("Expected dismissal not to quit")
	}
	if strings.Contains(m.View(), scan.FailureNotice) {
		t.Error("Expected alert dismissed")
	}
}

func TestDashboardEmptyReport(t *testing.T) {
	scanner := &mockScanner{report: &report.Report{Counts: []report.CountEntry{}, Inspection: []report.InspectionEntry{}}}
	m := newTestModel(t, scanner, writeTempFile(t))

	_, cmd := m.Update(key("ctrl+s"))
	completeScan(t, m, cmd)

	if m.Controller().State().Kind() != scan.KindSucceeded {
		t.Fatalf("Expected succeeded, got %s", m.Controller().State())
	}
	view := m.View()
	if !strings.Contains(view, "No PII detected") || !strings.Contains(view, "No detector results") {
		t.Error("Expected empty chart and table")
	}
}

func TestDashboardSubmitWithoutFile(t *testing.T) {
	scanner := &mockScanner{report: exampleReport()}
	m := newTestModel(t, scanner, "")

	_, cmd := m.Update(key("ctrl+s"))
	if cmd != nil {
		t.Error("Expected no command without a file")
	}
	if scanner.calls != 0 {
		t.Error("Expected no request")
	}
	if m.Controller().State().Kind() != scan.KindIdle {
		t.Errorf("Expected idle, got %s", m.Controller().State())
	}
}

func TestDashboardDuplicateSubmitIgnored(t *testing.T) {
	scanner := &mockScanner{report: exampleReport()}
	m := newTestModel(t, scanner, writeTempFile(t))

	_, first := m.Update(key("ctrl+s"))
	_, second := m.Update(key("s"))
	if second != nil {
		t.Error("Expected second submit ignored while submitting")
	}
	completeScan(t, m, first)
	if scanner.calls != 1 {
		t.Errorf("Expected one request, got %d", scanner.calls)
	}
}

func TestDashboardPathInput(t *testing.T) {
	path := writeTempFile(t)
	m := newTestModel(t, &mockScanner{}, "")

	for _, r := range path {
		m.Update(key(string(r)))
	}
	m.Update(key("enter"))

	if !m.Controller().Selector().HasSelection() {
		t.Fatal("Expected the typed path to be selected")
	}
	if m.Controller().Selector().Selected().Path() != path {
		t.Errorf("Expected %s, got %s", path, m.Controller().Selector().Selected().Path())
	}
	if !m.Controller().CanSubmit() {
		t.Error("Expected CanSubmit after selection")
	}
}

func TestDashboardRejectsMissingPath(t *testing.T) {
	m := newTestModel(t, &mockScanner{}, filepath.Join(t.TempDir(), "missing.pdf"))

	if m.Controller().Selector().HasSelection() {
		t.Error("Expected missing file not to be selected")
	}
	if !strings.Contains(m.View(), "Cannot open") {
		t.Error("Expected a status notice")
	}
}

func TestDashboardSectorTooltipAndScroll(t *testing.T) {
	m := newTestModel(t, &mockScanner{report: exampleReport()}, writeTempFile(t))
	_, cmd := m.Update(key("ctrl+s"))
	completeScan(t, m, cmd)

	m.Update(key("right"))
	if !strings.Contains(m.View(), "Email: 10") {
		t.Error("Expected tooltip for the first sector")
	}
	m.Update(key("right"))
	if !strings.Contains(m.View(), "Phone: 5") {
		t.Error("Expected tooltip for the second sector")
	}

	m.Update(key("down"))
	if m.table.Cursor() != 1 {
		t.Errorf("Expected table cursor 1, got %d", m.table.Cursor())
	}
}

func TestDashboardTickStopsAfterScan(t *testing.T) {
	m := newTestModel(t, &mockScanner{report: exampleReport()}, writeTempFile(t))

	if _, cmd := m.Update(tickMsg{}); cmd != nil {
		t.Error("Expected no tick while idle")
	}

	_, submit := m.Update(key("ctrl+s"))
	if _, cmd := m.Update(tickMsg{}); cmd == nil {
		t.Error("Expected ticking while submitting")
	}
	completeScan(t, m, submit)
	if _, cmd := m.Update(tickMsg{}); cmd != nil {
		t.Error("Expected ticking to stop after the scan")
	}
}

func TestDashboardQuit(t *testing.T) {
	m := newTestModel(t, &mockScanner{}, writeTempFile(t))

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
}

func TestDashboardPreviewPane(t *testing.T) {
	r := exampleReport()
	r.Type = "pdf"
	r.PreviewText = "Invoice for Alice\nEmail alice@example.com about the order"
	r.Inspection[0].Detected = "alice@example.com"
	m := newTestModel(t, &mockScanner{report: r}, writeTempFile(t))

	_, cmd := m.Update(key("ctrl+s"))
	completeScan(t, m, cmd)

	view := m.View()
	if !strings.Contains(view, "Text Preview") || !strings.Contains(view, "Invoice for Alice") {
		t.Error("Expected the preview pane")
	}
	if m.preview.Lines() != 2 {
		t.Errorf("Expected 2 preview lines, got %d", m.preview.Lines())
	}
}

func TestDashboardNoPreviewWithoutText(t *testing.T) {
	m := newTestModel(t, &mockScanner{report: exampleReport()}, writeTempFile(t))

	_, cmd := m.Update(key("ctrl+s"))
	completeScan(t, m, cmd)

	if strings.Contains(m.View(), "Text Preview") {
		t.Error("Expected no preview pane for a report without text")
	}
}
