package formatter

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/yildizm/sensescan/internal/report"
)

func exampleView() report.View {
	return report.Adapt(&report.Report{
		Type: "csv",
		Counts: []report.CountEntry{
			{Category: "Email", Count: 10},
			{Category: "Phone", Count: 5},
		},
		Inspection: []report.InspectionEntry{
			{Model: "M1", Accuracy: 0.92, Missed: "x"},
			{Model: "M2", Accuracy: 0.5, Missed: "555-0100 | 555-0101, and a much longer tail of missed items"},
		},
	})
}

func exampleMeta() Meta {
	return Meta{
		File:      "people.csv",
		ScanID:    "scan-1",
		Type:      "csv",
		Elapsed:   1500 * time.Millisecond,
		ScannedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNew(t *testing.T) {
	for _, name := range Formats {
		f, err := New(name, false)
		if err != nil || f == nil {
			t.Errorf("Expected formatter for %s, got %v", name, err)
		}
	}
	if _, err := New("xml", false); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestJSONFormatter(t *testing.T) {
	data, err := NewJSON().Format(exampleView(), exampleMeta())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var out JSONOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}

	if out.Scan.File != "people.csv" || out.Scan.ID != "scan-1" {
		t.Errorf("Unexpected scan block %+v", out.Scan)
	}
	if out.Summary.TotalPII != 15 || out.Summary.HighAccuracy != 1 {
		t.Errorf("Unexpected summary %+v", out.Summary)
	}
	if len(out.Distribution) != 2 || out.Distribution[0].Category != "Email" || out.Distribution[1].Count != 5 {
		t.Errorf("Expected distribution in input order, got %+v", out.Distribution)
	}
	if out.Inspection[0].Flag != "high" || out.Inspection[1].Flag != "attention" {
		t.Errorf("Unexpected flags %s, %s", out.Inspection[0].Flag, out.Inspection[1].Flag)
	}
	if !strings.Contains(out.Inspection[1].Missed, "much longer tail") {
		t.Error("Expected full missed text in JSON")
	}
	if len(out.Findings) == 0 {
		t.Error("Expected findings")
	}
}

func TestJSONFormatterEmptyView(t *testing.T) {
	data, err := NewJSON().Format(report.Adapt(nil), Meta{})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(string(data), `"distribution": []`) || !strings.Contains(string(data), `"inspection": []`) {
		t.Errorf("Expected empty arrays, got %s", data)
	}
}

func TestCSVFormatter(t *testing.T) {
	data, err := NewCSV().Format(exampleView(), exampleMeta())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("Invalid CSV: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("Expected header plus 4 records, got %d", len(records))
	}
	if records[1][0] != "distribution" || records[1][2] != "Email" || records[1][3] != "10" {
		t.Errorf("Unexpected first record %v", records[1])
	}
	if records[4][0] != "inspection" || records[4][2] != "M2" || records[4][6] != "attention" {
		t.Errorf("Unexpected last record %v", records[4])
	}
	if records[3][5] != "0.92" {
		t.Errorf("Expected raw accuracy, got %s", records[3][5])
	}
}

func TestMarkdownFormatter(t *testing.T) {
	data, err := NewMarkdown().Format(exampleView(), exampleMeta())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	out := string(data)

	for _, want := range []string{
		"# PII Scan Report",
		"Generated: 2025-03-01 12:00:00",
		"| Email | 10 | 66.7% |",
		"| Phone | 5 | 33.3% |",
		"✅ high",
		"⚠️ attention",
		`555-0100 \| 555-0101`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected markdown to contain %q", want)
		}
	}
	if strings.Index(out, "| Email |") > strings.Index(out, "| Phone |") {
		t.Error("Expected input order preserved")
	}
}

func TestTerminalFormatter(t *testing.T) {
	data, err := NewTerminal(false).Format(exampleView(), exampleMeta())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	out := string(data)

	for _, want := range []string{"PII Scan Summary", "people.csv", "Email", "Phone", "M1", "M2", "92%", "50%"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
}

func TestTerminalFormatterEmptyView(t *testing.T) {
	data, err := NewTerminal(false).Format(report.Adapt(&report.Report{}), Meta{File: "empty.pdf", Preview: "Hello world"})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	out := string(data)
	for _, want := range []string{"No PII detected", "No detector results", "Hello world"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
}

func TestGenerateFindings(t *testing.T) {
	findings := generateFindings(exampleView())
	joined := strings.Join(findings, "\n")
	if !strings.Contains(joined, "Email is the most frequent PII type (10 of 15") {
		t.Errorf("Expected top category finding, got %v", findings)
	}
	if !strings.Contains(joined, "M2 scored 50%") {
		t.Errorf("Expected attention finding for M2, got %v", findings)
	}
	if strings.Contains(joined, "M1 scored") {
		t.Error("Expected no finding for a high accuracy detector")
	}

	empty := generateFindings(report.Adapt(nil))
	if len(empty) != 1 || !strings.Contains(empty[0], "No PII") {
		t.Errorf("Unexpected findings for empty view: %v", empty)
	}
}

func TestProportionBar(t *testing.T) {
	if got := proportionBar(10, 20); got != strings.Repeat("█", 10)+strings.Repeat("░", 10) {
		t.Errorf("Unexpected bar %q", got)
	}
	if got := proportionBar(5, 0); got != strings.Repeat("░", barWidth) {
		t.Errorf("Expected empty bar for zero total, got %q", got)
	}
}
