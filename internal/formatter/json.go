package formatter

import (
	"encoding/json"
	"time"

	"github.com/yildizm/sensescan/internal/report"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

func (f *jsonFormatter) Format(view report.View, meta Meta) ([]byte, error) {
	output := &JSONOutput{
		Scan:         createScanOutput(meta),
		Summary:      createSummary(view),
		Distribution: createDistributionOutputs(view.Series),
		Inspection:   createInspectionOutputs(view.Rows),
		Findings:     generateFindings(view),
		Preview:      meta.Preview,
	}

	return json.MarshalIndent(output, "", "  ")
}

// JSONOutput is the document written by the JSON formatter
type JSONOutput struct {
	Scan         *ScanOutput           `json:"scan"`
	Summary      *SummaryOutput        `json:"summary"`
	Distribution []*DistributionOutput `json:"distribution"`
	Inspection   []*InspectionOutput   `json:"inspection"`
	Findings     []string              `json:"findings"`
	Preview      string                `json:"preview,omitempty"`
}

// ScanOutput identifies the scan
type ScanOutput struct {
	File      string     `json:"file,omitempty"`
	ID        string     `json:"id,omitempty"`
	Type      string     `json:"type,omitempty"`
	ScannedAt *time.Time `json:"scanned_at,omitempty"`
	Duration  string     `json:"duration,omitempty"`
}

// SummaryOutput holds the totals
type SummaryOutput struct {
	TotalPII     int `json:"total_pii"`
	Categories   int `json:"categories"`
	Detectors    int `json:"detectors"`
	HighAccuracy int `json:"high_accuracy"`
}

// DistributionOutput is one chart slice
type DistributionOutput struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Share    float64 `json:"share"`
}

// InspectionOutput is one detector row
type InspectionOutput struct {
	Detector string  `json:"detector"`
	Accuracy float64 `json:"accuracy"`
	Percent  int     `json:"percent"`
	Flag     string  `json:"flag"`
	Missed   string  `json:"missed"`
	Detected string  `json:"detected,omitempty"`
}

func createScanOutput(meta Meta) *ScanOutput {
	out := &ScanOutput{
		File: meta.File,
		ID:   meta.ScanID,
		Type: meta.Type,
	}
	if !meta.ScannedAt.IsZero() {
		t := meta.ScannedAt
		out.ScannedAt = &t
	}
	if meta.Elapsed > 0 {
		out.Duration = meta.Elapsed.String()
	}
	return out
}

func createSummary(view report.View) *SummaryOutput {
	return &SummaryOutput{
		TotalPII:     view.Series.Total(),
		Categories:   len(view.Series),
		Detectors:    len(view.Rows),
		HighAccuracy: highAccuracyCount(view.Rows),
	}
}

func createDistributionOutputs(series report.DistributionSeries) []*DistributionOutput {
	total := series.Total()
	outputs := make([]*DistributionOutput, 0, len(series))
	for _, slice := range series {
		outputs = append(outputs, &DistributionOutput{
			Category: slice.Category,
			Count:    slice.Count,
			Share:    share(slice.Count, total),
		})
	}
	return outputs
}

func createInspectionOutputs(rows []report.InspectorRow) []*InspectionOutput {
	outputs := make([]*InspectionOutput, 0, len(rows))
	for _, row := range rows {
		outputs = append(outputs, &InspectionOutput{
			Detector: row.Detector,
			Accuracy: row.Accuracy,
			Percent:  row.Percent,
			Flag:     row.Flag.String(),
			Missed:   row.Missed,
			Detected: row.Detected,
		})
	}
	return outputs
}
