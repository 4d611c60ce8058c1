package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/sensescan/internal/report"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Format(view report.View, meta Meta) ([]byte, error) {
	var b strings.Builder

	generated := meta.ScannedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	b.WriteString("# PII Scan Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", generated.Format("2006-01-02 15:04:05"))

	f.writeSummaryTable(&b, view, meta)
	f.writeDistribution(&b, view.Series)
	f.writeInspector(&b, view.Rows)
	f.writeFindings(&b, view)
	f.writePreview(&b, meta.Preview)

	b.WriteString("\n---\n")
	b.WriteString("*Report generated by sensescan*\n")

	return []byte(b.String()), nil
}

func (f *markdownFormatter) writeSummaryTable(b *strings.Builder, view report.View, meta Meta) {
	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(b, "| File | %s |\n", escapeMarkdownCell(valueOr(meta.File, "N/A")))
	if meta.Type != "" {
		fmt.Fprintf(b, "| Type | %s |\n", escapeMarkdownCell(meta.Type))
	}
	if meta.ScanID != "" {
		fmt.Fprintf(b, "| Scan ID | `%s` |\n", meta.ScanID)
	}
	fmt.Fprintf(b, "| PII Found | %s |\n", formatNumber(view.Series.Total()))
	fmt.Fprintf(b, "| Categories | %d |\n", len(view.Series))
	fmt.Fprintf(b, "| Detectors | %d (%d above %.0f%%) |\n\n",
		len(view.Rows), highAccuracyCount(view.Rows), report.HighAccuracyThreshold*100)
}

// writeDistribution writes the category table with an ASCII chart
func (f *markdownFormatter) writeDistribution(b *strings.Builder, series report.DistributionSeries) {
	b.WriteString("## PII Distribution\n\n")
	if len(series) == 0 {
		b.WriteString("No PII detected.\n\n")
		return
	}

	total := series.Total()
	b.WriteString("| PII Type | Count | Share |\n")
	b.WriteString("|----------|------:|------:|\n")
	for _, slice := range series {
		fmt.Fprintf(b, "| %s | %s | %.1f%% |\n", escapeMarkdownCell(slice.Category), formatNumber(slice.Count), share(slice.Count, total))
	}

	b.WriteString("\n```\n")
	for _, slice := range series {
		fmt.Fprintf(b, "%-16s │%s│ %d\n", report.Elide(slice.Category, 16), proportionBar(slice.Count, total), slice.Count)
	}
	b.WriteString("```\n\n")
}

func (f *markdownFormatter) writeInspector(b *strings.Builder, rows []report.InspectorRow) {
	b.WriteString("## Model Inspector\n\n")
	if len(rows) == 0 {
		b.WriteString("No detector results.\n\n")
		return
	}

	b.WriteString("| Detector | Accuracy | Status | Missed PII |\n")
	b.WriteString("|----------|---------:|--------|------------|\n")
	for _, row := range rows {
		status := "✅ high"
		if !row.HighAccuracy() {
			status = "⚠️ attention"
		}
		fmt.Fprintf(b, "| %s | %s %s | %s | %s |\n",
			escapeMarkdownCell(row.Detector), createConfidenceBar(row.Accuracy), row.PercentLabel(),
			status, escapeMarkdownCell(row.Missed))
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeFindings(b *strings.Builder, view report.View) {
	b.WriteString("## Findings\n\n")
	for i, finding := range generateFindings(view) {
		fmt.Fprintf(b, "%d. %s\n", i+1, finding)
	}
}

func (f *markdownFormatter) writePreview(b *strings.Builder, preview string) {
	preview = strings.TrimSpace(preview)
	if preview == "" {
		return
	}
	b.WriteString("\n## Preview\n\n")
	for _, line := range strings.Split(preview, "\n") {
		b.WriteString("> " + line + "\n")
	}
}

// escapeMarkdownCell keeps table cells on one line
func escapeMarkdownCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
