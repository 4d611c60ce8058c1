package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/go-termfmt"
	"github.com/yildizm/sensescan/internal/emoji"
	"github.com/yildizm/sensescan/internal/report"
)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = !emoji.IsEmojiDisabled()
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(view report.View, meta Meta) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b)
	f.writeSummary(&b, view, meta)
	f.writeDistribution(&b, view.Series)
	f.writeInspector(&b, view.Rows)
	f.writeFindings(&b, view)
	f.writePreview(&b, meta.Preview)

	return []byte(b.String()), nil
}

// writeHeader writes a boxed title
func (f *terminalFormatter) writeHeader(b *strings.Builder) {
	header := "PII Scan Summary"
	headerLen := len(header)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

// writeSummary writes scan metadata and totals as a tree
func (f *terminalFormatter) writeSummary(b *strings.Builder, view report.View, meta Meta) {
	symbol := termfmt.GetEmoji("statistics", f.opts)
	b.WriteString(symbol + " Summary\n")

	items := []termfmt.TreeItem{
		{Label: "File", Value: valueOr(meta.File, "N/A")},
	}
	if meta.Type != "" {
		items = append(items, termfmt.TreeItem{Label: "Type", Value: meta.Type})
	}
	if meta.ScanID != "" {
		items = append(items, termfmt.TreeItem{Label: "Scan ID", Value: meta.ScanID})
	}
	if meta.Elapsed > 0 {
		items = append(items, termfmt.TreeItem{Label: "Duration", Value: meta.Elapsed.Round(time.Millisecond).String()})
	}
	items = append(items,
		termfmt.TreeItem{Label: "PII Found", Value: formatNumber(view.Series.Total())},
		termfmt.TreeItem{Label: "Categories", Value: fmt.Sprintf("%d", len(view.Series))},
		termfmt.TreeItem{
			Label: "Detectors",
			Value: fmt.Sprintf("%d (%d above %.0f%%)", len(view.Rows), highAccuracyCount(view.Rows), report.HighAccuracyThreshold*100),
			Last:  true,
		},
	)

	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

// writeDistribution writes one proportion bar per category, in input order
func (f *terminalFormatter) writeDistribution(b *strings.Builder, series report.DistributionSeries) {
	b.WriteString(emoji.GetEmoji("chart") + " PII Distribution\n")
	if len(series) == 0 {
		b.WriteString("└─ No PII detected\n\n")
		return
	}

	total := series.Total()
	for i, slice := range series {
		branch := "├─"
		if i == len(series)-1 {
			branch = "└─"
		}
		fmt.Fprintf(b, "%s %-16s %s %s (%.1f%%)\n", branch, report.Elide(slice.Category, 16),
			proportionBar(slice.Count, total), formatNumber(slice.Count), share(slice.Count, total))
	}
	b.WriteString("\n")
}

// writeInspector writes detector accuracy with bars and missed items
func (f *terminalFormatter) writeInspector(b *strings.Builder, rows []report.InspectorRow) {
	b.WriteString(emoji.GetEmoji("detector") + " Model Inspector\n")
	if len(rows) == 0 {
		b.WriteString("└─ No detector results\n\n")
		return
	}

	items := make([]termfmt.TreeItem, 0, len(rows))
	for i, row := range rows {
		children := []termfmt.TreeItem{
			{Label: "Accuracy", Value: termfmt.CreateConfidenceBar(row.Accuracy, f.opts) + " " + row.PercentLabel()},
		}
		if row.Detected != "" {
			children = append(children, termfmt.TreeItem{Label: "Detected", Value: row.Detected})
		}
		children = append(children, termfmt.TreeItem{Label: "Missed", Value: valueOr(row.Missed, "none"), Last: true})

		items = append(items, termfmt.TreeItem{
			Label:    fmt.Sprintf("%s %s", getFlagEmoji(row.Flag, f.opts), row.Detector),
			Value:    fmt.Sprintf("(%s, %s)", row.PercentLabel(), row.Flag),
			Children: children,
			Last:     i == len(rows)-1,
		})
	}

	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

// writeFindings writes short observations derived from the view
func (f *terminalFormatter) writeFindings(b *strings.Builder, view report.View) {
	symbol := termfmt.GetEmoji("recommendations", f.opts)
	b.WriteString(symbol + " Findings\n")
	for _, finding := range generateFindings(view) {
		b.WriteString("• " + finding + "\n")
	}
}

// writePreview writes the text preview returned for document scans
func (f *terminalFormatter) writePreview(b *strings.Builder, preview string) {
	if strings.TrimSpace(preview) == "" {
		return
	}
	fmt.Fprintf(b, "\n%s Preview\n", emoji.GetEmoji("preview"))
	b.WriteString(strings.Repeat("─", 50) + "\n")
	b.WriteString(strings.TrimSpace(preview) + "\n")
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
