package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/go-termfmt"
	"github.com/yildizm/sensescan/internal/emoji"
	"github.com/yildizm/sensescan/internal/report"
)

const barWidth = 20

// formatNumber formats numbers with commas for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return addCommas(fmt.Sprintf("%d", n))
}

// addCommas adds commas to number strings
func addCommas(s string) string {
	if len(s) <= 3 {
		return s
	}
	return addCommas(s[:len(s)-3]) + "," + s[len(s)-3:]
}

// share returns count as a percentage of total
func share(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

// proportionBar draws count relative to total as a fixed-width bar
func proportionBar(count, total int) string {
	filled := 0
	if total > 0 {
		filled = int(float64(count) / float64(total) * barWidth)
	}
	filled = min(max(filled, 0), barWidth)
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// getFlagEmoji returns the accuracy flag symbol using go-termfmt
func getFlagEmoji(flag report.Flag, opts *termfmt.TerminalOptions) string {
	key := "warning"
	if flag == report.FlagHighAccuracy {
		key = "success"
	}
	if symbol := termfmt.GetEmoji(key, opts); symbol != "" {
		return symbol
	}
	return emoji.GetEmoji(flag.String())
}

// createConfidenceBar creates ASCII accuracy bar using go-termfmt
func createConfidenceBar(accuracy float64) string {
	opts := termfmt.DefaultOptions()
	return termfmt.CreateConfidenceBar(accuracy, opts)
}

// highAccuracyCount counts detectors above the accuracy threshold
func highAccuracyCount(rows []report.InspectorRow) int {
	n := 0
	for _, row := range rows {
		if row.HighAccuracy() {
			n++
		}
	}
	return n
}

// generateFindings turns a view into short human-readable observations
func generateFindings(view report.View) []string {
	var findings []string

	total := view.Series.Total()
	if total == 0 {
		findings = append(findings, "No PII was detected in this file")
	} else {
		top := view.Series[0]
		for _, slice := range view.Series[1:] {
			if slice.Count > top.Count {
				top = slice
			}
		}
		findings = append(findings,
			fmt.Sprintf("%s is the most frequent PII type (%d of %d, %.1f%%)",
				top.Category, top.Count, total, share(top.Count, total)))
	}

	for _, row := range view.Rows {
		if row.HighAccuracy() {
			continue
		}
		finding := fmt.Sprintf("%s scored %s, review what it missed", row.Detector, row.PercentLabel())
		if row.Missed != "" {
			finding += ": " + row.MissedShort
		}
		findings = append(findings, finding)
	}

	if len(view.Rows) > 0 && highAccuracyCount(view.Rows) == len(view.Rows) {
		findings = append(findings, fmt.Sprintf("All %d detectors scored above %.0f%%",
			len(view.Rows), report.HighAccuracyThreshold*100))
	}

	return findings
}
