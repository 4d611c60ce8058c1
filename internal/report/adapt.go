package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	// HighAccuracyThreshold is the accuracy a detector must strictly exceed
	// to be flagged high accuracy.
	HighAccuracyThreshold = 0.8

	// MissedDisplayWidth is the cell width the missed-items text is elided to
	MissedDisplayWidth = 24

	ellipsis = "…"
)

// Flag classifies a detector's accuracy for display
type Flag int

const (
	FlagAttention Flag = iota
	FlagHighAccuracy
)

func (f Flag) String() string {
	if f == FlagHighAccuracy {
		return "high"
	}
	return "attention"
}

// Slice is one entry of a DistributionSeries
type Slice struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// DistributionSeries is the chart projection of Report.Counts, in input order
type DistributionSeries []Slice

// Total returns the sum of all slice counts
func (s DistributionSeries) Total() int {
	total := 0
	for _, slice := range s {
		total += slice.Count
	}
	return total
}

// InspectorRow is the table view model of one InspectionEntry
type InspectorRow struct {
	Detector    string  `json:"detector"`
	Accuracy    float64 `json:"accuracy"`
	Percent     int     `json:"percent"`
	Flag        Flag    `json:"-"`
	Missed      string  `json:"missed"`
	MissedShort string  `json:"-"`
	Detected    string  `json:"detected,omitempty"`
}

// PercentLabel returns the accuracy as a display string such as "92%"
func (r InspectorRow) PercentLabel() string {
	return fmt.Sprintf("%d%%", r.Percent)
}

// HighAccuracy reports whether the row is flagged high accuracy
func (r InspectorRow) HighAccuracy() bool {
	return r.Flag == FlagHighAccuracy
}

// Elided reports whether MissedShort hides part of Missed
func (r InspectorRow) Elided() bool {
	return r.MissedShort != r.Missed
}

// DetectedTerms returns the PII texts the service lists as detected by
// this row's detector. The service joins them with ", " and may close the
// list with "(+N more)"; "None" means nothing was found.
func (r InspectorRow) DetectedTerms() []string {
	return splitItems(r.Detected)
}

func splitItems(list string) []string {
	var terms []string
	for _, item := range strings.Split(list, ", ") {
		item = strings.TrimSpace(item)
		if item == "" || item == "None" || (strings.HasPrefix(item, "(+") && strings.HasSuffix(item, "more)")) {
			continue
		}
		terms = append(terms, item)
	}
	return terms
}

// DetectedTerms collects the distinct detected texts across all rows in
// first-seen order
func (v View) DetectedTerms() []string {
	seen := make(map[string]bool)
	var terms []string
	for _, row := range v.Rows {
		for _, term := range row.DetectedTerms() {
			if !seen[term] {
				seen[term] = true
				terms = append(terms, term)
			}
		}
	}
	return terms
}

// View holds everything the renderer needs from one report
type View struct {
	Series DistributionSeries `json:"series"`
	Rows   []InspectorRow     `json:"rows"`
}

// Adapt derives the chart series and inspector rows from a report. It is a
// pure function: the report is not modified and a nil report yields an
// empty view.
func Adapt(r *Report) View {
	view := View{
		Series: DistributionSeries{},
		Rows:   []InspectorRow{},
	}
	if r == nil {
		return view
	}

	view.Series = make(DistributionSeries, 0, len(r.Counts))
	for _, c := range r.Counts {
		view.Series = append(view.Series, Slice{Category: c.Category, Count: c.Count})
	}

	view.Rows = make([]InspectorRow, 0, len(r.Inspection))
	for _, entry := range r.Inspection {
		view.Rows = append(view.Rows, NewInspectorRow(entry))
	}

	return view
}

// NewInspectorRow formats one inspection entry
func NewInspectorRow(entry InspectionEntry) InspectorRow {
	return InspectorRow{
		Detector:    entry.Model,
		Accuracy:    entry.Accuracy,
		Percent:     int(math.Round(entry.Accuracy * 100)),
		Flag:        FlagFor(entry.Accuracy),
		Missed:      entry.Missed,
		MissedShort: Elide(entry.Missed, MissedDisplayWidth),
		Detected:    entry.Detected,
	}
}

// FlagFor applies HighAccuracyThreshold
func FlagFor(accuracy float64) Flag {
	if accuracy > HighAccuracyThreshold {
		return FlagHighAccuracy
	}
	return FlagAttention
}

// Elide shortens s to at most width terminal cells, ending in an ellipsis
// when anything was cut.
func Elide(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, ellipsis)
}
