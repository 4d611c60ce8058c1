package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/yildizm/sensescan/internal/report"
)

const (
	detectorColumnWidth = 18
	accuracyColumnWidth = 9
	columnGap           = "  "
)

// TableStyles holds the styles an InspectorTable renders with
type TableStyles struct {
	Header         lipgloss.Style
	Muted          lipgloss.Style
	Cursor         lipgloss.Style
	HighBadge      lipgloss.Style
	AttentionBadge lipgloss.Style
}

// DefaultTableStyles returns the stock table styles
func DefaultTableStyles() TableStyles {
	return TableStyles{
		Header: lipgloss.NewStyle().Bold(true),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}),
		Cursor: lipgloss.NewStyle().Bold(true).
			Background(lipgloss.AdaptiveColor{Light: "#DBEAFE", Dark: "#1E3A8A"}),
		HighBadge: lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"}),
		AttentionBadge: lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("#111827")).
			Background(lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"}),
	}
}

// InspectorTable renders detector rows under a fixed header. The body
// scrolls on its own; the row under the cursor shows its full missed text.
type InspectorTable struct {
	Rows   []report.InspectorRow
	Height int // visible body rows
	Styles TableStyles

	cursor int
	offset int
}

// NewInspectorTable creates a table showing at most height body rows
func NewInspectorTable(height int) *InspectorTable {
	return &InspectorTable{
		Height: max(height, 1),
		Styles: DefaultTableStyles(),
	}
}

// SetRows replaces the rows and scrolls back to the top
func (t *InspectorTable) SetRows(rows []report.InspectorRow) {
	t.Rows = rows
	t.cursor = 0
	t.offset = 0
}

// Cursor returns the index of the highlighted row
func (t *InspectorTable) Cursor() int {
	return t.cursor
}

// Offset returns the index of the first visible row
func (t *InspectorTable) Offset() int {
	return t.offset
}

// MoveUp moves the cursor up, scrolling when it leaves the window
func (t *InspectorTable) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
	}
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
}

// MoveDown moves the cursor down, scrolling when it leaves the window
func (t *InspectorTable) MoveDown() {
	if t.cursor < len(t.Rows)-1 {
		t.cursor++
	}
	if t.cursor >= t.offset+t.Height {
		t.offset = t.cursor - t.Height + 1
	}
}

// VisibleRows returns the rows inside the scroll window
func (t *InspectorTable) VisibleRows() []report.InspectorRow {
	if len(t.Rows) == 0 {
		return nil
	}
	end := min(t.offset+t.Height, len(t.Rows))
	return t.Rows[t.offset:end]
}

// Selected returns the row under the cursor
func (t *InspectorTable) Selected() (report.InspectorRow, bool) {
	if t.cursor < 0 || t.cursor >= len(t.Rows) {
		return report.InspectorRow{}, false
	}
	return t.Rows[t.cursor], true
}

// Render renders the header, the visible body and the scroll hints
func (t *InspectorTable) Render() string {
	header := t.Styles.Header.Render(
		cell("Detector", detectorColumnWidth) + columnGap +
			cell("Accuracy", accuracyColumnWidth) + columnGap +
			"Missed PII")
	rule := t.Styles.Muted.Render(strings.Repeat("─", detectorColumnWidth+accuracyColumnWidth+len(columnGap)*2+report.MissedDisplayWidth))

	lines := []string{header, rule}
	if len(t.Rows) == 0 {
		lines = append(lines, t.Styles.Muted.Render("No detector results"))
		return strings.Join(lines, "\n")
	}

	if t.offset > 0 {
		lines = append(lines, t.Styles.Muted.Render(fmt.Sprintf("↑ %d more", t.offset)))
	}

	for i, row := range t.VisibleRows() {
		index := t.offset + i
		badge := t.badge(row)
		line := cell(row.Detector, detectorColumnWidth) + columnGap +
			badge + strings.Repeat(" ", max(0, accuracyColumnWidth-lipgloss.Width(badge))) + columnGap +
			row.MissedShort
		if index == t.cursor {
			line = t.Styles.Cursor.Render(line)
		}
		lines = append(lines, line)

		if index == t.cursor && row.Elided() {
			lines = append(lines, t.Styles.Muted.Render(wrap("  "+row.Missed, detectorColumnWidth+accuracyColumnWidth+report.MissedDisplayWidth)))
		}
	}

	if below := len(t.Rows) - t.offset - t.Height; below > 0 {
		lines = append(lines, t.Styles.Muted.Render(fmt.Sprintf("↓ %d more", below)))
	}

	return strings.Join(lines, "\n")
}

func (t *InspectorTable) badge(row report.InspectorRow) string {
	if row.HighAccuracy() {
		return t.Styles.HighBadge.Render(" " + row.PercentLabel() + " ✓ ")
	}
	return t.Styles.AttentionBadge.Render(" " + row.PercentLabel() + " ! ")
}

// cell pads or elides s to exactly width terminal cells
func cell(s string, width int) string {
	return runewidth.FillRight(report.Elide(s, width), width)
}

// wrap breaks s into lines of at most width cells
func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	var lines []string
	var current strings.Builder
	currentWidth := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if currentWidth+w > width {
			lines = append(lines, current.String())
			current.Reset()
			currentWidth = 0
		}
		current.WriteRune(r)
		currentWidth += w
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return strings.Join(lines, "\n")
}
