package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/sensescan/internal/report"
)

// ChartPalette colors sectors by position and repeats once exhausted
var ChartPalette = []lipgloss.Color{"#6366f1", "#ec4899", "#f59e0b", "#10b981"}

const (
	minDiameter = 8
	innerRatio  = 0.55

	sectorGlyph  = "█"
	dimmedGlyph  = "░"
	placeholder  = "·"
	legendMarker = "■"
)

// PaletteColor returns the sector color for position i
func PaletteColor(i int) lipgloss.Color {
	if i < 0 {
		i = -i
	}
	return ChartPalette[i%len(ChartPalette)]
}

// Sector is one slice of the ring, as fractions of a full turn
type Sector struct {
	Index    int
	Category string
	Count    int
	Start    float64
	End      float64
	Color    lipgloss.Color
}

// Share returns the sector's fraction of the total
func (s Sector) Share() float64 {
	return s.End - s.Start
}

// Donut renders a DistributionSeries as a ring chart with a legend and a
// tooltip for the focused sector
type Donut struct {
	Title    string
	Series   report.DistributionSeries
	Focused  int // -1 when nothing is focused
	Diameter int

	MutedStyle   lipgloss.Style
	TooltipStyle lipgloss.Style
}

// NewDonut creates a donut chart with no focused sector
func NewDonut(title string, diameter int) *Donut {
	return &Donut{
		Title:        title,
		Focused:      -1,
		Diameter:     diameter,
		MutedStyle:   lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}),
		TooltipStyle: lipgloss.NewStyle().Bold(true),
	}
}

// SetSeries replaces the data and clears the focus
func (d *Donut) SetSeries(series report.DistributionSeries) {
	d.Series = series
	d.Focused = -1
}

// Sectors lays the series out around the ring in input order. Every series
// entry yields a sector; zero counts get zero width.
func (d *Donut) Sectors() []Sector {
	sectors := make([]Sector, 0, len(d.Series))
	total := float64(d.Series.Total())
	start := 0.0
	for i, slice := range d.Series {
		share := 0.0
		if total > 0 {
			share = float64(slice.Count) / total
		}
		end := start + share
		if i == len(d.Series)-1 && total > 0 {
			end = 1
		}
		sectors = append(sectors, Sector{
			Index:    i,
			Category: slice.Category,
			Count:    slice.Count,
			Start:    start,
			End:      end,
			Color:    PaletteColor(i),
		})
		start = end
	}
	return sectors
}

// FocusNext moves the tooltip to the next sector, wrapping around
func (d *Donut) FocusNext() {
	if len(d.Series) == 0 {
		return
	}
	d.Focused = (d.Focused + 1) % len(d.Series)
}

// FocusPrev moves the tooltip to the previous sector, wrapping around
func (d *Donut) FocusPrev() {
	if len(d.Series) == 0 {
		return
	}
	if d.Focused <= 0 {
		d.Focused = len(d.Series) - 1
		return
	}
	d.Focused--
}

// Tooltip returns the exact category and count of the focused sector
func (d *Donut) Tooltip() string {
	if d.Focused < 0 || d.Focused >= len(d.Series) {
		return ""
	}
	slice := d.Series[d.Focused]
	return fmt.Sprintf("%s: %d", slice.Category, slice.Count)
}

// Render renders the ring, the legend and the tooltip line
func (d *Donut) Render() string {
	parts := []string{}
	if d.Title != "" {
		parts = append(parts, lipgloss.NewStyle().Bold(true).Render(d.Title), "")
	}

	parts = append(parts, d.renderRing())

	if len(d.Series) == 0 {
		parts = append(parts, "", d.MutedStyle.Render("No PII detected"))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	parts = append(parts, "", d.renderLegend())
	if tip := d.Tooltip(); tip != "" {
		parts = append(parts, "", d.TooltipStyle.Foreground(PaletteColor(d.Focused)).Render("▶ "+tip))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (d *Donut) renderRing() string {
	cols := max(d.Diameter, minDiameter)
	rows := cols / 2
	sectors := d.Sectors()
	total := d.Series.Total()

	styles := make([]lipgloss.Style, len(sectors))
	for i, s := range sectors {
		styles[i] = lipgloss.NewStyle().Foreground(s.Color)
	}

	lines := make([]string, rows)
	for r := 0; r < rows; r++ {
		cells := make([]string, cols)
		hole := []int{}
		for c := 0; c < cols; c++ {
			x := (float64(c)+0.5)/float64(cols)*2 - 1
			y := (float64(r)+0.5)/float64(rows)*2 - 1
			dist := math.Hypot(x, y)

			switch {
			case dist > 1:
				cells[c] = " "
			case dist < innerRatio:
				cells[c] = " "
				hole = append(hole, c)
			case total == 0:
				cells[c] = d.MutedStyle.Render(placeholder)
			default:
				idx := sectorAt(sectors, angleFraction(x, y))
				glyph := sectorGlyph
				if d.Focused >= 0 && idx != d.Focused {
					glyph = dimmedGlyph
				}
				cells[c] = styles[idx].Render(glyph)
			}
		}
		if r == rows/2 {
			centerLabel(cells, hole, fmt.Sprintf("%d", total))
		}
		lines[r] = strings.Join(cells, "")
	}
	return strings.Join(lines, "\n")
}

func (d *Donut) renderLegend() string {
	total := d.Series.Total()
	lines := make([]string, 0, len(d.Series))
	for i, slice := range d.Series {
		pct := 0.0
		if total > 0 {
			pct = float64(slice.Count) / float64(total) * 100
		}
		marker := lipgloss.NewStyle().Foreground(PaletteColor(i)).Render(legendMarker)
		prefix := "  "
		if i == d.Focused {
			prefix = "▶ "
		}
		lines = append(lines, fmt.Sprintf("%s%s %s %s", prefix, marker, slice.Category,
			d.MutedStyle.Render(fmt.Sprintf("%d (%.1f%%)", slice.Count, pct))))
	}
	return strings.Join(lines, "\n")
}

// angleFraction maps a point to the fraction of a clockwise turn from 12 o'clock
func angleFraction(x, y float64) float64 {
	angle := math.Atan2(x, -y)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle / (2 * math.Pi)
}

// sectorAt returns the sector covering fraction f. Zero-width sectors never
// match.
func sectorAt(sectors []Sector, f float64) int {
	last := 0
	for i, s := range sectors {
		if s.Share() <= 0 {
			continue
		}
		last = i
		if f < s.End {
			return i
		}
	}
	return last
}

// centerLabel writes label into the hole cells of the middle row
func centerLabel(cells []string, hole []int, label string) {
	if len(label) > len(hole) {
		return
	}
	offset := hole[0] + (len(hole)-len(label))/2
	for i, ch := range label {
		cells[offset+i] = string(ch)
	}
}
