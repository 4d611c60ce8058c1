package components

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PreviewViewer shows the text the service extracted from the file, wrapped
// to Width and scrolled Height lines at a time. Highlight terms are marked
// wherever they appear.
type PreviewViewer struct {
	Title  string
	Width  int
	Height int

	HeaderStyle    lipgloss.Style
	BodyStyle      lipgloss.Style
	MutedStyle     lipgloss.Style
	HighlightStyle lipgloss.Style

	lines     []string
	offset    int
	highlight *regexp.Regexp
}

// NewPreviewViewer creates an empty viewer
func NewPreviewViewer(title string, width, height int) *PreviewViewer {
	return &PreviewViewer{
		Title:          title,
		Width:          max(width, 10),
		Height:         max(height, 1),
		HeaderStyle:    lipgloss.NewStyle().Bold(true),
		BodyStyle:      lipgloss.NewStyle(),
		MutedStyle:     lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}),
		HighlightStyle: lipgloss.NewStyle().Bold(true).Reverse(true),
	}
}

// SetText replaces the content and scrolls back to the top. Runs of
// whitespace inside a paragraph collapse to one space.
func (v *PreviewViewer) SetText(text string) {
	v.lines = v.lines[:0]
	v.offset = 0
	for _, paragraph := range strings.Split(text, "\n") {
		paragraph = strings.Join(strings.Fields(paragraph), " ")
		if paragraph == "" {
			continue
		}
		v.lines = append(v.lines, strings.Split(wrap(paragraph, v.Width), "\n")...)
	}
}

// SetHighlight sets the terms to mark, matched case-insensitively. Longer
// terms win when two overlap.
func (v *PreviewViewer) SetHighlight(terms []string) {
	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		if term == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(term))
	}
	if len(quoted) == 0 {
		v.highlight = nil
		return
	}
	sort.SliceStable(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })

	re, err := regexp.Compile("(?i)" + strings.Join(quoted, "|"))
	if err != nil {
		v.highlight = nil
		return
	}
	v.highlight = re
}

// Lines returns the number of wrapped lines
func (v *PreviewViewer) Lines() int {
	return len(v.lines)
}

// Offset returns the first visible line
func (v *PreviewViewer) Offset() int {
	return v.offset
}

// ScrollDown moves one page down, stopping at the last page
func (v *PreviewViewer) ScrollDown() bool {
	last := max(0, len(v.lines)-v.Height)
	if v.offset >= last {
		return false
	}
	v.offset = min(last, v.offset+v.Height)
	return true
}

// ScrollUp moves one page up
func (v *PreviewViewer) ScrollUp() bool {
	if v.offset == 0 {
		return false
	}
	v.offset = max(0, v.offset-v.Height)
	return true
}

// Render renders the visible page, or "" when there is no text
func (v *PreviewViewer) Render() string {
	if len(v.lines) == 0 {
		return ""
	}

	end := min(len(v.lines), v.offset+v.Height)
	title := v.Title
	if len(v.lines) > v.Height {
		title = fmt.Sprintf("%s (%d-%d/%d)", v.Title, v.offset+1, end, len(v.lines))
	}

	content := []string{v.HeaderStyle.Render(title)}
	for _, line := range v.lines[v.offset:end] {
		content = append(content, v.renderLine(line))
	}
	if len(v.lines) > v.Height {
		content = append(content, v.MutedStyle.Render("Use pgup/pgdown to scroll the preview"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, content...)
}

func (v *PreviewViewer) renderLine(line string) string {
	if v.highlight == nil {
		return v.BodyStyle.Render(line)
	}

	var b strings.Builder
	last := 0
	for _, loc := range v.highlight.FindAllStringIndex(line, -1) {
		b.WriteString(v.BodyStyle.Render(line[last:loc[0]]))
		b.WriteString(v.HighlightStyle.Render(line[loc[0]:loc[1]]))
		last = loc[1]
	}
	b.WriteString(v.BodyStyle.Render(line[last:]))
	return b.String()
}
