package ui

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/sensescan/internal/emoji"
	"github.com/yildizm/sensescan/internal/logger"
	"github.com/yildizm/sensescan/internal/scan"
	"github.com/yildizm/sensescan/internal/selector"
	"github.com/yildizm/sensescan/internal/ui/components"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	previewWidth  = 80
	previewRows   = 4
)

// Model is the scan dashboard: a path input, a scan trigger and the result
// panels. All state changes happen inside Update; the scan request itself
// runs as a tea.Cmd and comes back as a scanCompleteMsg.
type Model struct {
	ctx        context.Context
	controller *scan.Controller
	styles     *Styles
	log        *logger.Logger
	baseURL    string

	donut   *components.Donut
	table   *components.InspectorTable
	preview *components.PreviewViewer

	input  []rune
	focus  focusArea
	notice string
	alert  string

	width        int
	height       int
	spinnerFrame int
	quitting     bool
}

// NewModel creates the dashboard around a fresh controller
func NewModel(ctx context.Context, scanner scan.Scanner, opts Options) *Model {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	styles := GetStyles()

	m := &Model{
		ctx:     ctx,
		styles:  styles,
		log:     log.WithComponent("ui"),
		baseURL: opts.BaseURL,
		donut:   components.NewDonut("PII Distribution", opts.ChartWidth),
		table:   components.NewInspectorTable(opts.TableRows),
		preview: components.NewPreviewViewer(emoji.GetEmoji("preview")+" Text Preview", previewWidth, previewRows),
		width:   defaultWidth,
		height:  defaultHeight,
	}
	m.donut.MutedStyle = styles.Muted
	m.table.Styles = styles.TableStyles()
	m.preview.HeaderStyle = styles.Subheader
	m.preview.BodyStyle = styles.Body
	m.preview.MutedStyle = styles.Muted
	m.preview.HighlightStyle = styles.Highlight.Bold(true)

	m.controller = scan.NewController(scanner, selector.New(),
		scan.WithLogger(log.WithComponent("scan")),
		scan.WithNotifier(scan.NotifierFunc(m.showAlert)),
	)

	if opts.InitialPath != "" {
		m.input = []rune(opts.InitialPath)
		m.selectPath(opts.InitialPath)
	}

	return m
}

// Controller exposes the scan controller driving the dashboard
func (m *Model) Controller() *scan.Controller {
	return m.controller
}

// Init starts in the alternate screen
func (m *Model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tickMsg:
		return m.handleTick()
	case scanCompleteMsg:
		return m.handleScanComplete(msg)
	}
	return m, nil
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The alert blocks everything until dismissed
	if m.alert != "" {
		m.alert = ""
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "ctrl+s":
		return m.submit()
	case "tab", "shift+tab":
		m.toggleFocus()
		return m, nil
	}

	if m.focus == focusInput {
		return m.handleInputKey(msg)
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "s", "enter":
		return m.submit()
	case "/", "o":
		m.focus = focusInput
	case "left", "h":
		m.donut.FocusPrev()
	case "right", "l":
		m.donut.FocusNext()
	case "up", "k":
		m.table.MoveUp()
	case "down", "j":
		m.table.MoveDown()
	case "pgup":
		m.preview.ScrollUp()
	case "pgdown":
		m.preview.ScrollDown()
	}
	return m, nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.selectPath(strings.TrimSpace(string(m.input)))
	case tea.KeyEsc:
		m.focus = focusResults
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeyCtrlU:
		m.input = m.input[:0]
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
	}
	return m, nil
}

func (m *Model) toggleFocus() {
	if m.focus == focusInput {
		m.focus = focusResults
		return
	}
	m.focus = focusInput
}

// selectPath hands an existing regular file to the selector. Anything the
// picker would not offer is reported in the status line instead.
func (m *Model) selectPath(path string) {
	if path == "" {
		m.notice = "Enter the path of a file to scan"
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		m.notice = fmt.Sprintf("Cannot open %s", path)
		m.log.Debug("stat %s: %v", path, err)
		return
	}
	if info.IsDir() {
		m.notice = fmt.Sprintf("%s is a directory", path)
		return
	}

	file := selector.FromPath(path)
	m.controller.Selector().Select(file)
	m.notice = fmt.Sprintf("Selected %s", file.Name())
	m.focus = focusResults
}

func (m *Model) submit() (tea.Model, tea.Cmd) {
	req := m.controller.Submit(m.ctx)
	if req == nil {
		return m, nil
	}
	m.spinnerFrame = 0
	return m, tea.Batch(scanCommand(req), tick())
}

func (m *Model) handleTick() (tea.Model, tea.Cmd) {
	if m.controller.State().Kind() != scan.KindSubmitting {
		return m, nil
	}
	m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerChars)
	return m, tick()
}

func (m *Model) handleScanComplete(msg scanCompleteMsg) (tea.Model, tea.Cmd) {
	if m.controller.Resolve(msg.outcome) {
		m.refresh()
	}
	return m, nil
}

// refresh feeds the renderer from the controller's current state
func (m *Model) refresh() {
	view := m.controller.View()
	m.donut.SetSeries(view.Series)
	m.table.SetRows(view.Rows)

	text := ""
	if r := m.controller.State().Report(); r != nil {
		text = r.PreviewText
	}
	m.preview.SetText(text)
	m.preview.SetHighlight(view.DetectedTerms())
}

func (m *Model) showAlert(message string) {
	m.alert = message
}

// View renders the dashboard, or only the alert while one is pending
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.alert != "" {
		return m.renderAlert()
	}

	sections := []string{
		m.renderHeader(),
		"",
		m.renderFilePanel(),
		m.renderStatus(),
		"",
		m.renderResults(),
	}
	if preview := m.renderPreview(); preview != "" {
		sections = append(sections, "", preview)
	}
	sections = append(sections, "", m.renderHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderHeader() string {
	title := m.styles.Title.Render(emoji.GetEmoji("shield") + " SenseScan PII Dashboard")
	if m.baseURL == "" {
		return title
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, title, m.styles.Muted.Render(emoji.GetEmoji("service")+" "+m.baseURL))
}

func (m *Model) renderFilePanel() string {
	cursor := ""
	box := m.styles.Panel
	if m.focus == focusInput {
		cursor = "▌"
		box = m.styles.Focused
	}
	field := box.Width(min(m.width-4, 60)).Render(emoji.GetEmoji("file") + " " + string(m.input) + cursor)

	button := m.styles.Selected.Render(" " + emoji.GetEmoji("upload") + " Scan ")
	if !m.controller.CanSubmit() {
		button = m.styles.Muted.Render(" " + emoji.GetEmoji("upload") + " Scan ")
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, field, "  ", button)
}

func (m *Model) renderStatus() string {
	state := m.controller.State()
	var status string
	switch state.Kind() {
	case scan.KindSubmitting:
		status = m.styles.Info.Render(fmt.Sprintf("%s Scanning %s...", spinnerChars[m.spinnerFrame], state.Source()))
	case scan.KindSucceeded:
		status = m.styles.Success.Render(fmt.Sprintf("%s Scanned %s", emoji.GetEmoji("success"), state.Source()))
		if t := state.Report().Type; t != "" {
			status += m.styles.Muted.Render(" (" + t + ")")
		}
		if state.Report().Empty() {
			status += m.styles.Muted.Render(", nothing to show")
		}
	case scan.KindFailed:
		status = m.styles.Error.Render(fmt.Sprintf("%s Scan of %s failed", emoji.GetEmoji("error"), state.Source()))
	default:
		status = m.styles.Muted.Render("Choose a file, then press ctrl+s to scan")
	}

	if m.notice != "" {
		status += m.styles.Muted.Render("  • " + m.notice)
	}
	return status
}

func (m *Model) renderResults() string {
	chart := m.styles.Box.Render(m.donut.Render())
	table := m.styles.Box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.styles.Header.Render(emoji.GetEmoji("detector")+" Model Inspector"),
			"",
			m.table.Render(),
		))

	if lipgloss.Width(chart)+lipgloss.Width(table) > m.width {
		return lipgloss.JoinVertical(lipgloss.Left, chart, table)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chart, table)
}

func (m *Model) renderPreview() string {
	if m.controller.State().Kind() != scan.KindSucceeded {
		return ""
	}
	return m.preview.Render()
}

func (m *Model) renderHelp() string {
	if m.focus == focusInput {
		return m.styles.Muted.Render("Enter select file • ctrl+s scan • tab results • ctrl+c quit")
	}
	return m.styles.Muted.Render("s scan • / edit path • ←/→ sectors • ↑/↓ detectors • pgup/pgdown preview • q quit")
}

func (m *Model) renderAlert() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		emoji.GetEmoji("error")+" "+m.alert,
		"",
		m.styles.Muted.Render("Press any key to continue"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.styles.Alert.Render(content))
}

// Run starts the dashboard and blocks until the user quits
func Run(ctx context.Context, scanner scan.Scanner, opts Options) error {
	program := tea.NewProgram(NewModel(ctx, scanner, opts), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
