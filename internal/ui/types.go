package ui

import "github.com/yildizm/sensescan/internal/logger"

// focusArea is the part of the dashboard receiving keystrokes
type focusArea int

const (
	focusInput focusArea = iota
	focusResults
)

// Options configures the dashboard
type Options struct {
	InitialPath string // selected on start when non-empty
	BaseURL     string // shown in the header
	TableRows   int
	ChartWidth  int
	Logger      *logger.Logger
}
