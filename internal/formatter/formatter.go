package formatter

import (
	"fmt"
	"time"

	"github.com/yildizm/sensescan/internal/report"
)

// Meta describes the scan a view was derived from
type Meta struct {
	File      string
	ScanID    string
	Type      string
	Preview   string
	Elapsed   time.Duration
	ScannedAt time.Time
}

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(view report.View, meta Meta) ([]byte, error)
}

// Formats lists the accepted format names
var Formats = []string{"text", "json", "markdown", "csv"}

// New returns the formatter for a format name
func New(format string, color bool) (Formatter, error) {
	switch format {
	case "", "text":
		return NewTerminal(color), nil
	case "json":
		return NewJSON(), nil
	case "markdown", "md":
		return NewMarkdown(), nil
	case "csv":
		return NewCSV(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (must be one of: text, json, markdown, csv)", format)
	}
}
