package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/yildizm/sensescan/internal/report"
)

// csvFormatter writes distribution and inspection records into one CSV
type csvFormatter struct{}

// NewCSV creates a new CSV formatter
func NewCSV() Formatter {
	return &csvFormatter{}
}

func (f *csvFormatter) Format(view report.View, meta Meta) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	headers := []string{
		"Section",
		"File",
		"Name",
		"Count",
		"Share",
		"Accuracy",
		"Flag",
		"Missed",
	}

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	total := view.Series.Total()
	for _, slice := range view.Series {
		record := []string{
			"distribution",
			meta.File,
			slice.Category,
			strconv.Itoa(slice.Count),
			fmt.Sprintf("%.1f", share(slice.Count, total)),
			"",
			"",
			"",
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	for _, row := range view.Rows {
		record := []string{
			"inspection",
			meta.File,
			row.Detector,
			"",
			"",
			strconv.FormatFloat(row.Accuracy, 'f', -1, 64),
			row.Flag.String(),
			escapeCSVString(row.Missed),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return b.Bytes(), nil
}

// escapeCSVString flattens line breaks; quoting is left to encoding/csv
func escapeCSVString(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}
