package report

// Report is the payload returned by the detection service for one file.
// It is treated as immutable once decoded.
type Report struct {
	Type        string            `json:"type,omitempty"`
	Counts      []CountEntry      `json:"counts"`
	Inspection  []InspectionEntry `json:"inspection"`
	PreviewText string            `json:"preview_text,omitempty"`
}

// CountEntry is the number of findings for one PII category
type CountEntry struct {
	Category string `json:"PII Type"`
	Count    int    `json:"Count"`
}

// InspectionEntry describes how one detector performed on the file
type InspectionEntry struct {
	Model    string  `json:"Model"`
	Accuracy float64 `json:"Accuracy"` // 0..1
	Missed   string  `json:"Missed PII"`
	Detected string  `json:"Detected PII,omitempty"`
	Found    int     `json:"Count,omitempty"`
}

// Empty reports whether the report carries nothing to render
func (r *Report) Empty() bool {
	return r == nil || (len(r.Counts) == 0 && len(r.Inspection) == 0)
}

// Total returns the sum of all category counts
func (r *Report) Total() int {
	if r == nil {
		return 0
	}
	total := 0
	for _, c := range r.Counts {
		total += c.Count
	}
	return total
}
