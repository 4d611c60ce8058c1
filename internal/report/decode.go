package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNotObject is returned when the body is valid JSON but not an object
var ErrNotObject = errors.New("report body is not a JSON object")

// Field aliases accepted for each value. The service emits the first key;
// the lowercase forms are accepted for hand-written fixtures and proxies.
var (
	categoryKeys = []string{"PII Type", "category", "type"}
	countKeys    = []string{"Count", "count"}
	modelKeys    = []string{"Model", "model", "detector"}
	accuracyKeys = []string{"Accuracy", "accuracy"}
	missedKeys   = []string{"Missed PII", "missed"}
	detectedKeys = []string{"Detected PII", "detected"}
)

// Decode parses an untrusted service response into a Report.
//
// Only a body that is not a JSON object is an error. Missing or malformed
// "counts" and "inspection" fields decode to empty sequences, elements that
// are not objects are skipped, counts are clamped to >= 0 and accuracy to
// [0, 1].
func Decode(data []byte) (*Report, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("failed to decode report: empty body")
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &top); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, fmt.Errorf("failed to decode report: %w", err)
		}
		return nil, ErrNotObject
	}
	if top == nil {
		return nil, ErrNotObject
	}

	r := &Report{
		Counts:     []CountEntry{},
		Inspection: []InspectionEntry{},
	}
	r.Type, _ = stringField(top, "type")
	r.PreviewText, _ = stringField(top, "preview_text")

	for _, obj := range objectList(top["counts"]) {
		category, _ := stringField(obj, categoryKeys...)
		count, _ := numberField(obj, countKeys...)
		r.Counts = append(r.Counts, CountEntry{
			Category: category,
			Count:    clampCount(count),
		})
	}

	for _, obj := range objectList(top["inspection"]) {
		model, _ := stringField(obj, modelKeys...)
		accuracy, _ := numberField(obj, accuracyKeys...)
		missed, _ := stringField(obj, missedKeys...)
		detected, _ := stringField(obj, detectedKeys...)
		found, _ := numberField(obj, countKeys...)
		r.Inspection = append(r.Inspection, InspectionEntry{
			Model:    model,
			Accuracy: clampUnit(accuracy),
			Missed:   missed,
			Detected: detected,
			Found:    clampCount(found),
		})
	}

	return r, nil
}

// objectList returns the object elements of a JSON array, skipping anything
// else. A missing or non-array value yields nil.
func objectList(raw json.RawMessage) []map[string]json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	objects := make([]map[string]json.RawMessage, 0, len(items))
	for _, item := range items {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(item, &obj); err != nil || obj == nil {
			continue
		}
		objects = append(objects, obj)
	}
	return objects
}

// stringField returns the first key present as a string. Numbers and
// booleans are rendered as text; lists of strings are joined with ", ".
func stringField(obj map[string]json.RawMessage, keys ...string) (string, bool) {
	for _, key := range keys {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s, true
		}
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil {
			return strings.Join(list, ", "), true
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			return n.String(), true
		}
		var b bool
		if err := json.Unmarshal(raw, &b); err == nil {
			return strconv.FormatBool(b), true
		}
	}
	return "", false
}

// numberField returns the first key present as a number. Numeric strings
// are accepted.
func numberField(obj map[string]json.RawMessage, keys ...string) (float64, bool) {
	for _, key := range keys {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		var f float64
		if err := json.Unmarshal(raw, &f); err == nil {
			return f, true
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				return parsed, true
			}
		}
	}
	return 0, false
}

func clampCount(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Round(v))
}

func clampUnit(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
