package analysis

import (
	"encoding/json"
	"strings"
)

// labelMatcher recognizes one provider response shape and pulls the first
// label out of it. ok is false when the shape does not match or the label is
// empty.
type labelMatcher struct {
	name  string
	match func(raw json.RawMessage) (label string, ok bool)
}

// labelMatchers are tried in order; the first match wins.
var labelMatchers = []labelMatcher{
	{name: "nested", match: matchNestedRecords},
	{name: "object", match: matchLabelObject},
	{name: "flat", match: matchFlatRecords},
}

// [[{"label": "POSITIVE", "score": 0.98}, ...]]
func matchNestedRecords(raw json.RawMessage) (string, bool) {
	first, ok := firstElement(raw)
	if !ok {
		return "", false
	}
	inner, ok := firstElement(first)
	if !ok {
		return "", false
	}
	return matchLabelObject(inner)
}

// {"label": "POSITIVE", "score": 0.98}
func matchLabelObject(raw json.RawMessage) (string, bool) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", false
	}
	return labelField(obj)
}

// [{"label": "POSITIVE", "score": 0.98}, ...]
func matchFlatRecords(raw json.RawMessage) (string, bool) {
	first, ok := firstElement(raw)
	if !ok {
		return "", false
	}
	return matchLabelObject(first)
}

// firstElement returns element 0 of a JSON array. The remaining elements
// are not inspected.
func firstElement(raw json.RawMessage) (json.RawMessage, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
		return nil, false
	}
	return items[0], true
}

func labelField(record map[string]any) (string, bool) {
	label, ok := record["label"].(string)
	if !ok || label == "" {
		return "", false
	}
	return label, true
}

// extractLabel runs the matchers in priority order and falls back to a
// keyword scan of the raw payload when none of them match.
func extractLabel(raw json.RawMessage) Label {
	for _, m := range labelMatchers {
		if label, ok := m.match(raw); ok {
			return normalizeLabel(label)
		}
	}
	return scanLabel(string(raw))
}

// normalizeLabel maps provider labels onto the closed vocabulary. Labels
// that match nothing are returned unmodified.
func normalizeLabel(label string) Label {
	if l, ok := keywordLabel(label); ok {
		return l
	}
	return Label(label)
}

func scanLabel(payload string) Label {
	if l, ok := keywordLabel(payload); ok {
		return l
	}
	return Unknown
}

func keywordLabel(s string) (Label, bool) {
	s = strings.ToLower(s)
	switch {
	case strings.Contains(s, "pos"):
		return Positive, true
	case strings.Contains(s, "neg"):
		return Negative, true
	case strings.Contains(s, "neu"):
		return Neutral, true
	}
	return "", false
}
