// Package schema converts CMS record schemas and submitted values into
// provider-native shapes: field definitions for table provisioning and
// typed cell values for record writes.
package schema

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ajitpratap0/recordsync/pkg/connector/core"
	jsonx "github.com/ajitpratap0/recordsync/pkg/json"
)

var (
	numberPattern   = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	datePattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dateTimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[Tt ]\d{2}:\d{2}(:\d{2}(\.\d+)?)?([Zz]|[+-]\d{2}:?\d{2})?$`)
)

// Convert turns one submitted string into the provider-native value for
// a field of the given declared type. An empty fieldType means the
// destination type is unknown and the value's shape is sniffed instead.
//
// Convert never fails: malformed input degrades to the original string
// so a bad value cannot reject the whole submission.
func Convert(raw string, fieldType core.FieldType) interface{} {
	switch fieldType {
	case "":
		return Sniff(raw)

	case core.FieldTypeCheckbox:
		return parseCheckbox(raw)

	case core.FieldTypeNumber:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
		return raw

	case core.FieldTypeMultipleSelect:
		return parseMultiSelect(raw)

	default:
		// Dates, emails, urls, selects and text are accepted by the
		// providers as plain strings.
		return raw
	}
}

// Sniff infers a provider value from the raw string's shape when no
// declared type is available.
func Sniff(raw string) interface{} {
	if strings.EqualFold(raw, "true") {
		return true
	}
	if strings.EqualFold(raw, "false") {
		return false
	}

	if numberPattern.MatchString(raw) {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	}

	if datePattern.MatchString(raw) || dateTimePattern.MatchString(raw) {
		return raw
	}

	if strings.Contains(raw, ",") {
		if parts := splitList(raw); len(parts) > 1 {
			return parts
		}
	}

	return raw
}

// parseCheckbox maps the form encodings of a checked box to true.
func parseCheckbox(raw string) bool {
	switch strings.ToLower(raw) {
	case "true", "1", "on":
		return true
	default:
		return false
	}
}

// parseMultiSelect parses a multi-choice value. JSON-array-looking
// values are parsed as JSON; otherwise comma-separated values split.
func parseMultiSelect(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		var items []interface{}
		if err := jsonx.Unmarshal([]byte(trimmed), &items); err == nil {
			out := make([]string, 0, len(items))
			for _, item := range items {
				if s, ok := item.(string); ok {
					out = append(out, s)
				} else {
					out = append(out, stringify(item))
				}
			}
			return out
		}
		return []string{raw}
	}

	if strings.Contains(raw, ",") {
		if parts := splitList(raw); len(parts) > 0 {
			return parts
		}
	}

	return []string{raw}
}

// splitList splits on commas, trims, and drops empty segments.
func splitList(raw string) []string {
	segments := strings.Split(raw, ",")
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		data, _ := jsonx.Marshal(v)
		return string(data)
	}
}
