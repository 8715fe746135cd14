package suppliers

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"hotel_merge/internal/domain"
)

/********** tiny helpers over decoded JSON objects **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// optStr returns the trimmed string at path, or nil when missing, not a string or blank.
func optStr(m map[string]any, path string) *string {
	s, ok := lookupAny(m, path).(string)
	if !ok {
		return nil
	}
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

// idStr renders an identifier that suppliers send either as a string or a number.
// Returns "" when the value is missing or unusable.
func idStr(m map[string]any, path string) string {
	switch v := lookupAny(m, path).(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return ""
}

// optFloat: number at path (json.Number/float64/numeric string). Anything else is nil,
// so a garbled coordinate never turns into 0.
func optFloat(m map[string]any, path string) *float64 {
	var f float64
	switch v := lookupAny(m, path).(type) {
	case json.Number:
		x, err := v.Float64()
		if err != nil {
			return nil
		}
		f = x
	case float64:
		f = v
	case int:
		f = float64(v)
	case string:
		x, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		f = x
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// stringList returns the trimmed, non-blank strings of the array at path.
// Non-string elements are dropped. Never nil.
func stringList(m map[string]any, path string) []string {
	raw, _ := lookupAny(m, path).([]any)
	out := make([]string, 0, len(raw))
	for _, it := range raw {
		if s, ok := it.(string); ok {
			if t := strings.TrimSpace(s); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}

// amenityList is stringList folded to lower case.
func amenityList(m map[string]any, path string) []string {
	out := stringList(m, path)
	lower := cases.Lower(language.Und)
	for i, s := range out {
		out[i] = lower.String(s)
	}
	return out
}

// imageList reads an array of image objects; linkKey/descKey name the supplier's fields.
// Entries without a link are dropped. Never nil.
func imageList(m map[string]any, path, linkKey, descKey string) []domain.Image {
	raw, _ := lookupAny(m, path).([]any)
	out := make([]domain.Image, 0, len(raw))
	for _, it := range raw {
		obj, ok := it.(map[string]any)
		if !ok {
			continue
		}
		link := optStr(obj, linkKey)
		if link == nil {
			continue
		}
		img := domain.Image{Link: *link}
		if d := optStr(obj, descKey); d != nil {
			img.Description = *d
		}
		out = append(out, img)
	}
	return out
}

// firstSentence trims s and cuts it at the first period.
func firstSentence(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
