package vision

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/nexable/smartcookly/backend/internal/fridge"
)

// maxShelfLifeDays bounds how far from today a detected expiration may lie.
// Anything further out is treated as no date.
const maxShelfLifeDays = 36500

// ParseResult is the outcome of a best-effort parse. Items is never nil.
// Reason is set when the response as a whole could not be used, or when
// every entry in it was dropped.
type ParseResult struct {
	Items   []fridge.FoodItem `json:"items"`
	Dropped int               `json:"dropped"`
	Reason  string            `json:"reason,omitempty"`
}

// OK reports whether the response yielded a usable array.
func (r ParseResult) OK() bool {
	return r.Reason == ""
}

type detectedItem struct {
	Name       json.RawMessage `json:"name"`
	Category   json.RawMessage `json:"category"`
	Days       json.RawMessage `json:"estimated_days_until_expiration"`
	Expiration json.RawMessage `json:"expiration_date"`
}

// ExtractJSONArray returns the text between the first '[' and the last ']'.
func ExtractJSONArray(content string) (string, bool) {
	start := strings.IndexByte(content, '[')
	end := strings.LastIndexByte(content, ']')
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return content[start : end+1], true
}

// DecodeArray extracts and decodes the JSON array embedded in content into
// its raw elements.
func DecodeArray(content string) ([]json.RawMessage, string) {
	raw, ok := ExtractJSONArray(content)
	if !ok {
		return nil, "no JSON array found in model response"
	}
	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Sprintf("malformed JSON array: %v", err)
	}
	return entries, ""
}

// ParseDetectedItems turns free-form model output into candidate items.
// Entries without a name are dropped individually. A missing or unknown
// category becomes OTHER. estimated_days_until_expiration N becomes today+N.
// This never fails: an unusable response yields no items and a Reason.
func ParseDetectedItems(content string, today civil.Date) ParseResult {
	result := ParseResult{Items: []fridge.FoodItem{}}

	entries, reason := DecodeArray(content)
	if reason != "" {
		result.Reason = reason
		return result
	}

	for _, entry := range entries {
		item, ok := parseEntry(entry, today)
		if !ok {
			result.Dropped++
			continue
		}
		result.Items = append(result.Items, item)
	}

	if len(result.Items) == 0 && result.Dropped > 0 {
		result.Reason = fmt.Sprintf("all %d detected entries were malformed", result.Dropped)
	}
	return result
}

func parseEntry(entry json.RawMessage, today civil.Date) (fridge.FoodItem, bool) {
	var d detectedItem
	if err := json.Unmarshal(entry, &d); err != nil {
		return fridge.FoodItem{}, false
	}

	name, ok := LenientString(d.Name)
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fridge.FoodItem{}, false
	}

	category := fridge.Other
	if label, ok := LenientString(d.Category); ok {
		category = fridge.NormalizeCategory(label)
	}

	item := fridge.FoodItem{
		Name:     name,
		Category: category,
	}
	if days, ok := LenientInt(d.Days); ok && withinShelfLife(days) {
		exp := today.AddDays(days)
		item.ExpirationDate = &exp
	} else if s, ok := LenientString(d.Expiration); ok {
		if exp, err := civil.ParseDate(strings.TrimSpace(s)); err == nil && withinShelfLife(exp.DaysSince(today)) {
			item.ExpirationDate = &exp
		}
	}
	return item, true
}

func withinShelfLife(days int) bool {
	return days >= -maxShelfLifeDays && days <= maxShelfLifeDays
}

// LenientString reads a JSON string, number or bool as text. Null, objects
// and arrays are rejected.
func LenientString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, true
	case '{', '[':
		return "", false
	}
	return string(raw), true
}

// LenientInt reads a JSON number or a numeric string. Fractions are truncated.
// Values outside the int32 range are rejected.
func LenientInt(raw json.RawMessage) (int, bool) {
	s, ok := LenientString(raw)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}
