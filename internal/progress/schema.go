package progress

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// decoded is the outcome of coercing a stored or imported progress set.
type decoded struct {
	records map[int]ModuleProgress
	skipped []string
}

// decodeSet coerces a JSON object of module id -> record. Only a payload
// that is not an object fails; individual entries are coerced field by
// field. Entries that are not objects, or whose key is not the plain
// decimal id of a catalog module ("1", not "01"), are skipped.
func decodeSet(raw []byte, catalog Catalog, now time.Time) (decoded, error) {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return decoded{}, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	if entries == nil {
		return decoded{}, fmt.Errorf("%w: progress is not an object", ErrInvalidFormat)
	}

	out := decoded{records: make(map[int]ModuleProgress, len(entries))}
	for key, entry := range entries {
		id, err := strconv.Atoi(key)
		if err != nil || strconv.Itoa(id) != key || !catalog.Contains(id) {
			out.skipped = append(out.skipped, key)
			continue
		}
		rec, ok := decodeRecord(id, entry, now)
		if !ok {
			out.skipped = append(out.skipped, key)
			continue
		}
		out.records[id] = rec
	}
	return out, nil
}

// decodeRecord applies the per-field rules: numbers are rounded and
// clamped to [0,100] (anything non-numeric counts as 0), booleans default
// to false, and a missing or unreadable timestamp becomes now. The module
// id always comes from the key.
func decodeRecord(id int, raw json.RawMessage, now time.Time) (ModuleProgress, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return ModuleProgress{}, false
	}

	return ModuleProgress{
		ModuleID:             id,
		AudioProgress:        coercePercent(fields["audioProgress"]),
		ProgressPercentage:   coercePercent(fields["progressPercentage"]),
		AudioCompleted:       coerceBool(fields["audioCompleted"]),
		PermanentlyCompleted: coerceBool(fields["permanentlyCompleted"]),
		LastAccessed:         coerceTime(fields["lastAccessed"], now),
	}, true
}

func coercePercent(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		if f, err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return 0
		}
	}

	switch {
	case math.IsNaN(f):
		return 0
	case f >= 100:
		return 100
	case f <= 0:
		return 0
	}
	return int(math.Round(f))
}

func coerceBool(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		b, _ = strconv.ParseBool(strings.TrimSpace(s))
		return b
	}
	return false
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", time.DateOnly}

// Timestamps must stay within what encoding/json can write back.
var (
	minMillis = time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	maxMillis = time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli() - 1
)

// coerceTime accepts ISO-8601 strings and Unix milliseconds in years
// 0 through 9999.
func coerceTime(raw json.RawMessage, now time.Time) time.Time {
	if len(raw) == 0 {
		return now
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				if y := t.UTC().Year(); y < 0 || y > 9999 {
					return now
				}
				return t.UTC()
			}
		}
		return now
	}

	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil {
		if math.IsNaN(ms) || ms < float64(minMillis) || ms > float64(maxMillis) {
			return now
		}
		return time.UnixMilli(int64(ms)).UTC()
	}
	return now
}
