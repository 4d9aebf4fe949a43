package docstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/google/uuid"
)

// TimeLayout is the ISO-8601 form used for createdAt/updatedAt
// (UTC, millisecond precision, trailing Z).
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

var nowFunc = time.Now

// Now returns the current time in UTC.
func Now() time.Time {
	return nowFunc().UTC()
}

// Timestamp returns Now formatted with TimeLayout.
func Timestamp() string {
	return FormatTime(Now())
}

// FormatTime formats t with TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a timestamp written by FormatTime (or any RFC 3339 value).
func ParseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// NewID returns a random 128-bit identifier rendered as a string.
func NewID() string {
	return uuid.NewString()
}

// Encode converts a typed value into a Record using its json tags.
// Numbers come out as float64, nested structs as maps.
func Encode(v any) (Record, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	if rec == nil {
		return nil, errors.New("encode record: value is not an object")
	}

	return rec, nil
}

// EncodeChanges turns a patch struct into a change set. Fields left out by
// omitempty (typically nil pointers) are not part of the update.
func EncodeChanges(v any) (Changes, error) {
	rec, err := Encode(v)
	if err != nil {
		return nil, err
	}
	return Changes(rec), nil
}

// Decode fills v (a pointer to a typed struct) from rec.
func Decode(rec Record, v any) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}

// DecodeAs decodes rec into a new T.
func DecodeAs[T any](rec Record) (*T, error) {
	var v T
	if err := Decode(rec, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// DecodeAll decodes every record into T, preserving order.
func DecodeAll[T any](recs []Record) ([]T, error) {
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		var v T
		if err := Decode(rec, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Normalize rewrites v into the generic representation a backend returns
// (float64 numbers, map[string]any objects, []any lists).
func Normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NormalizeRecord is Normalize for a whole record.
func NormalizeRecord(rec Record) (Record, error) {
	n, err := Normalize(rec)
	if err != nil {
		return nil, fmt.Errorf("normalize record: %w", err)
	}
	out, _ := n.(map[string]any)
	if out == nil {
		out = Record{}
	}
	return out, nil
}

// Clone deep-copies a normalized record.
func Clone(rec Record) Record {
	if rec == nil {
		return nil
	}
	return cloneValue(rec).(map[string]any)
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, x := range t {
			m[k] = cloneValue(x)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, x := range t {
			s[i] = cloneValue(x)
		}
		return s
	default:
		return v
	}
}

// Stamp assigns an id when missing, sets createdAt once and rewrites updatedAt.
func Stamp(rec Record) Record {
	ts := Timestamp()
	if id, _ := rec[AttrID].(string); id == "" {
		rec[AttrID] = NewID()
	}
	if created, ok := rec[AttrCreatedAt]; !ok || created == nil || created == "" {
		rec[AttrCreatedAt] = ts
	}
	rec[AttrUpdatedAt] = ts
	return rec
}

// ID returns the record's id or "".
func ID(rec Record) string {
	id, _ := rec[AttrID].(string)
	return id
}

// Version returns the record's optimistic version, if it carries one.
func Version(rec Record) (int64, bool) {
	return toInt64(rec[AttrVersion])
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case float32:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}

// ToFloat converts a numeric attribute value to float64; ok is false for
// non-numbers. nil counts as a missing number.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// NormalizeFilter normalizes the filter's comparison values once so that
// Matches can compare with reflect.DeepEqual.
func NormalizeFilter(f Filter) (Filter, error) {
	out := make(Filter, len(f))
	for k, v := range f {
		n, err := Normalize(v)
		if err != nil {
			return nil, fmt.Errorf("normalize filter %q: %w", k, err)
		}
		out[k] = n
	}
	return out, nil
}

// Matches reports whether rec satisfies every equality test in a normalized filter.
// A test against nil matches both a nil and a missing attribute.
func Matches(rec Record, f Filter) bool {
	for k, want := range f {
		got, ok := rec[k]
		if !ok {
			if want == nil {
				continue
			}
			return false
		}
		if !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// SortByCreatedAtDesc orders records newest first. Rows with an unparsable
// createdAt sort last.
func SortByCreatedAtDesc(recs []Record) {
	key := func(r Record) time.Time {
		s, _ := r[AttrCreatedAt].(string)
		t, err := ParseTime(s)
		if err != nil {
			return time.Time{}
		}
		return t
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return key(recs[i]).After(key(recs[j]))
	})
}
