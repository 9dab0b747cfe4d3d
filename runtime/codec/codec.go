// Package codec converts application values to storage scalars and back.
//
// SQLite stores only text and integer affinities here, so booleans, dates
// and composite values are written as text and recovered on the way out.
package codec

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
)

// ErrSerialize is returned when a value cannot be encoded for storage.
var ErrSerialize = errors.New("codec: cannot serialize value")

// TimeLayout is the text encoding of time.Time values.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Serializer converts an application value to a storage scalar.
type Serializer func(value any) (any, error)

// Deserializer converts a stored value back to an application value.
// It never fails; values it cannot decode are returned unchanged.
type Deserializer func(value any) any

// Serialize is the default Serializer. Nil, strings, numbers, byte slices
// and driver.Valuer values pass through; booleans and composite values are
// encoded as JSON; time.Time is encoded with TimeLayout in UTC.
func Serialize(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string, []byte,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v, nil
	case bool:
		if v {
			return "true", nil
		}
		return "false", nil
	case time.Time:
		return v.UTC().Format(TimeLayout), nil
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		return v.UTC().Format(TimeLayout), nil
	case driver.Valuer:
		return v, nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return nil, nil
		}
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return Serialize(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	}

	b, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("%w (%T): %w", ErrSerialize, value, err)
	}
	return string(b), nil
}

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:\.\d+)?Z?$`)

// Deserialize is the default Deserializer. Rules are tried in order:
// non-strings pass through, "true"/"false" become booleans, date-like
// strings become time.Time, anything else is decoded as JSON, and strings
// that are not JSON are returned as they are.
func Deserialize(value any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}

	switch s {
	case "true":
		return true
	case "false":
		return false
	}

	if datePattern.MatchString(s) {
		if t, ok := parseTime(s); ok {
			return t
		}
	}

	if v, ok := decodeStructural(s); ok {
		return v
	}
	return s
}

// parseTime parses a string already matching datePattern. A trailing Z means
// UTC; without it the value is wall-clock time in the local zone, which is
// what datetime('now','localtime') produces.
func parseTime(s string) (time.Time, bool) {
	normalized := strings.Replace(s, " ", "T", 1)
	if strings.HasSuffix(normalized, "Z") {
		t, err := time.Parse("2006-01-02T15:04:05.999999999Z", normalized)
		return t, err == nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", normalized, time.Local)
	return t, err == nil
}

// decodeStructural decodes JSON text. ok is false when s is not valid JSON,
// in which case the caller keeps the raw string.
func decodeStructural(s string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	return v, true
}

// DeserializeRow returns a copy of row with every string field passed
// through d. Non-string fields are copied unchanged.
func DeserializeRow(row map[string]any, d Deserializer) map[string]any {
	if d == nil {
		d = Deserialize
	}
	out := make(map[string]any, len(row))
	for k, v := range row {
		if s, ok := v.(string); ok {
			out[k] = d(s)
			continue
		}
		out[k] = v
	}
	return out
}
