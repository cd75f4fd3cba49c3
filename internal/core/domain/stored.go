package domain

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// Tags written ahead of every value so that values of different types never share an encoding.
const (
	tagNull   byte = 'n'
	tagFalse  byte = 'f'
	tagTrue   byte = 't'
	tagNumber byte = '#'
	tagString byte = 's'
	tagList   byte = '['
	tagMap    byte = '{'
	tagOther  byte = '?'
)

var jsonNumberType = reflect.TypeFor[json.Number]()

// Digest computes a stable XXHash of a stored-representation value.
// Map keys are hashed in sorted order and numbers in a canonical text form,
// so the digest only depends on the content of v.
func Digest(v any) string {
	hasher := xxhash.New()
	writeCanonical(hasher, reflect.ValueOf(v))
	return formatDigest(hasher.Sum64())
}

// DigestString computes the XXHash of a string.
func DigestString(s string) string {
	return formatDigest(xxhash.Sum64String(s))
}

func formatDigest(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}

func writeCanonical(hasher *xxhash.Digest, rv reflect.Value) {
	if !rv.IsValid() {
		_, _ = hasher.Write([]byte{tagNull})
		return
	}

	if rv.Type() == jsonNumberType {
		writeNumber(hasher, canonicalJSONNumber(json.Number(rv.String())))
		return
	}

	switch rv.Kind() {
	case reflect.Interface, reflect.Pointer:
		if rv.IsNil() {
			_, _ = hasher.Write([]byte{tagNull})
			return
		}
		writeCanonical(hasher, rv.Elem())
	case reflect.Bool:
		if rv.Bool() {
			_, _ = hasher.Write([]byte{tagTrue})
		} else {
			_, _ = hasher.Write([]byte{tagFalse})
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		writeNumber(hasher, canonicalNumber(rv))
	case reflect.String:
		_, _ = hasher.Write([]byte{tagString})
		writeLengthPrefixed(hasher, rv.String())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			_, _ = hasher.Write([]byte{tagNull})
			return
		}
		_, _ = hasher.Write([]byte{tagList})
		writeLength(hasher, rv.Len())
		for i := range rv.Len() {
			writeCanonical(hasher, rv.Index(i))
		}
	case reflect.Map:
		if rv.IsNil() {
			_, _ = hasher.Write([]byte{tagNull})
			return
		}
		_, _ = hasher.Write([]byte{tagMap})
		writeLength(hasher, rv.Len())
		for _, key := range sortedMapKeys(rv) {
			writeLengthPrefixed(hasher, mapKeyString(key))
			writeCanonical(hasher, rv.MapIndex(key))
		}
	default:
		_, _ = hasher.Write([]byte{tagOther})
		writeLengthPrefixed(hasher, fmt.Sprintf("%T:%v", rv.Interface(), rv.Interface()))
	}
}

func writeNumber(hasher *xxhash.Digest, text string) {
	_, _ = hasher.Write([]byte{tagNumber})
	writeLengthPrefixed(hasher, text)
}

func writeLength(hasher *xxhash.Digest, n int) {
	_, _ = hasher.Write(binary.LittleEndian.AppendUint64(nil, uint64(n))) //nolint:gosec // lengths are non-negative
}

func writeLengthPrefixed(hasher *xxhash.Digest, s string) {
	writeLength(hasher, len(s))
	_, _ = hasher.WriteString(s)
}

// sortedMapKeys returns the keys of a map with string-kinded keys in sorted order.
// Maps with other key kinds are ordered by their formatted representation.
func sortedMapKeys(rv reflect.Value) []reflect.Value {
	keys := rv.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		return compareStrings(mapKeyString(a), mapKeyString(b))
	})
	return keys
}

func mapKeyString(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// canonicalNumber renders integral values without a fractional part so that
// 1, int64(1) and 1.0 hash identically.
func canonicalNumber(rv reflect.Value) string {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	default:
		return canonicalFloat(rv.Float())
	}
}

func canonicalFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func canonicalJSONNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	if f, err := n.Float64(); err == nil {
		return canonicalFloat(f)
	}
	return n.String()
}

// ValidateStored checks that v only contains values with a JSON representation:
// nil, booleans, finite numbers, strings, slices and maps keyed by strings.
func ValidateStored(v any) error {
	return validateStored(reflect.ValueOf(v))
}

func validateStored(rv reflect.Value) error {
	if !rv.IsValid() || rv.Type() == jsonNumberType {
		return nil
	}

	switch rv.Kind() {
	case reflect.Interface, reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return validateStored(rv.Elem())
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return nil
	case reflect.Float32, reflect.Float64:
		if f := rv.Float(); math.IsNaN(f) || math.IsInf(f, 0) {
			return zerr.With(zerr.Wrap(ErrEncodingFailure, "number is not finite"), "value", f)
		}
		return nil
	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			if err := validateStored(rv.Index(i)); err != nil {
				return zerr.With(err, "index", i)
			}
		}
		return nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return zerr.With(zerr.Wrap(ErrEncodingFailure, "map keys must be strings"), "type", rv.Type().String())
		}
		iter := rv.MapRange()
		for iter.Next() {
			if err := validateStored(iter.Value()); err != nil {
				return zerr.With(err, "key", iter.Key().String())
			}
		}
		return nil
	default:
		return zerr.With(zerr.Wrap(ErrEncodingFailure, "unsupported value type"), "type", rv.Type().String())
	}
}

// cloneStored deep-copies the maps and slices of a stored-representation value.
func cloneStored(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneStoredMap(t)
	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = cloneStored(elem)
		}
		return out
	default:
		return v
	}
}

func cloneStoredMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, elem := range m {
		out[k] = cloneStored(elem)
	}
	return out
}
