package output

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"reflect"
	"sort"
)

// collectionElements decomposes a slice or map value into its ordered
// elements for the per-record formats. The whole value is returned as well
// for the single-document JSON format. ok is false for any other kind.
//
// Map elements are ordered by key so that the newlines and whoisi encodings
// are deterministic.
func collectionElements(v any) (elems []any, whole any, ok bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		elems = make([]any, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elems = append(elems, rv.Index(i).Interface())
		}
		return elems, rv.Interface(), true

	case reflect.Map:
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return keys[i].String() < keys[j].String()
		})
		elems = make([]any, 0, len(keys))
		for _, k := range keys {
			elems = append(elems, rv.MapIndex(k).Interface())
		}
		return elems, rv.Interface(), true

	case reflect.Struct:
		// Structs (e.g. a single WBO or the POST result) are one-document
		// values: encode as a single element.
		return []any{rv.Interface()}, rv.Interface(), true
	}

	return nil, nil, false
}

func encodeJSON(whole any) ([]byte, error) {
	return json.Marshal(whole)
}

func encodeNewlines(elems []any) ([]byte, error) {
	var buf bytes.Buffer
	for _, e := range elems {
		b, err := json.Marshal(e)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func encodeWhoisi(elems []any) ([]byte, error) {
	var buf bytes.Buffer
	for _, e := range elems {
		b, err := json.Marshal(e)
		if err != nil {
			return nil, err
		}
		var prefix [4]byte
		binary.BigEndian.PutUint32(prefix[:], uint32(len(b)))
		buf.Write(prefix[:])
		buf.Write(b)
	}
	return buf.Bytes(), nil
}
