// Package output serializes Weave protocol responses.
//
// Scalar values (strings and numbers) are written verbatim. Collections
// (slices and maps) are encoded in one of three wire formats selected by the
// client's Accept header, and every response carries the X-Weave-Timestamp
// header plus an exact Content-Length.
package output

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-weave-sync/internal/utils"
	"github.com/MKhiriev/go-weave-sync/models"
)

// Format is the closed set of wire encodings for multi-record responses.
type Format int

const (
	// FormatJSON encodes the whole collection as a single JSON document.
	// This is the default.
	FormatJSON Format = iota

	// FormatNewlines encodes each element as a JSON object on its own line.
	FormatNewlines

	// FormatWhoisi frames each element as a 4-byte big-endian length prefix
	// followed by its UTF-8 JSON encoding, concatenated without separators.
	FormatWhoisi
)

// Content types of the three output formats.
const (
	contentTypeJSON     = "application/json"
	contentTypeNewlines = "application/newlines"
	contentTypeWhoisi   = "application/whoisi"
)

// NegotiateFormat selects the output format from an Accept header value.
// application/whoisi takes precedence over application/newlines; anything
// else falls back to JSON.
func NegotiateFormat(accept string) Format {
	accept = strings.ToLower(accept)
	switch {
	case strings.Contains(accept, contentTypeWhoisi):
		return FormatWhoisi
	case strings.Contains(accept, contentTypeNewlines):
		return FormatNewlines
	default:
		return FormatJSON
	}
}

// Writer emits protocol responses to a single HTTP request. The output
// format is negotiated once, at construction time.
type Writer struct {
	w      http.ResponseWriter
	format Format
}

// NewWriter builds a Writer for the given request/response pair, negotiating
// the collection encoding from the request's Accept header.
func NewWriter(w http.ResponseWriter, r *http.Request) *Writer {
	return &Writer{w: w, format: NegotiateFormat(r.Header.Get("Accept"))}
}

// Format returns the negotiated collection encoding.
func (ow *Writer) Format() Format {
	return ow.format
}

// Write emits v with HTTP status 200 and the current time in the
// X-Weave-Timestamp header.
func (ow *Writer) Write(v any) error {
	return ow.write(v, utils.WeaveTimestamp(), http.StatusOK)
}

// WriteAt emits v with HTTP status 200 and the given modification time in
// the X-Weave-Timestamp header.
func (ow *Writer) WriteAt(v any, modified float64) error {
	return ow.write(v, modified, http.StatusOK)
}

// WriteError emits a Weave numeric response code as the entire body together
// with the given HTTP status.
func (ow *Writer) WriteError(status, weaveCode int) error {
	return ow.write(weaveCode, utils.WeaveTimestamp(), status)
}

// WriteStatus emits v with an explicit HTTP status and the current time in
// the timestamp header. Used for protocol errors that still carry a body.
func (ow *Writer) WriteStatus(v any, status int) error {
	return ow.write(v, utils.WeaveTimestamp(), status)
}

func (ow *Writer) write(v any, modified float64, status int) error {
	body, contentType, err := ow.encode(v)
	if err != nil {
		http.Error(ow.w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return err
	}

	ow.w.Header().Set(models.HeaderTimestamp, utils.FormatTimestamp(modified))
	if contentType != "" {
		ow.w.Header().Set("Content-Type", contentType)
	}
	ow.w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	ow.w.WriteHeader(status)

	_, err = ow.w.Write(body)
	return err
}

// encode renders v to its wire bytes. Scalars are written verbatim with no
// content-type negotiation; collections go through the negotiated format.
func (ow *Writer) encode(v any) ([]byte, string, error) {
	switch s := v.(type) {
	case string:
		return []byte(s), "", nil
	case int:
		return []byte(strconv.Itoa(s)), "", nil
	case int64:
		return []byte(strconv.FormatInt(s, 10)), "", nil
	case float64:
		return []byte(utils.FormatTimestamp(s)), "", nil
	}

	elems, whole, ok := collectionElements(v)
	if !ok {
		return nil, "", fmt.Errorf("output: unsupported value type %T", v)
	}

	switch ow.format {
	case FormatWhoisi:
		body, err := encodeWhoisi(elems)
		return body, contentTypeWhoisi, err
	case FormatNewlines:
		body, err := encodeNewlines(elems)
		return body, contentTypeNewlines, err
	default:
		body, err := encodeJSON(whole)
		return body, contentTypeJSON, err
	}
}
