// Package urlparser parses the positional Weave URL scheme used by Mozilla
// Sync clients:
//
//	<version>/<account hash>/<command...>?<modifiers>
//
// for example /1.1/abc123/storage/history?full=1&sort=index.
//
// A Parser is constructed once per request. Callers must check IsValid before
// using any accessor: an invalid parse yields no usable partial state and the
// protocol answer for it is 404.
package urlparser

import (
	"regexp"
	"strings"

	"github.com/MKhiriev/go-weave-sync/internal/logger"
)

// Supported Weave storage API protocol versions.
var supportedVersions = map[string]struct{}{
	"1.0": {},
	"1.1": {},
	"2.0": {},
}

// versionMisc is a recognized non-protocol probe (CAPTCHA requests from some
// clients). It parses as invalid but is not worth a log entry.
const versionMisc = "misc"

// Parser holds the decomposed parts of a Weave request URL.
type Parser struct {
	valid     bool
	version   string
	syncHash  string
	commands  []string
	modifiers Modifiers
}

// New parses url, which is the request path optionally followed by
// "?<query>". The logger is only used to report malformed URLs.
func New(url string, log *logger.Logger) *Parser {
	p := &Parser{valid: true, modifiers: Modifiers{}}

	// Foxbrowser writes "/?" before its query string.
	url = strings.ReplaceAll(url, "/?", "?")

	var query string
	if i := strings.Index(url, "?"); i >= 0 {
		url, query = url[:i], url[i+1:]
	}
	p.modifiers = ParseModifiers(query)

	url = strings.Trim(url, "/")
	segments := strings.Split(url, "/")

	// Need at least version and account hash.
	if len(segments) < 2 {
		p.valid = false
		log.Warn().Str("url", url).Int("segments", len(segments)).
			Msg("url: need at least 2 path segments")
		return p
	}

	p.version = segments[0]
	if p.version == versionMisc {
		p.valid = false
		return p
	}
	if _, ok := supportedVersions[p.version]; !ok {
		p.valid = false
		log.Warn().Str("version", p.version).Msg("url: illegal protocol version")
		return p
	}

	p.syncHash = segments[1]
	p.commands = segments[2:]

	return p
}

// IsValid reports whether the URL parsed successfully. No other accessor may
// be relied upon when IsValid returns false.
func (p *Parser) IsValid() bool {
	return p.valid
}

// Version returns the protocol version requested in the URL.
func (p *Parser) Version() string {
	return p.version
}

// SyncHash returns the account hash from the URL. It is treated as an opaque
// string at this layer.
func (p *Parser) SyncHash() string {
	return p.syncHash
}

// Command returns the command path segment at the given index, starting from
// 0, or the empty string when the index is out of range.
func (p *Parser) Command(i int) string {
	if i < 0 || i >= len(p.commands) {
		return ""
	}
	return p.commands[i]
}

// CommandCount returns the number of command path segments.
func (p *Parser) CommandCount() int {
	return len(p.commands)
}

// Commands returns the ordered command path (all segments after version and
// account hash).
func (p *Parser) Commands() []string {
	return p.commands
}

// Modifiers returns the parsed query-string modifiers.
func (p *Parser) Modifiers() Modifiers {
	return p.modifiers
}

// Match reports whether the joined command path matches the given pattern.
// It is used for the account API "node discovery" route.
func (p *Parser) Match(pattern *regexp.Regexp) bool {
	return pattern.MatchString(strings.Join(p.commands, "/"))
}
