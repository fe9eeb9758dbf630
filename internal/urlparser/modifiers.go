package urlparser

import "strings"

// Modifiers is the parsed query string of a Weave URL: key → ordered values.
// A value containing commas (e.g. ids=a,b,c) is split into a list; every
// other value is a single-element list.
type Modifiers map[string][]string

// ParseModifiers parses a raw query string ("full=1&ids=a,b,c") into a
// Modifiers map. Fragments without exactly one "=" are skipped.
func ParseModifiers(query string) Modifiers {
	m := Modifiers{}
	if query == "" {
		return m
	}

	for _, pair := range strings.Split(query, "&") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 || kv[0] == "" {
			continue
		}

		if strings.Contains(kv[1], ",") {
			m[kv[0]] = strings.Split(kv[1], ",")
		} else {
			m[kv[0]] = []string{kv[1]}
		}
	}

	return m
}

// Has reports whether the modifier key was present in the query string at
// all, regardless of its value. Used for presence flags such as "full".
func (m Modifiers) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// Get returns the scalar value of a modifier, or the empty string when it is
// absent. For list-valued modifiers the first element is returned.
func (m Modifiers) Get(key string) string {
	vs := m[key]
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

// List returns all values of a modifier in query order. A scalar modifier
// yields a one-element list; an absent one yields nil.
func (m Modifiers) List(key string) []string {
	return m[key]
}
