// Package signal models the build-time identity signals a compiler predefines
// (for example __GNUC__ or __x86_64__) and loads them from macro dumps and
// YAML profiles.
//
// A Set is immutable once built: every method that changes content returns a
// new Set.
package signal

import (
	"sort"
	"strconv"
	"strings"
)

// Set maps predefined macro names to their raw replacement text. A name that
// is present is "defined", whatever its value.
type Set struct {
	defines map[string]string
}

// New builds a Set from a name to value map. The map is copied.
func New(defines map[string]string) Set {
	s := Set{defines: make(map[string]string, len(defines))}
	for name, value := range defines {
		s.defines[name] = value
	}
	return s
}

// Of builds a Set where every name is defined with the value 1, the way a
// bare `-DNAME` is.
func Of(names ...string) Set {
	s := Set{defines: make(map[string]string, len(names))}
	for _, name := range names {
		s.defines[name] = "1"
	}
	return s
}

// Defined reports whether name is defined.
func (s Set) Defined(name string) bool {
	_, ok := s.defines[name]
	return ok
}

// Any reports whether at least one of names is defined.
func (s Set) Any(names ...string) bool {
	for _, name := range names {
		if s.Defined(name) {
			return true
		}
	}
	return false
}

// Value returns the raw replacement text of name.
func (s Set) Value(name string) (string, bool) {
	v, ok := s.defines[name]
	return v, ok
}

// Lookup evaluates name as an integer constant. ok is false when the name is
// undefined or its replacement text is not an integer literal.
func (s Set) Lookup(name string) (int64, bool) {
	v, ok := s.defines[name]
	if !ok {
		return 0, false
	}
	return ParseInt(v)
}

// Int evaluates name the way `#if NAME` would: undefined names and
// non-numeric values are 0.
func (s Set) Int(name string) int64 {
	n, _ := s.Lookup(name)
	return n
}

// Equals reports whether name is defined and evaluates to n.
func (s Set) Equals(name string, n int64) bool {
	v, ok := s.Lookup(name)
	return ok && v == n
}

// True reports whether name is defined and evaluates to a non-zero integer.
func (s Set) True(name string) bool {
	return s.Int(name) != 0
}

// Len returns the number of defined names.
func (s Set) Len() int {
	return len(s.defines)
}

// Names returns the defined names in lexical order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s.defines))
	for name := range s.defines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Map returns a copy of the underlying name to value map.
func (s Set) Map() map[string]string {
	out := make(map[string]string, len(s.defines))
	for name, value := range s.defines {
		out[name] = value
	}
	return out
}

// With returns a copy of s with name defined as value.
func (s Set) With(name, value string) Set {
	out := New(s.defines)
	out.defines[name] = value
	return out
}

// Without returns a copy of s with name undefined.
func (s Set) Without(name string) Set {
	out := New(s.defines)
	delete(out.defines, name)
	return out
}

// Merge returns a Set holding the names of both sets. Values from other win
// on conflicts.
func (s Set) Merge(other Set) Set {
	out := New(s.defines)
	for name, value := range other.defines {
		out.defines[name] = value
	}
	return out
}

// ParseInt parses a C integer constant: decimal, 0x hex or leading-zero octal,
// optionally signed, parenthesized or carrying u/l suffixes.
func ParseInt(text string) (int64, bool) {
	text = strings.TrimSpace(text)
	for strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		text = strings.TrimSpace(text[1 : len(text)-1])
	}
	text = strings.TrimRight(text, "uUlL")
	if text == "" {
		return 0, false
	}

	sign := int64(1)
	switch text[0] {
	case '-':
		sign = -1
		text = text[1:]
	case '+':
		text = text[1:]
	}

	base := 10
	switch {
	case strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X"):
		base = 16
		text = text[2:]
	case len(text) > 1 && text[0] == '0':
		base = 8
		text = text[1:]
	}

	n, err := strconv.ParseUint(text, base, 63)
	if err != nil {
		return 0, false
	}
	return sign * int64(n), true
}
