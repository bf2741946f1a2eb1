// Package detect classifies a build into compiler, operating system and
// architecture from the predefined macros of its toolchain.
//
// Every category always resolves: a set that matches nothing known yields
// the Unknown kind with the name "Unknown" and, unless suppressed, one
// diagnostic per unresolved category.
//
//go:generate mockgen -destination=./mocks/detect.go . TargetConditionals,Reporter
package detect

// UnknownName is the display name of every Unknown kind.
const UnknownName = "Unknown"

// descriptor is one row of a static kind table.
type descriptor struct {
	id     string
	name   string
	groups Groups
}

// describe returns table[i], or the Unknown row at index 0 when i is out of
// range.
func describe(table []descriptor, i int) descriptor {
	if i < 0 || i >= len(table) {
		return table[0]
	}
	return table[i]
}

// MarshalText encodes the kind by its identifier.
func (k CompilerKind) MarshalText() ([]byte, error) { return []byte(k.ID()), nil }

// MarshalText encodes the kind by its identifier.
func (k OSKind) MarshalText() ([]byte, error) { return []byte(k.ID()), nil }

// MarshalText encodes the kind by its identifier.
func (k ArchKind) MarshalText() ([]byte, error) { return []byte(k.ID()), nil }

// MarshalText encodes the variant by its identifier.
func (v Variant) MarshalText() ([]byte, error) { return []byte(v.ID()), nil }
