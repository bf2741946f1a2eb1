package detect

import (
	"fmt"

	"github.com/cperrin88/gendetect/pkg/errors"
	goversion "github.com/hashicorp/go-version"
)

// Version is a compiler version packed as 0xAABBCCCC: 8 bits major, 8 bits
// minor, 16 bits patch. Every compiler's native encoding is normalized into
// this layout.
type Version uint32

// Field limits of the packed layout.
const (
	MaxMajor = 0xFF
	MaxMinor = 0xFF
	MaxPatch = 0xFFFF
)

// MakeVersion packs major, minor and patch. Out-of-range fields are masked to
// their width so the result always decodes to a valid triple.
func MakeVersion(major, minor, patch int64) Version {
	return Version(uint32(major&MaxMajor)<<24 | uint32(minor&MaxMinor)<<16 | uint32(patch&MaxPatch))
}

// Major returns version >> 24.
func (v Version) Major() int {
	return int(v >> 24)
}

// Minor returns (version >> 16) & 0xFF.
func (v Version) Minor() int {
	return int((v >> 16) & MaxMinor)
}

// Patch returns version & 0xFFFF.
func (v Version) Patch() int {
	return int(v & MaxPatch)
}

// String renders the version as major.minor.patch.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}

// GoVersion converts v into a hashicorp/go-version value for comparisons.
func (v Version) GoVersion() *goversion.Version {
	return goversion.Must(goversion.NewVersion(v.String()))
}

// Satisfies reports whether v matches a constraint such as ">= 9.0, < 14".
func (v Version) Satisfies(constraint string) (bool, error) {
	c, err := goversion.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("%w: %q: %w", errors.ErrInvalidConstraint, constraint, err)
	}
	return c.Check(v.GoVersion()), nil
}

// ParseVersion parses "major[.minor[.patch]]" into the packed layout. Fields
// that do not fit their width are rejected rather than masked.
func ParseVersion(s string) (Version, error) {
	parsed, err := goversion.NewVersion(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", errors.ErrInvalidVersion, s, err)
	}
	if parsed.Prerelease() != "" || parsed.Metadata() != "" {
		return 0, fmt.Errorf("%w: %q: pre-release and metadata are not representable", errors.ErrInvalidVersion, s)
	}

	segments := parsed.Segments64()
	limits := []int64{MaxMajor, MaxMinor, MaxPatch}
	if len(segments) > len(limits) {
		return 0, fmt.Errorf("%w: %q: at most three fields", errors.ErrInvalidVersion, s)
	}
	fields := make([]int64, len(limits))
	for i, seg := range segments {
		if seg < 0 || seg > limits[i] {
			return 0, fmt.Errorf("%w: %q: field %d out of range 0-%d", errors.ErrInvalidVersion, s, i+1, limits[i])
		}
		fields[i] = seg
	}
	return MakeVersion(fields[0], fields[1], fields[2]), nil
}
