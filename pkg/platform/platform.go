package platform

import (
	"fmt"
	"strings"

	"github.com/containerd/platforms"
	"github.com/cperrin88/gendetect/pkg/detect"
	"github.com/cperrin88/gendetect/pkg/errors"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// Platform represents a target platform with OS and Architecture
// Both OS and Arch can be "any" to match any platform
// or a specific value like "linux", "windows", "amd64", etc.
type Platform struct {
	OS      string `yaml:"os" json:"os"`
	Arch    string `yaml:"arch" json:"arch"`
	Variant string `yaml:"variant,omitempty" json:"variant,omitempty"`
}

// FromClassification maps a classification to its Go platform. Operating
// systems and architectures without a Go port return ErrNoPlatformMapping.
func FromClassification(cl detect.Classification) (Platform, error) {
	goos, ok := osNames[cl.OS.Kind]
	if !ok {
		return Platform{}, fmt.Errorf("%w: operating system %s", errors.ErrNoPlatformMapping, cl.OS.Name)
	}

	goarch, err := archName(cl.Arch)
	if err != nil {
		return Platform{}, err
	}
	return Platform{OS: goos, Arch: goarch}, nil
}

func archName(a detect.ArchInfo) (string, error) {
	if name, ok := variantArchNames[a.Variant]; ok {
		return name, nil
	}
	// GOARCH 386 is 32-bit only; real-mode x86 has no Go port.
	if a.Kind == detect.ArchX86 && a.Bits != 32 {
		return "", fmt.Errorf("%w: architecture %s", errors.ErrNoPlatformMapping, describeArch(a))
	}
	if name, ok := archNames[a.Kind]; ok {
		return name, nil
	}
	if a.Kind == detect.ArchLoongArch && a.Bits == 64 {
		return ArchLoong64, nil
	}
	return "", fmt.Errorf("%w: architecture %s", errors.ErrNoPlatformMapping, describeArch(a))
}

func describeArch(a detect.ArchInfo) string {
	if a.Bits == detect.BitsUnknown {
		return a.Name
	}
	return fmt.Sprintf("%s (%d bit)", a.Name, a.Bits)
}

// CurrentPlatform returns the platform gendetect itself was built for.
func CurrentPlatform() Platform {
	return FromOCI(platforms.DefaultSpec())
}

// Parse reads an "os/arch[/variant]" specifier, accepting the aliases
// containerd understands (x86_64, aarch64, macos ...).
func Parse(specifier string) (Platform, error) {
	if specifier == AnyOS {
		return Platform{OS: AnyOS, Arch: AnyArch}, nil
	}
	p, err := platforms.Parse(strings.ToLower(specifier))
	if err != nil {
		return Platform{}, errors.Wrapf(err, "invalid platform %q", specifier)
	}
	return FromOCI(p), nil
}

// FromOCI converts an OCI platform, normalizing it first.
func FromOCI(p ocispec.Platform) Platform {
	p = platforms.Normalize(p)
	return Platform{OS: p.OS, Arch: p.Architecture, Variant: p.Variant}
}

// OCI returns the normalized OCI image platform.
func (p Platform) OCI() ocispec.Platform {
	return platforms.Normalize(ocispec.Platform{OS: p.OS, Architecture: p.Arch, Variant: p.Variant})
}

// Matches checks if this platform matches the target platform
// "any" is a wildcard that matches any value
func (p Platform) Matches(target Platform) bool {
	return (p.OS == AnyOS || target.OS == AnyOS || p.OS == target.OS) &&
		(p.Arch == AnyArch || target.Arch == AnyArch || p.Arch == target.Arch)
}

// CanRun reports whether images built for target run on p, following
// containerd's rules (an arm64 host runs arm/v7 images, for instance).
func (p Platform) CanRun(target Platform) bool {
	return platforms.Only(p.OCI()).Match(target.OCI())
}

// String returns a string representation of the platform
func (p Platform) String() string {
	if p.Variant != "" {
		return fmt.Sprintf("%s/%s/%s", p.OS, p.Arch, p.Variant)
	}
	return fmt.Sprintf("%s/%s", p.OS, p.Arch)
}

// IsNative reports whether p is the platform gendetect is running on.
func IsNative(p Platform) bool {
	return CurrentPlatform().CanRun(p)
}
