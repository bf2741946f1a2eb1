package detect

import (
	"strings"

	"github.com/cperrin88/gendetect/pkg/signal"
)

// Classification is the result of classifying one signal set. It is a plain
// value and is never modified after Classify returns.
type Classification struct {
	Compiler CompilerInfo `json:"compiler" yaml:"compiler"`
	OS       OSInfo       `json:"os" yaml:"os"`
	Arch     ArchInfo     `json:"arch" yaml:"arch"`
}

type classifier struct {
	set  signal.Set
	opts Options
}

// Classify resolves the compiler, operating system and architecture of set.
// It never fails; unmatched categories resolve to their Unknown kind and are
// reported through opts.Reporter unless opts.NoDiagnostics is set.
func Classify(set signal.Set, opts Options) Classification {
	c := &classifier{set: set, opts: opts}
	return Classification{
		Compiler: c.resolveCompiler(),
		OS:       c.resolveOS(),
		Arch:     c.resolveArch(),
	}
}

func (c *classifier) diagnose(category Category, message string) {
	if c.opts.NoDiagnostics {
		return
	}
	reporter := c.opts.Reporter
	if reporter == nil {
		reporter = LogReporter{}
	}
	reporter.Unresolved(Diagnostic{Category: category, Message: message})
}

func (c *classifier) targetConditionals() TargetConditionals {
	if c.opts.TargetConditionals != nil {
		return c.opts.TargetConditionals
	}
	return MacroTargetConditionals{Set: c.set}
}

// IsCompiler reports whether the compiler matches name, given either as an
// identifier ("GREEN_HILL") or a display name ("Green Hill C/C++").
func (cl Classification) IsCompiler(name string) bool {
	return matchesKind(name, cl.Compiler.Kind.ID(), cl.Compiler.Kind.String())
}

// IsOS reports whether the operating system matches name. Besides the kind
// itself name may be a group identifier such as "GENERIC_BSD"; "LINUX" also
// matches Linux-compatible Android.
func (cl Classification) IsOS(name string) bool {
	if matchesKind(name, cl.OS.Kind.ID(), cl.OS.Kind.String()) {
		return true
	}
	if strings.EqualFold(name, OSLinux.ID()) && cl.OS.LinuxCompatible {
		return true
	}
	for _, id := range cl.OS.Groups.IDs() {
		if strings.EqualFold(name, id) {
			return true
		}
	}
	return false
}

// IsArch reports whether the architecture matches name. Variant identifiers
// ("I686", "MIPS64") match as well as the family.
func (cl Classification) IsArch(name string) bool {
	if matchesKind(name, cl.Arch.Kind.ID(), cl.Arch.Kind.String()) {
		return true
	}
	return cl.Arch.Variant != VariantNone && strings.EqualFold(name, cl.Arch.Variant.ID())
}

func matchesKind(name, id, display string) bool {
	return strings.EqualFold(name, id) || strings.EqualFold(name, display)
}
