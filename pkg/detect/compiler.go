package detect

import "github.com/cperrin88/gendetect/pkg/signal"

// CompilerKind identifies the toolchain that produced a signal set.
type CompilerKind int

// Supported compilers.
const (
	CompilerUnknown CompilerKind = iota
	CompilerClang
	CompilerCodeWarrior
	CompilerDigitalMars
	CompilerGreenHill
	CompilerICC
	CompilerGCC
	CompilerMSVC
	CompilerSDCC
)

var compilerDescriptors = [...]descriptor{
	CompilerUnknown:     {id: "UNKNOWN", name: UnknownName},
	CompilerClang:       {id: "CLANG", name: "Clang"},
	CompilerCodeWarrior: {id: "CODEWARRIOR", name: "CodeWarrior"},
	CompilerDigitalMars: {id: "DIGITALMARS", name: "Digital Mars"},
	CompilerGreenHill:   {id: "GREEN_HILL", name: "Green Hill C/C++"},
	CompilerICC:         {id: "ICC", name: "ICC"},
	CompilerGCC:         {id: "GCC", name: "GCC"},
	CompilerMSVC:        {id: "MSVC", name: "MSVC"},
	CompilerSDCC:        {id: "SDCC", name: "SDCC"},
}

// String returns the display name, e.g. "Green Hill C/C++".
func (k CompilerKind) String() string {
	return describe(compilerDescriptors[:], int(k)).name
}

// ID returns the identifier form, e.g. "GREEN_HILL".
func (k CompilerKind) ID() string {
	return describe(compilerDescriptors[:], int(k)).id
}

// CompilerKinds lists every known compiler kind, excluding Unknown.
func CompilerKinds() []CompilerKind {
	kinds := make([]CompilerKind, 0, len(compilerDescriptors)-1)
	for k := CompilerClang; int(k) < len(compilerDescriptors); k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// DefaultCompilerVersion is reported when the compiler is unknown or
// exposes no version.
var DefaultCompilerVersion = MakeVersion(1, 0, 0)

// CompilerInfo is the resolved compiler category.
type CompilerInfo struct {
	Kind    CompilerKind `json:"kind" yaml:"kind"`
	Name    string       `json:"name" yaml:"name"`
	Version Version      `json:"version" yaml:"version"`
}

// compilerRule is one row of the precedence table.
type compilerRule struct {
	kind    CompilerKind
	signals []string
	version func(signal.Set) Version
}

// compilerPrecedence is evaluated top to bottom and the first match wins.
// Clang and ICC also define __GNUC__ and Clang-cl defines _MSC_VER, so GCC
// and MSVC sit below them.
var compilerPrecedence = []compilerRule{
	{CompilerClang, []string{"__clang__"}, clangVersion},
	{CompilerCodeWarrior, []string{"__MWERKS__", "__CWCC__"}, codeWarriorVersion},
	{CompilerDigitalMars, []string{"__DMC__"}, digitalMarsVersion},
	{CompilerGreenHill, []string{"__ghs__"}, greenHillVersion},
	{CompilerICC, []string{"__INTEL_COMPILER", "__ICC", "__ECC", "__ICL"}, iccVersion},
	{CompilerGCC, []string{"__GNUC__"}, gccVersion},
	{CompilerMSVC, []string{"_MSC_VER"}, msvcVersion},
	{CompilerSDCC, []string{"__SDCC", "SDCC"}, sdccVersion},
}

// CompilerPrecedence returns the order in which compilers are tried.
func CompilerPrecedence() []CompilerKind {
	kinds := make([]CompilerKind, len(compilerPrecedence))
	for i, rule := range compilerPrecedence {
		kinds[i] = rule.kind
	}
	return kinds
}

func (c *classifier) resolveCompiler() CompilerInfo {
	for _, rule := range compilerPrecedence {
		if c.set.Any(rule.signals...) {
			return CompilerInfo{
				Kind:    rule.kind,
				Name:    rule.kind.String(),
				Version: rule.version(c.set),
			}
		}
	}

	c.diagnose(CategoryCompiler, "Unknown compiler")
	return CompilerInfo{
		Kind:    CompilerUnknown,
		Name:    UnknownName,
		Version: DefaultCompilerVersion,
	}
}

func clangVersion(s signal.Set) Version {
	return MakeVersion(s.Int("__clang_major__"), s.Int("__clang_minor__"), s.Int("__clang_patchlevel__"))
}

// codeWarriorVersion decodes __MWERKS__ (or __CWCC__ when only that is set).
// Old toolchains define __MWERKS__ as plain 1.
func codeWarriorVersion(s signal.Set) Version {
	raw, ok := s.Lookup("__MWERKS__")
	if !ok {
		raw = s.Int("__CWCC__")
	}
	if raw == 1 {
		return DefaultCompilerVersion
	}
	return MakeVersion(raw>>24, (raw>>16)&MaxMinor, raw&MaxPatch)
}

// digitalMarsVersion decodes __DMC__, which holds one version digit per hex
// nibble: 0x857 is release 8.57, reported as 8.5.7.
func digitalMarsVersion(s signal.Set) Version {
	raw := s.Int("__DMC__")
	return MakeVersion(raw>>8, (raw>>4)&0xF, raw&0xF)
}

func greenHillVersion(s signal.Set) Version {
	n := s.Int("__GHS_VERSION_NUMBER__")
	return MakeVersion(n/100, (n/10)%10, n%10)
}

// iccEra is the __INTEL_COMPILER value at which the encoding switches from
// "1910" (19.10) to a release year such as 2021.
const iccEra = 2000

// iccVersion handles both eras of __INTEL_COMPILER. Release years are stored
// relative to 2000 so they fit the 8-bit major field: 2021.3 packs as 21.3.0.
func iccVersion(s signal.Set) Version {
	n := s.Int("__INTEL_COMPILER")
	update := s.Int("__INTEL_COMPILER_UPDATE")
	if n < iccEra {
		return MakeVersion(n/100, n%100, update)
	}
	return MakeVersion(n-iccEra, update, 0)
}

func gccVersion(s signal.Set) Version {
	major := s.Int("__GNUC__")
	if !s.Defined("__GNUC_MINOR__") {
		return MakeVersion(major, 0, 0)
	}
	if !s.Defined("__GNUC_PATCHLEVEL__") {
		return MakeVersion(major, s.Int("__GNUC_MINOR__"), 0)
	}
	return MakeVersion(major, s.Int("__GNUC_MINOR__"), s.Int("__GNUC_PATCHLEVEL__"))
}

// msvcFullVerEra is the _MSC_FULL_VER value from which the build number has
// five digits instead of four.
const msvcFullVerEra = 100000000

func msvcVersion(s signal.Set) Version {
	full, ok := s.Lookup("_MSC_FULL_VER")
	if !ok {
		v := s.Int("_MSC_VER")
		return MakeVersion(v/100, v%100, 0)
	}
	if full < msvcFullVerEra {
		return MakeVersion(full/1000000, (full%1000000)/10000, full%10000)
	}
	return MakeVersion(full/10000000, (full%10000000)/100000, full%100000)
}

// sdccVersion prefers the split macros of SDCC 3.7+. Older releases only
// define SDCC as a three-digit number, 320 for 3.2.0.
func sdccVersion(s signal.Set) Version {
	if !s.Defined("__SDCC_VERSION_MAJOR") {
		n := s.Int("SDCC")
		return MakeVersion(n/100, (n/10)%10, n%10)
	}
	return MakeVersion(s.Int("__SDCC_VERSION_MAJOR"), s.Int("__SDCC_VERSION_MINOR"), s.Int("__SDCC_VERSION_PATCH"))
}
