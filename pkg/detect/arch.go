package detect

// ArchKind identifies the target instruction set architecture family.
type ArchKind int

// Supported architectures.
const (
	ArchUnknown ArchKind = iota
	ArchAArch64
	ArchAlpha
	ArchARM
	ArchConvex
	ArchHPPA
	ArchItanium
	ArchLoongArch
	ArchMIPS
	ArchM68K
	ArchPowerPC
	ArchRISCV
	ArchSPARC
	ArchX86
	ArchX86_64
)

// BitsUnknown marks an architecture whose word size could not be derived.
const BitsUnknown = -1

type archDescriptor struct {
	descriptor
	bits int
}

var archDescriptors = [...]archDescriptor{
	ArchUnknown:   {descriptor{id: "UNKNOWN", name: UnknownName}, BitsUnknown},
	ArchAArch64:   {descriptor{id: "AARCH64", name: "AArch64"}, 64},
	ArchAlpha:     {descriptor{id: "ALPHA", name: "Alpha"}, 64},
	ArchARM:       {descriptor{id: "ARM", name: "ARM"}, 32},
	ArchConvex:    {descriptor{id: "CONVEX", name: "Convex"}, BitsUnknown},
	ArchHPPA:      {descriptor{id: "HPPA", name: "HPPA"}, BitsUnknown},
	ArchItanium:   {descriptor{id: "ITANIUM", name: "Itanium"}, 64},
	ArchLoongArch: {descriptor{id: "LOONGARCH", name: "LoongArch"}, BitsUnknown},
	ArchMIPS:      {descriptor{id: "MIPS", name: "MIPS"}, BitsUnknown},
	ArchM68K:      {descriptor{id: "M68K", name: "Motorola 68k"}, BitsUnknown},
	ArchPowerPC:   {descriptor{id: "POWERPC", name: "PowerPC"}, BitsUnknown},
	ArchRISCV:     {descriptor{id: "RISCV", name: "RISC-V"}, BitsUnknown},
	ArchSPARC:     {descriptor{id: "SPARC", name: "SPARC"}, BitsUnknown},
	ArchX86:       {descriptor{id: "X86", name: "x86"}, BitsUnknown},
	ArchX86_64:    {descriptor{id: "X86_64", name: "x86_64"}, 64},
}

func describeArch(k ArchKind) archDescriptor {
	if k < 0 || int(k) >= len(archDescriptors) {
		return archDescriptors[ArchUnknown]
	}
	return archDescriptors[k]
}

// String returns the family display name, e.g. "Motorola 68k".
func (k ArchKind) String() string { return describeArch(k).name }

// ID returns the identifier form, e.g. "M68K".
func (k ArchKind) ID() string { return describeArch(k).id }

// ArchKinds lists every architecture kind, excluding Unknown.
func ArchKinds() []ArchKind {
	kinds := make([]ArchKind, 0, len(archDescriptors)-1)
	for k := ArchAArch64; int(k) < len(archDescriptors); k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Variant is a finer classification inside an architecture family.
type Variant int

// Architecture sub-variants.
const (
	VariantNone Variant = iota
	VariantI386
	VariantI486
	VariantI586
	VariantI686
	VariantMIPS32
	VariantMIPS64
	VariantPowerPC32
	VariantPowerPC64
	VariantRISCV32
	VariantRISCV64
)

// variantDescriptor is the static table row for a sub-variant. archName
// overrides the family name for variants the family reports under their
// own name (MIPS64, PowerPC64).
type variantDescriptor struct {
	id             string
	family         ArchKind
	archName       string
	subVersion     int
	subVersionName string
	bits           int
}

var variantDescriptors = [...]variantDescriptor{
	VariantNone:      {id: "NONE", bits: BitsUnknown},
	VariantI386:      {"I386", ArchX86, "x86", 3, "i386", 32},
	VariantI486:      {"I486", ArchX86, "x86", 4, "i486", 32},
	VariantI586:      {"I586", ArchX86, "x86", 5, "i586", 32},
	VariantI686:      {"I686", ArchX86, "x86", 6, "i686", 32},
	VariantMIPS32:    {"MIPS32", ArchMIPS, "MIPS", 32, "MIPS", 32},
	VariantMIPS64:    {"MIPS64", ArchMIPS, "MIPS64", 64, "MIPS64", 64},
	VariantPowerPC32: {"POWERPC32", ArchPowerPC, "PowerPC", 32, "PowerPC", 32},
	VariantPowerPC64: {"POWERPC64", ArchPowerPC, "PowerPC64", 64, "PowerPC64", 64},
	VariantRISCV32:   {"RISCV32", ArchRISCV, "RISC-V", 32, "RISC-V 32", 32},
	VariantRISCV64:   {"RISCV64", ArchRISCV, "RISC-V", 64, "RISC-V 64", 64},
}

func describeVariant(v Variant) variantDescriptor {
	if v < 0 || int(v) >= len(variantDescriptors) {
		return variantDescriptors[VariantNone]
	}
	return variantDescriptors[v]
}

// ID returns the identifier form, e.g. "I686".
func (v Variant) ID() string { return describeVariant(v).id }

// String returns the sub-version name, e.g. "i686", or "" for VariantNone.
func (v Variant) String() string { return describeVariant(v).subVersionName }

// Family returns the architecture the variant belongs to.
func (v Variant) Family() ArchKind { return describeVariant(v).family }

// Variants lists every sub-variant, excluding VariantNone.
func Variants() []Variant {
	variants := make([]Variant, 0, len(variantDescriptors)-1)
	for v := VariantI386; int(v) < len(variantDescriptors); v++ {
		variants = append(variants, v)
	}
	return variants
}

// ArchInfo is the resolved architecture category. SubVersion is 0 and
// SubVersionName empty when no sub-variant applies; Bits is BitsUnknown when
// the word size could not be derived.
type ArchInfo struct {
	Kind           ArchKind `json:"kind" yaml:"kind"`
	Variant        Variant  `json:"variant" yaml:"variant"`
	Name           string   `json:"name" yaml:"name"`
	SubVersion     int      `json:"sub_version" yaml:"sub_version"`
	SubVersionName string   `json:"sub_version_name" yaml:"sub_version_name"`
	Bits           int      `json:"bits" yaml:"bits"`
}

func newArchInfo(kind ArchKind) ArchInfo {
	d := describeArch(kind)
	return ArchInfo{Kind: kind, Name: d.name, Bits: d.bits}
}

func newVariantInfo(v Variant) ArchInfo {
	d := describeVariant(v)
	return ArchInfo{
		Kind:           d.family,
		Variant:        v,
		Name:           d.archName,
		SubVersion:     d.subVersion,
		SubVersionName: d.subVersionName,
		Bits:           d.bits,
	}
}

// archRule resolves one candidate family.
type archRule func(c *classifier) (ArchInfo, bool)

func archWhen(kind ArchKind, signals ...string) archRule {
	return func(c *classifier) (ArchInfo, bool) {
		if !c.set.Any(signals...) {
			return ArchInfo{}, false
		}
		return newArchInfo(kind), true
	}
}

var (
	lp64Signals = []string{"__LP64__", "_LP64"}
	x86Signals  = []string{
		"i386", "__i386", "__i386__", "__IA32__", "_M_I86", "_M_IX86", "__X86__", "_X86_",
		"__THW_INTEL__", "__I86__", "__INTEL__", "__386", "_I386", "sun386",
	}
	x86_64Signals = []string{"__amd64__", "__amd64", "__x86_64__", "__x86_64", "_M_X64", "_M_AMD64"}
)

// archCandidates are tried in order and the first match wins. x86_64 is not
// part of this list; see resolveArch.
var archCandidates = []archRule{
	archWhen(ArchAArch64, "__aarch64__", "_M_ARM64"),
	archWhen(ArchAlpha, "__alpha__", "__alpha", "_M_ALPHA"),
	archWhen(ArchARM, "__arm__", "__thumb__", "__TARGET_ARCH_ARM", "__TARGET_ARCH_THUMB", "_ARM",
		"_M_ARM", "_M_ARMT", "__arm", "arm", "__arm32__", "arm32"),
	archWhen(ArchConvex, "__convex__"),
	archWhen(ArchHPPA, "__hppa__", "__HPPA__", "__hppa"),
	archWhen(ArchItanium, "__ia64__", "_IA64", "__IA64__", "__ia64", "_M_IA64", "__itanium__"),
	(*classifier).resolveLoongArch,
	(*classifier).resolveMIPS,
	archWhen(ArchM68K, "__m68k__", "M68000", "__MC68K__", "mc68000", "m68k", "m68", "mc68k"),
	(*classifier).resolvePowerPC,
	(*classifier).resolveRISCV,
	archWhen(ArchSPARC, "__sparc__", "__sparc"),
	(*classifier).resolveX86,
}

func (c *classifier) resolveArch() ArchInfo {
	// x86_64 is evaluated on its own: 64-bit toolchains may also assert
	// native x86 signals and x86_64 must win over them.
	var (
		info    ArchInfo
		matched bool
	)
	if c.set.Any(x86_64Signals...) {
		info, matched = newArchInfo(ArchX86_64), true
	} else {
		info, matched = c.matchArch()
	}

	if !matched {
		c.diagnose(CategoryArch, "Unknown architecture")
		info = newArchInfo(ArchUnknown)
	}
	if info.Bits == BitsUnknown && c.set.Any(lp64Signals...) {
		info.Bits = 64
	}
	return info
}

func (c *classifier) matchArch() (ArchInfo, bool) {
	for _, candidate := range archCandidates {
		if info, ok := candidate(c); ok {
			return info, true
		}
	}
	return ArchInfo{}, false
}

// resolveLoongArch takes the word size from __loongarch_grlen.
func (c *classifier) resolveLoongArch() (ArchInfo, bool) {
	if !c.set.Defined("__loongarch__") {
		return ArchInfo{}, false
	}
	info := newArchInfo(ArchLoongArch)
	if grlen, ok := c.set.Lookup("__loongarch_grlen"); ok && grlen > 0 {
		info.Bits = int(grlen)
	}
	return info, true
}

func (c *classifier) resolveMIPS() (ArchInfo, bool) {
	if !c.set.Any("__mips__", "mips", "__mips", "__MIPS__") {
		return ArchInfo{}, false
	}
	if c.set.Any(lp64Signals...) {
		return newVariantInfo(VariantMIPS64), true
	}
	return newVariantInfo(VariantMIPS32), true
}

func (c *classifier) resolvePowerPC() (ArchInfo, bool) {
	switch {
	case c.set.Any("__powerpc64__", "__ppc64__", "__PPC64__", "_ARCH_PPC64"):
		return newVariantInfo(VariantPowerPC64), true
	case c.set.Any("__powerpc", "__powerpc__", "__POWERPC__", "__ppc__", "__PPC__", "_ARCH_PPC"):
		return newVariantInfo(VariantPowerPC32), true
	default:
		return ArchInfo{}, false
	}
}

// resolveRISCV reads the register width from __riscv_xlen, falling back to
// the __riscv_32len / __riscv_64len markers.
func (c *classifier) resolveRISCV() (ArchInfo, bool) {
	if !c.set.Defined("__riscv") {
		return ArchInfo{}, false
	}
	xlen := c.set.Int("__riscv_xlen")
	switch {
	case xlen == 32 || c.set.Defined("__riscv_32len"):
		return newVariantInfo(VariantRISCV32), true
	case xlen == 64 || c.set.Defined("__riscv_64len"):
		return newVariantInfo(VariantRISCV64), true
	default:
		return newArchInfo(ArchRISCV), true
	}
}

// x86Generations maps each x86 sub-variant to the signals that select it,
// newest generation first.
var x86Generations = []struct {
	variant Variant
	signal  string
	msc     int64
	i86     int64
}{
	{VariantI686, "__i686__", 600, 6},
	{VariantI586, "__i586__", 500, 5},
	{VariantI486, "__i486__", 400, 4},
	{VariantI386, "__i386__", 300, 3},
}

func (c *classifier) resolveX86() (ArchInfo, bool) {
	if !c.set.Any(x86Signals...) {
		return ArchInfo{}, false
	}

	for _, gen := range x86Generations {
		if c.set.Defined(gen.signal) || c.set.Equals("_M_IX86", gen.msc) || c.set.Equals("__I86__", gen.i86) {
			return newVariantInfo(gen.variant), true
		}
	}

	info := newArchInfo(ArchX86)
	switch {
	case c.set.Any("__386__", "_M_I386"):
		info.Bits = 32
	case c.set.Defined("_M_I86"):
		info.Bits = 16
	default:
		c.diagnose(CategoryArch, "Failed to identify x86 bit count, assuming 32...")
		info.Bits = 32
	}
	return info, true
}
