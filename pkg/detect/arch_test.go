package detect

import (
	"testing"

	"github.com/cperrin88/gendetect/pkg/signal"
	"github.com/stretchr/testify/assert"
)

func TestResolveArch(t *testing.T) {
	tests := []struct {
		name           string
		set            signal.Set
		kind           ArchKind
		variant        Variant
		archName       string
		subVersion     int
		subVersionName string
		bits           int
	}{
		{name: "aarch64", set: signal.Of("__aarch64__"), kind: ArchAArch64, archName: "AArch64", bits: 64},
		{name: "arm64 msvc", set: signal.Of("_M_ARM64"), kind: ArchAArch64, archName: "AArch64", bits: 64},
		{name: "alpha", set: signal.Of("__alpha__"), kind: ArchAlpha, archName: "Alpha", bits: 64},
		{name: "arm", set: signal.Of("__arm__", "__thumb__"), kind: ArchARM, archName: "ARM", bits: 32},
		{name: "convex", set: signal.Of("__convex__"), kind: ArchConvex, archName: "Convex", bits: BitsUnknown},
		{name: "hppa lp64", set: signal.Of("__hppa__", "__LP64__"), kind: ArchHPPA, archName: "HPPA", bits: 64},
		{name: "itanium", set: signal.Of("__ia64__"), kind: ArchItanium, archName: "Itanium", bits: 64},
		{
			name: "loongarch64",
			set:  signal.New(map[string]string{"__loongarch__": "1", "__loongarch_grlen": "64"}),
			kind: ArchLoongArch, archName: "LoongArch", bits: 64,
		},
		{name: "loongarch without grlen", set: signal.Of("__loongarch__"), kind: ArchLoongArch, archName: "LoongArch", bits: BitsUnknown},
		{
			name: "mips64", set: signal.Of("__mips__", "_LP64"),
			kind: ArchMIPS, variant: VariantMIPS64, archName: "MIPS64", subVersion: 64, subVersionName: "MIPS64", bits: 64,
		},
		{
			name: "mips32", set: signal.Of("__mips"),
			kind: ArchMIPS, variant: VariantMIPS32, archName: "MIPS", subVersion: 32, subVersionName: "MIPS", bits: 32,
		},
		{name: "m68k", set: signal.Of("__m68k__"), kind: ArchM68K, archName: "Motorola 68k", bits: BitsUnknown},
		{
			name: "powerpc64", set: signal.Of("__powerpc64__", "__powerpc__"),
			kind: ArchPowerPC, variant: VariantPowerPC64, archName: "PowerPC64", subVersion: 64, subVersionName: "PowerPC64", bits: 64,
		},
		{
			name: "powerpc32", set: signal.Of("__ppc__"),
			kind: ArchPowerPC, variant: VariantPowerPC32, archName: "PowerPC", subVersion: 32, subVersionName: "PowerPC", bits: 32,
		},
		{
			name: "riscv64 xlen", set: signal.New(map[string]string{"__riscv": "1", "__riscv_xlen": "64"}),
			kind: ArchRISCV, variant: VariantRISCV64, archName: "RISC-V", subVersion: 64, subVersionName: "RISC-V 64", bits: 64,
		},
		{
			name: "riscv32 marker", set: signal.Of("__riscv", "__riscv_32len"),
			kind: ArchRISCV, variant: VariantRISCV32, archName: "RISC-V", subVersion: 32, subVersionName: "RISC-V 32", bits: 32,
		},
		{name: "riscv bare", set: signal.Of("__riscv"), kind: ArchRISCV, archName: "RISC-V", bits: BitsUnknown},
		{name: "sparc", set: signal.Of("__sparc"), kind: ArchSPARC, archName: "SPARC", bits: BitsUnknown},
		{
			name: "i686", set: signal.Of("__i386__", "__i686__"),
			kind: ArchX86, variant: VariantI686, archName: "x86", subVersion: 6, subVersionName: "i686", bits: 32,
		},
		{
			name: "i586 msvc", set: signal.New(map[string]string{"_M_IX86": "500"}),
			kind: ArchX86, variant: VariantI586, archName: "x86", subVersion: 5, subVersionName: "i586", bits: 32,
		},
		{
			name: "i486 watcom", set: signal.New(map[string]string{"__I86__": "4"}),
			kind: ArchX86, variant: VariantI486, archName: "x86", subVersion: 4, subVersionName: "i486", bits: 32,
		},
		{
			name: "i386", set: signal.Of("__i386__"),
			kind: ArchX86, variant: VariantI386, archName: "x86", subVersion: 3, subVersionName: "i386", bits: 32,
		},
		{name: "x86 with __386__", set: signal.Of("__X86__", "__386__"), kind: ArchX86, archName: "x86", bits: 32},
		{name: "x86 16 bit", set: signal.Of("_M_I86"), kind: ArchX86, archName: "x86", bits: 16},
		{name: "x86_64", set: signal.Of("__x86_64__", "__amd64__", "__LP64__"), kind: ArchX86_64, archName: "x86_64", bits: 64},
		{name: "x86_64 overrides x86", set: signal.Of("__i386__", "__i686__", "_M_X64"), kind: ArchX86_64, archName: "x86_64", bits: 64},
		{name: "lp64 only", set: signal.Of("__LP64__"), kind: ArchUnknown, archName: UnknownName, bits: 64},
		{name: "nothing", set: signal.Set{}, kind: ArchUnknown, archName: UnknownName, bits: BitsUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.set, quiet()).Arch
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.variant, got.Variant)
			assert.Equal(t, tt.archName, got.Name)
			assert.Equal(t, tt.subVersion, got.SubVersion)
			assert.Equal(t, tt.subVersionName, got.SubVersionName)
			assert.Equal(t, tt.bits, got.Bits)
		})
	}
}

func TestResolveArch_X86AssumesThirtyTwoBits(t *testing.T) {
	var diagnostics []Diagnostic
	opts := Options{Reporter: ReporterFunc(func(d Diagnostic) { diagnostics = append(diagnostics, d) })}

	got := Classify(signal.Of("__X86__", "__GNUC__", "__linux__"), opts)

	assert.Equal(t, ArchX86, got.Arch.Kind)
	assert.Equal(t, 32, got.Arch.Bits)
	assert.Equal(t, []Diagnostic{{Category: CategoryArch, Message: "Failed to identify x86 bit count, assuming 32..."}}, diagnostics)
}

func TestResolveArch_X86_64SkipsX86BitCount(t *testing.T) {
	var diagnostics []Diagnostic
	opts := Options{Reporter: ReporterFunc(func(d Diagnostic) { diagnostics = append(diagnostics, d) })}

	got := Classify(signal.Of("__GNUC__", "__linux__", "__x86_64__", "_X86_"), opts)

	assert.Equal(t, ArchX86_64, got.Arch.Kind)
	assert.Equal(t, 64, got.Arch.Bits)
	assert.Empty(t, diagnostics)
}

func TestVariantTable(t *testing.T) {
	for _, v := range Variants() {
		assert.NotEqual(t, ArchUnknown, v.Family(), v.ID())
		assert.NotEmpty(t, v.String(), v.ID())
	}
	assert.Equal(t, ArchX86, VariantI686.Family())
	assert.Equal(t, "NONE", VariantNone.ID())
	assert.Equal(t, "", VariantNone.String())
	assert.Len(t, ArchKinds(), 14)
}
