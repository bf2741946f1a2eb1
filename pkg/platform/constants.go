// Package platform maps a classification onto Go GOOS/GOARCH names and OCI
// image platforms.
package platform

import "github.com/cperrin88/gendetect/pkg/detect"

const (
	// OSWindows represents the Windows operating system.
	OSWindows = "windows"
	// OSLinux represents the Linux operating system.
	OSLinux = "linux"
	// OSAndroid represents Android.
	OSAndroid = "android"
	// OSDarwin represents macOS.
	OSDarwin = "darwin"
	// OSIOS represents iOS, its simulator and Mac Catalyst.
	OSIOS = "ios"
	// OSFreeBSD represents the FreeBSD operating system.
	OSFreeBSD = "freebsd"
	// OSOpenBSD represents the OpenBSD operating system.
	OSOpenBSD = "openbsd"
	// OSNetBSD represents the NetBSD operating system.
	OSNetBSD = "netbsd"
	// OSDragonFly represents DragonFly BSD.
	OSDragonFly = "dragonfly"
	// OSSolaris represents Solaris.
	OSSolaris = "solaris"
	// OSIllumos represents illumos.
	OSIllumos = "illumos"
	// OSAIX represents AIX.
	OSAIX = "aix"
	// OSPlan9 represents Plan 9.
	OSPlan9 = "plan9"
	// AnyOS represents any possible OS
	AnyOS = "any"

	// ArchAMD64 represents the AMD64 (x86_64) architecture.
	ArchAMD64 = "amd64"
	// Arch386 represents the 32-bit x86 architecture.
	Arch386 = "386"
	// ArchARM represents the ARM architecture (32-bit).
	ArchARM = "arm"
	// ArchARM64 represents the ARM64 (AArch64) architecture.
	ArchARM64 = "arm64"
	// ArchMIPS represents 32-bit MIPS.
	ArchMIPS = "mips"
	// ArchMIPS64 represents 64-bit MIPS.
	ArchMIPS64 = "mips64"
	// ArchPPC64 represents 64-bit PowerPC.
	ArchPPC64 = "ppc64"
	// ArchRISCV64 represents 64-bit RISC-V.
	ArchRISCV64 = "riscv64"
	// ArchLoong64 represents 64-bit LoongArch.
	ArchLoong64 = "loong64"
	// AnyArch represents any possible architecture
	AnyArch = "any"
)

var osNames = map[detect.OSKind]string{
	detect.OSWindows:         OSWindows,
	detect.OSLinux:           OSLinux,
	detect.OSAndroid:         OSAndroid,
	detect.OSMacOS:           OSDarwin,
	detect.OSIOS:             OSIOS,
	detect.OSIPhoneSimulator: OSIOS,
	detect.OSMacCatalyst:     OSIOS,
	detect.OSFreeBSD:         OSFreeBSD,
	detect.OSOpenBSD:         OSOpenBSD,
	detect.OSNetBSD:          OSNetBSD,
	detect.OSDragonFly:       OSDragonFly,
	detect.OSSolaris:         OSSolaris,
	detect.OSIllumos:         OSIllumos,
	detect.OSAIX:             OSAIX,
	detect.OSPlan9:           OSPlan9,
}

var archNames = map[detect.ArchKind]string{
	detect.ArchX86_64:  ArchAMD64,
	detect.ArchX86:     Arch386,
	detect.ArchAArch64: ArchARM64,
	detect.ArchARM:     ArchARM,
}

// variantArchNames covers families whose Go name depends on the word size.
var variantArchNames = map[detect.Variant]string{
	detect.VariantMIPS32:    ArchMIPS,
	detect.VariantMIPS64:    ArchMIPS64,
	detect.VariantPowerPC64: ArchPPC64,
	detect.VariantRISCV64:   ArchRISCV64,
}

// ValidOS returns the GOOS values a classification can map to.
func ValidOS() []string {
	return []string{
		OSWindows,
		OSLinux,
		OSAndroid,
		OSDarwin,
		OSIOS,
		OSFreeBSD,
		OSOpenBSD,
		OSNetBSD,
		OSDragonFly,
		OSSolaris,
		OSIllumos,
		OSAIX,
		OSPlan9,
	}
}

// ValidArch returns the GOARCH values a classification can map to.
func ValidArch() []string {
	return []string{
		ArchAMD64,
		Arch386,
		ArchARM,
		ArchARM64,
		ArchMIPS,
		ArchMIPS64,
		ArchPPC64,
		ArchRISCV64,
		ArchLoong64,
	}
}
