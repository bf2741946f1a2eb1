package detect

import (
	"github.com/cperrin88/gendetect/pkg/logger"
	"github.com/cperrin88/gendetect/pkg/signal"
)

// Options tunes classification. The zero value is the default behaviour.
type Options struct {
	// AndroidIsNotLinux stops Android from also being Linux-compatible.
	AndroidIsNotLinux bool
	// NoDiagnostics suppresses unresolved-category diagnostics.
	NoDiagnostics bool
	// NoExternalIncludes disables the TargetConditionals lookup used to tell
	// Apple device, simulator and Catalyst targets apart.
	NoExternalIncludes bool
	// Reporter receives diagnostics. Nil logs them as warnings.
	Reporter Reporter
	// TargetConditionals answers Apple target questions. Nil reads the
	// TARGET_OS_* macros from the classified set.
	TargetConditionals TargetConditionals
}

// Category names a classification axis.
type Category string

// Classification categories.
const (
	CategoryCompiler Category = "compiler"
	CategoryOS       Category = "os"
	CategoryArch     Category = "arch"
)

// Diagnostic reports a category that could not be fully identified.
type Diagnostic struct {
	Category Category
	Message  string
}

// Reporter is the sink for non-fatal classification diagnostics.
type Reporter interface {
	Unresolved(d Diagnostic)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(d Diagnostic)

// Unresolved calls f(d).
func (f ReporterFunc) Unresolved(d Diagnostic) { f(d) }

// LogReporter writes diagnostics as warnings through the package logger.
type LogReporter struct{}

// Unresolved logs d.
func (LogReporter) Unresolved(d Diagnostic) {
	logger.Warn(d.Message, logger.Fields{"category": string(d.Category)})
}

// TargetConditionals answers the questions Apple's TargetConditionals.h
// header resolves for a bare __APPLE__ target.
type TargetConditionals interface {
	IsSimulator() bool
	IsMacCatalyst() bool
	IsDevicePhone() bool
}

// MacroTargetConditionals reads the TARGET_OS_* macros from a signal set, as
// captured by a probe that included TargetConditionals.h.
type MacroTargetConditionals struct {
	Set signal.Set
}

// IsSimulator reports TARGET_OS_SIMULATOR or the older TARGET_IPHONE_SIMULATOR.
func (m MacroTargetConditionals) IsSimulator() bool {
	return m.Set.True("TARGET_OS_SIMULATOR") || m.Set.True("TARGET_IPHONE_SIMULATOR")
}

// IsMacCatalyst reports TARGET_OS_MACCATALYST.
func (m MacroTargetConditionals) IsMacCatalyst() bool {
	return m.Set.True("TARGET_OS_MACCATALYST")
}

// IsDevicePhone reports TARGET_OS_IPHONE.
func (m MacroTargetConditionals) IsDevicePhone() bool {
	return m.Set.True("TARGET_OS_IPHONE")
}
