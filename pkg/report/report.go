// Package report renders classifications for humans and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cperrin88/gendetect/pkg/detect"
	"github.com/cperrin88/gendetect/pkg/errors"
	"github.com/cperrin88/gendetect/pkg/platform"
	"github.com/cperrin88/gendetect/pkg/rules"
	"gopkg.in/yaml.v3"
)

// Format is an output encoding.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// tabWidth is the padding between table columns.
const tabWidth = 2

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", errors.ErrInvalidOutputFormatWithDetails(s)
	}
}

// Compiler is the reported view of detect.CompilerInfo.
type Compiler struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	Packed  uint32 `json:"packed_version" yaml:"packed_version"`
}

// OS is the reported view of detect.OSInfo.
type OS struct {
	ID              string   `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	Groups          []string `json:"groups" yaml:"groups"`
	LinuxCompatible bool     `json:"linux_compatible" yaml:"linux_compatible"`
}

// Arch is the reported view of detect.ArchInfo. Bits is omitted when unknown.
type Arch struct {
	ID             string `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	Variant        string `json:"variant,omitempty" yaml:"variant,omitempty"`
	SubVersion     int    `json:"sub_version,omitempty" yaml:"sub_version,omitempty"`
	SubVersionName string `json:"sub_version_name,omitempty" yaml:"sub_version_name,omitempty"`
	Bits           *int   `json:"bits,omitempty" yaml:"bits,omitempty"`
}

// Entry is one reported classification.
type Entry struct {
	Source   string             `json:"source,omitempty" yaml:"source,omitempty"`
	Compiler Compiler           `json:"compiler" yaml:"compiler"`
	OS       OS                 `json:"os" yaml:"os"`
	Arch     Arch               `json:"arch" yaml:"arch"`
	Platform *platform.Platform `json:"platform,omitempty" yaml:"platform,omitempty"`
	Rules    []rules.Result     `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// NewEntry builds the reported view of cl. source names where the signals
// came from and may be empty.
func NewEntry(source string, cl detect.Classification) Entry {
	e := Entry{
		Source: source,
		Compiler: Compiler{
			ID:      cl.Compiler.Kind.ID(),
			Name:    cl.Compiler.Name,
			Version: cl.Compiler.Version.String(),
			Packed:  uint32(cl.Compiler.Version),
		},
		OS: OS{
			ID:              cl.OS.Kind.ID(),
			Name:            cl.OS.Name,
			Groups:          cl.OS.Groups.IDs(),
			LinuxCompatible: cl.OS.LinuxCompatible,
		},
		Arch: Arch{
			ID:             cl.Arch.Kind.ID(),
			Name:           cl.Arch.Name,
			SubVersion:     cl.Arch.SubVersion,
			SubVersionName: cl.Arch.SubVersionName,
		},
	}
	if cl.Arch.Variant != detect.VariantNone {
		e.Arch.Variant = cl.Arch.Variant.ID()
	}
	if cl.Arch.Bits != detect.BitsUnknown {
		bits := cl.Arch.Bits
		e.Arch.Bits = &bits
	}
	if p, err := platform.FromClassification(cl); err == nil {
		e.Platform = &p
	}
	return e
}

// WithRules returns a copy of e carrying rule results.
func (e Entry) WithRules(results []rules.Result) Entry {
	e.Rules = results
	return e
}

// Write renders entries in format. Text output uses the machine info layout
// for a single entry and a table for several; JSON and YAML emit an object
// for a single entry and a list otherwise.
func Write(w io.Writer, format Format, entries ...Entry) error {
	switch format {
	case FormatText, "":
		if len(entries) == 1 {
			return writeText(w, entries[0])
		}
		return writeTable(w, entries)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(single(entries))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(single(entries)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errors.ErrInvalidOutputFormatWithDetails(string(format))
	}
}

func single(entries []Entry) interface{} {
	if len(entries) == 1 {
		return entries[0]
	}
	if entries == nil {
		return []Entry{}
	}
	return entries
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func bitsText(bits *int) string {
	if bits == nil {
		return "unknown"
	}
	return strconv.Itoa(*bits)
}

func writeText(w io.Writer, e Entry) error {
	var b strings.Builder
	if e.Source != "" {
		fmt.Fprintf(&b, "Machine info (%s):\n", e.Source)
	} else {
		b.WriteString("Machine info:\n")
	}
	fmt.Fprintf(&b, "- Operating system: %s\n", e.OS.Name)
	fmt.Fprintf(&b, "- Architecture: %s\n", e.Arch.Name)
	fmt.Fprintf(&b, "- Architecture version: %s\n", e.Arch.SubVersionName)
	fmt.Fprintf(&b, "- Bits: %s\n", bitsText(e.Arch.Bits))
	fmt.Fprintf(&b, "- Compiler: %s\n", e.Compiler.Name)
	fmt.Fprintf(&b, "- Compiler version: %s\n", e.Compiler.Version)
	b.WriteString("- OS type groups:\n")
	fmt.Fprintf(&b, "  - Unix: %s\n", yesNo(slices.Contains(e.OS.Groups, "GENERIC_UNIX")))
	fmt.Fprintf(&b, "  - BSD: %s\n", yesNo(slices.Contains(e.OS.Groups, "GENERIC_BSD")))
	fmt.Fprintf(&b, "  - Sun: %s\n", yesNo(slices.Contains(e.OS.Groups, "GENERIC_SUN")))
	fmt.Fprintf(&b, "  - Apple: %s\n", yesNo(slices.Contains(e.OS.Groups, "GENERIC_APPLE")))
	if e.Platform != nil {
		fmt.Fprintf(&b, "- Go platform: %s\n", e.Platform)
	}
	if len(e.Rules) > 0 {
		b.WriteString("- Rules:\n")
		for _, r := range e.Rules {
			fmt.Fprintf(&b, "  - %s: %s\n", r.Name, yesNo(r.Matched))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeTable(w io.Writer, entries []Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabWidth, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tCOMPILER\tVERSION\tOS\tARCH\tBITS\tPLATFORM")
	for _, e := range entries {
		arch := e.Arch.Name
		if e.Arch.SubVersionName != "" && e.Arch.SubVersionName != e.Arch.Name {
			arch = fmt.Sprintf("%s (%s)", e.Arch.Name, e.Arch.SubVersionName)
		}
		plat := "-"
		if e.Platform != nil {
			plat = e.Platform.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Source, e.Compiler.Name, e.Compiler.Version, e.OS.Name, arch, bitsText(e.Arch.Bits), plat)
	}
	return tw.Flush()
}
