package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/containerd/platforms"
	"github.com/cperrin88/gendetect/pkg/platform"
	"github.com/cperrin88/gendetect/pkg/report"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// platformInfo is the reported view of the platform command.
type platformInfo struct {
	Source   string            `json:"source" yaml:"source"`
	Platform platform.Platform `json:"platform" yaml:"platform"`
	OCI      ocispec.Platform  `json:"oci" yaml:"oci"`
	Native   bool              `json:"native" yaml:"native"`
	Target   string            `json:"target,omitempty" yaml:"target,omitempty"`
	Matches  *bool             `json:"matches,omitempty" yaml:"matches,omitempty"`
	CanRun   *bool             `json:"can_run,omitempty" yaml:"can_run,omitempty"`
}

// NewPlatformCmd creates the platform command.
func NewPlatformCmd() *cobra.Command {
	var (
		src   source
		match string
	)

	cmd := &cobra.Command{
		Use:   "platform",
		Short: "Show the Go and OCI platform of the detected target",
		Long: `Map the detected target to its GOOS/GOARCH pair and OCI image platform.
With --match, also report whether the target matches a platform specifier
such as linux/amd64, linux/any or darwin/arm64.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlatform(cmd, &src, match)
		},
	}

	src.addFlags(cmd)
	cmd.Flags().StringVar(&match, "match", "", "platform specifier to compare against (os/arch[/variant])")

	return cmd
}

func runPlatform(cmd *cobra.Command, src *source, match string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := reportFormat(cfg)
	if err != nil {
		return err
	}

	name, cl, err := src.classify(cmd, cfg)
	if err != nil {
		return err
	}
	p, err := platform.FromClassification(cl)
	if err != nil {
		return err
	}

	info := platformInfo{
		Source:   name,
		Platform: p,
		OCI:      p.OCI(),
		Native:   platform.IsNative(p),
	}
	if match != "" {
		target, err := platform.Parse(match)
		if err != nil {
			return err
		}
		matches, canRun := p.Matches(target), p.CanRun(target)
		info.Target = target.String()
		info.Matches = &matches
		info.CanRun = &canRun
	}

	return writePlatform(cmd.OutOrStdout(), format, info)
}

func writePlatform(w io.Writer, format report.Format, info platformInfo) error {
	switch format {
	case report.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case report.FormatYAML:
		return yaml.NewEncoder(w).Encode(info)
	}

	_, _ = fmt.Fprintf(w, "Platform: %s\n", info.Platform)
	_, _ = fmt.Fprintf(w, "OCI platform: %s\n", platforms.Format(info.OCI))
	_, _ = fmt.Fprintf(w, "Native: %s\n", yesNo(info.Native))
	if info.Matches != nil {
		_, _ = fmt.Fprintf(w, "Matches %s: %s\n", info.Target, yesNo(*info.Matches))
		_, _ = fmt.Fprintf(w, "Can run %s: %s\n", info.Target, yesNo(*info.CanRun))
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
