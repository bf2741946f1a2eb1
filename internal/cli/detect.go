package cli

import (
	"github.com/cperrin88/gendetect/internal/logger"
	"github.com/cperrin88/gendetect/pkg/config"
	"github.com/cperrin88/gendetect/pkg/detect"
	"github.com/cperrin88/gendetect/pkg/report"
	"github.com/cperrin88/gendetect/pkg/rules"
	"github.com/spf13/cobra"
)

// NewDetectCmd creates the detect command.
func NewDetectCmd() *cobra.Command {
	var src source

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Probe a compiler and report its target",
		Long: `Run the compiler's preprocessor, classify the predefined macros and report
the compiler, operating system and architecture of the target. Rules from the
configuration file are evaluated and reported alongside. Repeat --compiler to
probe several toolchains concurrently.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDetect(cmd, &src)
		},
	}

	src.addFlags(cmd)

	return cmd
}

// NewClassifyCmd creates the classify command.
func NewClassifyCmd() *cobra.Command {
	var profile bool

	cmd := &cobra.Command{
		Use:   "classify FILE|-",
		Short: "Classify a saved macro dump or YAML profile",
		Long: `Classify the output of "cc -dM -E -x c /dev/null" saved to a file, or a
YAML profile of defines. Use "-" to read from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, &source{input: args[0], profile: profile})
		},
	}

	cmd.Flags().BoolVar(&profile, "profile", false, "parse stdin as a YAML profile")

	return cmd
}

func runDetect(cmd *cobra.Command, src *source) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := reportFormat(cfg)
	if err != nil {
		return err
	}

	var (
		names           []string
		classifications []detect.Classification
	)
	if src.input == "" && len(src.compilers) > 1 {
		names, classifications, err = probeAll(cmd.Context(), cfg, src.compilers)
		if err != nil {
			return err
		}
	} else {
		name, cl, err := src.classify(cmd, cfg)
		if err != nil {
			return err
		}
		names, classifications = []string{name}, []detect.Classification{cl}
	}

	entries := make([]report.Entry, 0, len(classifications))
	for i, cl := range classifications {
		entry := report.NewEntry(names[i], cl)
		if len(cfg.Rules) > 0 {
			results, err := checkRules(cmd, cfg, cl)
			if err != nil {
				return err
			}
			entry = entry.WithRules(results)
		}
		entries = append(entries, entry)
	}

	return report.Write(cmd.OutOrStdout(), format, entries...)
}

func checkRules(cmd *cobra.Command, cfg *config.Config, cl detect.Classification) ([]rules.Result, error) {
	evaluator := rules.NewEvaluator(cl)
	for _, r := range cfg.Rules {
		if err := evaluator.AddRule(r); err != nil {
			return nil, err
		}
	}

	results, err := evaluator.Check(cmd.Context())
	if err != nil {
		return nil, err
	}
	logger.Debug("Evaluated rules", logger.Fields{"count": len(results)})
	return results, nil
}
