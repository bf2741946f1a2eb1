package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cperrin88/gendetect/pkg/errors"
	"github.com/cperrin88/gendetect/pkg/report"
	"github.com/cperrin88/gendetect/pkg/rules"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewEvalCmd creates the eval command.
func NewEvalCmd() *cobra.Command {
	var (
		src    source
		assert bool
	)

	cmd := &cobra.Command{
		Use:   "eval EXPR...",
		Short: "Evaluate conditions against the detected target",
		Long: `Evaluate one or more Tengo expressions against the classification, e.g.

  gendetect eval 'is_os("GENERIC_BSD") && bits == 64'
  gendetect eval 'compiler == "GCC" && compiler_satisfies(">= 12")'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ruleSet := make([]rules.Rule, 0, len(args))
			for i, expr := range args {
				ruleSet = append(ruleSet, rules.Rule{Name: fmt.Sprintf("%s%d", ruleExprName, i+1), Expr: expr})
			}
			return runRules(cmd, &src, ruleSet, assert)
		},
	}

	src.addFlags(cmd)
	cmd.Flags().BoolVar(&assert, "assert", false, "fail unless every expression is true")

	return cmd
}

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	var (
		src    source
		assert bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate the rules from the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRules(cmd, &src, nil, assert)
		},
	}

	src.addFlags(cmd)
	cmd.Flags().BoolVar(&assert, "assert", false, "fail unless every rule matches")

	return cmd
}

// runRules evaluates ruleSet, or the configured rules when ruleSet is nil.
func runRules(cmd *cobra.Command, src *source, ruleSet []rules.Rule, assert bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := reportFormat(cfg)
	if err != nil {
		return err
	}
	if ruleSet != nil {
		cfg.Rules = ruleSet
	}

	_, cl, err := src.classify(cmd, cfg)
	if err != nil {
		return err
	}
	results, err := checkRules(cmd, cfg, cl)
	if err != nil {
		return err
	}

	if err := writeResults(cmd.OutOrStdout(), format, results); err != nil {
		return err
	}

	if assert {
		for _, r := range results {
			if !r.Matched {
				return fmt.Errorf("%w: %s: %s", errors.ErrRuleNotMatched, r.Name, r.Expr)
			}
		}
	}
	return nil
}

func writeResults(w io.Writer, format report.Format, results []rules.Result) error {
	switch format {
	case report.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case report.FormatYAML:
		return yaml.NewEncoder(w).Encode(results)
	default:
		tw := tabwriter.NewWriter(w, 0, 0, TabWidth, ' ', 0)
		_, _ = fmt.Fprintln(tw, "RULE\tMATCHED\tEXPRESSION")
		for _, r := range results {
			_, _ = fmt.Fprintf(tw, "%s\t%t\t%s\n", r.Name, r.Matched, r.Expr)
		}
		return tw.Flush()
	}
}
