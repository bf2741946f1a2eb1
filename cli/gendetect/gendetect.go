package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cperrin88/gendetect/internal/cli"
	"github.com/spf13/cobra"
)

var (
	configPath   string
	verbose      bool
	logJSON      bool
	outputFormat string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}

	cancel()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gendetect",
		Short: "Identify a C compiler's target from its predefined macros",
		Long: `gendetect classifies the compiler, operating system and CPU architecture a
C/C++ compiler targets by inspecting its predefined preprocessor macros:
- detect: probe a compiler and report its target
- classify, batch: classify saved macro dumps and profiles
- eval, check: evaluate conditions against the target
- platform: map the target to GOOS/GOARCH and OCI platforms`,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: auto-detect)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write log messages as JSON")
	cmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format (text, json, yaml)")

	// Set up CLI pkg variables
	cli.ConfigPath = &configPath
	cli.Verbose = &verbose
	cli.LogJSON = &logJSON
	cli.OutputFormat = &outputFormat

	// Add subcommands
	cmd.AddCommand(
		cli.NewDetectCmd(),
		cli.NewClassifyCmd(),
		cli.NewBatchCmd(),
		cli.NewEvalCmd(),
		cli.NewCheckCmd(),
		cli.NewPlatformCmd(),
		cli.NewCodecCmd(),
		cli.NewConfigCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
