package cli

import (
	"github.com/cperrin88/gendetect/internal/logger"
	"github.com/cperrin88/gendetect/pkg/detect"
	"github.com/cperrin88/gendetect/pkg/report"
	"github.com/cperrin88/gendetect/pkg/signal"
	"github.com/spf13/cobra"
)

// Number of arguments expected by the batch pack command.
const packCommandArgs = 2

// NewBatchCmd creates the batch command.
func NewBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch PATH",
		Short: "Classify every dump in a directory or archive",
		Long: `Classify every macro dump (.h, .txt, .dump, .macros) and YAML profile found
under PATH. PATH may be a directory or an archive such as .tar.gz or .zip.
Text output is a table with one row per file.`,
		Args: cobra.ExactArgs(1),
		RunE: runBatch,
	}

	cmd.AddCommand(newBatchPackCmd())

	return cmd
}

func newBatchPackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pack DIR ARCHIVE",
		Short: "Pack a directory of dumps into a .tar.gz",
		Args:  cobra.ExactArgs(packCommandArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(); err != nil {
				return err
			}
			if err := signal.PackBatch(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			logger.Success("Batch packed", logger.Fields{"source": args[0], "archive": args[1]})
			return nil
		},
	}
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := reportFormat(cfg)
	if err != nil {
		return err
	}

	batch, err := signal.LoadBatch(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	logger.Debug("Loaded batch", logger.Fields{"path": args[0], "files": len(batch)})

	opts := cfg.DetectOptions()
	entries := make([]report.Entry, 0, len(batch))
	for _, named := range batch {
		entries = append(entries, report.NewEntry(named.Name, detect.Classify(named.Set, opts)))
	}

	return report.Write(cmd.OutOrStdout(), format, entries...)
}
