package cli

import (
	"fmt"
	"strconv"

	"github.com/cperrin88/gendetect/pkg/detect"
	"github.com/cperrin88/gendetect/pkg/errors"
	"github.com/cperrin88/gendetect/pkg/signal"
	"github.com/spf13/cobra"
)

// Number of arguments expected by the codec pack command.
const packVersionArgs = 3

// NewCodecCmd creates the codec command with subcommands.
func NewCodecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codec",
		Short: "Convert between packed and dotted compiler versions",
		Long: `Compiler versions are packed into one 32-bit value: 8 bits major, 8 bits
minor and 16 bits patch.`,
	}

	cmd.AddCommand(
		newCodecPackCmd(),
		newCodecUnpackCmd(),
	)

	return cmd
}

func newCodecPackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pack MAJOR MINOR PATCH | VERSION",
		Short: "Pack a version into its 32-bit value",
		Args:  cobra.RangeArgs(1, packVersionArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := versionFromArgs(args)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "0x%08X\t%d\t%s\n", uint32(v), uint32(v), v)
			return err
		},
	}
}

func newCodecUnpackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unpack VALUE",
		Short: "Unpack a 32-bit value (decimal, 0x hex or 0 octal)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, ok := signal.ParseInt(args[0])
			if !ok || n < 0 || n > 0xFFFFFFFF {
				return fmt.Errorf("%w: %q is not a 32-bit value", errors.ErrInvalidVersion, args[0])
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), detect.Version(uint32(n)))
			return err
		},
	}
}

func versionFromArgs(args []string) (detect.Version, error) {
	if len(args) == 1 {
		return detect.ParseVersion(args[0])
	}
	if len(args) != packVersionArgs {
		return 0, fmt.Errorf("%w: expected MAJOR MINOR PATCH or one dotted version", errors.ErrInvalidVersion)
	}

	parts := make([]int64, packVersionArgs)
	for i, arg := range args {
		n, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %w", errors.ErrInvalidVersion, arg, err)
		}
		parts[i] = n
	}
	return detect.MakeVersion(parts[0], parts[1], parts[2]), nil
}
