package cli

import (
	"context"
	"fmt"
	"runtime"

	"github.com/cperrin88/gendetect/internal/logger"
	"github.com/cperrin88/gendetect/pkg/config"
	"github.com/cperrin88/gendetect/pkg/detect"
	"github.com/cperrin88/gendetect/pkg/errors"
	pkglogger "github.com/cperrin88/gendetect/pkg/logger"
	"github.com/cperrin88/gendetect/pkg/probe"
	"github.com/cperrin88/gendetect/pkg/report"
	"github.com/cperrin88/gendetect/pkg/signal"
	"github.com/spf13/cobra"
)

// These variables will be set by the main package
var (
	ConfigPath   *string
	Verbose      *bool
	LogJSON      *bool
	OutputFormat *string
)

// stdinName is the argument that makes classify read from standard input.
const stdinName = "-"

// loadConfig loads the configuration, applies the global flag overrides and
// initializes the logger from the result.
func loadConfig() (*config.Config, error) {
	cfg, err := loadFileConfig()
	if err != nil {
		return nil, err
	}

	// Override config with CLI flags if provided
	if OutputFormat != nil && *OutputFormat != "" {
		cfg.Settings.OutputFormat = *OutputFormat
	}
	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}

	return cfg, nil
}

// loadFileConfig loads the configuration as stored on disk, without flag
// overrides, so that it can be modified and saved back.
func loadFileConfig() (*config.Config, error) {
	configPath := getConfigPath()
	if configPath == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	initLogging(cfg.Settings.LogLevel)
	return cfg, nil
}

func initLogging(level string) {
	if Verbose != nil && *Verbose {
		level = "debug"
	}
	jsonLogs := LogJSON != nil && *LogJSON
	format := logger.FormatText
	if jsonLogs {
		format = logger.FormatJSON
	}
	logger.InitLogger(level, format)
	pkglogger.InitLogger(level, jsonLogs)
}

func reportFormat(cfg *config.Config) (report.Format, error) {
	return report.ParseFormat(cfg.Settings.OutputFormat)
}

// source describes where a signal set came from.
type source struct {
	// input is a dump or profile path, "-" for stdin, or empty to probe.
	input string
	// compilers override the configured compiler command when probing.
	compilers []string
	// profile forces YAML profile parsing for stdin.
	profile bool
}

func (s *source) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.input, "input", "i", "", "read a macro dump or YAML profile instead of probing (\"-\" for stdin)")
	cmd.Flags().StringArrayVar(&s.compilers, "compiler", nil, "compiler command to probe (default: config, $CC, cc)")
	cmd.Flags().BoolVar(&s.profile, "profile", false, "parse stdin as a YAML profile")
}

// signals acquires the signal set described by s and returns it with a
// display name.
func (s *source) signals(cmd *cobra.Command, cfg *config.Config) (string, signal.Set, error) {
	switch s.input {
	case "":
		if len(s.compilers) > 1 {
			return "", signal.Set{}, fmt.Errorf("%w: only one --compiler is supported here", errors.ErrProbeFailed)
		}
		compiler := ""
		if len(s.compilers) == 1 {
			compiler = s.compilers[0]
		}
		return probeSignals(cmd.Context(), cfg, compiler)
	case stdinName:
		name := "stdin"
		if s.profile {
			name = "stdin.yaml"
		}
		return signal.Load(name, cmd.InOrStdin())
	default:
		return signal.LoadFile(s.input)
	}
}

// classify acquires signals and classifies them with the configured options.
func (s *source) classify(cmd *cobra.Command, cfg *config.Config) (string, detect.Classification, error) {
	name, set, err := s.signals(cmd, cfg)
	if err != nil {
		return "", detect.Classification{}, err
	}
	return name, detect.Classify(set, cfg.DetectOptions()), nil
}

func probeContext(ctx context.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Settings.ProbeTimeout > 0 {
		return context.WithTimeout(ctx, cfg.Settings.ProbeTimeout)
	}
	return context.WithCancel(ctx)
}

func newProber(cfg *config.Config, compiler string) *probe.Prober {
	prober := probe.New(compiler)
	prober.NoExternalIncludes = cfg.Settings.NoExternalIncludes
	return prober
}

// probeSignals probes compiler, or the configured compiler when it is empty.
// The default host compiler goes through the cached probe.Host.
func probeSignals(ctx context.Context, cfg *config.Config, compiler string) (string, signal.Set, error) {
	ctx, cancel := probeContext(ctx, cfg)
	defer cancel()

	if compiler == "" {
		compiler = cfg.Settings.Compiler
	}
	if compiler == "" && !cfg.Settings.NoExternalIncludes {
		set, err := probe.Host(ctx)
		return probe.DefaultCompilerCommand(), set, err
	}

	prober := newProber(cfg, compiler)
	logger.Debug("Probing compiler", logger.Fields{"command": prober.String()})

	set, err := prober.Probe(ctx)
	return prober.String(), set, err
}

// probeAll probes several compilers concurrently and classifies each.
func probeAll(ctx context.Context, cfg *config.Config, compilers []string) ([]string, []detect.Classification, error) {
	ctx, cancel := probeContext(ctx, cfg)
	defer cancel()

	probers := make([]*probe.Prober, 0, len(compilers))
	names := make([]string, 0, len(compilers))
	for _, compiler := range compilers {
		prober := newProber(cfg, compiler)
		probers = append(probers, prober)
		names = append(names, prober.String())
	}

	sets, err := probe.ProbeAll(ctx, probers, runtime.NumCPU())
	if err != nil {
		return nil, nil, err
	}

	opts := cfg.DetectOptions()
	classifications := make([]detect.Classification, 0, len(sets))
	for _, set := range sets {
		classifications = append(classifications, detect.Classify(set, opts))
	}
	return names, classifications, nil
}
