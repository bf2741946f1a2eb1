// Package probe acquires a signal set by asking a C compiler for its
// predefined macros.
//
//go:generate mockgen -destination=./mocks/probe.go . Runner
package probe

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/cperrin88/gendetect/pkg/errors"
	"github.com/cperrin88/gendetect/pkg/logger"
	"github.com/cperrin88/gendetect/pkg/signal"
	"github.com/kballard/go-shellquote"
	"github.com/mattn/go-shellwords"
	"golang.org/x/sync/errgroup"
)

// DefaultCommand is used when neither the configuration nor $CC names a
// compiler.
const DefaultCommand = "cc"

// dumpArgs make the compiler preprocess stdin as C and print every macro
// defined at the end.
var dumpArgs = []string{"-dM", "-E", "-x", "c", "-"}

// targetConditionalsSource is preprocessed on Apple toolchains to capture the
// TARGET_OS_* macros.
const targetConditionalsSource = "#include <TargetConditionals.h>\n"

// Runner executes a command with the given stdin and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args []string, stdin []byte) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Env is appended to the current environment when set.
	Env []string
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, name string, args []string, stdin []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

// Prober runs one compiler command line.
type Prober struct {
	// Command is the compiler invocation, e.g. "clang --target=aarch64-linux-gnu".
	// It is split with shell quoting rules and may reference environment
	// variables.
	Command string
	// NoExternalIncludes skips the TargetConditionals.h pass on Apple targets.
	NoExternalIncludes bool
	// Runner executes the compiler. Nil uses ExecRunner.
	Runner Runner
}

// New returns a Prober for command, falling back to $CC and then
// DefaultCommand when command is empty.
func New(command string) *Prober {
	if command == "" {
		command = DefaultCompilerCommand()
	}
	return &Prober{Command: command}
}

// DefaultCompilerCommand returns $CC, or DefaultCommand when it is unset.
func DefaultCompilerCommand() string {
	if cc := strings.TrimSpace(os.Getenv("CC")); cc != "" {
		return cc
	}
	return DefaultCommand
}

// Args splits Command into the program and its leading arguments.
func (p *Prober) Args() ([]string, error) {
	parser := shellwords.NewParser()
	parser.ParseEnv = true

	args, err := parser.Parse(p.Command)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", errors.ErrProbeFailed, p.Command, err)
	}
	if len(args) == 0 {
		return nil, errors.ErrEmptyCompiler
	}
	return args, nil
}

// String renders the command as it will run, with environment references
// expanded and arguments requoted.
func (p *Prober) String() string {
	args, err := p.Args()
	if err != nil {
		return p.Command
	}
	return shellquote.Join(args...)
}

// Probe runs the compiler and parses its macro dump. On Apple targets a
// second pass adds the TARGET_OS_* macros from TargetConditionals.h; a
// failure there is logged and the first pass is returned as is.
func (p *Prober) Probe(ctx context.Context) (signal.Set, error) {
	args, err := p.Args()
	if err != nil {
		return signal.Set{}, err
	}

	set, err := p.dump(ctx, args, nil)
	if err != nil {
		return signal.Set{}, err
	}
	logger.Debug("Probed compiler", logger.Fields{"command": p.Command, "macros": set.Len()})

	if p.NoExternalIncludes || !set.Defined("__APPLE__") {
		return set, nil
	}

	target, err := p.dump(ctx, args, []byte(targetConditionalsSource))
	if err != nil {
		logger.Warn("TargetConditionals.h probe failed", logger.Fields{"command": p.Command, "error": err.Error()})
		return set, nil
	}
	return set.Merge(targetMacros(target)), nil
}

func (p *Prober) dump(ctx context.Context, args []string, source []byte) (signal.Set, error) {
	runner := p.Runner
	if runner == nil {
		runner = ExecRunner{}
	}

	full := make([]string, 0, len(args)-1+len(dumpArgs))
	full = append(full, args[1:]...)
	full = append(full, dumpArgs...)

	out, err := runner.Run(ctx, args[0], full, source)
	if err != nil {
		return signal.Set{}, fmt.Errorf("%w: %s: %w", errors.ErrProbeFailed, args[0], err)
	}
	set, err := signal.ParseDump(bytes.NewReader(out))
	if err != nil {
		return signal.Set{}, fmt.Errorf("%w: %s: %w", errors.ErrProbeFailed, args[0], err)
	}
	return set, nil
}

// targetMacros keeps only the TARGET_* macros of an include pass.
func targetMacros(set signal.Set) signal.Set {
	kept := make(map[string]string)
	for name, value := range set.Map() {
		if strings.HasPrefix(name, "TARGET_") {
			kept[name] = value
		}
	}
	return signal.New(kept)
}

// ProbeAll runs the probers concurrently, at most limit at a time (no limit
// when limit <= 0). Sets are returned in prober order; the first failure
// cancels the remaining probes.
func ProbeAll(ctx context.Context, probers []*Prober, limit int) ([]signal.Set, error) {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	sets := make([]signal.Set, len(probers))
	for i, p := range probers {
		g.Go(func() error {
			set, err := p.Probe(ctx)
			if err != nil {
				return err
			}
			sets[i] = set
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sets, nil
}

var (
	hostMu     sync.Mutex
	hostSet    signal.Set
	hostCached bool

	newHostProber = func() *Prober { return New("") }
)

// Host probes the default compiler and caches the first successful result
// for the rest of the process. Failures are not cached, so a cancelled or
// timed out probe is retried on the next call.
func Host(ctx context.Context) (signal.Set, error) {
	hostMu.Lock()
	defer hostMu.Unlock()

	if hostCached {
		return hostSet, nil
	}
	set, err := newHostProber().Probe(ctx)
	if err != nil {
		return signal.Set{}, err
	}
	hostSet, hostCached = set, true
	return set, nil
}
