package probe

import (
	"context"
	"testing"

	"github.com/cperrin88/gendetect/pkg/errors"
	"github.com/cperrin88/gendetect/pkg/signal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runnerFunc func(ctx context.Context, name string, args []string, stdin []byte) ([]byte, error)

func (f runnerFunc) Run(ctx context.Context, name string, args []string, stdin []byte) ([]byte, error) {
	return f(ctx, name, args, stdin)
}

func stubHost(t *testing.T, runner Runner) {
	t.Helper()
	saved := newHostProber
	newHostProber = func() *Prober { return &Prober{Command: "cc", Runner: runner} }
	resetHost := func() {
		hostMu.Lock()
		defer hostMu.Unlock()
		hostSet, hostCached = signal.Set{}, false
	}
	resetHost()
	t.Cleanup(func() {
		newHostProber = saved
		resetHost()
	})
}

func TestHost_RetriesAfterFailure(t *testing.T) {
	calls := 0
	stubHost(t, runnerFunc(func(ctx context.Context, _ string, _ []string, _ []byte) ([]byte, error) {
		calls++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []byte("#define __GNUC__ 13\n#define __linux__ 1\n"), nil
	}))

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Host(cancelled)
	require.ErrorIs(t, err, errors.ErrProbeFailed)
	assert.ErrorIs(t, err, context.Canceled)

	set, err := Host(context.Background())
	require.NoError(t, err)
	assert.True(t, set.Defined("__linux__"))

	set, err = Host(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(13), set.Int("__GNUC__"))
	assert.Equal(t, 2, calls)
}
