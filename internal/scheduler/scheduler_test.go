package scheduler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/castlemilk/agenda/backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	calls  atomic.Int32
	report service.RunReport
	err    error
}

func (f *fakeRunner) AdvanceAll(ctx context.Context) (service.RunReport, error) {
	f.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return service.RunReport{}, errors.New("run without deadline")
	}
	return f.report, f.err
}

func TestNewDefaultsSpec(t *testing.T) {
	s := New(&fakeRunner{}, "", nil)
	assert.Equal(t, DefaultSpec, s.spec)
	assert.NotNil(t, s.cron)
	assert.NotNil(t, s.logger)
}

func TestStartStop(t *testing.T) {
	s := New(&fakeRunner{}, "@every 1h", nil)

	require.NoError(t, s.Start())
	assert.Error(t, s.Start(), "second start must fail")

	s.Stop()
	s.Stop()
	assert.False(t, s.running)
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := New(&fakeRunner{}, "not a spec", nil)
	err := s.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a spec")
	assert.False(t, s.running)
}

func TestRunOnceLogsOutcome(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	runner := &fakeRunner{report: service.RunReport{Owners: make([]service.OwnerRun, 3), Failed: 1}}
	New(runner, "", logger).RunOnce(context.Background())

	assert.EqualValues(t, 1, runner.calls.Load())
	assert.Contains(t, buf.String(), "owners=3")
	assert.Contains(t, buf.String(), "failed=1")

	buf.Reset()
	runner.err = errors.New("datastore down")
	New(runner, "", logger).RunOnce(context.Background())
	assert.Contains(t, buf.String(), "datastore down")
}
