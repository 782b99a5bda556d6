package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingExpirer struct {
	calls   atomic.Int32
	removed int
}

func (e *countingExpirer) DeleteExpired() int {
	e.calls.Add(1)
	return e.removed
}

func TestSweeper_RunNow(t *testing.T) {
	logger, hook := test.NewNullLogger()
	target := &countingExpirer{removed: 2}
	s := NewSweeper(target, logger)

	assert.Equal(t, 2, s.RunNow())
	assert.Equal(t, int32(1), target.calls.Load())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, 2, hook.LastEntry().Data["removed"])
}

func TestSweeper_RunNowQuietWhenNothingExpired(t *testing.T) {
	logger, hook := test.NewNullLogger()
	s := NewSweeper(&countingExpirer{}, logger)

	assert.Equal(t, 0, s.RunNow())
	assert.Empty(t, hook.AllEntries())
}

func TestSweeper_Register(t *testing.T) {
	s := NewSweeper(&countingExpirer{}, nil)

	assert.NoError(t, s.Register("@every 10m"))
	assert.NoError(t, s.Register("*/5 * * * *"))
	assert.Error(t, s.Register("every now and then"))
}

func TestSweeper_RunsOnSchedule(t *testing.T) {
	logger, _ := test.NewNullLogger()
	target := &countingExpirer{}
	s := NewSweeper(target, logger)

	require.NoError(t, s.Register("@every 1s"))
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return target.calls.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)
}
