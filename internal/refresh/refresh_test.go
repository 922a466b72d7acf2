package refresh

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvery(t *testing.T) {
	assert.Equal(t, "@every 1m30s", Every(90*time.Second))
	assert.Equal(t, "@every 1s", Every(time.Second))
}

func TestStartRejectsBadSchedule(t *testing.T) {
	_, err := Start("every now and then", func() {})
	assert.Error(t, err)
}

func TestTriggerFiresAndStops(t *testing.T) {
	var calls atomic.Int32
	fired := make(chan struct{}, 16)

	trig, err := Start(Every(time.Second), func() {
		calls.Add(1)
		fired <- struct{}{}
	})
	require.NoError(t, err)

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		trig.Stop()
		t.Fatal("trigger never fired")
	}

	trig.Stop()
	after := calls.Load()

	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, after, calls.Load(), "callback ran after Stop")

	// second Stop is a no-op
	trig.Stop()
}

func TestStopNilTrigger(t *testing.T) {
	var trig *Trigger
	assert.NotPanics(t, trig.Stop)
}
