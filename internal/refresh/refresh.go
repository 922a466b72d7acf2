// Package refresh drives periodic re-rendering for long-running headless
// output. A Trigger owns its schedule and can be stopped at any time; once
// Stop returns the callback never runs again.
package refresh

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/cwarden/theine/internal/log"
)

// EveryMinute fires at the top of each wall-clock minute, which keeps
// relative phrases in step with the clock.
const EveryMinute = "* * * * *"

// Every returns a schedule firing every d, measured from Start.
func Every(d time.Duration) string {
	return "@every " + d.String()
}

type Trigger struct {
	mu      sync.Mutex
	cron    *cron.Cron
	stopped bool
}

// Start schedules fn. Runs that would overlap a still running call are
// skipped.
func Start(schedule string, fn func()) (*Trigger, error) {
	logger := cronLogger{}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	if _, err := c.AddFunc(schedule, fn); err != nil {
		return nil, fmt.Errorf("refresh schedule %q: %w", schedule, err)
	}
	c.Start()
	log.Debug("refresh started", "schedule", schedule)

	return &Trigger{cron: c}, nil
}

// Stop cancels the schedule and waits for a running callback to finish. It
// is safe to call more than once, but not from inside the callback.
func (t *Trigger) Stop() {
	if t == nil {
		return
	}

	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.stopped = true
	t.mu.Unlock()

	<-t.cron.Stop().Done()
	log.Debug("refresh stopped")
}

// cronLogger routes scheduler messages through the application logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, kv ...interface{}) {
	log.Debug("cron: "+msg, kv...)
}

func (cronLogger) Error(err error, msg string, kv ...interface{}) {
	log.Error("cron: "+msg, err, kv...)
}
