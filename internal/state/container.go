package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cwarden/theine/internal/activity"
)

// CalculatorInput is the part of Input a schedule calculator consumes.
type CalculatorInput struct {
	TimeZoneDifference          int
	NormalSleepingHoursStart    activity.SimpleTime
	NormalSleepingHoursDuration time.Duration
}

// Calculator produces the activity list for a set of inputs. The returned
// activities must be sorted by start time.
type Calculator interface {
	Calculate(ctx context.Context, in CalculatorInput) ([]activity.Activity, error)
}

// CalculatorFunc adapts a function to Calculator.
type CalculatorFunc func(ctx context.Context, in CalculatorInput) ([]activity.Activity, error)

func (f CalculatorFunc) Calculate(ctx context.Context, in CalculatorInput) ([]activity.Activity, error) {
	return f(ctx, in)
}

// Container guards a State. Readers get deep copies so views never observe
// a half-applied update.
type Container struct {
	mu    sync.RWMutex
	state State
}

func NewContainer(s State) *Container {
	return &Container{state: s.Clone()}
}

// Snapshot returns a deep copy of the current state.
func (c *Container) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Clone()
}

// Replace swaps in s wholesale, e.g. after reloading from disk.
func (c *Container) Replace(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s.Clone()
}

// UpdateInput applies fn to a copy of the input. The result is validated
// and stored with Fresh set, marking the activity list stale.
func (c *Container) UpdateInput(fn func(in *Input)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.state.Clone().Input
	fn(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	next.Fresh = true
	c.state.Input = next
	return nil
}

// SetActivities replaces the activity list. It must be sorted.
func (c *Container) SetActivities(acts []activity.Activity) error {
	if !activity.IsSorted(acts) {
		return ErrUnsorted
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Activities = activity.Clone(acts)
	return nil
}

// Recalculate asks calc for a new activity list based on the current input.
// On success the list is stored and Fresh is cleared. The lock is not held
// while calc runs; an input change made meanwhile keeps Fresh set.
func (c *Container) Recalculate(ctx context.Context, calc Calculator) error {
	c.mu.RLock()
	in := c.state.Input
	c.mu.RUnlock()

	acts, err := calc.Calculate(ctx, CalculatorInput{
		TimeZoneDifference:          in.TimeZoneDifference,
		NormalSleepingHoursStart:    in.NormalSleepingHoursStart,
		NormalSleepingHoursDuration: in.NormalSleepingHoursDuration,
	})
	if err != nil {
		return fmt.Errorf("calculate: %w", err)
	}
	if !activity.IsSorted(acts) {
		return fmt.Errorf("calculate: %w", ErrUnsorted)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Activities = activity.Clone(acts)
	if sameCalculatorInput(c.state.Input, in) {
		c.state.Input.Fresh = false
	}
	return nil
}

func sameCalculatorInput(a, b Input) bool {
	return a.TimeZoneDifference == b.TimeZoneDifference &&
		a.NormalSleepingHoursStart == b.NormalSleepingHoursStart &&
		a.NormalSleepingHoursDuration == b.NormalSleepingHoursDuration
}
