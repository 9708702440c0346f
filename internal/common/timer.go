// Package common provides shared utilities including timing functionality.
package common

import (
	"fmt"
	"strings"
	"time"
)

// Timer measures the elapsed time of a single named operation.
type Timer struct {
	start    time.Time
	name     string
	duration time.Duration
}

// NewTimer starts a timer for the given operation name.
func NewTimer(name string) *Timer {
	return &Timer{name: name, start: time.Now()}
}

// Stop stops the timer and returns the elapsed duration.
func (t *Timer) Stop() time.Duration {
	t.duration = time.Since(t.start)
	return t.duration
}

// Duration returns the recorded duration (only valid after Stop()).
func (t *Timer) Duration() time.Duration {
	return t.duration
}

// Name returns the timer name.
func (t *Timer) Name() string {
	return t.name
}

// String returns a formatted representation of the timer.
func (t *Timer) String() string {
	if t.name != "" {
		return fmt.Sprintf("%s: %v", t.name, t.duration)
	}
	return t.duration.String()
}

// StageClock accumulates per-stage durations across a multi-stage operation.
// It is not safe for concurrent use.
type StageClock struct {
	stages []*Timer
	active *Timer
}

// NewStageClock creates an empty stage clock.
func NewStageClock() *StageClock {
	return &StageClock{}
}

// Start begins timing a new stage, stopping the previous one if still
// running.
func (c *StageClock) Start(name string) {
	if c.active != nil {
		c.active.Stop()
	}
	c.active = NewTimer(name)
	c.stages = append(c.stages, c.active)
}

// Stop stops the currently running stage.
func (c *StageClock) Stop() {
	if c.active != nil {
		c.active.Stop()
		c.active = nil
	}
}

// Total returns the sum of all recorded stage durations.
func (c *StageClock) Total() time.Duration {
	c.Stop()
	var total time.Duration
	for _, t := range c.stages {
		total += t.Duration()
	}
	return total
}

// Summary returns a compact one-line report of all stages.
func (c *StageClock) Summary() string {
	c.Stop()
	parts := make([]string, 0, len(c.stages))
	for _, t := range c.stages {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, ", ")
}
