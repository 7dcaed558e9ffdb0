package formwalker

import (
	"context"
	"fmt"
	"time"
)

// Default settling delays.
const (
	DefaultStepDelay  = 500 * time.Millisecond
	DefaultShortDelay = 250 * time.Millisecond
	DefaultFinalDelay = time.Second

	DefaultPollTimeout  = 5 * time.Second
	DefaultPollInterval = 100 * time.Millisecond
)

// Pacer decides how long to wait after an interaction before the next one.
type Pacer interface {
	// Settle is called after every interaction.
	Settle(ctx context.Context, s Session) error
	// SettleShort is called between closely related interactions on the same
	// control, such as repeated key presses.
	SettleShort(ctx context.Context, s Session) error
}

// Delays holds the fixed settling durations.
type Delays struct {
	Step  time.Duration `yaml:"step"`
	Short time.Duration `yaml:"short"`
	Final time.Duration `yaml:"final"`
}

// DefaultDelays returns the delays used when none are configured.
func DefaultDelays() Delays {
	return Delays{
		Step:  DefaultStepDelay,
		Short: DefaultShortDelay,
		Final: DefaultFinalDelay,
	}
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the SleepFunc used unless a test overrides it.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// FixedPacer waits a constant duration after each interaction regardless of
// the page state.
type FixedPacer struct {
	Delays Delays
	Sleep  SleepFunc
}

// NewFixedPacer returns a FixedPacer sleeping for the given delays.
func NewFixedPacer(d Delays) *FixedPacer {
	return &FixedPacer{Delays: d, Sleep: Sleep}
}

func (p *FixedPacer) Settle(ctx context.Context, _ Session) error {
	return p.Sleep(ctx, p.Delays.Step)
}

func (p *FixedPacer) SettleShort(ctx context.Context, _ Session) error {
	return p.Sleep(ctx, p.Delays.Short)
}

// PollPacer waits until the browser reports the document as loaded instead of
// sleeping a fixed duration.
type PollPacer struct {
	Timeout  time.Duration
	Interval time.Duration
}

func (p *PollPacer) Settle(ctx context.Context, s Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.WaitUntilReady(p.Timeout, p.Interval); err != nil {
		return fmt.Errorf("waiting for page to settle: %w", err)
	}
	return nil
}

func (p *PollPacer) SettleShort(ctx context.Context, s Session) error {
	return p.Settle(ctx, s)
}

// Pacing modes accepted by NewPacer.
const (
	PaceFixed = "fixed"
	PacePoll  = "poll"
)

// NewPacer returns the Pacer for mode.
func NewPacer(mode string, d Delays, pollTimeout, pollInterval time.Duration) (Pacer, error) {
	switch mode {
	case "", PaceFixed:
		return NewFixedPacer(d), nil
	case PacePoll:
		return &PollPacer{Timeout: pollTimeout, Interval: pollInterval}, nil
	}
	return nil, fmt.Errorf("unknown settle mode %q", mode)
}
