package retry

import (
	"errors"
	"fmt"
	"time"

	"github.com/qdm12/gosettings"
	"github.com/qdm12/gotree"
)

type Settings struct {
	// MaxAttempts is the total number of attempts,
	// including the first one.
	MaxAttempts uint
	// BaseDelay is the delay before the first retry,
	// doubled before each subsequent retry.
	BaseDelay time.Duration
	// MaxDelay caps the computed backoff delay. It does not
	// apply to a server-provided Retry-After value.
	MaxDelay time.Duration
}

func (s *Settings) SetDefaults() {
	const defaultMaxAttempts = 5
	s.MaxAttempts = gosettings.DefaultComparable(s.MaxAttempts, defaultMaxAttempts)
	s.BaseDelay = gosettings.DefaultComparable(s.BaseDelay, time.Second)
	const defaultMaxDelay = 30 * time.Second
	s.MaxDelay = gosettings.DefaultComparable(s.MaxDelay, defaultMaxDelay)
}

var (
	ErrMaxAttemptsTooLow  = errors.New("max attempts is too low")
	ErrMaxAttemptsTooHigh = errors.New("max attempts is too high")
	ErrBaseDelayTooLow    = errors.New("base delay is too low")
	ErrMaxDelayTooLow     = errors.New("max delay is below the base delay")
)

func (s Settings) Validate() (err error) {
	const maxAttemptsLimit = 10
	switch {
	case s.MaxAttempts == 0:
		return fmt.Errorf("%w: %d", ErrMaxAttemptsTooLow, s.MaxAttempts)
	case s.MaxAttempts > maxAttemptsLimit:
		return fmt.Errorf("%w: %d is above the limit %d",
			ErrMaxAttemptsTooHigh, s.MaxAttempts, maxAttemptsLimit)
	}

	const minBaseDelay = 10 * time.Millisecond
	if s.BaseDelay < minBaseDelay {
		return fmt.Errorf("%w: %s is below the minimum %s",
			ErrBaseDelayTooLow, s.BaseDelay, minBaseDelay)
	}

	if s.MaxDelay < s.BaseDelay {
		return fmt.Errorf("%w: %s is below %s",
			ErrMaxDelayTooLow, s.MaxDelay, s.BaseDelay)
	}

	return nil
}

func (s Settings) String() string {
	return s.ToLinesNode().String()
}

func (s Settings) ToLinesNode() *gotree.Node {
	node := gotree.New("Retry")
	node.Appendf("Max attempts: %d", s.MaxAttempts)
	node.Appendf("Base delay: %s", s.BaseDelay)
	node.Appendf("Max delay: %s", s.MaxDelay)
	return node
}
