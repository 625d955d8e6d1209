package retry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Settings_SetDefaults(t *testing.T) {
	t.Parallel()

	var settings Settings
	settings.SetDefaults()

	assert.Equal(t, Settings{
		MaxAttempts: 5,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
	}, settings)
}

func Test_Settings_Validate(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		settings   Settings
		errWrapped error
	}{
		"defaults": {
			settings: Settings{
				MaxAttempts: 5,
				BaseDelay:   time.Second,
				MaxDelay:    30 * time.Second,
			},
		},
		"zero_attempts": {
			settings: Settings{
				BaseDelay: time.Second,
				MaxDelay:  time.Second,
			},
			errWrapped: ErrMaxAttemptsTooLow,
		},
		"too_many_attempts": {
			settings: Settings{
				MaxAttempts: 11,
				BaseDelay:   time.Second,
				MaxDelay:    time.Second,
			},
			errWrapped: ErrMaxAttemptsTooHigh,
		},
		"base_delay_too_low": {
			settings: Settings{
				MaxAttempts: 5,
				BaseDelay:   time.Millisecond,
				MaxDelay:    time.Second,
			},
			errWrapped: ErrBaseDelayTooLow,
		},
		"max_delay_below_base_delay": {
			settings: Settings{
				MaxAttempts: 5,
				BaseDelay:   time.Second,
				MaxDelay:    time.Millisecond,
			},
			errWrapped: ErrMaxDelayTooLow,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := testCase.settings.Validate()

			if testCase.errWrapped != nil {
				require.ErrorIs(t, err, testCase.errWrapped)
				return
			}
			require.NoError(t, err)
		})
	}
}
