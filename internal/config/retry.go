package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/qdm12/gosettings/reader"

	"greynoise-ingest/internal/retry"
)

func readRetry(settings *retry.Settings, r *reader.Reader, warner Warner) (err error) {
	maxAttemptsString := r.Get("MAX_RETRIES")
	if maxAttemptsString != nil {
		const base, bitSize = 10, 32
		maxAttempts, err := strconv.ParseUint(*maxAttemptsString, base, bitSize)
		if err != nil {
			return fmt.Errorf("environment variable MAX_RETRIES: %w", err)
		}
		settings.MaxAttempts = uint(maxAttempts)
	}

	// Retro-compatibility: INITIAL_BACKOFFS in plain seconds
	initialBackoffString := r.Get("INITIAL_BACKOFFS")
	if initialBackoffString != nil {
		warner.Warnf("You are using the old environment variable INITIAL_BACKOFFS, " +
			"please change it to BACKOFF_INITIAL with a duration value such as 1s")
		seconds, err := strconv.ParseFloat(*initialBackoffString, 64)
		if err != nil {
			return fmt.Errorf("environment variable INITIAL_BACKOFFS: %w", err)
		}
		settings.BaseDelay = secondsToDuration(seconds)
	} else {
		settings.BaseDelay, err = r.Duration("BACKOFF_INITIAL")
		if err != nil {
			return err
		}
	}

	settings.MaxDelay, err = r.Duration("BACKOFF_MAX")
	return err
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
