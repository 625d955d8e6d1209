// Package ingest drives the per-IP pipeline:
// fetch, normalize, timestamp and persist.
package ingest

import (
	"context"
	"errors"
	"net/netip"

	"greynoise-ingest/internal/greynoise"
	"greynoise-ingest/internal/models"
	"greynoise-ingest/internal/normalize"
	"greynoise-ingest/internal/retry"
)

type Fetcher interface {
	FetchIP(ctx context.Context, ip netip.Addr) (result greynoise.Result, err error)
}

type Sink interface {
	Insert(ctx context.Context, document models.Document) (id string, err error)
}

type Logger interface {
	Debug(s string)
	Info(s string)
	Warn(s string)
	Error(s string)
}

type Runner struct {
	fetcher       Fetcher
	sink          Sink
	retrySettings retry.Settings
	dryRun        bool
	logger        Logger
}

func NewRunner(fetcher Fetcher, sink Sink, retrySettings retry.Settings,
	dryRun bool, logger Logger) *Runner {
	return &Runner{
		fetcher:       fetcher,
		sink:          sink,
		retrySettings: retrySettings,
		dryRun:        dryRun,
		logger:        logger,
	}
}

// Run processes the IPs sequentially: one IP fully completes, success
// or failure, before the next begins. Per-IP failures are recorded in
// the summary and never abort the remaining IPs; only context
// cancellation stops the run early.
func (r *Runner) Run(ctx context.Context, ips []netip.Addr) (summary *Summary) {
	summary = newSummary()
	for _, ip := range ips {
		outcome := r.processIP(ctx, ip)
		summary.add(outcome)
		r.logOutcome(outcome)
		if ctx.Err() != nil {
			break
		}
	}
	return summary
}

func (r *Runner) processIP(ctx context.Context, ip netip.Addr) (outcome Outcome) {
	outcome.IP = ip
	outcome.Status = StatusFetching
	r.logger.Debug("fetching intelligence record for " + ip.String())

	result, err := retry.Do(ctx, r.retrySettings, r.logger,
		func(ctx context.Context) (greynoise.Result, error) {
			return r.fetcher.FetchIP(ctx, ip)
		})
	switch {
	case err == nil:
	case errors.Is(err, greynoise.ErrNotFound):
		outcome.Status = StatusNotFound
		outcome.Err = err
		return outcome
	case errors.Is(err, greynoise.ErrAuth):
		outcome.Status = StatusAuthFailed
		outcome.Err = err
		return outcome
	default:
		outcome.Status = StatusFetchFailed
		outcome.Err = err
		return outcome
	}

	document := normalize.Build(ip, result)

	outcome.DocumentID, err = r.sink.Insert(ctx, document)
	if err != nil {
		outcome.Status = StatusPersistFailed
		outcome.Err = err
		return outcome
	}

	outcome.Status = StatusPersisted
	if r.dryRun {
		outcome.Status = StatusDryRunEmitted
	}
	return outcome
}

func (r *Runner) logOutcome(outcome Outcome) {
	switch outcome.Status {
	case StatusPersisted:
		r.logger.Info(outcome.IP.String() + ": persisted document " +
			outcome.DocumentID)
	case StatusDryRunEmitted:
		r.logger.Info(outcome.IP.String() + ": dry run, document emitted")
	case StatusNotFound:
		r.logger.Warn(outcome.IP.String() + ": " + outcome.Err.Error())
	default:
		r.logger.Error(outcome.IP.String() + ": " + outcome.Err.Error())
	}
}
