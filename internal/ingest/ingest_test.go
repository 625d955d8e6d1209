package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greynoise-ingest/internal/greynoise"
	"greynoise-ingest/internal/models"
	"greynoise-ingest/internal/persistence/dryrun"
	"greynoise-ingest/internal/retry"
)

type scriptedFetcher struct {
	// errs holds the error to return per call, nil meaning success.
	// Calls beyond the slice succeed.
	errs   []error
	result greynoise.Result
	calls  int
}

func (f *scriptedFetcher) FetchIP(_ context.Context, _ netip.Addr) (
	greynoise.Result, error) {
	call := f.calls
	f.calls++
	if call < len(f.errs) && f.errs[call] != nil {
		return greynoise.Result{}, f.errs[call]
	}
	return f.result, nil
}

type recordingSink struct {
	documents []models.Document
	err       error
}

func (s *recordingSink) Insert(_ context.Context, document models.Document) (
	id string, err error) {
	if s.err != nil {
		return "", s.err
	}
	s.documents = append(s.documents, document)
	return "6603a2f1e013b7a4c58d91aa", nil
}

type nopLogger struct{}

func (nopLogger) Debug(_ string) {}
func (nopLogger) Info(_ string)  {}
func (nopLogger) Warn(_ string)  {}
func (nopLogger) Error(_ string) {}

func testRetrySettings() retry.Settings {
	return retry.Settings{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    2 * time.Millisecond,
	}
}

var errSinkDown = errors.New("sink is down")

func Test_Runner_Run(t *testing.T) {
	t.Parallel()

	successResult := greynoise.Result{
		Response:  greynoise.Response{IP: "8.8.8.8"},
		Raw:       map[string]any{"ip": "8.8.8.8"},
		Endpoint:  "https://api.greynoise.io/v3/ip/8.8.8.8",
		BaseURL:   "https://api.greynoise.io",
		FetchedAt: time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC),
	}

	testCases := map[string]struct {
		fetcherErrs    []error
		sinkErr        error
		dryRun         bool
		status         Status
		expectedCalls  int
		inserted       int
		expectedFailed int
	}{
		"persisted": {
			status:        StatusPersisted,
			expectedCalls: 1,
			inserted:      1,
		},
		"dry_run_emitted": {
			dryRun:        true,
			status:        StatusDryRunEmitted,
			expectedCalls: 1,
			inserted:      1,
		},
		"temporary_failures_then_persisted": {
			fetcherErrs: []error{
				&greynoise.StatusError{Code: http.StatusInternalServerError},
				&greynoise.NetworkError{Cause: errors.New("connection refused")},
				nil,
			},
			status:        StatusPersisted,
			expectedCalls: 3,
			inserted:      1,
		},
		"not_found_is_not_retried": {
			fetcherErrs: []error{
				&greynoise.StatusError{Code: http.StatusNotFound},
			},
			status:         StatusNotFound,
			expectedCalls:  1,
			expectedFailed: 1,
		},
		"auth_failure_is_not_retried": {
			fetcherErrs: []error{
				&greynoise.StatusError{Code: http.StatusUnauthorized},
			},
			status:         StatusAuthFailed,
			expectedCalls:  1,
			expectedFailed: 1,
		},
		"fetch_failed_after_exhaustion": {
			fetcherErrs: []error{
				&greynoise.StatusError{Code: http.StatusInternalServerError},
				&greynoise.StatusError{Code: http.StatusBadGateway},
				&greynoise.StatusError{Code: http.StatusServiceUnavailable},
			},
			status:         StatusFetchFailed,
			expectedCalls:  3,
			expectedFailed: 1,
		},
		"persist_failed": {
			sinkErr:        errSinkDown,
			status:         StatusPersistFailed,
			expectedCalls:  1,
			expectedFailed: 1,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			fetcher := &scriptedFetcher{
				errs:   testCase.fetcherErrs,
				result: successResult,
			}
			sink := &recordingSink{err: testCase.sinkErr}
			runner := NewRunner(fetcher, sink, testRetrySettings(),
				testCase.dryRun, nopLogger{})

			summary := runner.Run(context.Background(),
				[]netip.Addr{netip.MustParseAddr("8.8.8.8")})

			assert.Equal(t, 1, summary.Total())
			assert.Equal(t, 1, summary.Count(testCase.status))
			assert.Equal(t, testCase.expectedFailed, summary.Failed())
			assert.Equal(t, testCase.expectedCalls, fetcher.calls)
			assert.Len(t, sink.documents, testCase.inserted)
		})
	}
}

func Test_Runner_Run_failureDoesNotAbortRemainingIPs(t *testing.T) {
	t.Parallel()

	fetcher := &scriptedFetcher{
		errs: []error{&greynoise.StatusError{Code: http.StatusNotFound}},
		result: greynoise.Result{
			Raw: map[string]any{},
		},
	}
	sink := &recordingSink{}
	runner := NewRunner(fetcher, sink, testRetrySettings(), false, nopLogger{})

	summary := runner.Run(context.Background(), []netip.Addr{
		netip.MustParseAddr("8.8.8.8"),
		netip.MustParseAddr("1.1.1.1"),
	})

	assert.Equal(t, 2, summary.Total())
	assert.Equal(t, 1, summary.Count(StatusNotFound))
	assert.Equal(t, 1, summary.Count(StatusPersisted))
	assert.Equal(t, 1, summary.Failed())
	require.Len(t, sink.documents, 1)
	assert.Equal(t, "1.1.1.1", sink.documents[0].IP)
}

func Test_Runner_Run_contextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &scriptedFetcher{result: greynoise.Result{Raw: map[string]any{}}}
	sink := &recordingSink{}
	runner := NewRunner(fetcher, sink, testRetrySettings(), false, nopLogger{})

	summary := runner.Run(ctx, []netip.Addr{
		netip.MustParseAddr("8.8.8.8"),
		netip.MustParseAddr("1.1.1.1"),
	})

	// the first IP completes, then the run stops.
	assert.Equal(t, 1, summary.Total())
}

func Test_Runner_Run_dryRunEndToEnd(t *testing.T) {
	t.Parallel()

	const responseBody = `{
		"ip": "8.8.8.8",
		"internet_scanner_intelligence": {
			"seen": true,
			"classification": "benign",
			"tags": ["DNS Scanner"]
		}
	}`
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v3/ip/8.8.8.8", r.URL.Path)
			_, _ = w.Write([]byte(responseBody))
		}))
	t.Cleanup(server.Close)

	now := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	timeNow := func() time.Time { return now }

	fetcher := greynoise.New(server.Client(), server.URL, "apikey", timeNow)
	buffer := new(bytes.Buffer)
	sink := dryrun.New(buffer, timeNow)
	runner := NewRunner(fetcher, sink, testRetrySettings(), true, nopLogger{})

	summary := runner.Run(context.Background(),
		[]netip.Addr{netip.MustParseAddr("8.8.8.8")})

	assert.Equal(t, 0, summary.Failed())
	assert.Equal(t, 1, summary.Count(StatusDryRunEmitted))

	var document map[string]any
	err := json.Unmarshal(buffer.Bytes(), &document)
	require.NoError(t, err)
	assert.Equal(t, "greynoise", document["connector"])
	assert.Equal(t, "8.8.8.8", document["ip"])
	assert.Equal(t, "2024-03-05T12:00:00Z", document["fetched_at"])
	assert.Equal(t, "2024-03-05T12:00:00Z", document["ingested_at"])
	assert.Nil(t, document["business_service"])
	source, ok := document["_source"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, server.URL+"/v3/ip/8.8.8.8", source["endpoint"])
	assert.Equal(t, server.URL, source["base_url"])
	scanner, ok := document["internet_scanner_summary"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, scanner["seen"])
	assert.Equal(t, "benign", scanner["classification"])
}
