package normalize

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"greynoise-ingest/internal/greynoise"
	"greynoise-ingest/internal/models"
)

func Test_Build(t *testing.T) {
	t.Parallel()

	fetchedAt := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)

	testCases := map[string]struct {
		ip       netip.Addr
		result   greynoise.Result
		document models.Document
	}{
		"full_record": {
			ip: netip.MustParseAddr("8.8.8.8"),
			result: greynoise.Result{
				Response: greynoise.Response{
					IP:              "8.8.8.8",
					BusinessService: map[string]any{"found": true},
					InternetScanner: &greynoise.InternetScanner{
						Seen:           true,
						Found:          true,
						Classification: "benign",
						FirstSeen:      "2019-01-01",
						LastSeen:       "2024-03-01",
						Actor:          "GoogleBot",
						Tags:           greynoise.Tags{"DNS Scanner", "DNS Scanner", "Crawler"},
						Metadata:       map[string]any{"rdns": "dns.google"},
					},
					RequestMetadata: &greynoise.RequestMetadata{
						Country:      "US",
						ASN:          "AS15169",
						Organization: "Google LLC",
					},
				},
				Raw:       map[string]any{"ip": "8.8.8.8"},
				Endpoint:  "https://api.greynoise.io/v3/ip/8.8.8.8",
				BaseURL:   "https://api.greynoise.io",
				FetchedAt: fetchedAt,
			},
			document: models.Document{
				Connector:       models.Connector,
				IP:              "8.8.8.8",
				BusinessService: map[string]any{"found": true},
				InternetScannerSummary: &models.ScannerSummary{
					Seen:           true,
					Found:          true,
					Classification: "benign",
					FirstSeen:      "2019-01-01",
					LastSeen:       "2024-03-01",
					Actor:          "GoogleBot",
					Tags:           []string{"DNS Scanner", "Crawler"},
					Metadata:       map[string]any{"rdns": "dns.google"},
				},
				RequestMetadata: &models.RequestMetadata{
					Country:      "US",
					ASN:          "AS15169",
					Organization: "Google LLC",
				},
				Raw:       map[string]any{"ip": "8.8.8.8"},
				FetchedAt: fetchedAt,
				Source: models.Source{
					Endpoint: "https://api.greynoise.io/v3/ip/8.8.8.8",
					BaseURL:  "https://api.greynoise.io",
				},
			},
		},
		"minimal_record_falls_back_to_input_ip": {
			ip: netip.MustParseAddr("2001:db8::1"),
			result: greynoise.Result{
				Raw:       map[string]any{},
				Endpoint:  "https://api.greynoise.io/v3/ip/2001:db8::1",
				BaseURL:   "https://api.greynoise.io",
				FetchedAt: fetchedAt,
			},
			document: models.Document{
				Connector: models.Connector,
				IP:        "2001:db8::1",
				Raw:       map[string]any{},
				FetchedAt: fetchedAt,
				Source: models.Source{
					Endpoint: "https://api.greynoise.io/v3/ip/2001:db8::1",
					BaseURL:  "https://api.greynoise.io",
				},
			},
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			document := Build(testCase.ip, testCase.result)

			assert.Equal(t, testCase.document, document)
			assert.True(t, document.IngestedAt.IsZero())

			again := Build(testCase.ip, testCase.result)
			assert.Equal(t, document, again)
		})
	}
}

func Test_dedupeTags(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		tags    []string
		deduped []string
	}{
		"empty": {
			deduped: []string{},
		},
		"no_duplicates": {
			tags:    []string{"a", "b"},
			deduped: []string{"a", "b"},
		},
		"duplicates_keep_first_seen_order": {
			tags:    []string{"b", "a", "b", "c", "a"},
			deduped: []string{"b", "a", "c"},
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			deduped := dedupeTags(testCase.tags)

			assert.Equal(t, testCase.deduped, deduped)
		})
	}
}
