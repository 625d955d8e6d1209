// Package normalize maps raw GreyNoise fetch results to the
// normalized document shape.
package normalize

import (
	"net/netip"

	"greynoise-ingest/internal/greynoise"
	"greynoise-ingest/internal/models"
)

// Build is a pure function: identical inputs produce identical
// documents. IngestedAt is left zero, the persistence sink stamps it
// right before writing.
func Build(ip netip.Addr, result greynoise.Result) (document models.Document) {
	documentIP := result.Response.IP
	if documentIP == "" {
		documentIP = ip.String()
	}

	return models.Document{
		Connector:              models.Connector,
		IP:                     documentIP,
		BusinessService:        result.Response.BusinessService,
		InternetScannerSummary: scannerSummary(result.Response.InternetScanner),
		RequestMetadata:        requestMetadata(result.Response.RequestMetadata),
		Raw:                    result.Raw,
		FetchedAt:              result.FetchedAt,
		Source: models.Source{
			Endpoint: result.Endpoint,
			BaseURL:  result.BaseURL,
		},
	}
}

func scannerSummary(scanner *greynoise.InternetScanner) (summary *models.ScannerSummary) {
	if scanner == nil {
		return nil
	}
	return &models.ScannerSummary{
		Seen:           scanner.Seen,
		Classification: scanner.Classification,
		FirstSeen:      scanner.FirstSeen,
		LastSeen:       scanner.LastSeen,
		Found:          scanner.Found,
		Actor:          scanner.Actor,
		Bot:            scanner.Bot,
		VPN:            scanner.VPN,
		Tags:           dedupeTags(scanner.Tags),
		Metadata:       scanner.Metadata,
	}
}

func requestMetadata(metadata *greynoise.RequestMetadata) (converted *models.RequestMetadata) {
	if metadata == nil {
		return nil
	}
	return &models.RequestMetadata{
		Country:      metadata.Country,
		ASN:          metadata.ASN,
		Organization: metadata.Organization,
	}
}

// dedupeTags removes duplicate tags preserving first-seen order,
// so the persisted tags behave as a set.
func dedupeTags(tags []string) (deduped []string) {
	deduped = make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		_, ok := seen[tag]
		if ok {
			continue
		}
		seen[tag] = struct{}{}
		deduped = append(deduped, tag)
	}
	return deduped
}
