package models

import "time"

// Connector identifies this connector in persisted documents.
const Connector = "greynoise"

// Document is the normalized record built for each fetched IP address.
// Every key is always present: fields absent from the API payload
// serialize as null instead of being omitted. A document is built once
// per successful fetch and never mutated afterwards, except for
// IngestedAt which the sink stamps immediately before writing.
type Document struct {
	Connector              string           `bson:"connector" json:"connector"`
	IP                     string           `bson:"ip" json:"ip"`
	BusinessService        map[string]any   `bson:"business_service" json:"business_service"`
	InternetScannerSummary *ScannerSummary  `bson:"internet_scanner_summary" json:"internet_scanner_summary"`
	RequestMetadata        *RequestMetadata `bson:"request_metadata" json:"request_metadata"`
	Raw                    map[string]any   `bson:"raw" json:"raw"`
	FetchedAt              time.Time        `bson:"fetched_at" json:"fetched_at"`
	IngestedAt             time.Time        `bson:"ingested_at" json:"ingested_at"`
	Source                 Source           `bson:"_source" json:"_source"`
}

// ScannerSummary is the promoted subset of the internet scanner
// intelligence sub-object.
type ScannerSummary struct {
	Seen           bool           `bson:"seen" json:"seen"`
	Classification string         `bson:"classification" json:"classification"`
	FirstSeen      string         `bson:"first_seen" json:"first_seen"`
	LastSeen       string         `bson:"last_seen" json:"last_seen"`
	Found          bool           `bson:"found" json:"found"`
	Actor          string         `bson:"actor" json:"actor"`
	Bot            bool           `bson:"bot" json:"bot"`
	VPN            bool           `bson:"vpn" json:"vpn"`
	Tags           []string       `bson:"tags" json:"tags"`
	Metadata       map[string]any `bson:"metadata" json:"metadata"`
}

type RequestMetadata struct {
	Country      string `bson:"country" json:"country"`
	ASN          string `bson:"asn" json:"asn"`
	Organization string `bson:"organization" json:"organization"`
}

// Source records where the document data was fetched from.
type Source struct {
	Endpoint string `bson:"endpoint" json:"endpoint"`
	BaseURL  string `bson:"base_url" json:"base_url"`
}
