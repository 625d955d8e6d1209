// Package dryrun emits normalized documents to a writer instead of
// persisting them.
package dryrun

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"greynoise-ingest/internal/models"
)

// NotPersistedID is the sentinel identifier returned for
// documents that were emitted but not persisted.
const NotPersistedID = "dry-run"

type Sink struct {
	writer  io.Writer
	timeNow func() time.Time
}

func New(writer io.Writer, timeNow func() time.Time) *Sink {
	return &Sink{
		writer:  writer,
		timeNow: timeNow,
	}
}

// Insert stamps the ingestion timestamp and writes the document as
// indented JSON. No network or storage call is made.
func (s *Sink) Insert(_ context.Context, document models.Document) (
	id string, err error) {
	document.IngestedAt = s.timeNow().UTC()

	encoder := json.NewEncoder(s.writer)
	encoder.SetIndent("", "  ")
	err = encoder.Encode(document)
	if err != nil {
		return "", fmt.Errorf("encoding document: %w", err)
	}

	return NotPersistedID, nil
}
