package ingest

import (
	"net/netip"

	"github.com/qdm12/gotree"
)

// Outcome is the terminal result for one IP address.
type Outcome struct {
	IP         netip.Addr
	Status     Status
	DocumentID string
	Err        error
}

// Summary accumulates per terminal state counts over a run.
type Summary struct {
	counts map[Status]int
	total  int
}

func newSummary() *Summary {
	return &Summary{
		counts: make(map[Status]int),
	}
}

func (s *Summary) add(outcome Outcome) {
	s.counts[outcome.Status]++
	s.total++
}

func (s *Summary) Total() int { return s.total }

// Failed returns the number of IPs that did not reach a
// success terminal state.
func (s *Summary) Failed() (failed int) {
	for status, count := range s.counts {
		if !status.Success() {
			failed += count
		}
	}
	return failed
}

func (s *Summary) Count(status Status) int {
	return s.counts[status]
}

func (s *Summary) String() string {
	return s.ToLinesNode().String()
}

func (s *Summary) ToLinesNode() *gotree.Node {
	node := gotree.New("Run summary:")
	node.Appendf("Total: %d", s.total)
	orderedStatuses := []Status{
		StatusPersisted, StatusDryRunEmitted, StatusNotFound,
		StatusAuthFailed, StatusFetchFailed, StatusPersistFailed,
	}
	for _, status := range orderedStatuses {
		count := s.counts[status]
		if count == 0 {
			continue
		}
		node.Appendf("%s: %d", status, count)
	}
	return node
}
