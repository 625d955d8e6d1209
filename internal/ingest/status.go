package ingest

// Status is the per-IP pipeline state.
type Status uint8

const (
	StatusPending Status = iota
	StatusFetching
	StatusPersisted
	StatusDryRunEmitted
	StatusNotFound
	StatusAuthFailed
	StatusFetchFailed
	StatusPersistFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFetching:
		return "fetching"
	case StatusPersisted:
		return "persisted"
	case StatusDryRunEmitted:
		return "dry-run emitted"
	case StatusNotFound:
		return "not found"
	case StatusAuthFailed:
		return "authentication failed"
	case StatusFetchFailed:
		return "fetch failed"
	case StatusPersistFailed:
		return "persist failed"
	default:
		return "unknown status"
	}
}

// Success returns true for the two success terminal states.
func (s Status) Success() bool {
	return s == StatusPersisted || s == StatusDryRunEmitted
}
