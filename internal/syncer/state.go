package syncer

import "time"

// Status is the life-cycle state of one synchronized resource.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusFetching Status = "fetching"
	StatusReady    Status = "ready"
	StatusError    Status = "error"
	StatusTimedOut Status = "timed_out"
)

// State is the status/value/error tuple owned by one Synchronizer. Value
// always holds resource-specific default data when Status is not Ready, so
// renderers never special-case absence.
type State[V any] struct {
	Status        Status
	Value         V
	ErrorMessage  string
	LastFetchedAt *time.Time
}

// Event describes a state transition, delivered to the optional Notify hook.
type Event struct {
	Resource     string
	Status       Status
	ErrorMessage string
	At           time.Time
}
