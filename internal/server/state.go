// Package server wires config, dispatch and net.Conn plumbing together
// into the sequential connection-accept loop. Grounded on sinksmtp's own
// accept loop shape (read connection, run it through the rule engine,
// respond) but deliberately kept single-threaded per the spec's
// determinism requirement.
package server

import (
	"time"

	"github.com/google/uuid"

	"github.com/ovidiu-ionescu/iron-mockside/internal/config"
)

// State is the server's mutable cross-connection state: the active
// profile and the time origin After rules measure against (and Reset rules
// move to now), plus a
// connection counter used for per-connection log correlation.
type State struct {
	Profile     config.ProfileID
	TimeOrigin  time.Time
	connections uint64
}

// NewState starts a fresh State at startProfile with its time origin set
// to now, matching server startup semantics: elapsed-time rules measure
// from the moment the server came up, not from the first request.
func NewState(startProfile config.ProfileID, now time.Time) *State {
	return &State{
		Profile:    startProfile,
		TimeOrigin: now,
	}
}

// SetProfile implements dispatch.State.
func (s *State) SetProfile(id config.ProfileID) {
	s.Profile = id
}

// ResetTimeOrigin implements dispatch.State.
func (s *State) ResetTimeOrigin(now time.Time) {
	s.TimeOrigin = now
}

// NextConnection increments the connection counter and mints a UUID for
// the new connection, so log lines across a session can be correlated.
// Plain increment, not atomic: the accept loop is deliberately
// single-threaded, so nothing else can race this.
func (s *State) NextConnection() (uint64, string) {
	s.connections++
	return s.connections, uuid.New().String()
}
