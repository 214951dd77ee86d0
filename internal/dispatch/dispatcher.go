// Package dispatch implements the request-matching state machine: given
// a request, the ordered rule list, and the server's mutable
// profile/clock state, find the first matching rule and carry out its
// command. Grounded on rnodes.go's Rule.check(c *Context): iterate,
// first match wins, side effects only happen for the winning match.
package dispatch

import (
	"strings"
	"time"

	"github.com/ovidiu-ionescu/iron-mockside/internal/config"
)

// DefaultRule is the built-in fallback streamed when no configured rule
// matches.
var DefaultRule = &config.Rule{
	LineNumber:         0,
	Filenames:          "404.html",
	Command:            config.CmdServe,
	Profile:            config.Any,
	DestinationProfile: config.Any,
}

// Match returns the first rule in rules eligible for request under
// currentProfile and the elapsed time since timeOrigin, or DefaultRule if
// none match. Gate order — profile, then pattern, then time — is part of
// the contract: a rule that fails an earlier gate is skipped before the
// later gates are even evaluated.
func Match(request string, rules []*config.Rule, currentProfile config.ProfileID, timeOrigin, now time.Time) *config.Rule {
	for _, r := range rules {
		if !profileGate(r, currentProfile) {
			continue
		}
		if !patternGate(r, request) {
			continue
		}
		if !timeGate(r, timeOrigin, now) {
			continue
		}
		return r
	}
	return DefaultRule
}

// profileGate lets Profile-command rules through regardless of the
// current profile — they carry their own gating via patterns — and
// otherwise requires an exact profile match unless the rule is scoped to
// Any.
func profileGate(r *config.Rule, current config.ProfileID) bool {
	if r.Profile == config.Any || r.Command == config.CmdProfile {
		return true
	}
	return r.Profile == current
}

func patternGate(r *config.Rule, request string) bool {
	for _, p := range r.Patterns {
		if !strings.Contains(request, p) {
			return false
		}
	}
	return true
}

func timeGate(r *config.Rule, timeOrigin, now time.Time) bool {
	if r.Time == nil {
		return true
	}
	return now.Sub(timeOrigin) >= *r.Time
}

// State is the minimal mutable server state a command's side effect acts
// on. internal/server.State implements it; the interface lives here so
// this package doesn't import internal/server (which itself imports
// dispatch to drive the accept loop).
type State interface {
	SetProfile(id config.ProfileID)
	ResetTimeOrigin(now time.Time)
}

// Apply carries out rule's command side effect, in the order the spec
// requires it run: after Match, before streaming. sleep is injected so
// callers (and tests) control how Delay's wait is actually performed.
func Apply(rule *config.Rule, state State, now time.Time, sleep func(time.Duration)) {
	switch rule.Command {
	case config.CmdDelay:
		if rule.Delay != nil {
			sleep(*rule.Delay)
		}
	case config.CmdProfile:
		state.SetProfile(rule.DestinationProfile)
	case config.CmdReset:
		state.ResetTimeOrigin(now)
	}
}
