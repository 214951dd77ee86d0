package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Validate runs all three global invariant checks against rules and
// aggregates every diagnostic before returning, so a misconfigured rule
// file is reported completely in one pass rather than one error at a
// time. A nil return means rules is safe to serve.
func Validate(rules []*Rule) error {
	var result *multierror.Error
	for _, err := range checkFilesExist(rules) {
		result = multierror.Append(result, err)
	}
	for _, err := range checkProfilesReachable(rules) {
		result = multierror.Append(result, err)
	}
	for _, err := range checkShadowing(rules) {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// Diagnostics flattens a Validate error into its individual messages. It
// returns nil for a nil error and a single-element slice for any error
// that isn't a *multierror.Error.
func Diagnostics(err error) []error {
	if err == nil {
		return nil
	}
	if merr, ok := err.(*multierror.Error); ok {
		return merr.Errors
	}
	return []error{err}
}

// checkFilesExist verifies every file referenced by a Serve-emitting rule
// exists on disk, caching already-verified names to avoid redundant
// stats.
func checkFilesExist(rules []*Rule) []error {
	var errs []error
	seen := make(map[string]bool)
	for _, r := range rules {
		for _, f := range r.Files() {
			if seen[f] {
				continue
			}
			seen[f] = true
			if _, err := os.Stat(f); err != nil {
				errs = append(errs, fmt.Errorf("line %d: Could not find file %q", r.LineNumber, f))
			}
		}
	}
	return errs
}

// reachableProfiles returns the set of profile ids some Profile-command
// rule switches the server into. checkProfilesReachable and
// ValidateDefaultProfile both test membership in this same set, so a name
// unreachable to a rule is unreachable as a sidecar default too.
func reachableProfiles(rules []*Rule) map[ProfileID]bool {
	reachable := make(map[ProfileID]bool)
	for _, r := range rules {
		if r.Command == CmdProfile {
			reachable[r.DestinationProfile] = true
		}
	}
	return reachable
}

// checkProfilesReachable ensures every profile id a rule is scoped to
// (other than Default/Any) is reachable via some Profile-command rule's
// destination.
func checkProfilesReachable(rules []*Rule) []error {
	reachable := reachableProfiles(rules)
	var errs []error
	for _, r := range rules {
		if r.Profile == Default || r.Profile == Any {
			continue
		}
		if !reachable[r.Profile] {
			errs = append(errs, fmt.Errorf("line %d: profile not referenced", r.LineNumber))
		}
	}
	return errs
}

// ValidateDefaultProfile checks a connection-parameters sidecar's
// default_profile against the same reachable-destination set
// checkProfilesReachable uses, per SPEC_FULL.md §5.3. An empty name is
// not an error (no override requested). A name the rule file never
// registered, or registered but never switches into via a Profile
// directive, fails with the same diagnostic an unreachable rule scope
// would.
func ValidateDefaultProfile(rules []*Rule, profiles *ProfileTable, name string) error {
	if name == "" {
		return nil
	}
	id, ok := profiles.LookupID(name)
	if !ok {
		return fmt.Errorf("default_profile %q: profile not referenced", name)
	}
	if id == Default || id == Any {
		return nil
	}
	if !reachableProfiles(rules)[id] {
		return fmt.Errorf("default_profile %q: profile not referenced", name)
	}
	return nil
}

// checkShadowing flags any rule T that can never fire because an earlier
// rule H always matches a superset of the requests T would match.
func checkShadowing(rules []*Rule) []error {
	var errs []error
	for i, h := range rules {
		for _, t := range rules[i+1:] {
			if shadows(h, t) {
				errs = append(errs, fmt.Errorf("line %d: rule is shadowed by rule at line %d", t.LineNumber, h.LineNumber))
			}
		}
	}
	return errs
}

// shadows reports whether h shadows t per the spec's conservative,
// syntactic-substring-only definition.
func shadows(h, t *Rule) bool {
	if h.Profile != Any && h.Profile != t.Profile {
		return false
	}
	if !sameTime(h.Time, t.Time) {
		return false
	}
	for _, p := range h.Patterns {
		if !anyContains(t.Patterns, p) {
			return false
		}
	}
	return true
}

func sameTime(a, b *time.Duration) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

func anyContains(haystacks []string, needle string) bool {
	for _, h := range haystacks {
		if strings.Contains(h, needle) {
			return true
		}
	}
	return false
}
