// Package config implements the rule DSL: its data model, parser, and
// validator. Nothing in this package touches a socket or a goroutine;
// everything here is pure enough to unit test without a running server.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Command is the tagged variant of side effect a Rule carries out when it
// is the winning match.
type Command int

const (
	CmdServe Command = iota
	CmdAfter
	CmdDelay
	CmdProfile
	CmdReset
)

var commandNames = map[Command]string{
	CmdServe:   "serve",
	CmdAfter:   "after",
	CmdDelay:   "delay",
	CmdProfile: "profile",
	CmdReset:   "reset",
}

func (c Command) String() string {
	if s, ok := commandNames[c]; ok {
		return s
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// ProfileID identifies a named server mode. Default and Any are
// predefined; every other name encountered while parsing gets the next
// sequential positive id.
type ProfileID int

const (
	// Default is the profile the server starts in.
	Default ProfileID = 0
	// Any matches regardless of the server's current profile.
	Any ProfileID = -1
)

// ProfileTable maps profile names to ids. It is built once while parsing
// and is read-only for the rest of the process lifetime.
type ProfileTable struct {
	byName map[string]ProfileID
	byID   map[ProfileID]string
	next   ProfileID
}

// NewProfileTable returns a table preloaded with "default" and "any".
func NewProfileTable() *ProfileTable {
	return &ProfileTable{
		byName: map[string]ProfileID{"default": Default, "any": Any},
		byID:   map[ProfileID]string{Default: "default", Any: "any"},
		next:   1,
	}
}

// IDFor returns the id for name, allocating a new one on first use.
func (t *ProfileTable) IDFor(name string) ProfileID {
	name = strings.ToLower(strings.TrimSpace(name))
	if id, ok := t.byName[name]; ok {
		return id
	}
	id := t.next
	t.next++
	t.byName[name] = id
	t.byID[id] = name
	return id
}

// LookupID returns the id already registered for name, without
// allocating one if name was never seen while parsing. Used where an
// unseen name is itself the error, e.g. validating a connection-
// parameters sidecar's default_profile against the rule file's own
// profile namespace.
func (t *ProfileTable) LookupID(name string) (ProfileID, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	id, ok := t.byName[name]
	return id, ok
}

// NameFor returns the name registered for id, or a synthetic placeholder
// if none was ever assigned (shouldn't happen for ids produced by IDFor).
func (t *ProfileTable) NameFor(id ProfileID) string {
	if n, ok := t.byID[id]; ok {
		return n
	}
	return fmt.Sprintf("profile-%d", int(id))
}

// Rule is one parsed group from the config file: a conjunction of
// patterns, a command, and the data that command needs.
type Rule struct {
	LineNumber int
	Patterns   []string
	Filenames  string // raw last line of the group, directive prefix intact
	Command    Command

	Time  *time.Duration // set iff Command == CmdAfter
	Delay *time.Duration // set iff Command == CmdDelay

	Profile            ProfileID // profile this rule is active under
	DestinationProfile ProfileID // CmdProfile's switch target; Any otherwise
}

// Files returns the resolved list of response files to stream for this
// rule: split Filenames on ';', trim, drop empties, and if the raw string
// began with a directive backtick, drop the first token (the directive
// itself).
func (r *Rule) Files() []string {
	parts := strings.Split(r.Filenames, ";")
	if strings.HasPrefix(r.Filenames, "`") && len(parts) > 0 {
		parts = parts[1:]
	}
	files := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			files = append(files, p)
		}
	}
	return files
}

// String renders a rule in a form close to its source syntax, for
// diagnostics (-dump-rules). Not guaranteed to round-trip exactly.
func (r *Rule) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d: ", r.LineNumber)
	switch r.Command {
	case CmdAfter:
		fmt.Fprintf(&b, "`after %dms; ", r.Time.Milliseconds())
	case CmdDelay:
		fmt.Fprintf(&b, "`delay %dms; ", r.Delay.Milliseconds())
	case CmdProfile:
		fmt.Fprintf(&b, "`profile [%d]; ", int(r.DestinationProfile))
	case CmdReset:
		b.WriteString("`reset; ")
	}
	if r.Profile != Default && r.Profile != Any && r.Command != CmdProfile {
		fmt.Fprintf(&b, "[profile %d] ", int(r.Profile))
	}
	fmt.Fprintf(&b, "%s -> %s", strings.Join(r.Patterns, " | "), r.Filenames)
	return b.String()
}
