package config

import (
	"fmt"
	"regexp"
	"strconv"
)

// Directive regexes are compiled once at package load, per the spec's own
// "compile once and reuse" guidance, mirroring rnodes.go's package-level
// var initializers in the teacher.
//
// Forms are tried in this fixed order: after, delay, profile,
// bare-profile (scoped serve), reset. Order matters because `profile
// [name]; ...` and `[name]; ...` both carry a bracketed name and
// would otherwise be ambiguous with looser patterns.
var (
	reAfter  = regexp.MustCompile("^`(?:\\[(?P<profile>[^\\]]+)\\]\\s*)?after\\s+(?P<time>[0-9]+)\\s*;(?P<rest>.*)$")
	reDelay  = regexp.MustCompile("^`(?:\\[(?P<profile>[^\\]]+)\\]\\s*)?delay\\s+(?P<time>[0-9]+)\\s*;(?P<rest>.*)$")
	reProfile = regexp.MustCompile("^`profile\\s+\\[(?P<name>[^\\]]+)\\]\\s*;(?P<rest>.+)$")
	reBare   = regexp.MustCompile("^`\\[(?P<name>[^\\]]+)\\]\\s*;(?P<rest>.*)$")
	reReset  = regexp.MustCompile("^`reset\\s*;(?P<rest>.*)$")
)

// directiveMatch carries whatever a directive regex extracted, before it
// is turned into a Rule's Command-specific fields by buildRule.
type directiveMatch struct {
	command         Command
	profileName     string // scope for After/Delay/bare-profile Serve
	destProfileName string // CmdProfile's switch target
	millis          int
	rest            string // everything after the first ';'
}

// matchDirective tries each directive form in order and returns the
// first one that matches. line must already be known to start with a
// backtick. An error means the line starts with a backtick but matches
// none of the five forms.
func matchDirective(line string) (*directiveMatch, error) {
	if m, ok := submatch(reAfter, line); ok {
		ms, err := strconv.Atoi(m["time"])
		if err != nil {
			return nil, fmt.Errorf("Could not parse instructions")
		}
		return &directiveMatch{command: CmdAfter, profileName: m["profile"], millis: ms, rest: m["rest"]}, nil
	}
	if m, ok := submatch(reDelay, line); ok {
		ms, err := strconv.Atoi(m["time"])
		if err != nil {
			return nil, fmt.Errorf("Could not parse instructions")
		}
		return &directiveMatch{command: CmdDelay, profileName: m["profile"], millis: ms, rest: m["rest"]}, nil
	}
	if m, ok := submatch(reProfile, line); ok {
		return &directiveMatch{command: CmdProfile, destProfileName: m["name"], rest: m["rest"]}, nil
	}
	if m, ok := submatch(reBare, line); ok {
		return &directiveMatch{command: CmdServe, profileName: m["name"], rest: m["rest"]}, nil
	}
	if m, ok := submatch(reReset, line); ok {
		return &directiveMatch{command: CmdReset, rest: m["rest"]}, nil
	}
	return nil, fmt.Errorf("Could not parse instructions")
}

// submatch runs re against s and, if it matches, returns the named
// capture groups as a map (missing groups map to "").
func submatch(re *regexp.Regexp, s string) (map[string]string, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return nil, false
	}
	out := make(map[string]string, len(m))
	for i, name := range re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		out[name] = m[i]
	}
	return out, true
}
