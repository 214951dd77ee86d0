package config

import (
	"fmt"
	"strings"
	"time"
)

// numberedLine keeps a line's original 1-based source position alongside
// its text, surviving the comment-stripping pass so line_number
// diagnostics stay accurate (the original main.rs iteration this grammar
// grew from, original_source/src/main.rs, does the same
// filter-then-group two-step).
type numberedLine struct {
	num  int
	text string
}

// Parse parses the text of a single config file into its rule list and a
// freshly built profile table. Use ParseInto when multiple config files
// must share one profile namespace (see ServeCommand's -r-style
// multi-file loading).
func Parse(text string) ([]*Rule, *ProfileTable, error) {
	profiles := NewProfileTable()
	rules, err := ParseInto(text, profiles)
	return rules, profiles, err
}

// ParseInto parses text, registering any newly encountered profile names
// into the supplied table. This lets several config files, parsed in
// priority order, resolve profile names to the same ids.
func ParseInto(text string, profiles *ProfileTable) ([]*Rule, error) {
	lines := strings.Split(text, "\n")
	kept := make([]numberedLine, 0, len(lines))
	for i, raw := range lines {
		if strings.HasPrefix(strings.TrimSpace(raw), "#") {
			continue
		}
		kept = append(kept, numberedLine{num: i + 1, text: raw})
	}

	var rules []*Rule
	var group []numberedLine

	flush := func() error {
		if len(group) == 0 {
			return nil
		}
		defer func() { group = group[:0] }()
		rule, err := buildRule(group, profiles)
		if err != nil {
			return err
		}
		rules = append(rules, rule)
		return nil
	}

	for _, l := range kept {
		if strings.TrimSpace(l.text) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		group = append(group, l)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return rules, nil
}

// buildRule turns one group (>=1 pattern lines followed by a directive or
// filenames line) into a Rule.
func buildRule(group []numberedLine, profiles *ProfileTable) (*Rule, error) {
	lineNo := group[0].num
	if len(group) < 2 {
		return nil, fmt.Errorf("line %d: rule has no patterns", lineNo)
	}

	patterns := make([]string, 0, len(group)-1)
	for _, l := range group[:len(group)-1] {
		p := strings.TrimSpace(l.text)
		if p != "" {
			patterns = append(patterns, p)
		}
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("line %d: rule has no patterns", lineNo)
	}

	last := strings.TrimLeft(group[len(group)-1].text, " \t")
	rule := &Rule{
		LineNumber:         lineNo,
		Patterns:           patterns,
		Filenames:          last,
		Command:            CmdServe,
		Profile:            Default,
		DestinationProfile: Any,
	}

	if !strings.HasPrefix(last, "`") {
		return rule, nil
	}

	dm, err := matchDirective(last)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", lineNo, err)
	}

	switch dm.command {
	case CmdAfter:
		d := time.Duration(dm.millis) * time.Millisecond
		rule.Command = CmdAfter
		rule.Time = &d
		if dm.profileName != "" {
			rule.Profile = profiles.IDFor(dm.profileName)
		}
	case CmdDelay:
		d := time.Duration(dm.millis) * time.Millisecond
		rule.Command = CmdDelay
		rule.Delay = &d
		if dm.profileName != "" {
			rule.Profile = profiles.IDFor(dm.profileName)
		}
	case CmdProfile:
		rule.Command = CmdProfile
		rule.Profile = Any
		rule.DestinationProfile = profiles.IDFor(dm.destProfileName)
	case CmdServe:
		rule.Command = CmdServe
		rule.Profile = profiles.IDFor(dm.profileName)
	case CmdReset:
		rule.Command = CmdReset
	}
	return rule, nil
}
