package config

import (
	"strings"
	"testing"
	"time"
)

// Table-driven plain testing.T, same shape as sinksmtp's rules_test.go
// (var aMatches = []struct{...}{...}; t.Errorf on mismatch).

func TestParsePlainRule(t *testing.T) {
	text := "/hello\nworld.html\n"
	rules, _, err := Parse(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("got %d rules, want 1", len(rules))
	}
	r := rules[0]
	if r.Command != CmdServe {
		t.Errorf("command = %v, want serve", r.Command)
	}
	if len(r.Patterns) != 1 || r.Patterns[0] != "/hello" {
		t.Errorf("patterns = %v, want [/hello]", r.Patterns)
	}
	if r.Filenames != "world.html" {
		t.Errorf("filenames = %q, want world.html", r.Filenames)
	}
	if r.Profile != Default {
		t.Errorf("profile = %v, want Default", r.Profile)
	}
}

func TestParseMultiplePatternsAndGroups(t *testing.T) {
	text := strings.Join([]string{
		"/a", "/b", "ab.html",
		"",
		"/c", "c.html",
	}, "\n")
	rules, _, err := Parse(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(rules))
	}
	if len(rules[0].Patterns) != 2 {
		t.Errorf("first rule patterns = %v, want 2 entries", rules[0].Patterns)
	}
}

func TestParseCommentsStripped(t *testing.T) {
	text := "# a comment\n/hello\n# another\nworld.html\n"
	rules, _, err := Parse(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("got %d rules, want 1", len(rules))
	}
	if rules[0].LineNumber != 2 {
		t.Errorf("line number = %d, want 2 (comments must not shift numbering)", rules[0].LineNumber)
	}
}

func TestParseEmptyGroupIsError(t *testing.T) {
	text := "world.html\n"
	_, _, err := Parse(text)
	if err == nil {
		t.Fatalf("expected error for a group with no pattern lines")
	}
}

func TestParseAfterDirective(t *testing.T) {
	text := "/slow\n`after 500; slow.html\n"
	rules, _, err := Parse(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := rules[0]
	if r.Command != CmdAfter {
		t.Errorf("command = %v, want after", r.Command)
	}
	if r.Time == nil || *r.Time != 500*time.Millisecond {
		t.Errorf("time = %v, want 500ms", r.Time)
	}
	if r.Filenames != "`after 500; slow.html" {
		t.Errorf("filenames = %q, want the raw directive line", r.Filenames)
	}
}

func TestParseDelayDirective(t *testing.T) {
	text := "/slow\n`delay 200; slow.html\n"
	rules, _, err := Parse(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := rules[0]
	if r.Command != CmdDelay {
		t.Errorf("command = %v, want delay", r.Command)
	}
	if r.Delay == nil || *r.Delay != 200*time.Millisecond {
		t.Errorf("delay = %v, want 200ms", r.Delay)
	}
}

func TestParseProfileSwitchDirective(t *testing.T) {
	text := "/go-slow\n`profile [slow]; \n"
	rules, profiles, err := Parse(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := rules[0]
	if r.Command != CmdProfile {
		t.Errorf("command = %v, want profile", r.Command)
	}
	want := profiles.IDFor("slow")
	if r.DestinationProfile != want {
		t.Errorf("destination profile = %v, want %v", r.DestinationProfile, want)
	}
	if r.Profile != Any {
		t.Errorf("profile gate = %v, want Any", r.Profile)
	}
}

func TestParseBareProfileScopedServe(t *testing.T) {
	text := "/hello\n`[slow]; slow.html\n"
	rules, profiles, err := Parse(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := rules[0]
	if r.Command != CmdServe {
		t.Errorf("command = %v, want serve", r.Command)
	}
	want := profiles.IDFor("slow")
	if r.Profile != want {
		t.Errorf("profile = %v, want %v", r.Profile, want)
	}
}

func TestParseResetDirective(t *testing.T) {
	text := "/tick\n`reset; tick.html\n"
	rules, _, err := Parse(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rules[0].Command != CmdReset {
		t.Errorf("command = %v, want reset", rules[0].Command)
	}
}

func TestParseIntoSharesProfileNamespace(t *testing.T) {
	profiles := NewProfileTable()
	first, err := ParseInto("/a\n`profile [slow]; \n", profiles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ParseInto("/b\n`[slow]; b.html\n", profiles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first[0].DestinationProfile != second[0].Profile {
		t.Errorf("profile ids diverged across files: %v != %v", first[0].DestinationProfile, second[0].Profile)
	}
}

func TestRuleFilesSplitsAndTrims(t *testing.T) {
	r := &Rule{Filenames: " a.html ; b.html "}
	got := r.Files()
	want := []string{"a.html", "b.html"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRuleFilesDropsDirectiveToken(t *testing.T) {
	r := &Rule{Filenames: "`reset; a.html"}
	got := r.Files()
	if len(got) != 1 || got[0] != "a.html" {
		t.Errorf("got %v, want [a.html]", got)
	}
}
