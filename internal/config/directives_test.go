package config

import "testing"

var directiveCases = []struct {
	name    string
	line    string
	wantCmd Command
	wantErr bool
}{
	{"after", "`after 500; file.html", CmdAfter, false},
	{"after scoped", "`[fast]after 500; file.html", CmdAfter, false},
	{"delay", "`delay 100; file.html", CmdDelay, false},
	{"profile", "`profile [slow]; ", CmdProfile, false},
	{"bare profile", "`[slow]; file.html", CmdServe, false},
	{"reset", "`reset; ", CmdReset, false},
	{"garbage", "`nonsense", CmdServe, true},
	{"after bad number", "`after abc; file.html", CmdServe, true},
}

func TestMatchDirective(t *testing.T) {
	for _, c := range directiveCases {
		t.Run(c.name, func(t *testing.T) {
			got, err := matchDirective(c.line)
			if c.wantErr {
				if err == nil {
					t.Errorf("%s: expected error, got none", c.line)
				}
				return
			}
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", c.line, err)
			}
			if got.command != c.wantCmd {
				t.Errorf("%s: command = %v, want %v", c.line, got.command, c.wantCmd)
			}
		})
	}
}

func TestMatchDirectiveOrderingNoAmbiguity(t *testing.T) {
	// `profile [x]; ...` must not be mistaken for the bare-profile-scoped
	// serve form `[x]; ...`, and vice versa.
	p, err := matchDirective("`profile [x]; ")
	if err != nil || p.command != CmdProfile {
		t.Errorf("profile directive misrouted: %v %v", p, err)
	}
	b, err := matchDirective("`[x]; file.html")
	if err != nil || b.command != CmdServe {
		t.Errorf("bare profile directive misrouted: %v %v", b, err)
	}
}
