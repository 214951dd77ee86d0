package server

import (
	"io"
	"math/rand"
	"net"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/ovidiu-ionescu/iron-mockside/internal/config"
	"github.com/ovidiu-ionescu/iron-mockside/internal/dispatch"
)

// Server owns the validated rule set, the profile table it was compiled
// against, the mutable runtime State, and everything needed to answer a
// connection.
type Server struct {
	Rules    []*config.Rule
	Profiles *config.ProfileTable
	State    *State
	Log      hclog.Logger
	Params   *config.ConnParams
}

// New builds a Server ready to Serve. now seeds the State's time origin.
// params.DefaultProfile is assumed already checked by
// config.ValidateDefaultProfile; New itself only looks the name up
// (never allocates) and falls back to Default if it is somehow absent.
func New(rules []*config.Rule, profiles *config.ProfileTable, params *config.ConnParams, log hclog.Logger, now time.Time) *Server {
	startProfile := config.Default
	if params.DefaultProfile != "" {
		if id, ok := profiles.LookupID(params.DefaultProfile); ok {
			startProfile = id
		}
	}
	return &Server{
		Rules:    rules,
		Profiles: profiles,
		State:    NewState(startProfile, now),
		Log:      log,
		Params:   params,
	}
}

// Serve runs the accept loop. It is intentionally sequential: one
// connection is read, matched, applied and streamed to completion before
// the next Accept is issued. This is what makes After/Delay/Profile/Reset
// sequences deterministic across requests; see SPEC_FULL.md's
// Concurrency Model carryover.
func (s *Server) Serve(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	n, id := s.State.NextConnection()
	log := s.Log.With("conn", n, "id", id)

	data, err := dispatch.Preflight(conn)
	if err != nil {
		log.Warn("preflight read failed", "error", err)
		return
	}

	now := time.Now()
	rule := dispatch.Match(string(data), s.Rules, s.State.Profile, s.State.TimeOrigin, now)
	log.Debug("matched rule", "line", rule.LineNumber, "command", rule.Command.String())

	before := s.State.Profile
	dispatch.Apply(rule, s.State, now, s.sleep)
	switch rule.Command {
	case config.CmdProfile:
		log.Info("profile switched", "from", s.Profiles.NameFor(before), "to", s.Profiles.NameFor(s.State.Profile))
	case config.CmdReset:
		log.Info("time origin reset")
	}

	if err := s.stream(conn, rule); err != nil {
		log.Warn("stream failed", "error", err)
	}
}

// sleep performs a rule's fixed Delay, plus a bounded random jitter drawn
// from the connection-parameters sidecar when configured.
func (s *Server) sleep(d time.Duration) {
	if s.Params.JitterMs > 0 {
		d += time.Duration(rand.Intn(s.Params.JitterMs)) * time.Millisecond
	}
	time.Sleep(d)
}

// stream writes the concatenation of a rule's files to conn in order.
// Reset rules still stream their configured files as a side effect; this
// is a documented quirk, not a bug, see SPEC_FULL.md §7.
func (s *Server) stream(conn net.Conn, rule *config.Rule) error {
	for _, name := range rule.Files() {
		if err := streamFile(conn, name); err != nil {
			return err
		}
	}
	return nil
}

func streamFile(conn net.Conn, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(conn, f)
	return err
}
