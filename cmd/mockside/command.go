package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/cli"

	"github.com/ovidiu-ionescu/iron-mockside/internal/config"
	"github.com/ovidiu-ionescu/iron-mockside/internal/server"
)

// ServeCommand binds a listener and runs the accept loop until killed.
// Grounded on nomad's command.Meta-embedding Command pattern
// (command/check_test.go), simplified to the one subcommand this tool
// needs.
type ServeCommand struct {
	Ui cli.Ui
}

func (c *ServeCommand) Help() string {
	return strings.TrimSpace(`
Usage: mockside [options] [host]:port config-file[,config-file...]

  Starts the mock server listening on [host]:port, serving responses
  according to the rules in the given configuration file(s). Config
  files are parsed in the order given; a profile name first seen in an
  earlier file keeps its id in later ones.

Options:

  -d           Increase log verbosity. Repeatable: -d is debug, -d -d is
               trace.
  -dump-rules  Print the parsed, validated rule set to stdout and exit
               without starting the listener.
`)
}

func (c *ServeCommand) Synopsis() string {
	return "Start the mock HTTP server"
}

func (c *ServeCommand) Run(args []string) int {
	var verbosity int
	var dumpRules bool

	flags := flag.NewFlagSet("mockside", flag.ContinueOnError)
	flags.Var(&verbosityFlag{&verbosity}, "d", "increase log verbosity (repeatable)")
	flags.BoolVar(&dumpRules, "dump-rules", false, "print parsed rules and exit")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	rest := flags.Args()
	if len(rest) != 2 {
		c.Ui.Error(c.Help())
		return 1
	}
	addr, fileList := rest[0], rest[1]

	files := strings.Split(fileList, ",")
	for i := range files {
		files[i] = strings.TrimSpace(files[i])
	}

	log := server.NewLogger(verbosity)

	if err := os.Chdir(filepath.Dir(files[0])); err != nil {
		c.Ui.Error(fmt.Sprintf("could not chdir to config directory: %v", err))
		return 1
	}
	for i := range files {
		files[i] = filepath.Base(files[i])
	}

	profiles := config.NewProfileTable()
	var rules []*config.Rule
	for _, f := range files {
		text, err := os.ReadFile(f)
		if err != nil {
			c.Ui.Error(fmt.Sprintf("could not read %s: %v", f, err))
			return 1
		}
		parsed, err := config.ParseInto(string(text), profiles)
		if err != nil {
			c.Ui.Error(fmt.Sprintf("could not parse %s: %v", f, err))
			return 1
		}
		rules = append(rules, parsed...)
	}

	if err := config.Validate(rules); err != nil {
		for _, diag := range config.Diagnostics(err) {
			c.Ui.Error(diag.Error())
		}
		return 1
	}

	if dumpRules {
		for _, r := range rules {
			c.Ui.Output(r.String())
		}
		return 0
	}

	params, err := config.LoadConnParams(files[0])
	if err != nil {
		c.Ui.Error(fmt.Sprintf("could not load connection parameters: %v", err))
		return 1
	}
	if err := config.ValidateDefaultProfile(rules, profiles, params.DefaultProfile); err != nil {
		c.Ui.Error(err.Error())
		return 1
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		c.Ui.Error(fmt.Sprintf("could not listen on %s: %v", addr, err))
		return 1
	}
	log.Info("listening", "addr", addr, "rules", len(rules))

	srv := server.New(rules, profiles, params, log, time.Now())
	if err := srv.Serve(ln); err != nil {
		c.Ui.Error(fmt.Sprintf("server stopped: %v", err))
		return 1
	}
	return 0
}

// verbosityFlag implements flag.Value so repeating -d increments a
// counter instead of just toggling a bool.
type verbosityFlag struct {
	n *int
}

func (v *verbosityFlag) String() string {
	if v.n == nil {
		return "0"
	}
	return strconv.Itoa(*v.n)
}

func (v *verbosityFlag) Set(string) error {
	*v.n++
	return nil
}

func (v *verbosityFlag) IsBoolFlag() bool { return true }
