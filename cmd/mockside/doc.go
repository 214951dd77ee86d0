/*
Mockside is a declarative HTTP mock server. It listens on a TCP address
and, for each connection, reads just enough of the request to match it
against an ordered rule file, then streams the matched rule's response
files back over the connection.

usage: mockside [options] [host]:port config-file[,config-file...]

Mockside never exits on its own; kill it by hand to shut it down.

Rule files

A rule file is a sequence of groups separated by blank lines. Lines
starting with '#' are comments and are stripped before grouping. Each
group is one or more pattern lines followed by a final line naming the
response file(s) to stream (';'-separated) when every pattern line is a
substring of the incoming request.

The final line may instead be a directive, recognised by a leading
backtick:

	`after 500; file.html
		Only matches once 500ms have elapsed since the server
		started (or since the last `reset` rule fired).

	`delay 200; file.html
		Matches normally, but sleeps 200ms before streaming the
		response.

	`profile [name]; file.html
		Matches whenever its patterns match, whatever the active
		profile; the server's active profile then switches to name
		and file.html is streamed.

	`[name]; file.html
		Scopes an otherwise ordinary rule to only match while the
		server's active profile is name.

	`reset;
		Matches normally and resets the server's elapsed-time
		origin back to now, so later `after rules measure from
		this point instead of startup.

Rules are tried in file order, first match wins. A request matching no
rule gets the built-in 404 fallback.

Options

	-d
		Raise logging verbosity. Repeatable: -d is debug, -d -d is
		trace output.

	-dump-rules
		Parse and validate the rule files, print the resulting
		rule set, and exit without starting the listener.

Connection parameters

If a file named like the first config file but with a .params.yaml
extension exists alongside it, it is loaded as a small sidecar of
server-wide defaults: which profile to start in, and how much random
jitter (in milliseconds) to add on top of every `delay rule's sleep. A
missing sidecar is not an error.
*/
package main
