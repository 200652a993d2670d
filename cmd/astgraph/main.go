// Command astgraph exports syntax trees into node and edge tables for a
// property-graph bulk import.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
)

// version is set by goreleaser at build time.
var version = "dev"

// command is one subcommand. run receives the arguments after its name.
type command struct {
	usage string
	run   func(ctx context.Context, args []string, stdout io.Writer) error
}

var commands = map[string]command{
	"export":      {"export [flags] paths...", runExport},
	"verify":      {"verify [-dir dir]", runVerify},
	"render":      {"render [-dir dir] [-root id] [-depth n] [-format mermaid|json]", runRender},
	"compdb-uniq": {"compdb-uniq in.json out.json", runCompdbUniq},
	"serve-mcp":   {"serve-mcp [-config dir] [-o dir]", runServeMCP},
	"init":        {"init [-force] [dir]", runInit},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

// run dispatches to a subcommand. Arguments that do not start with a known
// subcommand are export arguments.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return usage(stdout)
	}
	switch args[0] {
	case "-version", "--version", "version":
		fmt.Fprintln(stdout, version)
		return nil
	case "-h", "-help", "--help", "help":
		return usage(stdout)
	}
	if cmd, ok := commands[args[0]]; ok {
		return cmd.run(ctx, args[1:], stdout)
	}
	return runExport(ctx, args, stdout)
}

func usage(w io.Writer) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("usage: astgraph <command> [flags]\n\ncommands:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  astgraph %s\n", commands[name].usage)
	}
	b.WriteString("\nWithout a command, arguments are passed to export.\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// newLogger returns a text logger on stderr.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newFlagSet returns a flag set that reports errors instead of exiting.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("astgraph "+name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

// listFlag collects comma-separated values from a repeatable flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			*l = append(*l, s)
		}
	}
	return nil
}
