package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/yungbote/neurobridge-progress/internal/app"
)

type command struct {
	summary string
	run     func(ctx context.Context, a *app.App, args []string, out io.Writer) error
}

var commands = map[string]command{
	"seed":        {summary: "upsert students, courses, modules and questions from a YAML file", run: runSeed},
	"leaderboard": {summary: "print the current ranking", run: runLeaderboard},
	"export":      {summary: "write the ranking to an xlsx file", run: runExport},
	"recompute":   {summary: "recompute progress for one enrollment", run: runRecompute},
	"reconcile":   {summary: "recompute every enrollment and issue missing certificates", run: runReconcile},
	"events":      {summary: "tail coursework events from redis", run: runEvents},
}

var (
	bold    = color.New(color.Bold)
	okColor = color.New(color.FgGreen)
	errText = color.New(color.FgRed, color.Bold)
)

func usage(w io.Writer) {
	bold.Fprintln(w, "usage: progressctl <command> [flags]")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-12s %s\n", name, commands[name].summary)
	}
}

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "--help" {
		usage(os.Stderr)
		os.Exit(2)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		errText.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		usage(os.Stderr)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if os.Getenv("LOG_MODE") == "" {
		_ = os.Setenv("LOG_MODE", "production")
	}
	application, err := app.New(ctx, app.Options{})
	if err != nil {
		errText.Fprintf(os.Stderr, "init: %v\n", err)
		os.Exit(1)
	}

	err = cmd.run(ctx, application, os.Args[2:], os.Stdout)
	application.Close()
	if err != nil {
		if err == pflag.ErrHelp {
			os.Exit(2)
		}
		errText.Fprintf(os.Stderr, "%s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}
