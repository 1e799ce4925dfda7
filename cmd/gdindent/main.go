package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/sokinpui/gdindent/cli"
	"github.com/sokinpui/gdindent/gdindent"
	"github.com/sokinpui/gdindent/internal/tui"
	"github.com/sokinpui/gdindent/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := cli.ParseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		// pflag already prints its own parse errors.
		if errors.Is(err, cli.ErrInvalidConfig) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}

	app, err := gdindent.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fd := os.Stdout.Fd()
	if cfg.NoAnimation || !(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) {
		return runPlain(ctx, app)
	}
	return runTUI(ctx, app)
}

// runPlain prints one status line per file, suitable for pipes and logs.
func runPlain(ctx context.Context, app *gdindent.App) int {
	ui.Header("--- Reindenting %s ---", app.Root())

	summary, err := app.Execute(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		var detailed *gdindent.DetailedError
		if errors.As(err, &detailed) {
			fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", detailed.Stack)
		}
		ui.Error("Error: %v", err)
		return 1
	}

	ui.PrintSummary(summary)
	if err != nil {
		return 130
	}
	return 0
}

func runTUI(ctx context.Context, app *gdindent.App) int {
	model := tui.New(ctx, app)
	p := tea.NewProgram(model)
	model.SetProgram(p)

	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		return 1
	}
	m, ok := final.(tui.Model)
	switch {
	case !ok:
		return 0
	case m.Err() != nil:
		return 1
	case m.Interrupted():
		return 130
	}
	return 0
}
