package gdindent

import (
	"context"
	"fmt"

	"github.com/sokinpui/gdindent/cli"
)

// Config for using gdindent as a library.
type Config struct {
	// Indent with 4 spaces per level instead of tabs.
	Spaces bool
	// Suffix of the files to fix. Defaults to ".gd".
	Extension string
}

// Fix reindents every matching file under path without printing anything.
// It returns a summary of the operations in a map.
func Fix(ctx context.Context, path string, config Config) (map[string][]string, error) {
	cliCfg := cli.DefaultConfig()
	cliCfg.Path = path
	cliCfg.UseTabs = !config.Spaces
	if config.Extension != "" {
		cliCfg.Extension = config.Extension
	}

	app, err := New(cliCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gdindent app: %w", err)
	}
	app.SetReporter(silentReporter{})

	summary, err := app.Execute(ctx)
	if err != nil {
		return nil, err
	}

	result := map[string][]string{
		"Fixed":     summary.Fixed,
		"Unchanged": summary.Unchanged,
		"Failed":    summary.Failed,
		"Skipped":   summary.Skipped,
	}

	return result, nil
}

type silentReporter struct{}

func (silentReporter) Start(string)          {}
func (silentReporter) Success(string)        {}
func (silentReporter) Failure(string, error) {}
