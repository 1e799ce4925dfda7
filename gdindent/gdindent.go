package gdindent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"unicode/utf8"

	"github.com/sokinpui/gdindent/cli"
	"github.com/sokinpui/gdindent/internal/fs"
	"github.com/sokinpui/gdindent/internal/reindent"
	"github.com/sokinpui/gdindent/internal/ui"
	"github.com/sokinpui/gdindent/model"
)

// ErrInvalidEncoding is reported for files that are not UTF-8 text.
var ErrInvalidEncoding = errors.New("file is not valid UTF-8 text")

// Reporter observes per-file progress.
type Reporter interface {
	Start(path string)
	Success(path string)
	Failure(path string, err error)
}

// ProgressUpdate is a callback function to report progress.
type ProgressUpdate func(current, total int)

// App walks a project and reindents every matching file.
type App struct {
	cfg              *cli.Config
	root             string
	matcher          *fs.Matcher
	reporter         Reporter
	progressCallback ProgressUpdate
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

// New creates a new App instance. A nil cfg uses cli.DefaultConfig.
func New(cfg *cli.Config) (*App, error) {
	if cfg == nil {
		cfg = cli.DefaultConfig()
	}
	c := *cfg
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	root, err := fs.ExpandHome(c.Path)
	if err != nil {
		return nil, err
	}
	matcher, err := fs.NewMatcher(c.Extension)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:      &c,
		root:     root,
		matcher:  matcher,
		reporter: ui.NewReporter(),
	}, nil
}

// Root returns the directory that will be scanned.
func (a *App) Root() string {
	return a.root
}

// SetReporter replaces the default status line printer.
func (a *App) SetReporter(r Reporter) {
	a.reporter = r
}

// SetProgressCallback sets a function to be called for progress updates.
func (a *App) SetProgressCallback(cb ProgressUpdate) {
	a.progressCallback = cb
}

// Execute scans the root and fixes every matching file, one at a time.
// Per-file failures end up in the summary; only a failed scan, a
// cancelled ctx or a panic is returned as an error.
func (a *App) Execute(ctx context.Context) (summary model.Summary, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	walk, err := fs.Walk(a.root, a.matcher)
	if err != nil {
		return model.Summary{}, fmt.Errorf("failed to scan project: %w", err)
	}
	summary.Skipped = walk.Skipped

	total := len(walk.Files)
	if total == 0 {
		summary.Message = fmt.Sprintf("No %s files found under %s.", a.matcher.Ext(), a.root)
		return summary, nil
	}

	if a.progressCallback != nil {
		a.progressCallback(0, total)
	}
	for i, path := range walk.Files {
		if err := ctx.Err(); err != nil {
			summary.Message = fmt.Sprintf("Interrupted after %d of %d file(s).", i, total)
			return summary, err
		}
		summary.Add(a.Process(path))
		if a.progressCallback != nil {
			a.progressCallback(i+1, total)
		}
	}
	return summary, nil
}

// Process reindents a single file in place and reports the outcome.
func (a *App) Process(path string) model.FileResult {
	a.reporter.Start(path)

	changed, err := a.fixFile(path)
	if err != nil {
		a.reporter.Failure(path, err)
		return model.FileResult{Path: path, Err: err}
	}

	a.reporter.Success(path)
	return model.FileResult{Path: path, Changed: changed}
}

func (a *App) fixFile(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	if !utf8.Valid(data) {
		return false, ErrInvalidEncoding
	}

	original := string(data)
	fixed := reindent.Reindent(original, a.cfg.UseTabs)
	if err := fs.WriteFileAtomic(path, []byte(fixed)); err != nil {
		return false, err
	}
	return fixed != original, nil
}
