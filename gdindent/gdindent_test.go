package gdindent_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokinpui/gdindent/cli"
	"github.com/sokinpui/gdindent/gdindent"
	"github.com/sokinpui/gdindent/internal/fs"
)

const (
	mixedSource  = "    var x = 1\n\tvar y = 2\n  var z = 3"
	tabbedSource = "\tvar x = 1\n\tvar y = 2\nvar z = 3"
	spacedSource = "    var x = 1\n\tvar y = 2\nvar z = 3"
)

// recorder collects reporter events as the status lines they stand for.
type recorder struct {
	events []string
}

func (r *recorder) Start(path string)   { r.events = append(r.events, "start "+filepath.Base(path)) }
func (r *recorder) Success(path string) { r.events = append(r.events, "ok "+filepath.Base(path)) }
func (r *recorder) Failure(path string, err error) {
	r.events = append(r.events, "fail "+filepath.Base(path))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func newApp(t *testing.T, root string, useTabs bool) (*gdindent.App, *recorder) {
	t.Helper()
	cfg := cli.DefaultConfig()
	cfg.Path = root
	cfg.UseTabs = useTabs
	app, err := gdindent.New(cfg)
	require.NoError(t, err)
	rec := &recorder{}
	app.SetReporter(rec)
	return app, rec
}

func TestExecuteTabs(t *testing.T) {
	root := t.TempDir()
	script := filepath.Join(root, "scenes", "player.gd")
	other := filepath.Join(root, "notes.txt")
	writeFile(t, script, mixedSource)
	writeFile(t, other, mixedSource)

	app, rec := newApp(t, root, true)
	summary, err := app.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, tabbedSource, readFile(t, script))
	assert.Equal(t, mixedSource, readFile(t, other))
	assert.Equal(t, []string{script}, summary.Fixed)
	assert.Empty(t, summary.Failed)
	assert.Equal(t, []string{"start player.gd", "ok player.gd"}, rec.events)
}

func TestExecuteSymlinkedRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	realDir := t.TempDir()
	writeFile(t, filepath.Join(realDir, "player.gd"), mixedSource)
	link := filepath.Join(t.TempDir(), "CastleFight")
	require.NoError(t, os.Symlink(realDir, link))

	app, rec := newApp(t, link, true)
	summary, err := app.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(link, "player.gd")}, summary.Fixed)
	assert.Equal(t, tabbedSource, readFile(t, filepath.Join(realDir, "player.gd")))
	assert.Equal(t, []string{"start player.gd", "ok player.gd"}, rec.events)

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink, "root link must survive")
}

func TestExecuteSpaces(t *testing.T) {
	root := t.TempDir()
	script := filepath.Join(root, "player.gd")
	writeFile(t, script, mixedSource)

	app, _ := newApp(t, root, false)
	_, err := app.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, spacedSource, readFile(t, script))
}

func TestExecuteUnchangedFile(t *testing.T) {
	root := t.TempDir()
	script := filepath.Join(root, "clean.gd")
	writeFile(t, script, tabbedSource+"\n")

	app, rec := newApp(t, root, true)
	summary, err := app.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{script}, summary.Unchanged)
	assert.Empty(t, summary.Fixed)
	assert.Equal(t, tabbedSource+"\n", readFile(t, script))
	assert.Equal(t, []string{"start clean.gd", "ok clean.gd"}, rec.events)
}

func TestExecuteContinuesAfterFailure(t *testing.T) {
	root := t.TempDir()
	broken := filepath.Join(root, "a_broken.gd")
	good := filepath.Join(root, "b_good.gd")
	binary := "    \xff\xfe\x00"
	writeFile(t, broken, binary)
	writeFile(t, good, mixedSource)

	app, rec := newApp(t, root, true)
	summary, err := app.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{broken}, summary.Failed)
	assert.Equal(t, []string{good}, summary.Fixed)
	assert.Equal(t, binary, readFile(t, broken), "failed file must be left untouched")
	assert.Equal(t, tabbedSource, readFile(t, good))
	assert.Equal(t, []string{
		"start a_broken.gd", "fail a_broken.gd",
		"start b_good.gd", "ok b_good.gd",
	}, rec.events)
}

func TestProcessReportsEncodingError(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "latin1.gd")
	writeFile(t, path, "caf\xe9")

	app, _ := newApp(t, root, true)
	result := app.Process(path)
	assert.ErrorIs(t, result.Err, gdindent.ErrInvalidEncoding)
	assert.False(t, result.Changed)
}

func TestProcessMissingFile(t *testing.T) {
	root := t.TempDir()
	app, rec := newApp(t, root, true)

	result := app.Process(filepath.Join(root, "gone.gd"))
	assert.ErrorIs(t, result.Err, os.ErrNotExist)
	assert.Equal(t, []string{"start gone.gd", "fail gone.gd"}, rec.events)
}

func TestExecuteNoFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "readme.md"), "")

	app, rec := newApp(t, root, true)
	summary, err := app.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Total())
	assert.Contains(t, summary.Message, "No .gd files found")
	assert.Empty(t, rec.events)
}

func TestExecuteMissingRoot(t *testing.T) {
	app, _ := newApp(t, filepath.Join(t.TempDir(), "CastleFight"), true)

	_, err := app.Execute(context.Background())
	assert.ErrorIs(t, err, fs.ErrRootNotFound)
}

func TestExecuteCancelled(t *testing.T) {
	root := t.TempDir()
	script := filepath.Join(root, "player.gd")
	writeFile(t, script, mixedSource)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	app, rec := newApp(t, root, true)
	summary, err := app.Execute(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, summary.Total())
	assert.Empty(t, rec.events)
	assert.Equal(t, mixedSource, readFile(t, script))
}

func TestExecuteProgress(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 3; i++ {
		writeFile(t, filepath.Join(root, fmt.Sprintf("f%d.gd", i)), mixedSource)
	}

	var calls [][2]int
	app, _ := newApp(t, root, true)
	app.SetProgressCallback(func(current, total int) {
		calls = append(calls, [2]int{current, total})
	})

	_, err := app.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{0, 3}, {1, 3}, {2, 3}, {3, 3}}, calls)
}

type panicReporter struct{ recorder }

func (p *panicReporter) Start(string) { panic("reporter exploded") }

func TestExecuteRecoversPanic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "player.gd"), mixedSource)

	app, _ := newApp(t, root, true)
	app.SetReporter(&panicReporter{})

	_, err := app.Execute(context.Background())
	require.Error(t, err)

	var detailed *gdindent.DetailedError
	require.True(t, errors.As(err, &detailed))
	assert.Contains(t, detailed.Error(), "reporter exploded")
	assert.NotEmpty(t, detailed.Stack)
}

func TestNewExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := cli.DefaultConfig()
	cfg.Path = "~/CastleFight"
	app, err := gdindent.New(cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "CastleFight"), filepath.Clean(app.Root()))
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := cli.DefaultConfig()
	cfg.Path = ""
	_, err := gdindent.New(cfg)
	assert.Error(t, err)

	app, err := gdindent.New(nil)
	require.NoError(t, err)
	assert.Equal(t, cli.DefaultPath, app.Root())
}
