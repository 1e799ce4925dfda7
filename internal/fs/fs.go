package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/karrick/godirwalk"
)

var (
	ErrRootNotFound   = errors.New("root path does not exist")
	ErrRootNotDir     = errors.New("root path is not a directory")
	ErrRootUnreadable = errors.New("root path is not readable")
)

// Matcher selects files by a case-sensitive name suffix.
type Matcher struct {
	ext  string
	glob glob.Glob
}

// NewMatcher compiles a matcher for names ending with ext, e.g. ".gd".
func NewMatcher(ext string) (*Matcher, error) {
	if ext == "" {
		return nil, errors.New("extension must not be empty")
	}
	g, err := glob.Compile("*" + glob.QuoteMeta(ext))
	if err != nil {
		return nil, fmt.Errorf("invalid extension %q: %w", ext, err)
	}
	return &Matcher{ext: ext, glob: g}, nil
}

// Ext returns the suffix the matcher was built for.
func (m *Matcher) Ext() string {
	return m.ext
}

// Match reports whether the base name of path ends with the suffix.
func (m *Matcher) Match(path string) bool {
	return m.glob.Match(filepath.Base(path))
}

// WalkResult holds the files selected by Walk and the directories it could
// not read.
type WalkResult struct {
	Files   []string
	Skipped []string
}

// Walk recursively collects every regular file under root accepted by
// matcher. A missing or unreadable root is an error; an unreadable
// subdirectory is recorded in Skipped and the walk goes on. A root that is a
// symlink to a directory is walked, but paths are reported under root as
// given.
func Walk(root string, matcher *Matcher) (*WalkResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return nil, fmt.Errorf("could not stat root '%s': %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotDir, root)
	}

	w, err := newWalker(root, matcher)
	if err != nil {
		return nil, err
	}

	err = godirwalk.Walk(w.walkRoot, &godirwalk.Options{
		Callback:      w.visit,
		ErrorCallback: w.onError,
	})
	if err != nil {
		return nil, rootUnreadable(root, err)
	}
	return w.result, nil
}

// rootUnreadable keeps both ErrRootUnreadable and the cause matchable with
// errors.Is.
func rootUnreadable(root string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrRootUnreadable, root, err)
}

// walker holds the state of one Walk. godirwalk refuses a symlinked root, so
// the walk runs on the resolved walkRoot and paths are mapped back to root.
type walker struct {
	root     string
	walkRoot string
	matcher  *Matcher
	result   *WalkResult
}

func newWalker(root string, matcher *Matcher) (*walker, error) {
	root = filepath.Clean(root)
	walkRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, rootUnreadable(root, err)
	}
	return &walker{
		root:     root,
		walkRoot: filepath.Clean(walkRoot),
		matcher:  matcher,
		result:   &WalkResult{},
	}, nil
}

// display maps a path under walkRoot back under the caller's root.
func (w *walker) display(osPathname string) string {
	if w.walkRoot == w.root {
		return osPathname
	}
	rel, err := filepath.Rel(w.walkRoot, osPathname)
	if err != nil {
		return osPathname
	}
	return filepath.Join(w.root, rel)
}

func (w *walker) visit(osPathname string, de *godirwalk.Dirent) error {
	if de.IsDir() || !w.matcher.Match(de.Name()) {
		return nil
	}
	if isRegularFile(osPathname, de) {
		w.result.Files = append(w.result.Files, w.display(osPathname))
	}
	return nil
}

func (w *walker) onError(osPathname string, err error) godirwalk.ErrorAction {
	if filepath.Clean(osPathname) == w.walkRoot {
		return godirwalk.Halt
	}
	w.result.Skipped = append(w.result.Skipped, w.display(osPathname))
	return godirwalk.SkipNode
}

// isRegularFile accepts regular files and symlinks that point at one.
// Symlinked directories are never followed.
func isRegularFile(path string, de *godirwalk.Dirent) bool {
	if de.IsRegular() {
		return true
	}
	if !de.IsSymlink() {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// WriteFileAtomic replaces the content of path by writing to a temporary
// file in the same directory and renaming it over the target. The file mode
// of an existing target is kept. Symlinks are resolved so the link itself
// survives.
func WriteFileAtomic(path string, data []byte) (err error) {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("could not resolve '%s': %w", path, err)
		}
		target = path
	}

	perm := os.FileMode(0644)
	if info, statErr := os.Stat(target); statErr == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".gdindent-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err = os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err = os.Rename(tmpPath, target); err != nil {
		return fmt.Errorf("failed to replace '%s': %w", target, err)
	}
	return nil
}

// ExpandHome replaces a leading "~" with the current user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not expand '~': %w", err)
	}
	return strings.Replace(path, "~", home, 1), nil
}
