package gdindent_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokinpui/gdindent/gdindent"
)

func TestFix(t *testing.T) {
	root := t.TempDir()
	fixed := filepath.Join(root, "a.gd")
	clean := filepath.Join(root, "b.gd")
	upper := filepath.Join(root, "c.GD")
	writeFile(t, fixed, mixedSource)
	writeFile(t, clean, "extends Node\n")
	writeFile(t, upper, mixedSource)

	result, err := gdindent.Fix(context.Background(), root, gdindent.Config{Spaces: true})
	require.NoError(t, err)

	assert.Equal(t, []string{fixed}, result["Fixed"])
	assert.Equal(t, []string{clean}, result["Unchanged"])
	assert.Empty(t, result["Failed"])
	assert.Equal(t, spacedSource, readFile(t, fixed))
	assert.Equal(t, mixedSource, readFile(t, upper))
}

func TestFixCustomExtension(t *testing.T) {
	root := t.TempDir()
	shader := filepath.Join(root, "water.gdshader")
	writeFile(t, shader, mixedSource)

	result, err := gdindent.Fix(context.Background(), root, gdindent.Config{Extension: "gdshader"})
	require.NoError(t, err)

	assert.Equal(t, []string{shader}, result["Fixed"])
	assert.Equal(t, tabbedSource, readFile(t, shader))
}

func TestFixMissingRoot(t *testing.T) {
	_, err := gdindent.Fix(context.Background(), filepath.Join(t.TempDir(), "missing"), gdindent.Config{})
	assert.Error(t, err)
}
