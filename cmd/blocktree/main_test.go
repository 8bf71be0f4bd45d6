package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Notifuse/emailbuilder/pkg/blocktree"
)

const document = `{
  "root": {
    "type": "EmailLayout",
    "data": {"backdropColor": "#F5F5F5", "canvasColor": "#FFFFFF", "childrenIds": ["block-heading", "block-box"]}
  },
  "block-heading": {
    "type": "Heading",
    "data": {"props": {"text": "Welcome", "level": "h1"}}
  },
  "block-box": {
    "type": "Container",
    "data": {"props": {"childrenIds": ["block-text"]}}
  },
  "block-text": {
    "type": "Text",
    "data": {"props": {"text": "Inside the box"}}
  },
  "block-stray": {
    "type": "Divider",
    "data": {"props": {}}
  }
}`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "document.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestValidateCommand(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		path := writeFile(t, document)

		out, _, err := execute(t, "validate", path)
		require.NoError(t, err)
		assert.Contains(t, out, "ok (5 blocks, root \"root\")")
	})

	t.Run("dangling reference", func(t *testing.T) {
		path := writeFile(t, `{"root": {"type": "EmailLayout", "data": {"childrenIds": ["gone"]}}}`)

		_, _, err := execute(t, "validate", path)
		assert.ErrorIs(t, err, blocktree.ErrCorrupt)
	})

	t.Run("unknown block type", func(t *testing.T) {
		path := writeFile(t, `{"root": {"type": "Carousel", "data": {}}}`)

		_, _, err := execute(t, "validate", path)
		assert.ErrorIs(t, err, blocktree.ErrCorrupt)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := execute(t, "validate", filepath.Join(t.TempDir(), "nope.json"))
		assert.ErrorContains(t, err, "failed to read")
	})

	t.Run("requires a file", func(t *testing.T) {
		_, _, err := execute(t, "validate")
		assert.Error(t, err)
	})
}

func TestRenderCommand_MJML(t *testing.T) {
	path := writeFile(t, document)

	out, _, err := execute(t, "render", path, "--mjml")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<mjml"))
	assert.Contains(t, out, "Welcome")
	assert.Contains(t, out, "Inside the box")

	out, _, err = execute(t, "render", path, "--mjml", "--root", "block-box")
	require.NoError(t, err)
	assert.Contains(t, out, "Inside the box")
	assert.NotContains(t, out, "Welcome")

	_, _, err = execute(t, "render", path, "--mjml", "--root", "ghost")
	assert.ErrorIs(t, err, blocktree.ErrNotFound)
}

func TestGCCommand(t *testing.T) {
	path := writeFile(t, document)

	out, errOut, err := execute(t, "gc", path)
	require.NoError(t, err)
	assert.Equal(t, "removed block-stray\n", errOut)

	tree, err := blocktree.Decode([]byte(out))
	require.NoError(t, err)
	assert.Len(t, tree, 4)
	assert.NotContains(t, tree, "block-stray")
}

func TestExtractCommand(t *testing.T) {
	path := writeFile(t, document)

	out, _, err := execute(t, "extract", path, "block-box")
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &raw))
	assert.Len(t, raw, 2)
	assert.Contains(t, raw, "block-box")
	assert.Contains(t, raw, "block-text")

	_, _, err = execute(t, "extract", path, "ghost")
	assert.ErrorIs(t, err, blocktree.ErrNotFound)
}
