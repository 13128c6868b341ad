package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/frudas24/autoclick/internal/model"
	"github.com/frudas24/autoclick/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoopLabel verifies loop settings rendering.
func TestLoopLabel(t *testing.T) {
	assert.Equal(t, "once", loopLabel(false, 3))
	assert.Equal(t, "forever", loopLabel(true, 0))
	assert.Equal(t, "x3", loopLabel(true, 3))
}

// TestRootCmd_Subcommands verifies every command is registered.
func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"serve", "run", "record", "play", "click", "type", "profiles", "history"} {
		assert.Contains(t, names, want)
	}
}

// TestProfilesCmd_ListsStoredDocuments verifies the listing reads the data dir.
func TestProfilesCmd_ListsStoredDocuments(t *testing.T) {
	dir := t.TempDir()
	for _, k := range []string{"DATA_DIR", "PROFILES_DIR", "WORKSPACES_DIR", "RECORDINGS_DIR", "HISTORY_PATH", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	p := model.NewProfile("clicker")
	p.Actions = []model.ActionItem{model.NewActionItem(model.KindClick)}
	require.NoError(t, store.NewProfiles(filepath.Join(dir, "profiles")).Save(p))

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"profiles", "--data-dir", dir})
	require.NoError(t, root.Execute())

	assert.True(t, strings.Contains(out.String(), "clicker"), out.String())
	assert.Contains(t, out.String(), "1/1")
}

// TestClickOptions_Settings verifies flag values map onto clicker settings.
func TestClickOptions_Settings(t *testing.T) {
	s, err := clickOptions{button: "Right", double: true, interval: 250, at: "10, 20", count: 5}.settings()
	require.NoError(t, err)
	assert.Equal(t, model.ButtonRight, s.Button)
	assert.Equal(t, model.ClickDouble, s.ClickStyle)
	assert.Equal(t, 250, s.IntervalMs)
	assert.False(t, s.UseCurrentPosition)
	assert.Equal(t, [2]int{10, 20}, [2]int{s.X, s.Y})
	assert.Equal(t, 5, s.Limit())

	s, err = clickOptions{button: "left", interval: 100}.settings()
	require.NoError(t, err)
	assert.True(t, s.UseCurrentPosition)
	assert.Equal(t, 0, s.Limit(), "no count clicks until stopped")

	_, err = clickOptions{button: "left", at: "10"}.settings()
	assert.Error(t, err)
	_, err = clickOptions{button: "side"}.settings()
	assert.Error(t, err)
}

// TestTypeOptions_Settings verifies text and key modes and their conflicts.
func TestTypeOptions_Settings(t *testing.T) {
	s, err := typeOptions{text: "hello", interval: 30, count: 2}.settings()
	require.NoError(t, err)
	assert.Equal(t, model.KeyboardTypeText, s.Mode)
	assert.Equal(t, "hello", s.Text)
	assert.Equal(t, 2, s.Limit())

	s, err = typeOptions{key: "F5", ctrl: true, shift: true}.settings()
	require.NoError(t, err)
	assert.Equal(t, model.KeyboardPressKey, s.Mode)
	assert.True(t, s.Ctrl)
	assert.False(t, s.Alt)
	assert.True(t, s.Shift)

	_, err = typeOptions{text: "a", key: "F5"}.settings()
	assert.Error(t, err)
	_, err = typeOptions{}.settings()
	assert.Error(t, err, "text mode needs text")
}
