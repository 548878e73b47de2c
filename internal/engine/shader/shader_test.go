package shader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReportsChanges(t *testing.T) {
	dir := t.TempDir()
	vert := filepath.Join(dir, "model.vert")
	frag := filepath.Join(dir, "model.frag")
	require.NoError(t, os.WriteFile(vert, []byte("v1"), 0o644))
	require.NoError(t, os.WriteFile(frag, []byte("f1"), 0o644))

	w, err := NewWatcher(vert, frag)
	require.NoError(t, err)
	defer w.Close()

	assert.False(t, w.Poll())

	require.NoError(t, os.WriteFile(frag, []byte("f2"), 0o644))
	require.Eventually(t, w.Poll, 2*time.Second, 10*time.Millisecond)

	// Several writes collapse into one pending change.
	require.NoError(t, os.WriteFile(vert, []byte("v2"), 0o644))
	require.NoError(t, os.WriteFile(vert, []byte("v3"), 0o644))
	require.Eventually(t, w.Poll, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	vert := filepath.Join(dir, "model.vert")
	require.NoError(t, os.WriteFile(vert, []byte("v1"), 0o644))

	w, err := NewWatcher(vert)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	assert.Never(t, w.Poll, 300*time.Millisecond, 20*time.Millisecond)
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "nope", "model.vert"))
	assert.Error(t, err)
}

func TestLoad_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	vert := filepath.Join(dir, "model.vert")
	require.NoError(t, os.WriteFile(vert, []byte("void main() {}"), 0o644))

	_, err := Load(filepath.Join(dir, "missing.vert"), vert)
	assert.ErrorContains(t, err, "vertex shader")

	_, err = Load(vert, filepath.Join(dir, "missing.frag"))
	assert.ErrorContains(t, err, "fragment shader")
}

func TestReloadFiles_RequiresPaths(t *testing.T) {
	p := &Program{locations: make(map[string]int32)}
	assert.Error(t, p.ReloadFiles())
}

func TestInfoLog(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{[]byte("0:1: error\n\x00"), "0:1: error"},
		{[]byte("\x00"), ""},
		{[]byte("ok"), "ok"},
	}
	for _, tt := range tests {
		if got := infoLog(tt.in); got != tt.want {
			t.Errorf("infoLog(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
