package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_Accepts(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "schema.yaml")

	w, err := NewWatcher(dir, nil, WithExtensions(".yaml", ".yml"), WithIgnore(out, ""))
	require.NoError(t, err)
	defer w.fsWatcher.Close()

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write descriptor", fsnotify.Event{Name: filepath.Join(dir, "a.yaml"), Op: fsnotify.Write}, true},
		{"create descriptor", fsnotify.Event{Name: filepath.Join(dir, "b.yml"), Op: fsnotify.Create}, true},
		{"remove descriptor", fsnotify.Event{Name: filepath.Join(dir, "a.yaml"), Op: fsnotify.Remove}, true},
		{"chmod only", fsnotify.Event{Name: filepath.Join(dir, "a.yaml"), Op: fsnotify.Chmod}, false},
		{"other extension", fsnotify.Event{Name: filepath.Join(dir, "notes.txt"), Op: fsnotify.Write}, false},
		{"own output", fsnotify.Event{Name: out, Op: fsnotify.Write}, false},
		{"test file", fsnotify.Event{Name: filepath.Join(dir, "x_test.go"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.accepts(tt.event))
		})
	}
}

func TestWatcher_Run(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	runs := make(chan []string, 4)
	run := func(_ context.Context, changed []string) error {
		runs <- changed
		return nil
	}

	w, err := NewWatcher(dir, run, WithDebounce(20*time.Millisecond), WithExtensions(".yaml"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	target := filepath.Join(dir, "sub", "unit.yaml")
	require.NoError(t, os.WriteFile(target, []byte("decls: []\n"), 0644))

	select {
	case changed := <-runs:
		assert.Contains(t, changed, target)
	case <-time.After(5 * time.Second):
		t.Fatal("no run after a change")
	}

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestPipeline_Watch(t *testing.T) {
	dir := writeDecls(t)

	cfg, err := ParseConfig([]byte("frontend: decl\npatterns: [models/*.yaml]\nwatch:\n  debounce: 20ms\n"))
	require.NoError(t, err)
	cfg.Dir = dir
	cfg.Output = filepath.Join(dir, "schema.yaml")

	reports := make(chan *Report, 4)
	w, err := NewPipeline(cfg, logr.Discard()).Watch(func(r *Report) { reports <- r })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = w.Run(ctx) }()

	more := guildDecl + "  - struct: Rank\n    exported: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "models", "guild.yaml"), []byte(more), 0644))

	select {
	case r := <-reports:
		assert.True(t, r.Schema.Has("models/guild.Rank"))
		assert.Equal(t, cfg.Output, r.Output)
	case <-time.After(5 * time.Second):
		t.Fatal("no report after a change")
	}
}
