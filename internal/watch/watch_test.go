package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	texts map[string]string
	err   error
}

func (r *recorder) handle(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.texts == nil {
		r.texts = make(map[string]string)
	}
	r.texts[filepath.Base(path)] = string(data)
	return r.err
}

func (r *recorder) get(name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.texts[name]
	return v, ok
}

func startWatcher(t *testing.T, dir string, h Handler) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	w := &Watcher{Dir: dir, Settle: 50 * time.Millisecond, Handle: h}
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Run: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestWatcher_FilesNewFile(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	startWatcher(t, dir, rec.handle)

	// Give the watcher a moment to register.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "crash.log"), []byte("panic: boom"), 0o644); err != nil {
		t.Fatal(err)
	}

	moved := filepath.Join(dir, ProcessedDir, "crash.log")
	waitFor(t, func() bool { return exists(moved) })

	if got, _ := rec.get("crash.log"); got != "panic: boom" {
		t.Errorf("handled text = %q", got)
	}
	if exists(filepath.Join(dir, "crash.log")) {
		t.Error("original should be moved out of the inbox")
	}
}

func TestWatcher_FilesExistingFiles(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("first"), 0o644)
	os.WriteFile(filepath.Join(dir, "b.md"), []byte("second"), 0o644)
	os.WriteFile(filepath.Join(dir, "image.png"), []byte("x"), 0o644)
	os.WriteFile(filepath.Join(dir, ".hidden.txt"), []byte("x"), 0o644)

	rec := &recorder{}
	startWatcher(t, dir, rec.handle)

	waitFor(t, func() bool {
		return exists(filepath.Join(dir, ProcessedDir, "a.txt")) &&
			exists(filepath.Join(dir, ProcessedDir, "b.md"))
	})

	for _, name := range []string{"image.png", ".hidden.txt"} {
		if _, ok := rec.get(name); ok {
			t.Errorf("%s should be ignored", name)
		}
		if !exists(filepath.Join(dir, name)) {
			t.Errorf("%s should stay in the inbox", name)
		}
	}
}

func TestWatcher_HandlerErrorLeavesFile(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "bad.txt"), []byte("x"), 0o644)

	rec := &recorder{err: errors.New("fatal")}
	startWatcher(t, dir, rec.handle)

	waitFor(t, func() bool {
		_, ok := rec.get("bad.txt")
		return ok
	})
	time.Sleep(100 * time.Millisecond)

	if !exists(filepath.Join(dir, "bad.txt")) {
		t.Error("file should stay in the inbox after a handler error")
	}
}

func TestWatcher_RequiresHandler(t *testing.T) {
	w := &Watcher{Dir: t.TempDir()}
	if err := w.Run(context.Background()); err == nil {
		t.Fatal("expected error without handler")
	}
}

func TestMove_AvoidsCollisions(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	os.WriteFile(filepath.Join(dst, "x.log"), []byte("old"), 0o644)
	os.WriteFile(filepath.Join(dst, "x-1.log"), []byte("old"), 0o644)
	os.WriteFile(filepath.Join(src, "x.log"), []byte("new"), 0o644)

	got, err := Move(filepath.Join(src, "x.log"), dst)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if want := filepath.Join(dst, "x-2.log"); got != want {
		t.Errorf("Move = %q, want %q", got, want)
	}
	data, _ := os.ReadFile(got)
	if string(data) != "new" {
		t.Errorf("moved content = %q", data)
	}
}

func TestAccepts(t *testing.T) {
	w := &Watcher{Exts: DefaultExts}
	tests := map[string]bool{
		"a.txt":  true,
		"a.LOG":  true,
		"a.md":   true,
		"a.json": false,
		".a.txt": false,
		"noext":  false,
	}
	for name, want := range tests {
		if got := w.accepts(name); got != want {
			t.Errorf("accepts(%q) = %v, want %v", name, got, want)
		}
	}
}
