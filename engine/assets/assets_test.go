package assets

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDetermineAssetType(t *testing.T) {
	tests := []struct {
		path string
		want metadata.ResourceType
		ok   bool
	}{
		{"textures/wall.png", metadata.ResourceTypeImage, true},
		{"textures/WALL.JPG", metadata.ResourceTypeImage, true},
		{"textures/wall.webp", metadata.ResourceTypeImage, true},
		{"shaders/shape.shadercfg", metadata.ResourceTypeShader, true},
		{"shaders/shape.vert", metadata.ResourceTypeText, true},
		{"fonts/go.ttf", metadata.ResourceTypeSystemFont, true},
		{"fonts/arial.fnt", metadata.ResourceTypeBitmapFont, true},
		{"data/blob.bin", metadata.ResourceTypeBinary, true},
		{"readme", 0, false},
		{"models/cube.obj", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := DetermineAssetType(tt.path)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("DetermineAssetType(%q) = %v, %v; want %v, %v", tt.path, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestInitializeIndexesTree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "shaders", "shape.vert"), "void main() {}")
	writeFile(t, filepath.Join(root, "notes.txt"), "hello")
	writeFile(t, filepath.Join(root, "ignored.xyz"), "?")

	am := NewAssetManager()
	if err := am.Initialize(root, false); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer am.Shutdown()

	info, ok := am.Lookup("shaders/shape.vert")
	if !ok || info.Type != metadata.ResourceTypeText {
		t.Errorf("Lookup(shaders/shape.vert) = %+v, %v", info, ok)
	}
	if _, ok := am.Lookup("ignored.xyz"); ok {
		t.Error("unknown extension should not be indexed")
	}

	texts := am.Assets(metadata.ResourceTypeText)
	sort.Strings(texts)
	if len(texts) != 2 || texts[0] != "notes.txt" || texts[1] != "shaders/shape.vert" {
		t.Errorf("Assets(Text) = %v", texts)
	}
}

func TestInitializeMissingRoot(t *testing.T) {
	am := NewAssetManager()
	err := am.Initialize(filepath.Join(t.TempDir(), "nope"), false)
	if !errors.Is(err, core.ErrAssetNotFound) {
		t.Errorf("err = %v, want ErrAssetNotFound", err)
	}
}

func TestLoadAsset(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "notes.txt"), "hello")

	am := NewAssetManager()
	if err := am.Initialize(root, false); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer am.Shutdown()

	res, err := am.LoadAsset("notes.txt", metadata.ResourceTypeText, nil)
	if err != nil {
		t.Fatalf("LoadAsset: %v", err)
	}
	if res.Data.(string) != "hello" || res.Name != "notes.txt" || res.ResourceType != metadata.ResourceTypeText {
		t.Errorf("resource = %+v", res)
	}
	if info, _ := am.Lookup("notes.txt"); info.LastLoaded.IsZero() {
		t.Error("LastLoaded not stamped")
	}
	if err := am.UnloadAsset(res); err != nil || res.Data != nil {
		t.Errorf("UnloadAsset: %v", err)
	}

	if _, err := am.LoadAsset("missing.txt", metadata.ResourceTypeText, nil); !IsNotFound(err) {
		t.Errorf("missing asset err = %v, want not found", err)
	}
}

func TestWatcherReportsChanges(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "shaders", "shape.frag"), "v1")

	am := NewAssetManager()
	if err := am.Initialize(root, true); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer am.Shutdown()

	writeFile(t, filepath.Join(root, "shaders", "shape.frag"), "v2")

	select {
	case ev := <-am.Changes():
		if ev.Path != "shaders/shape.frag" || ev.Removed {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change event")
	}

	// drain duplicates from the write
	for len(am.Changes()) > 0 {
		<-am.Changes()
	}

	if err := os.Remove(filepath.Join(root, "shaders", "shape.frag")); err != nil {
		t.Fatal(err)
	}
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-am.Changes():
			if !ev.Removed {
				continue
			}
			if ev.Path != "shaders/shape.frag" {
				t.Errorf("event = %+v", ev)
			}
			if _, ok := am.Lookup("shaders/shape.frag"); ok {
				t.Error("removed asset still indexed")
			}
			return
		case <-deadline:
			t.Fatal("no remove event")
		}
	}
}

func TestInitializeWalkFailureStopsWatcher(t *testing.T) {
	var created *fsnotify.Watcher
	newWatcher = func() (*fsnotify.Watcher, error) {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, err
		}
		// a closed watcher refuses every Add, failing the walk
		_ = w.Close()
		created = w
		return w, nil
	}
	t.Cleanup(func() { newWatcher = fsnotify.NewWatcher })

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "textures", "a.png"), "x")

	am := NewAssetManager()
	if err := am.Initialize(root, true); err == nil {
		t.Fatal("Initialize succeeded with a watcher that cannot add directories")
	}
	if created == nil {
		t.Fatal("watcher was never created")
	}
	if am.fsnotify != nil {
		t.Error("failed Initialize kept the watcher")
	}

	done := make(chan struct{})
	go func() {
		_ = am.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Shutdown blocked on a watcher goroutine")
	}
}

func TestShutdownTwice(t *testing.T) {
	am := NewAssetManager()
	if err := am.Initialize(t.TempDir(), true); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := am.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if err := am.Shutdown(); err != nil {
		t.Fatal(err)
	}
}
