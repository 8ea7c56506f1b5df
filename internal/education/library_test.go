package education

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func writePage(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write page: %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "absent.html"), nil); err == nil {
		t.Fatalf("expected error for missing page")
	}
}

func TestWatchReindexesOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "education.html")
	writePage(t, path, samplePage)
	lib, err := Open(path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if lib.Index().Len() != 2 {
		t.Fatalf("expected 2 articles")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- lib.Watch(ctx) }()
	// give the watcher a moment to register
	time.Sleep(100 * time.Millisecond)

	writePage(t, path, `<div class="education-article" id="new"><h2>Drying</h2><div class="article-content">Hang branches.</div></div>`)

	deadline := time.Now().Add(5 * time.Second)
	for lib.Index().Len() != 1 {
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("index not reloaded after write")
		}
		time.Sleep(20 * time.Millisecond)
	}
	if res := lib.Search("drying"); len(res.Items) != 1 {
		t.Fatalf("expected new article searchable, got %+v", res)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("watch: %v", err)
	}
}
