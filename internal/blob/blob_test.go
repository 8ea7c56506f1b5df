package blob_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"growcore/internal/blob"
)

func stores(t *testing.T) map[string]blob.Store {
	t.Helper()
	fsStore, err := blob.Open(context.Background(), blob.Config{Driver: "fs", Root: t.TempDir()})
	if err != nil {
		t.Fatalf("open fs: %v", err)
	}
	return map[string]blob.Store{
		"memory": blob.NewMemory(),
		"fs":     fsStore,
		"s3":     blob.NewFakeS3(),
	}
}

func TestStoreConformance(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			obj, err := store.Put(ctx, "guides/abc/guide.pdf", strings.NewReader("%PDF-1.3 body"), blob.PutOptions{
				ContentType: "application/pdf",
				Metadata:    map[string]string{"layout": "classic"},
			})
			if err != nil {
				t.Fatalf("put: %v", err)
			}
			if obj.Key != "guides/abc/guide.pdf" || obj.Size != 13 {
				t.Fatalf("unexpected object %+v", obj)
			}
			if obj.Checksum == "" {
				t.Fatalf("expected checksum")
			}
			if obj.ContentType != "application/pdf" || obj.Metadata["layout"] != "classic" {
				t.Fatalf("attributes lost: %+v", obj)
			}

			if _, err := store.Put(ctx, "guides/abc/guide.pdf", strings.NewReader("again"), blob.PutOptions{}); !errors.Is(err, blob.ErrExists) {
				t.Fatalf("expected ErrExists, got %v", err)
			}

			info, rc, err := store.Open(ctx, "guides/abc/guide.pdf")
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			data, err := io.ReadAll(rc)
			_ = rc.Close()
			if err != nil || string(data) != "%PDF-1.3 body" {
				t.Fatalf("read back %q, %v", data, err)
			}
			if info.Checksum != obj.Checksum {
				t.Fatalf("checksum mismatch %q vs %q", info.Checksum, obj.Checksum)
			}

			if _, err := store.Put(ctx, "guides/xyz/guide.xlsx", strings.NewReader("xlsx"), blob.PutOptions{}); err != nil {
				t.Fatalf("put second: %v", err)
			}
			if _, err := store.Put(ctx, "other/readme.txt", strings.NewReader("x"), blob.PutOptions{}); err != nil {
				t.Fatalf("put third: %v", err)
			}
			listed, err := store.List(ctx, "guides/")
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(listed) != 2 || listed[0].Key != "guides/abc/guide.pdf" || listed[1].Key != "guides/xyz/guide.xlsx" {
				t.Fatalf("unexpected listing %+v", listed)
			}

			existed, err := store.Delete(ctx, "guides/abc/guide.pdf")
			if err != nil || !existed {
				t.Fatalf("delete: %v existed=%v", err, existed)
			}
			existed, err = store.Delete(ctx, "guides/abc/guide.pdf")
			if err != nil || existed {
				t.Fatalf("second delete: %v existed=%v", err, existed)
			}
			if _, err := store.Stat(ctx, "guides/abc/guide.pdf"); !errors.Is(err, blob.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			if _, _, err := store.Open(ctx, "guides/abc/guide.pdf"); !errors.Is(err, blob.ErrNotFound) {
				t.Fatalf("expected ErrNotFound on open, got %v", err)
			}
		})
	}
}

func TestStoreRejectsEscapingKeys(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "/abs/path", "../outside", "a/../../b"} {
				if _, err := store.Put(context.Background(), key, strings.NewReader("x"), blob.PutOptions{}); !errors.Is(err, blob.ErrInvalidKey) {
					t.Fatalf("key %q: expected ErrInvalidKey, got %v", key, err)
				}
			}
		})
	}
}

func TestURLSupport(t *testing.T) {
	ctx := context.Background()
	if _, err := blob.NewMemory().URL(ctx, "a.pdf", time.Minute); !errors.Is(err, blob.ErrUnsupported) {
		t.Fatalf("memory URL should be unsupported, got %v", err)
	}
	url, err := blob.NewFakeS3().URL(ctx, "guides/a.pdf", 5*time.Minute)
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	if !strings.Contains(url, "guides/a.pdf") || !strings.Contains(url, "X-Amz-Expires=300") {
		t.Fatalf("unexpected presigned url %s", url)
	}
}

func TestOpenDrivers(t *testing.T) {
	ctx := context.Background()
	store, err := blob.Open(ctx, blob.Config{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("open default: %v", err)
	}
	if store.Driver() != blob.DriverFilesystem {
		t.Fatalf("default driver = %s", store.Driver())
	}
	store, err = blob.Open(ctx, blob.Config{Driver: "memory"})
	if err != nil || store.Driver() != blob.DriverMemory {
		t.Fatalf("memory driver: %v", err)
	}
	if _, err := blob.Open(ctx, blob.Config{Driver: "s3"}); err == nil {
		t.Fatalf("expected missing bucket error")
	}
	if _, err := blob.Open(ctx, blob.Config{Driver: "gcs"}); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}
