package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"growcore/internal/infra/persistence/postgres/testutil"
)

func openStub(t *testing.T) (*Store, *testutil.StubConn) {
	t.Helper()
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(driverName, _ string) (*sql.DB, error) {
		if driverName != "pgx" {
			t.Fatalf("unexpected driver %s", driverName)
		}
		return db, nil
	})
	t.Cleanup(restore)
	store, err := NewStore(context.Background(), "")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store, conn
}

func TestNewStoreEnsuresStateTable(t *testing.T) {
	_, conn := openStub(t)
	if len(conn.Execs) == 0 || !strings.Contains(conn.Execs[0], "CREATE TABLE IF NOT EXISTS state") {
		t.Fatalf("expected state DDL, got %v", conn.Execs)
	}
}

func TestStoreSetGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, conn := openStub(t)
	if _, ok, err := store.Get(ctx, "plant_notes"); ok || err != nil {
		t.Fatalf("expected absent key, ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, "plant_notes", []byte(`["a"]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "plant_notes", []byte(`["b","a"]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, ok, err := store.Get(ctx, "plant_notes")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(got) != `["b","a"]` {
		t.Fatalf("unexpected payload %s", got)
	}
	if conn.Commits != 2 {
		t.Fatalf("expected 2 commits, got %d", conn.Commits)
	}
}

func TestStoreSetEmptyPayloadStoresNull(t *testing.T) {
	ctx := context.Background()
	store, _ := openStub(t)
	if err := store.Set(ctx, "k", nil); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, _, _ := store.Get(ctx, "k")
	if string(got) != "null" {
		t.Fatalf("expected null payload, got %q", got)
	}
}

func TestStoreSetReportsCommitFailure(t *testing.T) {
	store, conn := openStub(t)
	conn.FailCommit = true
	err := store.Set(context.Background(), "k", []byte("{}"))
	if err == nil || !strings.HasPrefix(err.Error(), "commit:") {
		t.Fatalf("expected commit error, got %v", err)
	}
	if conn.Commits != 0 {
		t.Fatalf("expected no successful commit, got %d", conn.Commits)
	}
}

func TestStoreSetRollsBackFailedUpsert(t *testing.T) {
	store, conn := openStub(t)
	conn.FailExec = true
	err := store.Set(context.Background(), "k", []byte("{}"))
	if err == nil || !strings.Contains(err.Error(), "upsert k") {
		t.Fatalf("expected upsert error, got %v", err)
	}
	if conn.Rollbacks != 1 {
		t.Fatalf("expected one rollback, got %d", conn.Rollbacks)
	}
	if conn.Commits != 0 {
		t.Fatalf("expected no commit, got %d", conn.Commits)
	}
}

func TestNewStoreErrors(t *testing.T) {
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return nil, errors.New("dial") })
	if _, err := NewStore(context.Background(), "postgres://x"); err == nil {
		t.Fatalf("expected open error")
	}
	restore()

	db, conn := testutil.NewStubDB()
	conn.FailPing = true
	restore = OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
	defer restore()
	if _, err := NewStore(context.Background(), ""); err == nil || !strings.Contains(err.Error(), "ping") {
		t.Fatalf("expected ping error, got %v", err)
	}
	conn.FailPing = false
	conn.FailExec = true
	if _, err := NewStore(context.Background(), ""); err == nil || !strings.Contains(err.Error(), "state table") {
		t.Fatalf("expected ddl error, got %v", err)
	}
}
