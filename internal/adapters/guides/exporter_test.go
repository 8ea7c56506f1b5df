package guides

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"go.uber.org/goleak"

	"growcore/internal/blob"
	"growcore/internal/core"
	"growcore/internal/guide"
	"growcore/internal/wizard"
	"growcore/pkg/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func completeSelections() domain.Selections {
	return domain.Selections{
		Experience:    domain.ExperienceBeginner,
		TentSize:      domain.Tent3x3,
		Medium:        domain.MediumSoil,
		ContainerType: domain.ContainerFabric,
		PotSize:       3,
		PlantCount:    3,
		Nutrients:     domain.Nutrients{Line: "general-hydroponics"},
		PlantType:     domain.PlantPhoto,
		StrainType:    domain.StrainHybrid,
	}
}

func startWorker(t *testing.T, store blob.Store, opts ...Option) *Worker {
	t.Helper()
	w := NewWorker(store, opts...)
	w.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := w.Stop(ctx); err != nil {
			t.Errorf("stop: %v", err)
		}
	})
	return w
}

func waitTerminal(t *testing.T, w *Worker, id string) ExportRecord {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if rec, ok := w.Get(id); ok && rec.Terminal() {
			return rec
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("export %s did not finish", id)
	return ExportRecord{}
}

func TestWorkerRendersAllFormats(t *testing.T) {
	store := blob.NewMemory()
	audit := core.NewMemoryAuditLog(0)
	w := startWorker(t, store, WithAuditRecorder(audit))

	queued, err := w.Enqueue(context.Background(), ExportInput{
		Selections: completeSelections(),
		Formats:    []guide.Format{"PDF", guide.FormatXLSX, guide.FormatPDF, guide.FormatJSON},
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if queued.Status != ExportStatusQueued {
		t.Fatalf("expected queued, got %s", queued.Status)
	}
	if len(queued.Formats) != 3 {
		t.Fatalf("formats should be deduplicated: %v", queued.Formats)
	}

	done := waitTerminal(t, w, queued.ID)
	if done.Status != ExportStatusSucceeded {
		t.Fatalf("export failed: %s", done.Error)
	}
	if len(done.Artifacts) != 3 || done.CompletedAt == nil {
		t.Fatalf("unexpected record %+v", done)
	}
	for _, a := range done.Artifacts {
		if a.URL != "" {
			t.Fatalf("memory store should not produce links, got %s", a.URL)
		}
		if a.Key != "guides/"+queued.ID+"/"+a.Format.FileName() {
			t.Fatalf("unexpected key %s", a.Key)
		}
	}

	obj, rc, err := w.Open(context.Background(), queued.ID, guide.FormatPDF)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	if !bytes.HasPrefix(data, []byte("%PDF")) || obj.ContentType != "application/pdf" {
		t.Fatalf("unexpected pdf artifact %+v", obj)
	}

	ops := map[string]core.AuditStatus{}
	for _, e := range audit.Entries() {
		if e.EntityID == queued.ID {
			ops[e.Operation] = e.Status
		}
	}
	if ops["guide_export_queued"] != core.AuditStatusSuccess || ops["guide_export"] != core.AuditStatusSuccess {
		t.Fatalf("unexpected audit trail %v", ops)
	}
}

func TestWorkerLinksArtifactsWhenStoreSigns(t *testing.T) {
	w := startWorker(t, blob.NewFakeS3())
	queued, err := w.Enqueue(context.Background(), ExportInput{Selections: completeSelections()})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	done := waitTerminal(t, w, queued.ID)
	if done.Status != ExportStatusSucceeded {
		t.Fatalf("export failed: %s", done.Error)
	}
	if len(done.Artifacts) != 1 || done.Artifacts[0].Format != guide.FormatPDF {
		t.Fatalf("expected a single pdf, got %+v", done.Artifacts)
	}
	if done.Artifacts[0].URL == "" {
		t.Fatalf("expected presigned url")
	}
}

func TestEnqueueRejectsIncompleteSelections(t *testing.T) {
	w := NewWorker(blob.NewMemory())
	sel := completeSelections()
	sel.Experience = ""
	if _, err := w.Enqueue(context.Background(), ExportInput{Selections: sel}); !errors.Is(err, wizard.ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
	if _, err := w.Enqueue(context.Background(), ExportInput{Selections: completeSelections(), Formats: []guide.Format{"docx"}}); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestEnqueueQueueFull(t *testing.T) {
	w := NewWorker(blob.NewMemory(), WithQueueSize(1))
	if _, err := w.Enqueue(context.Background(), ExportInput{Selections: completeSelections()}); err != nil {
		t.Fatalf("first enqueue: %v", err)
	}
	if _, err := w.Enqueue(context.Background(), ExportInput{Selections: completeSelections()}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}

type failingStore struct{ blob.Store }

func (failingStore) Put(context.Context, string, io.Reader, blob.PutOptions) (blob.Object, error) {
	return blob.Object{}, errors.New("disk full")
}

func TestWorkerRecordsFailures(t *testing.T) {
	audit := core.NewMemoryAuditLog(0)
	w := startWorker(t, failingStore{blob.NewMemory()}, WithAuditRecorder(audit))
	queued, err := w.Enqueue(context.Background(), ExportInput{Selections: completeSelections()})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	done := waitTerminal(t, w, queued.ID)
	if done.Status != ExportStatusFailed || done.Error != "store pdf: disk full" {
		t.Fatalf("unexpected record %+v", done)
	}
	if _, _, err := w.Open(context.Background(), queued.ID, guide.FormatPDF); !errors.Is(err, blob.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, _, err := w.Open(context.Background(), "missing", guide.FormatPDF); !errors.Is(err, ErrUnknownExport) {
		t.Fatalf("expected ErrUnknownExport, got %v", err)
	}
	entries := audit.Entries()
	last := entries[len(entries)-1]
	if last.Operation != "guide_export" || last.Status != core.AuditStatusError {
		t.Fatalf("unexpected audit entry %+v", last)
	}
}

func TestWorkerSurvivesRendererPanic(t *testing.T) {
	audit := core.NewMemoryAuditLog(0)
	calls := 0
	w := startWorker(t, blob.NewMemory(), WithAuditRecorder(audit), WithRenderer(func(out io.Writer, f guide.Format, g guide.Guide) error {
		calls++
		if calls == 1 {
			panic("index out of range")
		}
		return guide.Render(out, f, g)
	}))

	first, err := w.Enqueue(context.Background(), ExportInput{Selections: completeSelections(), Formats: []guide.Format{guide.FormatJSON}})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	failed := waitTerminal(t, w, first.ID)
	if failed.Status != ExportStatusFailed || failed.Error != "render panicked: index out of range" {
		t.Fatalf("unexpected record %+v", failed)
	}
	entries := audit.Entries()
	last := entries[len(entries)-1]
	if last.Operation != "guide_export" || last.Status != core.AuditStatusError || last.EntityID != first.ID {
		t.Fatalf("unexpected audit entry %+v", last)
	}

	second, err := w.Enqueue(context.Background(), ExportInput{Selections: completeSelections(), Formats: []guide.Format{guide.FormatJSON}})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if done := waitTerminal(t, w, second.ID); done.Status != ExportStatusSucceeded {
		t.Fatalf("worker stopped after panic: %+v", done)
	}
}

func TestGetReturnsCopies(t *testing.T) {
	w := NewWorker(blob.NewMemory())
	queued, err := w.Enqueue(context.Background(), ExportInput{Selections: completeSelections(), Formats: []guide.Format{guide.FormatJSON}})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	queued.Formats[0] = guide.FormatXLSX
	again, _ := w.Get(queued.ID)
	if again.Formats[0] != guide.FormatJSON {
		t.Fatalf("record aliased caller slice")
	}
}
