// Package guides renders grow guides in the background and keeps the
// artifacts in blob storage.
package guides

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"growcore/internal/blob"
	"growcore/internal/core"
	"growcore/internal/guide"
	"growcore/pkg/domain"
)

// ExportStatus describes the lifecycle stage of an export request.
type ExportStatus string

const (
	ExportStatusQueued    ExportStatus = "queued"
	ExportStatusRunning   ExportStatus = "running"
	ExportStatusSucceeded ExportStatus = "succeeded"
	ExportStatusFailed    ExportStatus = "failed"
)

const (
	defaultQueueSize = 32
	defaultURLTTL    = 15 * time.Minute
	keyPrefix        = "guides/"
)

// ErrQueueFull is returned when the worker cannot accept more jobs.
var ErrQueueFull = errors.New("guide export queue full")

// ErrUnknownExport is returned for export IDs the worker never issued.
var ErrUnknownExport = errors.New("guide export not found")

// Artifact is one rendered guide held in blob storage.
type Artifact struct {
	Key         string       `json:"key"`
	Format      guide.Format `json:"format"`
	FileName    string       `json:"file_name"`
	ContentType string       `json:"content_type"`
	SizeBytes   int64        `json:"size_bytes"`
	Checksum    string       `json:"checksum,omitempty"`
	URL         string       `json:"url,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// ExportRecord tracks an export request and its artifacts.
type ExportRecord struct {
	ID          string            `json:"id"`
	Selections  domain.Selections `json:"selections"`
	Formats     []guide.Format    `json:"formats"`
	Status      ExportStatus      `json:"status"`
	Error       string            `json:"error,omitempty"`
	Artifacts   []Artifact        `json:"artifacts,omitempty"`
	RequestedBy string            `json:"requested_by,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
}

// Terminal reports whether the export will not change again.
func (r ExportRecord) Terminal() bool {
	return r.Status == ExportStatusSucceeded || r.Status == ExportStatusFailed
}

// ExportInput is an enqueue request. Formats default to PDF.
type ExportInput struct {
	Selections  domain.Selections
	Formats     []guide.Format
	RequestedBy string
}

// Scheduler queues guide exports and exposes their status.
type Scheduler interface {
	Enqueue(ctx context.Context, input ExportInput) (ExportRecord, error)
	Get(id string) (ExportRecord, bool)
	Open(ctx context.Context, id string, format guide.Format) (blob.Object, io.ReadCloser, error)
}

// Option customises a Worker.
type Option func(*Worker)

// WithAuditRecorder records queue and completion events.
func WithAuditRecorder(rec core.AuditRecorder) Option {
	return func(w *Worker) {
		if rec != nil {
			w.audit = rec
		}
	}
}

// WithMetricsRecorder observes render latency per export.
func WithMetricsRecorder(rec core.MetricsRecorder) Option {
	return func(w *Worker) {
		if rec != nil {
			w.metrics = rec
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithClock overrides the time source used for guide dates and stamps.
func WithClock(now func() time.Time) Option {
	return func(w *Worker) {
		if now != nil {
			w.now = now
		}
	}
}

// WithQueueSize bounds the number of pending exports.
func WithQueueSize(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.queueSize = n
		}
	}
}

// Renderer writes a guide in one format.
type Renderer func(w io.Writer, format guide.Format, g guide.Guide) error

// WithRenderer replaces guide.Render.
func WithRenderer(fn Renderer) Option {
	return func(w *Worker) {
		if fn != nil {
			w.renderer = fn
		}
	}
}

// Worker executes guide exports asynchronously.
type Worker struct {
	store     blob.Store
	renderer  Renderer
	audit     core.AuditRecorder
	metrics   core.MetricsRecorder
	logger    *zap.Logger
	now       func() time.Time
	queueSize int

	queue chan string
	mu    sync.RWMutex
	jobs  map[string]*ExportRecord

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ Scheduler = (*Worker)(nil)

// NewWorker constructs an export worker writing to store.
func NewWorker(store blob.Store, opts ...Option) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		store:     store,
		renderer:  guide.Render,
		logger:    zap.NewNop(),
		now:       time.Now,
		queueSize: defaultQueueSize,
		jobs:      make(map[string]*ExportRecord),
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.queue = make(chan string, w.queueSize)
	return w
}

// Start begins processing export requests.
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.loop()
}

// Stop signals the worker to halt and waits for the current job.
func (w *Worker) Stop(ctx context.Context) error {
	w.cancel()
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case id := <-w.queue:
			w.process(id)
		}
	}
}

// Enqueue validates the selections and schedules the export. Selections that
// cannot produce a guide are rejected here rather than failing later.
func (w *Worker) Enqueue(ctx context.Context, input ExportInput) (ExportRecord, error) {
	if _, err := guide.Build(input.Selections, w.now()); err != nil {
		return ExportRecord{}, err
	}
	formats := input.Formats
	if len(formats) == 0 {
		formats = []guide.Format{guide.FormatPDF}
	}
	uniq := make([]guide.Format, 0, len(formats))
	seen := make(map[guide.Format]struct{}, len(formats))
	for _, raw := range formats {
		f, err := guide.ParseFormat(string(raw))
		if err != nil {
			return ExportRecord{}, err
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		uniq = append(uniq, f)
	}

	now := w.now().UTC()
	record := ExportRecord{
		ID:          uuid.NewString(),
		Selections:  input.Selections.Clone(),
		Formats:     uniq,
		Status:      ExportStatusQueued,
		RequestedBy: input.RequestedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	id := record.ID
	w.mu.Lock()
	w.jobs[id] = &record
	queued := record.copy()
	w.mu.Unlock()

	select {
	case w.queue <- id:
	default:
		w.mu.Lock()
		delete(w.jobs, id)
		w.mu.Unlock()
		return ExportRecord{}, ErrQueueFull
	}
	w.record(ctx, "guide_export_queued", id, nil, 0)
	w.logger.Debug("guide export queued", zap.String("export_id", id), zap.Int("formats", len(uniq)))
	return queued, nil
}

// Get returns a snapshot of the export record.
func (w *Worker) Get(id string) (ExportRecord, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	record, ok := w.jobs[id]
	if !ok {
		return ExportRecord{}, false
	}
	return record.copy(), true
}

// Open streams a finished artifact.
func (w *Worker) Open(ctx context.Context, id string, format guide.Format) (blob.Object, io.ReadCloser, error) {
	record, ok := w.Get(id)
	if !ok {
		return blob.Object{}, nil, fmt.Errorf("%w: %s", ErrUnknownExport, id)
	}
	for _, a := range record.Artifacts {
		if a.Format == format {
			return w.store.Open(ctx, a.Key)
		}
	}
	return blob.Object{}, nil, fmt.Errorf("%w: %s has no %s artifact", blob.ErrNotFound, id, format)
}

func (w *Worker) process(id string) {
	record, ok := w.Get(id)
	if !ok {
		return
	}
	start := time.Now()
	w.update(id, func(r *ExportRecord) { r.Status = ExportStatusRunning })

	artifacts, err := w.safeRender(record)
	dur := time.Since(start)
	if w.metrics != nil {
		w.metrics.Observe(w.ctx, "guide_export", err == nil, dur)
	}
	w.record(w.ctx, "guide_export", id, err, dur)
	now := w.now().UTC()
	w.update(id, func(r *ExportRecord) {
		r.CompletedAt = &now
		if err != nil {
			r.Status = ExportStatusFailed
			r.Error = err.Error()
			return
		}
		r.Status = ExportStatusSucceeded
		r.Artifacts = artifacts
	})
	if err != nil {
		w.logger.Warn("guide export failed", zap.String("export_id", id), zap.Error(err))
		return
	}
	w.logger.Info("guide export completed", zap.String("export_id", id), zap.Int("artifacts", len(artifacts)), zap.Duration("duration", dur))
}

// safeRender reports a renderer panic as an export error.
func (w *Worker) safeRender(record ExportRecord) (artifacts []Artifact, err error) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("guide export panicked", zap.String("export_id", record.ID), zap.Any("panic", r), zap.Stack("stack"))
			artifacts, err = nil, fmt.Errorf("render panicked: %v", r)
		}
	}()
	return w.render(record)
}

func (w *Worker) render(record ExportRecord) ([]Artifact, error) {
	g, err := guide.Build(record.Selections, record.CreatedAt)
	if err != nil {
		return nil, err
	}
	out := make([]Artifact, 0, len(record.Formats))
	for _, format := range record.Formats {
		var buf bytes.Buffer
		if err := w.renderer(&buf, format, g); err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		key := keyPrefix + record.ID + "/" + format.FileName()
		obj, err := w.store.Put(w.ctx, key, &buf, blob.PutOptions{
			ContentType: format.ContentType(),
			Metadata:    map[string]string{"export-id": record.ID, "format": string(format)},
		})
		if err != nil {
			return nil, fmt.Errorf("store %s: %w", format, err)
		}
		artifact := Artifact{
			Key:         obj.Key,
			Format:      format,
			FileName:    format.FileName(),
			ContentType: format.ContentType(),
			SizeBytes:   obj.Size,
			Checksum:    obj.Checksum,
			CreatedAt:   obj.StoredAt,
		}
		url, err := w.store.URL(w.ctx, obj.Key, defaultURLTTL)
		switch {
		case err == nil:
			artifact.URL = url
		case !errors.Is(err, blob.ErrUnsupported):
			return nil, fmt.Errorf("link %s: %w", format, err)
		}
		out = append(out, artifact)
	}
	return out, nil
}

func (w *Worker) update(id string, fn func(*ExportRecord)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if record, ok := w.jobs[id]; ok {
		fn(record)
		record.UpdatedAt = w.now().UTC()
	}
}

func (w *Worker) record(ctx context.Context, op, id string, err error, dur time.Duration) {
	if w.audit == nil {
		return
	}
	entry := core.AuditEntry{
		ID:         uuid.NewString(),
		Operation:  op,
		Status:     core.AuditStatusSuccess,
		EntityID:   id,
		Duration:   dur,
		RecordedAt: w.now().UTC(),
	}
	if err != nil {
		entry.Status = core.AuditStatusError
		entry.Error = err.Error()
	}
	w.audit.Record(ctx, entry)
}

func (r ExportRecord) copy() ExportRecord {
	dup := r
	dup.Selections = r.Selections.Clone()
	dup.Formats = append([]guide.Format(nil), r.Formats...)
	if len(r.Artifacts) > 0 {
		dup.Artifacts = append([]Artifact(nil), r.Artifacts...)
	}
	if r.CompletedAt != nil {
		at := *r.CompletedAt
		dup.CompletedAt = &at
	}
	return dup
}
