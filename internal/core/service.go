package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"growcore/internal/guide"
	"growcore/internal/infra/persistence/memory"
	"growcore/internal/journal"
	"growcore/internal/kv"
	"growcore/internal/tracker"
	"growcore/internal/wizard"
	"growcore/pkg/domain"
)

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsRecorder sets the metrics sink.
func WithMetricsRecorder(rec MetricsRecorder) ServiceOption {
	return func(s *Service) {
		if rec != nil {
			s.metrics = rec
		}
	}
}

// WithTracer sets the tracer.
func WithTracer(tracer Tracer) ServiceOption {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithAuditRecorder sets the audit sink.
func WithAuditRecorder(rec AuditRecorder) ServiceOption {
	return func(s *Service) {
		if rec != nil {
			s.audit = rec
		}
	}
}

// WithRulesEngine replaces the default rules engine.
func WithRulesEngine(engine *RulesEngine) ServiceOption {
	return func(s *Service) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithClock overrides the time source for stamps and due calculations.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service ties the wizard, journals and tracker to one store and wraps every
// operation with tracing, metrics, audit and logging.
type Service struct {
	store    KVStore
	engine   *RulesEngine
	wizard   *wizard.Machine
	journals map[journal.Layout]*journal.Journal
	tracker  *tracker.Tracker

	logger  *zap.Logger
	metrics MetricsRecorder
	tracer  Tracer
	audit   AuditRecorder
	now     func() time.Time
}

// NewService constructs a service backed by store.
func NewService(store KVStore, opts ...ServiceOption) *Service {
	s := &Service{
		store:   store,
		engine:  NewDefaultRulesEngine(),
		logger:  zap.NewNop(),
		metrics: noopMetrics{},
		tracer:  noopTracer{},
		audit:   noopAudit{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	adapter := kv.New(store, s.logger.Named("kv"))
	s.wizard = wizard.NewMachine(s.engine)
	s.journals = map[journal.Layout]*journal.Journal{
		journal.LayoutClassic:  journal.New(adapter, journal.LayoutClassic, journal.WithClock(s.now)),
		journal.LayoutRedesign: journal.New(adapter, journal.LayoutRedesign, journal.WithClock(s.now)),
	}
	s.tracker = tracker.New(adapter, tracker.WithClock(s.now))
	return s
}

// NewInMemoryService creates a service over a fresh in-memory store.
func NewInMemoryService(opts ...ServiceOption) *Service {
	return NewService(memory.NewStore(), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() KVStore { return s.store }

// Engine returns the rules engine used for wizard validation.
func (s *Service) Engine() *RulesEngine { return s.engine }

// Wizard returns the step machine.
func (s *Service) Wizard() *wizard.Machine { return s.wizard }

// Logger returns the service logger.
func (s *Service) Logger() *zap.Logger { return s.logger }

// Now returns the service clock reading.
func (s *Service) Now() time.Time { return s.now() }

func (s *Service) run(ctx context.Context, op, entityID string, fn func(context.Context) error) error {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, op)
	err := fn(ctx)
	span.End(err)
	dur := time.Since(start)
	s.metrics.Observe(ctx, op, err == nil, dur)

	entry := AuditEntry{
		ID:         uuid.NewString(),
		Operation:  op,
		Status:     AuditStatusSuccess,
		EntityID:   entityID,
		Duration:   dur,
		RecordedAt: s.now().UTC(),
	}
	fields := []zap.Field{zap.String("operation", op), zap.Duration("duration", dur)}
	if entityID != "" {
		fields = append(fields, zap.String("entity_id", entityID))
	}
	if err != nil {
		entry.Status = AuditStatusError
		entry.Error = err.Error()
		s.logger.Info("operation failed", append(fields, zap.Error(err))...)
	} else {
		s.logger.Debug("operation completed", fields...)
	}
	s.audit.Record(ctx, entry)
	return err
}

// WizardNext advances the wizard.
func (s *Service) WizardNext(ctx context.Context, st wizard.State) (wizard.Transition, error) {
	var out wizard.Transition
	err := s.run(ctx, "wizard_next", "", func(ctx context.Context) error {
		var err error
		out, err = s.wizard.Next(ctx, st)
		return err
	})
	return out, err
}

// WizardBack steps the wizard back.
func (s *Service) WizardBack(ctx context.Context, st wizard.State) (wizard.Transition, error) {
	var out wizard.Transition
	err := s.run(ctx, "wizard_back", "", func(context.Context) error {
		var err error
		out, err = s.wizard.Back(st)
		return err
	})
	return out, err
}

// WizardSelect applies one field change.
func (s *Service) WizardSelect(ctx context.Context, st wizard.State, field domain.Field, value string) (wizard.Transition, error) {
	var out wizard.Transition
	err := s.run(ctx, "wizard_select", string(field), func(ctx context.Context) error {
		var err error
		out, err = s.wizard.Select(ctx, st, field, value)
		return err
	})
	return out, err
}

// Review computes summary rows and the budget for selections.
func (s *Service) Review(ctx context.Context, sel domain.Selections) (wizard.Review, error) {
	var out wizard.Review
	err := s.run(ctx, "wizard_review", "", func(context.Context) error {
		var err error
		out, err = wizard.BuildReview(sel)
		return err
	})
	return out, err
}

// Budget itemises the equipment estimate for selections.
func (s *Service) Budget(ctx context.Context, sel domain.Selections) (wizard.Budget, []wizard.BudgetLine, error) {
	var (
		total wizard.Budget
		lines []wizard.BudgetLine
	)
	err := s.run(ctx, "wizard_budget", "", func(context.Context) error {
		var err error
		if lines, err = wizard.Itemize(sel); err != nil {
			return err
		}
		total, err = wizard.EstimateBudget(sel)
		return err
	})
	return total, lines, err
}

// Guide assembles the grow guide content dated at the service clock.
func (s *Service) Guide(ctx context.Context, sel domain.Selections) (guide.Guide, error) {
	var out guide.Guide
	err := s.run(ctx, "build_guide", "", func(context.Context) error {
		var err error
		out, err = guide.Build(sel, s.now())
		return err
	})
	return out, err
}

func (s *Service) journal(layout journal.Layout) (*journal.Journal, error) {
	j, ok := s.journals[layout]
	if !ok {
		return nil, domain.ErrNotFound{Kind: "journal", ID: string(layout)}
	}
	return j, nil
}

// Conditions loads a journal's conditions record; nil when none is stored.
func (s *Service) Conditions(ctx context.Context, layout journal.Layout) (*domain.Conditions, error) {
	var out *domain.Conditions
	err := s.run(ctx, "load_conditions", string(layout), func(ctx context.Context) error {
		j, err := s.journal(layout)
		if err != nil {
			return err
		}
		out = j.Conditions(ctx)
		return nil
	})
	return out, err
}

// SaveConditions overwrites a journal's conditions record.
func (s *Service) SaveConditions(ctx context.Context, layout journal.Layout, c domain.Conditions) (bool, error) {
	var saved bool
	err := s.run(ctx, "save_conditions", string(layout), func(ctx context.Context) error {
		j, err := s.journal(layout)
		if err != nil {
			return err
		}
		saved = j.SaveConditions(ctx, c)
		return nil
	})
	return saved, err
}

// Notes lists a journal's notes, most recent first.
func (s *Service) Notes(ctx context.Context, layout journal.Layout) ([]domain.Note, error) {
	var out []domain.Note
	err := s.run(ctx, "list_notes", string(layout), func(ctx context.Context) error {
		j, err := s.journal(layout)
		if err != nil {
			return err
		}
		out = j.Notes(ctx)
		return nil
	})
	return out, err
}

// AddNote prepends a dated note.
func (s *Service) AddNote(ctx context.Context, layout journal.Layout, text string) ([]domain.Note, bool, error) {
	var (
		out   []domain.Note
		saved bool
	)
	err := s.run(ctx, "add_note", string(layout), func(ctx context.Context) error {
		j, err := s.journal(layout)
		if err != nil {
			return err
		}
		out, saved = j.AddNote(ctx, text)
		return nil
	})
	return out, saved, err
}

// RecordAction logs a care action for a plant.
func (s *Service) RecordAction(ctx context.Context, plantID string, action tracker.Action) (tracker.Receipt, error) {
	var out tracker.Receipt
	err := s.run(ctx, "record_action", plantID, func(ctx context.Context) error {
		var err error
		out, err = s.tracker.Record(ctx, plantID, action)
		if err != nil {
			return fmt.Errorf("record %s: %w", action.Type, err)
		}
		return nil
	})
	return out, err
}

// Timeline lists a plant's log entries filtered by type.
func (s *Service) Timeline(ctx context.Context, plantID, filter string) ([]tracker.TimelineEntry, error) {
	var out []tracker.TimelineEntry
	err := s.run(ctx, "plant_timeline", plantID, func(ctx context.Context) error {
		var err error
		out, err = s.tracker.Timeline(ctx, plantID, filter)
		return err
	})
	return out, err
}

// DueTasks lists plants due for watering or feeding.
func (s *Service) DueTasks(ctx context.Context) (tracker.Due, error) {
	var out tracker.Due
	err := s.run(ctx, "due_tasks", "", func(ctx context.Context) error {
		out = s.tracker.DueTasks(ctx)
		return nil
	})
	return out, err
}
