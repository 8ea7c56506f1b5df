package wizard

import (
	"context"
	"errors"
	"fmt"

	"growcore/pkg/domain"
)

// Machine applies the schema to states. It holds no per-visitor data.
type Machine struct {
	schema []StepDef
	rules  Evaluator
}

// NewMachine builds a machine over the default schema.
func NewMachine(rules Evaluator) *Machine {
	return NewMachineWithSchema(DefaultSchema(), rules)
}

// NewMachineWithSchema builds a machine over a custom schema.
func NewMachineWithSchema(schema []StepDef, rules Evaluator) *Machine {
	return &Machine{schema: append([]StepDef(nil), schema...), rules: rules}
}

// Schema returns the step definitions in order.
func (m *Machine) Schema() []StepDef {
	return append([]StepDef(nil), m.schema...)
}

// Len reports the number of steps.
func (m *Machine) Len() int { return len(m.schema) }

func (m *Machine) step(n int) (StepDef, error) {
	if n < 1 || n > len(m.schema) {
		return StepDef{}, fmt.Errorf("%w: %d", domain.ErrUnknownStep, n)
	}
	return m.schema[n-1], nil
}

// Complete reports whether the current step's required fields are set.
func (m *Machine) Complete(st State) (bool, error) {
	def, err := m.step(st.Step)
	if err != nil {
		return false, err
	}
	return len(def.Missing(st.Selections)) == 0, nil
}

// Check runs the current step's validator without moving.
func (m *Machine) Check(ctx context.Context, st State) (Transition, error) {
	def, err := m.step(st.Step)
	if err != nil {
		return Transition{}, err
	}
	out := Transition{State: cloneState(st), Description: StepDescription(st.Selections.Experience, st.Step)}
	if def.Validate == nil {
		return out, nil
	}
	res, err := def.Validate(ctx, m.rules, st.Selections.Clone())
	if err != nil {
		return Transition{}, err
	}
	out.Message = messageFor(res)
	if res.HasBlocking() {
		return out, domain.RuleViolationError{Result: res}
	}
	return out, nil
}

// Next advances one step when the current step is complete and its
// validator does not block. The returned state is a new value; st is never
// modified.
func (m *Machine) Next(ctx context.Context, st State) (Transition, error) {
	def, err := m.step(st.Step)
	if err != nil {
		return Transition{}, err
	}
	if st.Step >= len(m.schema) {
		return Transition{State: cloneState(st)}, domain.ErrAtReviewStep
	}
	if missing := def.Missing(st.Selections); len(missing) > 0 {
		return Transition{State: cloneState(st)}, domain.StepIncompleteError{Step: st.Step, Missing: missing}
	}
	checked, err := m.Check(ctx, st)
	if err != nil {
		return checked, err
	}

	next := cloneState(st)
	next.Step++
	if enter := m.schema[next.Step-1].OnEnter; enter != nil {
		next.Selections = enter(next.Selections.Clone())
	}
	out := Transition{
		State:       next,
		Description: StepDescription(next.Selections.Experience, next.Step),
		Message:     checked.Message,
	}
	if next.Step == len(m.schema) {
		// A schema without tent or medium steps cannot price the build.
		if review, err := BuildReview(next.Selections); err == nil {
			out.Review = &review
		}
	}
	return out, nil
}

// Back moves one step toward the start. Selections are kept.
func (m *Machine) Back(st State) (Transition, error) {
	if _, err := m.step(st.Step); err != nil {
		return Transition{}, err
	}
	if st.Step <= 1 {
		return Transition{State: cloneState(st)}, domain.ErrAtFirstStep
	}
	prev := cloneState(st)
	prev.Step--
	return Transition{State: prev, Description: StepDescription(prev.Selections.Experience, prev.Step)}, nil
}

// Select assigns a field and applies the experience-driven side effects:
// detail defaults, product filtering, prompts and tips. Changing the plant
// count re-runs the current step's validator so feedback is live.
func (m *Machine) Select(ctx context.Context, st State, field domain.Field, value string) (Transition, error) {
	if _, err := m.step(st.Step); err != nil {
		return Transition{}, err
	}
	next := cloneState(st)
	if err := next.Selections.Set(field, value); err != nil {
		return Transition{State: cloneState(st)}, err
	}
	sel, notices := applySelectionEffects(next.Selections, field)
	next.Selections = sel

	out := Transition{
		State:       next,
		Description: StepDescription(sel.Experience, next.Step),
		Notices:     notices,
	}
	if field == domain.FieldPlantCount && sel.PlantCount > 0 {
		checked, err := m.Check(ctx, next)
		out.Message = checked.Message
		var blocked domain.RuleViolationError
		if err != nil && !errors.As(err, &blocked) {
			return Transition{}, err
		}
	}
	return out, nil
}

// messageFor turns the most severe finding into display feedback. A blocking
// finding against the field being edited is an error; one that points at an
// earlier field reads as a warning.
func messageFor(res domain.Result) *Message {
	v, ok := res.Worst()
	if !ok {
		return nil
	}
	msg := &Message{Title: v.Title, Text: v.Message}
	switch v.Severity {
	case domain.SeverityBlock:
		msg.Blocking = true
		msg.Kind = KindError
		if v.Field != "" && v.Field != domain.FieldPlantCount {
			msg.Kind = KindWarning
		}
	case domain.SeverityWarn:
		msg.Kind = KindWarning
	default:
		msg.Kind = KindSuccess
	}
	return msg
}

func cloneState(st State) State {
	return State{Step: st.Step, Selections: st.Selections.Clone()}
}
