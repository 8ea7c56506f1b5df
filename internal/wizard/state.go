// Package wizard drives the tent builder: an eight step flow whose
// transitions are pure functions over an explicit State. Step behaviour is
// declared in a schema; the engine never branches on step numbers.
package wizard

import (
	"context"

	"growcore/pkg/domain"
)

// TotalSteps is the length of the flow. The last step is the review.
const TotalSteps = 8

// ReviewStep is the step that shows the summary and budget.
const ReviewStep = TotalSteps

// State is everything the wizard knows. Callers own it and pass it back in.
type State struct {
	Step       int               `json:"step"`
	Selections domain.Selections `json:"selections"`
}

// Start returns the initial state.
func Start() State {
	return State{Step: 1}
}

// MessageKind classifies feedback for styling.
type MessageKind string

const (
	KindError   MessageKind = "error"
	KindWarning MessageKind = "warning"
	KindSuccess MessageKind = "success"
	KindInfo    MessageKind = "info"
)

// Message is feedback attached to a transition. Blocking messages must be
// acknowledged or resolved before the visitor continues.
type Message struct {
	Kind     MessageKind `json:"kind"`
	Title    string      `json:"title,omitempty"`
	Text     string      `json:"text"`
	Blocking bool        `json:"blocking,omitempty"`
}

// Review is computed when the review step is entered.
type Review struct {
	Summary []SummaryRow `json:"summary"`
	Budget  Budget       `json:"budget"`
}

// Transition is the result of a wizard operation.
type Transition struct {
	State       State     `json:"state"`
	Description string    `json:"description,omitempty"`
	Message     *Message  `json:"message,omitempty"`
	Notices     []Message `json:"notices,omitempty"`
	Review      *Review   `json:"review,omitempty"`
}

// Evaluator runs rules over a snapshot of the selections.
type Evaluator interface {
	Evaluate(ctx context.Context, view domain.RuleView) (domain.Result, error)
}
