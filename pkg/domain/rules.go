package domain

import "context"

// RuleView provides read-only access to the builder selections under evaluation.
type RuleView interface {
	Selections() Selections
	Capacity() (Capacity, bool)
}

// Rule defines an evaluation executed against a wizard snapshot.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, view RuleView) (Result, error)
}

// RulesEngine orchestrates rule evaluation.
type RulesEngine struct {
	rules []Rule
}

// NewRulesEngine constructs an engine instance.
func NewRulesEngine() *RulesEngine {
	return &RulesEngine{}
}

// Register appends a rule to the engine.
func (e *RulesEngine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Rules returns the registered rule names in registration order.
func (e *RulesEngine) Rules() []string {
	names := make([]string, 0, len(e.rules))
	for _, r := range e.rules {
		names = append(names, r.Name())
	}
	return names
}

// Evaluate executes all registered rules and aggregates their results.
func (e *RulesEngine) Evaluate(ctx context.Context, view RuleView) (Result, error) {
	var combined Result
	for _, rule := range e.rules {
		res, err := rule.Evaluate(ctx, view)
		if err != nil {
			return Result{}, err
		}
		combined.Merge(res)
	}
	return combined, nil
}

// SelectionView adapts a Selections value to RuleView.
type SelectionView struct {
	sel Selections
}

// NewSelectionView snapshots the selections for rule evaluation.
func NewSelectionView(sel Selections) SelectionView {
	return SelectionView{sel: sel.Clone()}
}

// Selections returns a copy of the snapshot.
func (v SelectionView) Selections() Selections { return v.sel.Clone() }

// Capacity resolves the capacity entry of the selected tent.
func (v SelectionView) Capacity() (Capacity, bool) { return TentCapacity(v.sel.TentSize) }
