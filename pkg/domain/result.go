package domain

import (
	"fmt"
	"strings"
)

// Severity captures rule outcomes.
type Severity string

const (
	// SeverityBlock prevents the wizard from advancing.
	SeverityBlock Severity = "block"
	// SeverityWarn surfaces a warning but allows advancing.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Violation reports a rule finding. Log-level findings carry positive feedback.
type Violation struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Title    string   `json:"title,omitempty"`
	Message  string   `json:"message"`
	Field    Field    `json:"field,omitempty"`
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation `json:"violations,omitempty"`
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	return r.has(SeverityBlock)
}

// HasWarnings reports whether any warn-level finding is present.
func (r Result) HasWarnings() bool {
	return r.has(SeverityWarn)
}

func (r Result) has(sev Severity) bool {
	for _, v := range r.Violations {
		if v.Severity == sev {
			return true
		}
	}
	return false
}

// Worst returns the most severe finding, preferring earlier entries on ties.
func (r Result) Worst() (Violation, bool) {
	rank := map[Severity]int{SeverityLog: 1, SeverityWarn: 2, SeverityBlock: 3}
	var (
		best  Violation
		found bool
	)
	for _, v := range r.Violations {
		if !found || rank[v.Severity] > rank[best.Severity] {
			best = v
			found = true
		}
	}
	return best, found
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	var msgs []string
	for _, v := range e.Result.Violations {
		if v.Severity == SeverityBlock {
			msgs = append(msgs, fmt.Sprintf("%s: %s", v.Rule, v.Message))
		}
	}
	if len(msgs) == 0 {
		return "step blocked by rules"
	}
	return "step blocked by rules: " + strings.Join(msgs, "; ")
}
