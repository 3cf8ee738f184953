package errors

import (
	"fmt"
	"strings"
)

// DuplicateTaskError is returned when a task identifier is declared twice.
type DuplicateTaskError struct {
	ID        string
	Line      int // line of the redefinition (0 if unknown)
	FirstLine int // line of the original definition (0 if unknown)
}

func (e *DuplicateTaskError) Error() string {
	if e.Line > 0 && e.FirstLine > 0 {
		return fmt.Sprintf("task %q redefined on line %d (first defined on line %d)", e.ID, e.Line, e.FirstLine)
	}
	return fmt.Sprintf("task %q defined more than once", e.ID)
}

// Code returns ErrCodeDuplicateTask.
func (e *DuplicateTaskError) Code() Code { return ErrCodeDuplicateTask }

// InvalidWeightError is returned when a task weight is negative, not an
// integer, or large enough that the schedule would overflow.
type InvalidWeightError struct {
	ID     string
	Value  string // weight as written in the input
	Line   int
	Reason string // empty means "must be a non-negative integer"
}

func (e *InvalidWeightError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "must be a non-negative integer"
	}
	if e.Line > 0 {
		return fmt.Sprintf("task %q on line %d has invalid weight %q: %s", e.ID, e.Line, e.Value, reason)
	}
	return fmt.Sprintf("task %q has invalid weight %q: %s", e.ID, e.Value, reason)
}

// Code returns ErrCodeInvalidWeight.
func (e *InvalidWeightError) Code() Code { return ErrCodeInvalidWeight }

// UnknownPredecessorError is returned when a task references a predecessor
// that was never declared.
type UnknownPredecessorError struct {
	TaskID      string
	Predecessor string
}

func (e *UnknownPredecessorError) Error() string {
	return fmt.Sprintf("task %q depends on unknown task %q", e.TaskID, e.Predecessor)
}

// Code returns ErrCodeUnknownPredecessor.
func (e *UnknownPredecessorError) Code() Code { return ErrCodeUnknownPredecessor }

// CycleError is returned when the dependency relation is not acyclic.
// Unresolved lists every task the ordering pass could not place, sorted.
// Cycle is one concrete cycle among them, first task repeated at the end.
type CycleError struct {
	Unresolved []string
	Cycle      []string
}

func (e *CycleError) Error() string {
	msg := fmt.Sprintf("dependency cycle: %d task(s) unresolved: %s", len(e.Unresolved), strings.Join(e.Unresolved, ", "))
	if len(e.Cycle) > 0 {
		msg += fmt.Sprintf(" (cycle: %s)", strings.Join(e.Cycle, " -> "))
	}
	return msg
}

// Code returns ErrCodeCycle.
func (e *CycleError) Code() Code { return ErrCodeCycle }

// InconsistentGraphError reports an order or schedule that does not match the
// graph it was computed for. It signals misuse of the analyzer, not bad input.
type InconsistentGraphError struct {
	Reason string
}

func (e *InconsistentGraphError) Error() string {
	return "inconsistent graph: " + e.Reason
}

// Code returns ErrCodeInconsistentGraph.
func (e *InconsistentGraphError) Code() Code { return ErrCodeInconsistentGraph }

// Inconsistent builds an InconsistentGraphError with a formatted reason.
func Inconsistent(format string, args ...any) *InconsistentGraphError {
	return &InconsistentGraphError{Reason: fmt.Sprintf(format, args...)}
}
