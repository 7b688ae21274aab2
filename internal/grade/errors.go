package grade

import (
	"errors"
	"fmt"
)

// ErrNotFound is the store-level miss sentinel.
var ErrNotFound = errors.New("not found")

// Step names one of the dependent writes SubmitGrade performs, in order.
type Step string

const (
	StepRecord     Step = "grade_record"
	StepInstance   Step = "grading_instance"
	StepSelections Step = "criterion_selections"
	StepFeedback   Step = "feedback_note"
	StepCache      Step = "grade_cache"
)

// ValidationError aborts a submission before any write happens.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation: " + e.Reason }

// NotFoundError reports an unresolvable activity, student or rubric.
type NotFoundError struct {
	Kind string // "activity", "student", "rubric"
	ID   string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %q not found", e.Kind, e.ID) }

// PersistenceError reports a failed write together with the steps known to
// have succeeded before it, so the caller can retry the remainder or alert an
// operator. Stores that run the sequence in one transaction roll the
// completed steps back; stores without transactions leave them committed.
type PersistenceError struct {
	Step      Step
	Completed []Step
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s (completed: %v): %v", e.Step, e.Completed, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
