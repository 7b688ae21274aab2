package course

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// RosterProvider yields the student-role roster for a course, staff excluded.
type RosterProvider interface {
	GetCourseStudents(ctx context.Context, courseID string) ([]Student, error)
}

// ActivityProvider yields the ordered grade-bearing activities for a course,
// category/aggregate totals excluded.
type ActivityProvider interface {
	GetGradeBearingActivities(ctx context.Context, courseID string) ([]Activity, error)
}

// Lookup resolves single entities by id.
type Lookup interface {
	GetActivity(ctx context.Context, activityID string) (Activity, error)
	GetStudent(ctx context.Context, studentID string) (Student, error)
}
