package matrix

import (
	"context"
	"errors"
	"fmt"

	"github.com/coursegrid/gradematrix/internal/course"
	"github.com/coursegrid/gradematrix/internal/grade"
	"github.com/coursegrid/gradematrix/internal/rubric"
	"github.com/coursegrid/gradematrix/internal/tracking"
)

// Bucket is the percentage-range classification for a graded value.
type Bucket string

const (
	BucketExcellent Bucket = "excellent" // >= 75%
	BucketGood      Bucket = "good"      // >= 50%
	BucketFair      Bucket = "fair"      // >= 30%
	BucketPoor      Bucket = "poor"
	BucketUngraded  Bucket = "ungraded"
)

// BucketFor classifies a percentage of an already-graded value.
func BucketFor(pct float64) Bucket {
	switch {
	case pct >= 75:
		return BucketExcellent
	case pct >= 50:
		return BucketGood
	case pct >= 30:
		return BucketFair
	default:
		return BucketPoor
	}
}

// Marker is the display fallback for tracked activities without a grade.
type Marker string

const (
	MarkerDone    Marker = "done"
	MarkerPartial Marker = "partial"
	MarkerSeen    Marker = "seen"
	MarkerEmpty   Marker = ""
)

func markerForDisplayStatus(status string) Marker {
	switch status {
	case tracking.StatusCompleted, tracking.StatusPassed:
		return MarkerDone
	case tracking.StatusIncomplete, tracking.StatusFailed, tracking.StatusAttempted:
		return MarkerPartial
	case tracking.StatusBrowsed:
		return MarkerSeen
	default:
		return MarkerEmpty
	}
}

// Cell is one (student, activity) entry of the matrix. A recorded value of
// exactly 0 carries Graded=true but is bucketed as ungraded, matching the
// inherited >0 display rule.
type Cell struct {
	StudentID  string  `json:"student_id"`
	ActivityID string  `json:"activity_id"`
	Graded     bool    `json:"graded"`
	Value      float64 `json:"value,omitempty"`
	Pct        float64 `json:"pct,omitempty"`
	Bucket     Bucket  `json:"bucket"`
	Marker     Marker  `json:"marker,omitempty"`
	Attempted  bool    `json:"attempted"`
	Completed  bool    `json:"-"`
}

type StudentTotal struct {
	StudentID string  `json:"student_id"`
	Achieved  float64 `json:"achieved"`
	Max       float64 `json:"max"`
	Pct       float64 `json:"pct"`
	Bucket    Bucket  `json:"bucket"`
}

type Summary struct {
	GradedRatio    float64 `json:"graded_ratio"`
	AttemptedRatio float64 `json:"attempted_ratio"`
	AverageGrade   float64 `json:"average_grade"`
	CompletionRate float64 `json:"completion_rate"`
}

// Matrix is a pure view: recomputed on every call, never persisted.
type Matrix struct {
	CourseID   string            `json:"course_id"`
	Students   []course.Student  `json:"students"`
	Activities []course.Activity `json:"activities"`
	Methods    []grade.Method    `json:"methods"` // aligned with Activities
	Cells      [][]Cell          `json:"cells"`   // [student][activity]
	Totals     []StudentTotal    `json:"totals"`
	Summary    Summary           `json:"summary"`
}

// RecordSource is the narrow read surface the aggregator needs from the
// grade stores.
type RecordSource interface {
	GetRecord(ctx context.Context, activityID, studentID string) (grade.Record, error)
}

// StateSource folds the tracking log for one pair.
type StateSource interface {
	State(ctx context.Context, studentID, activityID string) (tracking.State, error)
}

// Aggregator combines roster, activity columns, stored grades, grading
// methods and tracking states into the reporting matrix.
type Aggregator struct {
	Roster     course.RosterProvider
	Activities course.ActivityProvider
	Rubrics    rubric.Catalog
	Records    RecordSource
	Tracking   StateSource
}

func (a *Aggregator) BuildMatrix(ctx context.Context, courseID string) (Matrix, error) {
	students, err := a.Roster.GetCourseStudents(ctx, courseID)
	if err != nil {
		return Matrix{}, fmt.Errorf("roster: %w", err)
	}
	activities, err := a.Activities.GetGradeBearingActivities(ctx, courseID)
	if err != nil {
		return Matrix{}, fmt.Errorf("activities: %w", err)
	}
	rubricIDs, err := a.Rubrics.GetRubricActivityIDs(ctx, courseID)
	if err != nil {
		return Matrix{}, fmt.Errorf("rubric registry: %w", err)
	}

	m := Matrix{
		CourseID:   courseID,
		Students:   students,
		Activities: activities,
		Methods:    make([]grade.Method, len(activities)),
		Cells:      make([][]Cell, len(students)),
		Totals:     make([]StudentTotal, len(students)),
	}
	for j, act := range activities {
		m.Methods[j] = grade.ResolveMethod(rubricIDs, act.ID)
	}

	var (
		gradedCells    int
		attemptedCells int
		gradeSum       float64
		trackedCells   int
		completedCells int
	)

	for i, st := range students {
		m.Cells[i] = make([]Cell, len(activities))
		total := StudentTotal{StudentID: st.ID, Bucket: BucketUngraded}

		for j, act := range activities {
			cell, err := a.buildCell(ctx, st, act)
			if err != nil {
				return Matrix{}, err
			}
			m.Cells[i][j] = cell

			if cell.Graded && cell.Value > 0 {
				gradedCells++
				gradeSum += cell.Value
				total.Achieved += cell.Value
				total.Max += act.MaxScore
			}
			if cell.Attempted {
				attemptedCells++
			}
			if act.Kind == course.KindTracked {
				trackedCells++
				if cell.Completed {
					completedCells++
				}
			}
		}

		if total.Max > 0 {
			total.Pct = total.Achieved / total.Max * 100
			total.Bucket = BucketFor(total.Pct)
		}
		m.Totals[i] = total
	}

	if n := len(students) * len(activities); n > 0 {
		m.Summary.GradedRatio = float64(gradedCells) / float64(n)
		m.Summary.AttemptedRatio = float64(attemptedCells) / float64(n)
	}
	if gradedCells > 0 {
		m.Summary.AverageGrade = gradeSum / float64(gradedCells)
	}
	if trackedCells > 0 {
		m.Summary.CompletionRate = float64(completedCells) / float64(trackedCells)
	}
	return m, nil
}

func (a *Aggregator) buildCell(ctx context.Context, st course.Student, act course.Activity) (Cell, error) {
	cell := Cell{StudentID: st.ID, ActivityID: act.ID, Bucket: BucketUngraded}

	rec, err := a.Records.GetRecord(ctx, act.ID, st.ID)
	switch {
	case err == nil:
		cell.Graded = true
		cell.Value = rec.Value
		cell.Attempted = true
	case errors.Is(err, grade.ErrNotFound):
		// fall through to tracking
	default:
		return Cell{}, fmt.Errorf("grade %s/%s: %w", act.ID, st.ID, err)
	}

	if cell.Graded && rec.Value > 0 {
		if act.MaxScore > 0 {
			cell.Pct = rec.Value / act.MaxScore * 100
		}
		cell.Bucket = BucketFor(cell.Pct)
	}

	if act.Kind != course.KindTracked {
		return cell, nil
	}

	state, err := a.Tracking.State(ctx, st.ID, act.ID)
	if err != nil {
		return Cell{}, fmt.Errorf("tracking %s/%s: %w", act.ID, st.ID, err)
	}
	if state.HasAttempted {
		cell.Attempted = true
	}
	cell.Completed = state.Completion == tracking.StatusCompleted
	if !(cell.Graded && rec.Value > 0) {
		cell.Marker = markerForDisplayStatus(state.DisplayStatus())
	}
	return cell, nil
}
