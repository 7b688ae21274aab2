package matrix_test

import (
	"context"
	"math"
	"testing"

	"github.com/coursegrid/gradematrix/internal/course"
	"github.com/coursegrid/gradematrix/internal/grade"
	"github.com/coursegrid/gradematrix/internal/matrix"
	"github.com/coursegrid/gradematrix/internal/rubric"
	"github.com/coursegrid/gradematrix/internal/tracking"
)

/* ---------------- fakes ---------------- */

type fakeCourse struct {
	students   []course.Student
	activities []course.Activity
}

func (f *fakeCourse) GetCourseStudents(_ context.Context, _ string) ([]course.Student, error) {
	return f.students, nil
}

func (f *fakeCourse) GetGradeBearingActivities(_ context.Context, _ string) ([]course.Activity, error) {
	return f.activities, nil
}

type fakeCatalog struct {
	rubricIDs map[string]struct{}
}

func (f *fakeCatalog) GetDefinition(_ context.Context, _ string) (rubric.Definition, error) {
	return rubric.Definition{}, rubric.ErrNotFound
}

func (f *fakeCatalog) GetRubricActivityIDs(_ context.Context, _ string) (map[string]struct{}, error) {
	return f.rubricIDs, nil
}

type fakeRecords struct {
	records map[string]grade.Record // key: activity|student
}

func (f *fakeRecords) GetRecord(_ context.Context, activityID, studentID string) (grade.Record, error) {
	r, ok := f.records[activityID+"|"+studentID]
	if !ok {
		return grade.Record{}, grade.ErrNotFound
	}
	return r, nil
}

type fakeStates struct {
	states map[string]tracking.State // key: student|activity
}

func (f *fakeStates) State(_ context.Context, studentID, activityID string) (tracking.State, error) {
	return f.states[studentID+"|"+activityID], nil
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

/* ---------------- tests ---------------- */

func TestBucketBoundaries(t *testing.T) {
	cases := []struct {
		pct  float64
		want matrix.Bucket
	}{
		{75.0, matrix.BucketExcellent},
		{74.99, matrix.BucketGood},
		{50.0, matrix.BucketGood},
		{49.99, matrix.BucketFair},
		{30.0, matrix.BucketFair},
		{29.99, matrix.BucketPoor},
	}
	for _, c := range cases {
		if got := matrix.BucketFor(c.pct); got != c.want {
			t.Errorf("BucketFor(%v) = %q, want %q", c.pct, got, c.want)
		}
	}
}

// One student, three activities: A graded 8/10, B ungraded, C recorded as
// exactly 0 out of 5. C must stay out of both numerator and denominator.
func TestBuildMatrixTotalExclusion(t *testing.T) {
	agg := &matrix.Aggregator{
		Roster: &fakeCourse{students: []course.Student{{ID: "s1", Name: "Mira"}}},
		Activities: &fakeCourse{activities: []course.Activity{
			{ID: "A", CourseID: "c", Kind: course.KindStandard, MaxScore: 10},
			{ID: "B", CourseID: "c", Kind: course.KindStandard, MaxScore: 10},
			{ID: "C", CourseID: "c", Kind: course.KindStandard, MaxScore: 5},
		}},
		Rubrics: &fakeCatalog{},
		Records: &fakeRecords{records: map[string]grade.Record{
			"A|s1": {ID: "r1", ActivityID: "A", StudentID: "s1", Value: 8},
			"C|s1": {ID: "r2", ActivityID: "C", StudentID: "s1", Value: 0},
		}},
		Tracking: &fakeStates{},
	}

	m, err := agg.BuildMatrix(context.Background(), "c")
	if err != nil {
		t.Fatalf("BuildMatrix: %v", err)
	}
	total := m.Totals[0]
	if !approx(total.Achieved, 8) || !approx(total.Max, 10) {
		t.Fatalf("total = %+v, want achieved 8 / max 10", total)
	}
	if !approx(total.Pct, 80) || total.Bucket != matrix.BucketExcellent {
		t.Fatalf("pct = %v bucket = %q, want 80 / excellent", total.Pct, total.Bucket)
	}

	// Zero-valued cell displays as ungraded even though a record exists.
	cellC := m.Cells[0][2]
	if !cellC.Graded {
		t.Fatalf("cell C should carry the graded flag")
	}
	if cellC.Bucket != matrix.BucketUngraded {
		t.Fatalf("cell C bucket = %q, want ungraded", cellC.Bucket)
	}
}

func TestBuildMatrixTrackedMarkers(t *testing.T) {
	states := map[string]tracking.State{
		"s1|T": {Status: "completed", Completion: "completed", HasAttempted: true},
		"s2|T": {Status: "browsed", Completion: "browsed", HasAttempted: true},
		"s3|T": {Status: "not_attempted", HasAttempted: true, Score: "40"}, // attempted-but-unclassified
		"s4|T": {Status: "not_attempted"},                                  // never opened
	}
	agg := &matrix.Aggregator{
		Roster: &fakeCourse{students: []course.Student{
			{ID: "s1"}, {ID: "s2"}, {ID: "s3"}, {ID: "s4"},
		}},
		Activities: &fakeCourse{activities: []course.Activity{
			{ID: "T", CourseID: "c", Kind: course.KindTracked, MaxScore: 100},
		}},
		Rubrics:  &fakeCatalog{},
		Records:  &fakeRecords{},
		Tracking: &fakeStates{states: states},
	}

	m, err := agg.BuildMatrix(context.Background(), "c")
	if err != nil {
		t.Fatalf("BuildMatrix: %v", err)
	}
	want := []matrix.Marker{matrix.MarkerDone, matrix.MarkerSeen, matrix.MarkerPartial, matrix.MarkerEmpty}
	for i, w := range want {
		if got := m.Cells[i][0].Marker; got != w {
			t.Errorf("student %d marker = %q, want %q", i+1, got, w)
		}
	}

	// s1 completed out of 4 tracked cells.
	if !approx(m.Summary.CompletionRate, 0.25) {
		t.Fatalf("completion rate = %v, want 0.25", m.Summary.CompletionRate)
	}
	// s1..s3 attempted, s4 did not.
	if !approx(m.Summary.AttemptedRatio, 0.75) {
		t.Fatalf("attempted ratio = %v, want 0.75", m.Summary.AttemptedRatio)
	}
}

func TestBuildMatrixPositiveGradeBeatsMarker(t *testing.T) {
	agg := &matrix.Aggregator{
		Roster: &fakeCourse{students: []course.Student{{ID: "s1"}}},
		Activities: &fakeCourse{activities: []course.Activity{
			{ID: "T", CourseID: "c", Kind: course.KindTracked, MaxScore: 100},
		}},
		Rubrics: &fakeCatalog{},
		Records: &fakeRecords{records: map[string]grade.Record{
			"T|s1": {ID: "r1", ActivityID: "T", StudentID: "s1", Value: 55},
		}},
		Tracking: &fakeStates{states: map[string]tracking.State{
			"s1|T": {Status: "incomplete", Completion: "incomplete", HasAttempted: true},
		}},
	}

	m, err := agg.BuildMatrix(context.Background(), "c")
	if err != nil {
		t.Fatalf("BuildMatrix: %v", err)
	}
	cell := m.Cells[0][0]
	if cell.Marker != matrix.MarkerEmpty {
		t.Fatalf("marker = %q, want empty when a positive grade exists", cell.Marker)
	}
	if cell.Bucket != matrix.BucketGood {
		t.Fatalf("bucket = %q, want good (55%%)", cell.Bucket)
	}
}

func TestBuildMatrixSummaryAndMethods(t *testing.T) {
	agg := &matrix.Aggregator{
		Roster: &fakeCourse{students: []course.Student{{ID: "s1"}, {ID: "s2"}}},
		Activities: &fakeCourse{activities: []course.Activity{
			{ID: "essay", CourseID: "c", Kind: course.KindRubric, MaxScore: 20},
			{ID: "quiz", CourseID: "c", Kind: course.KindStandard, MaxScore: 10},
		}},
		Rubrics: &fakeCatalog{rubricIDs: map[string]struct{}{"essay": {}}},
		Records: &fakeRecords{records: map[string]grade.Record{
			"essay|s1": {ID: "r1", ActivityID: "essay", StudentID: "s1", Value: 15},
			"quiz|s1":  {ID: "r2", ActivityID: "quiz", StudentID: "s1", Value: 9},
			"quiz|s2":  {ID: "r3", ActivityID: "quiz", StudentID: "s2", Value: 2},
		}},
		Tracking: &fakeStates{},
	}

	m, err := agg.BuildMatrix(context.Background(), "c")
	if err != nil {
		t.Fatalf("BuildMatrix: %v", err)
	}
	if m.Methods[0] != grade.MethodRubric || m.Methods[1] != grade.MethodStandard {
		t.Fatalf("methods = %v", m.Methods)
	}
	if !approx(m.Summary.GradedRatio, 0.75) {
		t.Fatalf("graded ratio = %v, want 0.75", m.Summary.GradedRatio)
	}
	if !approx(m.Summary.AverageGrade, (15+9+2)/3.0) {
		t.Fatalf("average = %v", m.Summary.AverageGrade)
	}
	// 2 graded cells for s1: (15+9)/(20+10)=80%
	if !approx(m.Totals[0].Pct, 80) || m.Totals[0].Bucket != matrix.BucketExcellent {
		t.Fatalf("s1 total = %+v", m.Totals[0])
	}
	// s2: 2/10 = 20% -> poor
	if !approx(m.Totals[1].Pct, 20) || m.Totals[1].Bucket != matrix.BucketPoor {
		t.Fatalf("s2 total = %+v", m.Totals[1])
	}
}

func TestBuildMatrixEmptyCourse(t *testing.T) {
	agg := &matrix.Aggregator{
		Roster:     &fakeCourse{},
		Activities: &fakeCourse{},
		Rubrics:    &fakeCatalog{},
		Records:    &fakeRecords{},
		Tracking:   &fakeStates{},
	}
	m, err := agg.BuildMatrix(context.Background(), "empty")
	if err != nil {
		t.Fatalf("BuildMatrix: %v", err)
	}
	if m.Summary != (matrix.Summary{}) {
		t.Fatalf("summary = %+v, want zeroes", m.Summary)
	}
}
