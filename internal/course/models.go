package course

// ActivityKind describes where an activity's grade data comes from.
type ActivityKind string

const (
	KindStandard ActivityKind = "standard" // manually graded
	KindRubric   ActivityKind = "rubric"   // rubric-graded
	KindTracked  ActivityKind = "tracked"  // completion-package, event stream
)

type Student struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Activity is a gradable unit in a course. Read-only for this engine.
type Activity struct {
	ID       string       `json:"id"`
	CourseID string       `json:"course_id"`
	Title    string       `json:"title"`
	Kind     ActivityKind `json:"kind"`
	MaxScore float64      `json:"max_score"`
	Position int          `json:"position,omitempty"`
}
