package grade

// Record is the authoritative grade for one (activity, student) pair.
// At most one exists per pair; re-grading mutates it in place.
type Record struct {
	ID         string  `json:"id"`
	ActivityID string  `json:"activity_id"`
	StudentID  string  `json:"student_id"`
	Value      float64 `json:"value"`
	GraderID   string  `json:"grader_id"`
	CreatedAt  int64   `json:"created_at"`
	UpdatedAt  int64   `json:"updated_at"`
}

// Instance exists only for rubric-graded records, one per Record. It mirrors
// the raw rubric score and pins the rubric that was used.
type Instance struct {
	ID         string  `json:"id"`
	RecordID   string  `json:"record_id"`
	ActivityID string  `json:"activity_id"`
	RawScore   float64 `json:"raw_score"`
	UpdatedAt  int64   `json:"updated_at"`
}

// StoredSelection is one persisted criterion choice for an Instance.
type StoredSelection struct {
	InstanceID  string `json:"instance_id"`
	CriterionID string `json:"criterion_id"`
	LevelID     string `json:"level_id"`
	Remark      string `json:"remark,omitempty"`
}

// Note is the at-most-one free-text feedback per Record.
type Note struct {
	RecordID  string `json:"record_id"`
	Body      string `json:"body"`
	UpdatedAt int64  `json:"updated_at"`
}

// CacheEntry is the denormalized grade mirror consumed by the wider
// reporting subsystem, keyed by (activity, student).
type CacheEntry struct {
	ActivityID string  `json:"activity_id"`
	StudentID  string  `json:"student_id"`
	Value      float64 `json:"value"`
	UpdatedAt  int64   `json:"updated_at"`
}
