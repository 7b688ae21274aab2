package tracking

// Element names in the tracking vocabulary. Values outside this set are
// carried through the log untouched but ignored by Compact.
const (
	ElemStatus      = "status"
	ElemCompletion  = "completion"
	ElemTotalTime   = "total_time"
	ElemSessionTime = "session_time"
	ElemExit        = "exit"
	ElemEntry       = "entry"
	ElemScore       = "score"
)

// Status values.
const (
	StatusNotAttempted = "not_attempted"
	StatusAttempted    = "attempted"
	StatusCompleted    = "completed"
	StatusPassed       = "passed"
	StatusIncomplete   = "incomplete"
	StatusFailed       = "failed"
	StatusBrowsed      = "browsed"
)

// Event is one immutable tracking log entry for a (student, activity) pair.
type Event struct {
	StudentID  string `json:"student_id"`
	ActivityID string `json:"activity_id"`
	Element    string `json:"element"`
	Value      string `json:"value"`
	At         int64  `json:"at"` // unix seconds
}

// State is the compacted snapshot derived from the event log. It is never
// persisted; callers recompute it per request.
type State struct {
	Status       string `json:"status"`
	Completion   string `json:"completion,omitempty"` // empty when unresolved
	Score        string `json:"score,omitempty"`
	TotalTime    string `json:"total_time"`
	SessionTime  string `json:"session_time"`
	Entry        string `json:"entry"`
	Exit         string `json:"exit,omitempty"`
	HasAttempted bool   `json:"has_attempted"`
	LastAccessed int64  `json:"last_accessed,omitempty"`
}

// DisplayStatus is the status surfaced to reporting. An attempted pair whose
// status and completion are both still not_attempted must not look identical
// to one that was never opened.
func (s State) DisplayStatus() string {
	if s.HasAttempted &&
		s.Status == StatusNotAttempted &&
		(s.Completion == "" || s.Completion == StatusNotAttempted) {
		return StatusAttempted
	}
	return s.Status
}
