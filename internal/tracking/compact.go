package tracking

// Compact folds an unordered event log for one (student, activity) pair into
// its canonical state. The rule is strict most-recent-wins per element: an
// event only displaces the retained value of its own element, and only when
// its timestamp is strictly later. The result is independent of input order.
func Compact(events []Event) State {
	st := State{
		Status:      StatusNotAttempted,
		TotalTime:   "00:00:00",
		SessionTime: "00:00:00",
		Entry:       "ab-initio",
	}
	if len(events) == 0 {
		return st
	}
	st.HasAttempted = true

	latest := make(map[string]Event, len(events))
	for _, e := range events {
		if cur, ok := latest[e.Element]; !ok || e.At > cur.At {
			latest[e.Element] = e
		}
		if e.At > st.LastAccessed {
			st.LastAccessed = e.At
		}
	}

	if e, ok := latest[ElemStatus]; ok {
		st.Status = e.Value
	}
	if e, ok := latest[ElemCompletion]; ok {
		st.Completion = e.Value
	} else {
		st.Completion = completionFromStatus(st.Status)
	}
	if e, ok := latest[ElemScore]; ok {
		st.Score = e.Value
	}
	if e, ok := latest[ElemTotalTime]; ok {
		st.TotalTime = e.Value
	}
	if e, ok := latest[ElemSessionTime]; ok {
		st.SessionTime = e.Value
	}
	if e, ok := latest[ElemEntry]; ok {
		st.Entry = e.Value
	}
	if e, ok := latest[ElemExit]; ok {
		st.Exit = e.Value
	}
	return st
}

// completionFromStatus derives completion when the log never carried a
// completion element. Unknown statuses stay unresolved (empty).
func completionFromStatus(status string) string {
	switch status {
	case StatusCompleted, StatusPassed:
		return StatusCompleted
	case StatusIncomplete, StatusFailed:
		return StatusIncomplete
	case StatusBrowsed:
		return StatusBrowsed
	default:
		return ""
	}
}
