package tracking

import (
	"math/rand"
	"testing"
)

func ev(element, value string, at int64) Event {
	return Event{StudentID: "s1", ActivityID: "a1", Element: element, Value: value, At: at}
}

func TestCompactEmpty(t *testing.T) {
	st := Compact(nil)
	if st.HasAttempted {
		t.Fatalf("empty log must not count as attempted")
	}
	if st.Status != StatusNotAttempted || st.TotalTime != "00:00:00" ||
		st.SessionTime != "00:00:00" || st.Entry != "ab-initio" {
		t.Fatalf("bad defaults: %+v", st)
	}
	if st.DisplayStatus() != StatusNotAttempted {
		t.Fatalf("display status = %q", st.DisplayStatus())
	}
}

func TestCompactMostRecentWinsPerElement(t *testing.T) {
	events := []Event{
		ev(ElemStatus, "incomplete", 10),
		ev(ElemStatus, "completed", 30),
		ev(ElemCompletion, "browsed", 20),
	}
	// Order-independence: every permutation folds to the same state.
	for i := 0; i < 20; i++ {
		shuffled := append([]Event(nil), events...)
		rand.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		st := Compact(shuffled)
		if st.Status != "completed" {
			t.Fatalf("status = %q, want completed (perm %d)", st.Status, i)
		}
		// The newer status event must not displace the completion element.
		if st.Completion != "browsed" {
			t.Fatalf("completion = %q, want browsed (perm %d)", st.Completion, i)
		}
		if st.LastAccessed != 30 {
			t.Fatalf("last accessed = %d, want 30", st.LastAccessed)
		}
	}
}

func TestCompactCompletionDerivedFromStatus(t *testing.T) {
	cases := []struct {
		status, want string
	}{
		{"completed", "completed"},
		{"passed", "completed"},
		{"incomplete", "incomplete"},
		{"failed", "incomplete"},
		{"browsed", "browsed"},
		{"something_else", ""},
	}
	for _, c := range cases {
		st := Compact([]Event{ev(ElemStatus, c.status, 1)})
		if st.Completion != c.want {
			t.Errorf("status %q: completion = %q, want %q", c.status, st.Completion, c.want)
		}
	}
}

func TestCompactAttemptedButUnclassified(t *testing.T) {
	// A lone score event proves the student opened the activity.
	st := Compact([]Event{ev(ElemScore, "40", 5)})
	if !st.HasAttempted {
		t.Fatalf("expected hasAttempted")
	}
	if st.Score != "40" {
		t.Fatalf("score = %q", st.Score)
	}
	if st.Status != StatusNotAttempted {
		t.Fatalf("status = %q, want %q", st.Status, StatusNotAttempted)
	}
	if got := st.DisplayStatus(); got != StatusAttempted {
		t.Fatalf("display status = %q, want %q", got, StatusAttempted)
	}
}

func TestCompactIndependentElements(t *testing.T) {
	st := Compact([]Event{
		ev(ElemTotalTime, "01:30:00", 4),
		ev(ElemSessionTime, "00:10:00", 9),
		ev(ElemEntry, "resume", 9),
		ev(ElemExit, "suspend", 9),
		ev(ElemTotalTime, "02:00:00", 12),
	})
	if st.TotalTime != "02:00:00" {
		t.Fatalf("total time = %q", st.TotalTime)
	}
	if st.SessionTime != "00:10:00" || st.Entry != "resume" || st.Exit != "suspend" {
		t.Fatalf("unexpected state: %+v", st)
	}
	if st.LastAccessed != 12 {
		t.Fatalf("last accessed = %d", st.LastAccessed)
	}
}
