package rubric

import (
	"math"
	"testing"
)

func twoCriterionDef() Definition {
	return Definition{
		ActivityID: "act-1",
		Criteria: []Criterion{
			{ID: "c1", Levels: []Level{
				{ID: "l0", Score: 0},
				{ID: "l1", Score: 2},
				{ID: "l2", Score: 4},
			}},
			{ID: "c2", Levels: []Level{
				{ID: "l3", Score: 1},
				{ID: "l4", Score: 6},
			}},
		},
	}
}

func TestDefinitionMaxScore(t *testing.T) {
	d := twoCriterionDef()
	if got := d.MaxScore(); got != 10 {
		t.Fatalf("max score = %v, want 10", got)
	}
}

func TestLevelScoreMembership(t *testing.T) {
	d := twoCriterionDef()
	if v, ok := d.LevelScore("c1", "l2"); !ok || v != 4 {
		t.Fatalf("LevelScore(c1,l2) = %v,%v", v, ok)
	}
	// l4 belongs to c2, not c1
	if _, ok := d.LevelScore("c1", "l4"); ok {
		t.Fatalf("expected l4 to not belong to c1")
	}
	if _, ok := d.LevelScore("missing", "l1"); ok {
		t.Fatalf("expected missing criterion to fail")
	}
}

func TestProportionalCalculator(t *testing.T) {
	d := twoCriterionDef()
	calc := ProportionalCalculator{}

	achieved, max, final := calc.Score(d, map[string]string{"c1": "l2", "c2": "l4"}, 20)
	if achieved != 10 || max != 10 || final != 20 {
		t.Fatalf("full marks: got (%v,%v,%v)", achieved, max, final)
	}

	// Unscored criteria do not shrink the maximum.
	achieved, max, final = calc.Score(d, map[string]string{"c1": "l1"}, 20)
	if achieved != 2 || max != 10 {
		t.Fatalf("partial: got achieved=%v max=%v", achieved, max)
	}
	if math.Abs(final-4) > 1e-9 {
		t.Fatalf("partial final = %v, want 4", final)
	}

	// Empty rubric scores zero rather than dividing by zero.
	_, _, final = calc.Score(Definition{ActivityID: "empty"}, nil, 20)
	if final != 0 {
		t.Fatalf("empty rubric final = %v, want 0", final)
	}
}

func TestProportionalCalculatorMonotonic(t *testing.T) {
	d := twoCriterionDef()
	calc := ProportionalCalculator{}
	a1, _, _ := calc.Score(d, map[string]string{"c1": "l1"}, 20)
	a2, _, _ := calc.Score(d, map[string]string{"c1": "l1", "c2": "l3"}, 20)
	if a2 < a1 {
		t.Fatalf("achieved not monotonic: %v then %v", a1, a2)
	}
}
