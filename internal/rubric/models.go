package rubric

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("rubric not found")

type Level struct {
	ID         string  `json:"id"`
	Score      float64 `json:"score"`
	Definition string  `json:"definition,omitempty"`
}

type Criterion struct {
	ID          string  `json:"id"`
	Description string  `json:"description,omitempty"`
	Levels      []Level `json:"levels"` // at least one
}

// Definition is the rubric attached to one rubric-graded activity.
type Definition struct {
	ActivityID string      `json:"activity_id"`
	Criteria   []Criterion `json:"criteria"`
}

// MaxScore is the sum over all criteria of the highest level score.
func (d Definition) MaxScore() float64 {
	total := 0.0
	for _, c := range d.Criteria {
		best := 0.0
		for i, l := range c.Levels {
			if i == 0 || l.Score > best {
				best = l.Score
			}
		}
		total += best
	}
	return total
}

// LevelScore resolves a level choice against its criterion. The bool reports
// whether the level actually belongs to that criterion.
func (d Definition) LevelScore(criterionID, levelID string) (float64, bool) {
	for _, c := range d.Criteria {
		if c.ID != criterionID {
			continue
		}
		for _, l := range c.Levels {
			if l.ID == levelID {
				return l.Score, true
			}
		}
		return 0, false
	}
	return 0, false
}

// Selection is one submitted criterion choice.
type Selection struct {
	CriterionID string `json:"criterion_id"`
	LevelID     string `json:"level_id"`
	Remark      string `json:"remark,omitempty"`
}

// Catalog is the external rubric store.
type Catalog interface {
	GetDefinition(ctx context.Context, activityID string) (Definition, error)
	// GetRubricActivityIDs returns the set of activity ids in the course that
	// are rubric-graded.
	GetRubricActivityIDs(ctx context.Context, courseID string) (map[string]struct{}, error)
}
