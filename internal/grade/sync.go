package grade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/coursegrid/gradematrix/internal/course"
	"github.com/coursegrid/gradematrix/internal/rubric"
)

// Synchronizer is the read-modify-write engine behind grade submission. One
// call keeps the GradeRecord, its GradingInstance, the criterion selections,
// the feedback note and the denormalized cache entry consistent for a
// (activity, student) pair.
type Synchronizer struct {
	Store   Store
	Rubrics rubric.Catalog
	Courses course.Lookup
	Calc    rubric.Calculator
	Now     func() time.Time
	NewID   func() string
}

func NewSynchronizer(store Store, rubrics rubric.Catalog, courses course.Lookup, calc rubric.Calculator) *Synchronizer {
	if calc == nil {
		calc = rubric.ProportionalCalculator{}
	}
	return &Synchronizer{
		Store:   store,
		Rubrics: rubrics,
		Courses: courses,
		Calc:    calc,
		Now:     time.Now,
		NewID:   uuid.NewString,
	}
}

// SubmitGrade validates and persists a rubric grading action, returning the
// authoritative final value. Validation and lookup failures abort before any
// write; a write failure is reported as *PersistenceError carrying the steps
// that had already succeeded.
func (s *Synchronizer) SubmitGrade(ctx context.Context, activityID, studentID, graderID string, selections []rubric.Selection, feedback string) (float64, error) {
	act, err := s.Courses.GetActivity(ctx, activityID)
	if errors.Is(err, course.ErrNotFound) {
		return 0, &NotFoundError{Kind: "activity", ID: activityID}
	}
	if err != nil {
		return 0, fmt.Errorf("resolve activity: %w", err)
	}
	if _, err := s.Courses.GetStudent(ctx, studentID); errors.Is(err, course.ErrNotFound) {
		return 0, &NotFoundError{Kind: "student", ID: studentID}
	} else if err != nil {
		return 0, fmt.Errorf("resolve student: %w", err)
	}
	def, err := s.Rubrics.GetDefinition(ctx, activityID)
	if errors.Is(err, rubric.ErrNotFound) {
		return 0, &NotFoundError{Kind: "rubric", ID: activityID}
	}
	if err != nil {
		return 0, fmt.Errorf("resolve rubric: %w", err)
	}

	chosen := make(map[string]string, len(selections))
	for _, sel := range selections {
		if _, dup := chosen[sel.CriterionID]; dup {
			return 0, &ValidationError{Reason: fmt.Sprintf("criterion %q selected twice", sel.CriterionID)}
		}
		if _, ok := def.LevelScore(sel.CriterionID, sel.LevelID); !ok {
			return 0, &ValidationError{Reason: fmt.Sprintf("level %q does not belong to criterion %q", sel.LevelID, sel.CriterionID)}
		}
		chosen[sel.CriterionID] = sel.LevelID
	}

	achieved, _, final := s.Calc.Score(def, chosen, act.MaxScore)
	if final < 0 || final > act.MaxScore {
		return 0, &ValidationError{Reason: fmt.Sprintf("final value %.2f outside [0, %.2f]", final, act.MaxScore)}
	}

	now := s.Now().Unix()
	err = s.Store.RunInTx(ctx, func(tx Store) error {
		return s.persist(ctx, tx, act.ID, studentID, graderID, achieved, final, selections, feedback, now)
	})
	if err != nil {
		return 0, err
	}
	return final, nil
}

// persist runs the write sequence, tracking completed steps for error
// reporting. Selections are always fully replaced, never merged.
func (s *Synchronizer) persist(ctx context.Context, tx Store, activityID, studentID, graderID string, achieved, final float64, selections []rubric.Selection, feedback string, now int64) error {
	var completed []Step
	fail := func(step Step, err error) error {
		return &PersistenceError{Step: step, Completed: completed, Err: err}
	}

	rec, err := tx.GetRecord(ctx, activityID, studentID)
	var inst Instance
	switch {
	case errors.Is(err, ErrNotFound):
		// create path
		rec = Record{
			ID:         s.NewID(),
			ActivityID: activityID,
			StudentID:  studentID,
			Value:      final,
			GraderID:   graderID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := tx.InsertRecord(ctx, rec); err != nil {
			return fail(StepRecord, err)
		}
		completed = append(completed, StepRecord)

		inst = Instance{ID: s.NewID(), RecordID: rec.ID, ActivityID: activityID, RawScore: achieved, UpdatedAt: now}
		if err := tx.InsertInstance(ctx, inst); err != nil {
			return fail(StepInstance, err)
		}
		completed = append(completed, StepInstance)

	case err != nil:
		return fail(StepRecord, err)

	default:
		// update path: mutate in place
		if err := tx.UpdateRecord(ctx, rec.ID, final, graderID, now); err != nil {
			return fail(StepRecord, err)
		}
		completed = append(completed, StepRecord)

		inst, err = tx.GetInstanceByRecord(ctx, rec.ID)
		switch {
		case errors.Is(err, ErrNotFound):
			// record predates rubric grading; repair the one-to-one
			inst = Instance{ID: s.NewID(), RecordID: rec.ID, ActivityID: activityID, RawScore: achieved, UpdatedAt: now}
			if err := tx.InsertInstance(ctx, inst); err != nil {
				return fail(StepInstance, err)
			}
		case err != nil:
			return fail(StepInstance, err)
		default:
			if err := tx.UpdateInstance(ctx, inst.ID, achieved, now); err != nil {
				return fail(StepInstance, err)
			}
		}
		completed = append(completed, StepInstance)
	}

	stored := make([]StoredSelection, 0, len(selections))
	for _, sel := range selections {
		stored = append(stored, StoredSelection{
			InstanceID:  inst.ID,
			CriterionID: sel.CriterionID,
			LevelID:     sel.LevelID,
			Remark:      sel.Remark,
		})
	}
	if err := tx.ReplaceSelections(ctx, inst.ID, stored); err != nil {
		return fail(StepSelections, err)
	}
	completed = append(completed, StepSelections)

	if feedback != "" {
		if err := tx.UpsertNote(ctx, Note{RecordID: rec.ID, Body: feedback, UpdatedAt: now}); err != nil {
			return fail(StepFeedback, err)
		}
		completed = append(completed, StepFeedback)
	}

	// Unconditional: the cache may hold a stale value from an earlier write.
	if err := tx.UpsertCache(ctx, CacheEntry{ActivityID: activityID, StudentID: studentID, Value: final, UpdatedAt: now}); err != nil {
		return fail(StepCache, err)
	}
	return nil
}
