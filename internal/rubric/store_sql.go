package rubric

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// SQLStore keeps criteria as a JSON column, one row per rubric activity.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) GetDefinition(ctx context.Context, activityID string) (Definition, error) {
	var cj string
	err := s.db.QueryRowContext(ctx,
		`SELECT criteria_json FROM rubric_definitions WHERE activity_id = $1`, activityID).
		Scan(&cj)
	if errors.Is(err, sql.ErrNoRows) {
		return Definition{}, ErrNotFound
	}
	if err != nil {
		return Definition{}, err
	}
	d := Definition{ActivityID: activityID}
	if err := json.Unmarshal([]byte(cj), &d.Criteria); err != nil {
		return Definition{}, fmt.Errorf("rubric %s: %w", activityID, err)
	}
	return d, nil
}

func (s *SQLStore) GetRubricActivityIDs(ctx context.Context, courseID string) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.activity_id
		FROM rubric_definitions r
		JOIN activities a ON a.id = r.activity_id
		WHERE a.course_id = $1`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]struct{}{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = struct{}{}
	}
	return out, rows.Err()
}

// PutDefinition upserts a rubric, used by seeding and tests.
func (s *SQLStore) PutDefinition(ctx context.Context, d Definition) error {
	cj, err := json.Marshal(d.Criteria)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rubric_definitions (activity_id, criteria_json)
		VALUES ($1,$2)
		ON CONFLICT (activity_id) DO UPDATE SET criteria_json=EXCLUDED.criteria_json`,
		d.ActivityID, string(cj))
	return err
}
