package grade

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLStore implements Store over sqlite or postgres. All statements use
// $n placeholders, valid under both drivers.
type SQLStore struct {
	db *sql.DB // nil when this store wraps a transaction
	q  querier
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db, q: db} }

func (s *SQLStore) RunInTx(ctx context.Context, fn func(Store) error) error {
	if s.db == nil {
		// already inside a transaction
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(&SQLStore{q: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *SQLStore) GetRecord(ctx context.Context, activityID, studentID string) (Record, error) {
	var r Record
	err := s.q.QueryRowContext(ctx, `
		SELECT id, activity_id, student_id, value, grader_id, created_at, updated_at
		FROM grade_records
		WHERE activity_id = $1 AND student_id = $2`, activityID, studentID).
		Scan(&r.ID, &r.ActivityID, &r.StudentID, &r.Value, &r.GraderID, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return r, err
}

func (s *SQLStore) InsertRecord(ctx context.Context, r Record) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO grade_records (id, activity_id, student_id, value, grader_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		r.ID, r.ActivityID, r.StudentID, r.Value, r.GraderID, r.CreatedAt, r.UpdatedAt)
	return err
}

func (s *SQLStore) UpdateRecord(ctx context.Context, id string, value float64, graderID string, at int64) error {
	_, err := s.q.ExecContext(ctx, `
		UPDATE grade_records SET value=$1, grader_id=$2, updated_at=$3 WHERE id=$4`,
		value, graderID, at, id)
	return err
}

func (s *SQLStore) GetInstanceByRecord(ctx context.Context, recordID string) (Instance, error) {
	var in Instance
	err := s.q.QueryRowContext(ctx, `
		SELECT id, record_id, activity_id, raw_score, updated_at
		FROM grading_instances WHERE record_id = $1`, recordID).
		Scan(&in.ID, &in.RecordID, &in.ActivityID, &in.RawScore, &in.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Instance{}, ErrNotFound
	}
	return in, err
}

func (s *SQLStore) InsertInstance(ctx context.Context, in Instance) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO grading_instances (id, record_id, activity_id, raw_score, updated_at)
		VALUES ($1,$2,$3,$4,$5)`,
		in.ID, in.RecordID, in.ActivityID, in.RawScore, in.UpdatedAt)
	return err
}

func (s *SQLStore) UpdateInstance(ctx context.Context, id string, rawScore float64, at int64) error {
	_, err := s.q.ExecContext(ctx, `
		UPDATE grading_instances SET raw_score=$1, updated_at=$2 WHERE id=$3`,
		rawScore, at, id)
	return err
}

func (s *SQLStore) ReplaceSelections(ctx context.Context, instanceID string, sels []StoredSelection) error {
	if _, err := s.q.ExecContext(ctx,
		`DELETE FROM criterion_selections WHERE instance_id = $1`, instanceID); err != nil {
		return err
	}
	for _, sel := range sels {
		if _, err := s.q.ExecContext(ctx, `
			INSERT INTO criterion_selections (instance_id, criterion_id, level_id, remark)
			VALUES ($1,$2,$3,$4)`,
			instanceID, sel.CriterionID, sel.LevelID, sel.Remark); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLStore) ListSelections(ctx context.Context, instanceID string) ([]StoredSelection, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT instance_id, criterion_id, level_id, remark
		FROM criterion_selections WHERE instance_id = $1
		ORDER BY criterion_id`, instanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredSelection
	for rows.Next() {
		var sel StoredSelection
		if err := rows.Scan(&sel.InstanceID, &sel.CriterionID, &sel.LevelID, &sel.Remark); err != nil {
			return nil, err
		}
		out = append(out, sel)
	}
	return out, rows.Err()
}

func (s *SQLStore) UpsertNote(ctx context.Context, n Note) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO feedback_notes (record_id, body, updated_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (record_id) DO UPDATE SET body=EXCLUDED.body, updated_at=EXCLUDED.updated_at`,
		n.RecordID, n.Body, n.UpdatedAt)
	return err
}

func (s *SQLStore) UpsertCache(ctx context.Context, e CacheEntry) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO grade_cache (activity_id, student_id, value, updated_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (activity_id, student_id) DO UPDATE SET value=EXCLUDED.value, updated_at=EXCLUDED.updated_at`,
		e.ActivityID, e.StudentID, e.Value, e.UpdatedAt)
	return err
}
