package course

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLStore implements RosterProvider, ActivityProvider and Lookup over the
// users/enrollments/activities tables.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) GetCourseStudents(ctx context.Context, courseID string) ([]Student, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.name, u.email
		FROM users u
		JOIN enrollments e ON e.user_id = u.id
		WHERE e.course_id = $1 AND u.role = 'student'
		ORDER BY u.name, u.id`, courseID)
	if err != nil {
		return nil, fmt.Errorf("course students: %w", err)
	}
	defer rows.Close()

	var out []Student
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.ID, &st.Name, &st.Email); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetGradeBearingActivities(ctx context.Context, courseID string) ([]Activity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, course_id, title, kind, max_score, position
		FROM activities
		WHERE course_id = $1
		ORDER BY position, id`, courseID)
	if err != nil {
		return nil, fmt.Errorf("course activities: %w", err)
	}
	defer rows.Close()

	var out []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.CourseID, &a.Title, &a.Kind, &a.MaxScore, &a.Position); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetActivity(ctx context.Context, activityID string) (Activity, error) {
	var a Activity
	err := s.db.QueryRowContext(ctx, `
		SELECT id, course_id, title, kind, max_score, position
		FROM activities WHERE id = $1`, activityID).
		Scan(&a.ID, &a.CourseID, &a.Title, &a.Kind, &a.MaxScore, &a.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return Activity{}, ErrNotFound
	}
	return a, err
}

func (s *SQLStore) GetStudent(ctx context.Context, studentID string) (Student, error) {
	var st Student
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email FROM users WHERE id = $1 AND role = 'student'`, studentID).
		Scan(&st.ID, &st.Name, &st.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return Student{}, ErrNotFound
	}
	return st, err
}
