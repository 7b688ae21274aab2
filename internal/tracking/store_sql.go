package tracking

import (
	"context"
	"database/sql"
)

// EventLog is the append-only tracking log. This engine only ever appends and
// reads; events are never mutated or deleted.
type EventLog interface {
	GetEvents(ctx context.Context, studentID, activityID string) ([]Event, error)
	Append(ctx context.Context, e Event) error
}

type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) GetEvents(ctx context.Context, studentID, activityID string) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT student_id, activity_id, element, value, at
		FROM tracking_events
		WHERE student_id = $1 AND activity_id = $2`, studentID, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.StudentID, &e.ActivityID, &e.Element, &e.Value, &e.At); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tracking_events (student_id, activity_id, element, value, at)
		VALUES ($1,$2,$3,$4,$5)`,
		e.StudentID, e.ActivityID, e.Element, e.Value, e.At)
	return err
}

// Service answers tracking-state queries by folding the log on demand.
type Service struct {
	Log EventLog
}

func (s *Service) State(ctx context.Context, studentID, activityID string) (State, error) {
	events, err := s.Log.GetEvents(ctx, studentID, activityID)
	if err != nil {
		return State{}, err
	}
	return Compact(events), nil
}
