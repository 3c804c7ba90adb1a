package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cstcaptive/cstlendar/internal/db"
	"github.com/cstcaptive/cstlendar/internal/domain"
)

// scheduleColumns is the canonical SELECT column list for schedules.
const scheduleColumns = `id, title, date, time, all_day, owner, completed, position, created_at, updated_at`

// SQLiteScheduleRepo implements ScheduleRepo. Relations live in their own
// table and are loaded alongside the schedule that declares them.
type SQLiteScheduleRepo struct {
	db db.DBTX
}

func NewSQLiteScheduleRepo(conn db.DBTX) *SQLiteScheduleRepo {
	return &SQLiteScheduleRepo{db: conn}
}

func (r *SQLiteScheduleRepo) Create(ctx context.Context, s *domain.Schedule) error {
	var next int
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), -1) + 1 FROM schedules`).Scan(&next)
	if err != nil {
		return fmt.Errorf("allocating schedule position: %w", err)
	}
	s.Position = next
	return r.Insert(ctx, s)
}

func (r *SQLiteScheduleRepo) Insert(ctx context.Context, s *domain.Schedule) error {
	query := `INSERT INTO schedules (` + scheduleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Title, s.Date, s.Time,
		boolToInt(s.AllDay), s.Owner, boolToInt(s.Completed), s.Position,
		formatTimestamp(s.CreatedAt), formatTimestamp(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting schedule: %w", err)
	}
	return r.writeRelations(ctx, s.ID, s.Relations)
}

func (r *SQLiteScheduleRepo) GetByID(ctx context.Context, id string) (*domain.Schedule, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE id = ?`, id)
	s, err := scanSchedule(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("schedule %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	rels, err := r.relationsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Relations = rels
	return s, nil
}

func (r *SQLiteScheduleRepo) List(ctx context.Context) ([]*domain.Schedule, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+scheduleColumns+` FROM schedules ORDER BY position, created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing schedules: %w", err)
	}
	var out []*domain.Schedule
	byID := make(map[string]*domain.Schedule)
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, s)
		byID[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating schedules: %w", err)
	}
	rows.Close()

	relRows, err := r.db.QueryContext(ctx, `SELECT schedule_id, target_id, type FROM relations ORDER BY schedule_id, ordinal`)
	if err != nil {
		return nil, fmt.Errorf("listing relations: %w", err)
	}
	defer relRows.Close()
	for relRows.Next() {
		var owner string
		var rel domain.Relation
		if err := relRows.Scan(&owner, &rel.TargetID, &rel.Type); err != nil {
			return nil, fmt.Errorf("scanning relation: %w", err)
		}
		if s, ok := byID[owner]; ok {
			s.Relations = append(s.Relations, rel)
		}
	}
	if err := relRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating relations: %w", err)
	}
	return out, nil
}

func (r *SQLiteScheduleRepo) Update(ctx context.Context, s *domain.Schedule) error {
	query := `UPDATE schedules SET title = ?, date = ?, time = ?, all_day = ?, owner = ?,
		completed = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		s.Title, s.Date, s.Time, boolToInt(s.AllDay), s.Owner,
		boolToInt(s.Completed), formatTimestamp(s.UpdatedAt), s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating schedule: %w", err)
	}
	if err := requireAffected(res, s.ID); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM relations WHERE schedule_id = ?`, s.ID); err != nil {
		return fmt.Errorf("clearing relations: %w", err)
	}
	return r.writeRelations(ctx, s.ID, s.Relations)
}

func (r *SQLiteScheduleRepo) SetCompleted(ctx context.Context, id string, completed bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE schedules SET completed = ?, updated_at = ? WHERE id = ?`,
		boolToInt(completed), formatTimestamp(time.Now()), id)
	if err != nil {
		return fmt.Errorf("updating completion: %w", err)
	}
	return requireAffected(res, id)
}

// AddRelation appends rel after the schedule's existing relations. Adding a
// relation that already exists is a no-op.
func (r *SQLiteScheduleRepo) AddRelation(ctx context.Context, scheduleID string, rel domain.Relation) error {
	query := `INSERT OR IGNORE INTO relations (schedule_id, target_id, type, ordinal)
		SELECT ?, ?, ?, COALESCE(MAX(ordinal), -1) + 1 FROM relations WHERE schedule_id = ?`
	if _, err := r.db.ExecContext(ctx, query, scheduleID, rel.TargetID, string(rel.Type), scheduleID); err != nil {
		return fmt.Errorf("adding relation: %w", err)
	}
	return nil
}

func (r *SQLiteScheduleRepo) RemoveRelation(ctx context.Context, scheduleID, targetID string, t domain.RelationType) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM relations WHERE schedule_id = ? AND target_id = ? AND type = ?`,
		scheduleID, targetID, string(t))
	if err != nil {
		return fmt.Errorf("removing relation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking removed relations: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("relation %s -> %s (%s): %w", scheduleID, targetID, t, domain.ErrNotFound)
	}
	return nil
}

// Delete removes the schedule and the relations it declares. Relations
// other schedules declare toward it are left in place.
func (r *SQLiteScheduleRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting schedule: %w", err)
	}
	return requireAffected(res, id)
}

func (r *SQLiteScheduleRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedules`); err != nil {
		return fmt.Errorf("clearing schedules: %w", err)
	}
	return nil
}

func (r *SQLiteScheduleRepo) writeRelations(ctx context.Context, scheduleID string, rels []domain.Relation) error {
	query := `INSERT OR IGNORE INTO relations (schedule_id, target_id, type, ordinal) VALUES (?, ?, ?, ?)`
	for i, rel := range rels {
		if _, err := r.db.ExecContext(ctx, query, scheduleID, rel.TargetID, string(rel.Type), i); err != nil {
			return fmt.Errorf("inserting relation %s -> %s: %w", scheduleID, rel.TargetID, err)
		}
	}
	return nil
}

func (r *SQLiteScheduleRepo) relationsFor(ctx context.Context, scheduleID string) ([]domain.Relation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT target_id, type FROM relations WHERE schedule_id = ? ORDER BY ordinal`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("listing relations: %w", err)
	}
	defer rows.Close()
	var rels []domain.Relation
	for rows.Next() {
		var rel domain.Relation
		if err := rows.Scan(&rel.TargetID, &rel.Type); err != nil {
			return nil, fmt.Errorf("scanning relation: %w", err)
		}
		rels = append(rels, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating relations: %w", err)
	}
	return rels, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner) (*domain.Schedule, error) {
	var s domain.Schedule
	var allDay, completed int
	var createdAt, updatedAt string
	err := row.Scan(
		&s.ID, &s.Title, &s.Date, &s.Time,
		&allDay, &s.Owner, &completed, &s.Position,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning schedule: %w", err)
	}
	s.AllDay = intToBool(allDay)
	s.Completed = intToBool(completed)
	if s.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = parseTimestamp("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("schedule %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
