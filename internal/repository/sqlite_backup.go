package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cstcaptive/cstlendar/internal/db"
	"github.com/cstcaptive/cstlendar/internal/domain"
)

// SQLiteBackupRepo implements BackupRepo. Dates are YYYY-MM-DD strings, so
// lexical order is chronological order.
type SQLiteBackupRepo struct {
	db db.DBTX
}

func NewSQLiteBackupRepo(conn db.DBTX) *SQLiteBackupRepo {
	return &SQLiteBackupRepo{db: conn}
}

func (r *SQLiteBackupRepo) Exists(ctx context.Context, date string) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM backups WHERE date = ?`, date).Scan(&n); err != nil {
		return false, fmt.Errorf("checking backup: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteBackupRepo) Create(ctx context.Context, b *Backup) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO backups (date, created_at, data) VALUES (?, ?, ?)`,
		b.Date, b.CreatedAt, string(b.Data))
	if err != nil {
		return fmt.Errorf("inserting backup: %w", err)
	}
	return nil
}

func (r *SQLiteBackupRepo) Get(ctx context.Context, date string) (*Backup, error) {
	var b Backup
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT date, created_at, data FROM backups WHERE date = ?`, date,
	).Scan(&b.Date, &b.CreatedAt, &data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("backup %s: %w", date, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning backup: %w", err)
	}
	b.Data = []byte(data)
	return &b, nil
}

func (r *SQLiteBackupRepo) List(ctx context.Context) ([]Backup, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT date, created_at FROM backups ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing backups: %w", err)
	}
	defer rows.Close()
	var out []Backup
	for rows.Next() {
		var b Backup
		if err := rows.Scan(&b.Date, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning backup: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating backups: %w", err)
	}
	return out, nil
}

func (r *SQLiteBackupRepo) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM backups WHERE date NOT IN (SELECT date FROM backups ORDER BY date DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning backups: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned backups: %w", err)
	}
	return int(n), nil
}
