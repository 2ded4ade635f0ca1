package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/cabin-seat-reservation/internal/model"
)

// SeatAssignmentRepo keeps the saved cabin in the seat_assignments table.
// It holds exactly the records the file store would hold, ordered by seq.
type SeatAssignmentRepo struct {
	db *sql.DB
}

// NewSeatAssignmentRepo returns a repository bound to db.
func NewSeatAssignmentRepo(db *sql.DB) *SeatAssignmentRepo { return &SeatAssignmentRepo{db: db} }

// Load returns all records ordered by seq.
func (r *SeatAssignmentRepo) Load(ctx context.Context) ([]model.SeatAssignment, error) {
	const q = `SELECT seq, name, is_economy, seat_row, col, is_grouped, group_name, seat_pref
	           FROM seat_assignments
	           ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SeatAssignment
	for rows.Next() {
		var a model.SeatAssignment
		var group, pref sql.NullString
		if err := rows.Scan(&a.Seq, &a.Name, &a.Economy, &a.Row, &a.Column, &a.Grouped, &group, &pref); err != nil {
			return nil, err
		}
		a.GroupName = group.String
		a.Preference = pref.String
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Save replaces the stored set with records inside one transaction.  The
// seq column is rewritten from the slice order.
func (r *SeatAssignmentRepo) Save(ctx context.Context, records []model.SeatAssignment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM seat_assignments`); err != nil {
		return err
	}
	if len(records) > 0 {
		query := `INSERT INTO seat_assignments (seq, name, is_economy, seat_row, col, is_grouped, group_name, seat_pref) VALUES `
		args := make([]interface{}, 0, len(records)*8)
		for i, a := range records {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?, ?, ?, ?, ?)"
			args = append(args, i, a.Name, a.Economy, a.Row, a.Column, a.Grouped, nullable(a.GroupName), nullable(a.Preference))
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n != int64(len(records)) {
			return fmt.Errorf("%w: wrote %d of %d seat assignments", ErrConflict, n, len(records))
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
