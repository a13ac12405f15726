package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/table-reservation/internal/model"
)

// TableRepo provides methods to work with restaurant tables.  It also
// backs the plan service's TableSource interface.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo constructs a TableRepo with the given DB handle.
func NewTableRepo(db *sql.DB) *TableRepo {
	return &TableRepo{db: db}
}

const tableColumns = `id, restaurant_id, number, capacity, shape, position_x, position_y, rotate, status, created_at, updated_at`

func scanTable(row interface{ Scan(...any) error }, t *model.Table) error {
	return row.Scan(&t.ID, &t.RestaurantID, &t.Number, &t.Capacity, &t.Shape,
		&t.PositionX, &t.PositionY, &t.Rotate, &t.Status, &t.CreatedAt, &t.UpdatedAt)
}

// Create inserts a table.  The insert is conditional: it only succeeds
// when no non-archived table of the restaurant already carries the same
// number, in which case ErrDuplicateNumber is returned.  On success the
// struct is refreshed from the stored row.
func (r *TableRepo) Create(ctx context.Context, t *model.Table) error {
	const qInsert = `INSERT INTO restaurant_tables (restaurant_id, number, capacity, shape, position_x, position_y, rotate, status)
	                 SELECT ?, ?, ?, ?, ?, ?, ?, ?
	                 FROM DUAL
	                 WHERE NOT EXISTS (
	                   SELECT 1 FROM restaurant_tables
	                   WHERE restaurant_id = ? AND number = ? AND status <> 'archived'
	                 )`
	res, err := r.db.ExecContext(ctx, qInsert,
		t.RestaurantID, t.Number, t.Capacity, t.Shape, t.PositionX, t.PositionY, t.Rotate, t.Status,
		t.RestaurantID, t.Number)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDuplicateNumber
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)

	row := r.db.QueryRowContext(ctx, `SELECT `+tableColumns+` FROM restaurant_tables WHERE id = ?`, t.ID)
	return scanTable(row, t)
}

// GetByID retrieves a table by its id (no ownership check).
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
	var t model.Table
	row := r.db.QueryRowContext(ctx, `SELECT `+tableColumns+` FROM restaurant_tables WHERE id = ?`, id)
	if err := scanTable(row, &t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetByIDAndOwner retrieves a table while enforcing ownership through
// its restaurant.
func (r *TableRepo) GetByIDAndOwner(ctx context.Context, id, userID uint64) (*model.Table, error) {
	const q = `SELECT t.id, t.restaurant_id, t.number, t.capacity, t.shape, t.position_x, t.position_y, t.rotate, t.status, t.created_at, t.updated_at
	           FROM restaurant_tables t
	           JOIN restaurants r ON r.id = t.restaurant_id
	           WHERE t.id = ? AND r.user_id = ?`
	var t model.Table
	if err := scanTable(r.db.QueryRowContext(ctx, q, id, userID), &t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListActive returns the restaurant's non-archived tables ordered by id.
func (r *TableRepo) ListActive(ctx context.Context, restaurantID uint64) ([]model.Table, error) {
	const q = `SELECT ` + tableColumns + ` FROM restaurant_tables
	           WHERE restaurant_id = ? AND status <> 'archived'
	           ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Table
	for rows.Next() {
		var t model.Table
		if err := scanTable(rows, &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update writes the table's mutable fields.  Renaming to a number held
// by another non-archived table of the same restaurant fails with
// ErrDuplicateNumber; the duplicate check and the update run in one
// transaction.
func (r *TableRepo) Update(ctx context.Context, t *model.Table) error {
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

	var clash uint64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM restaurant_tables
		 WHERE restaurant_id = ? AND number = ? AND status <> 'archived' AND id <> ?
		 LIMIT 1 FOR UPDATE`,
		t.RestaurantID, t.Number, t.ID).Scan(&clash)
	if err == nil {
		return ErrDuplicateNumber
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	const q = `UPDATE restaurant_tables
	           SET number = ?, capacity = ?, shape = ?, position_x = ?, position_y = ?, rotate = ?, status = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, t.Number, t.Capacity, t.Shape, t.PositionX, t.PositionY, t.Rotate, t.Status, t.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTableNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// SetStatus changes only the status column, used for archival.
func (r *TableRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE restaurant_tables SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTableNotFound
	}
	return nil
}

// Delete removes a table row permanently.
func (r *TableRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM restaurant_tables WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTableNotFound
	}
	return nil
}
