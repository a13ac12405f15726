package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/table-reservation/internal/model"
)

// TablePlanRepo persists daily table plans and their snapshots.  It
// implements the plan service's PlanStore interface.  Plan dates are
// stored as DATE columns; callers pass UTC-midnight times.
type TablePlanRepo struct {
	db *sql.DB
}

// NewTablePlanRepo constructs a TablePlanRepo with the given DB handle.
func NewTablePlanRepo(db *sql.DB) *TablePlanRepo {
	return &TablePlanRepo{db: db}
}

const dateLayout = "2006-01-02"

// Create inserts an empty plan for the given restaurant and day and
// populates the generated ID.
func (r *TablePlanRepo) Create(ctx context.Context, plan *model.TablePlan) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO table_plans (restaurant_id, plan_date) VALUES (?, ?)`,
		plan.RestaurantID, plan.Date.Format(dateLayout))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	plan.ID = uint64(id)
	return nil
}

// GetByDate returns the plan for an exact day, with snapshots loaded.
// ErrPlanNotFound is returned when the day has no plan.
func (r *TablePlanRepo) GetByDate(ctx context.Context, restaurantID uint64, day time.Time) (*model.TablePlan, error) {
	return r.getOne(ctx,
		`SELECT id, restaurant_id, plan_date, created_at, updated_at
		 FROM table_plans WHERE restaurant_id = ? AND plan_date = ?`,
		restaurantID, day.Format(dateLayout))
}

// First returns the plan with the earliest date.
func (r *TablePlanRepo) First(ctx context.Context, restaurantID uint64) (*model.TablePlan, error) {
	return r.getOne(ctx,
		`SELECT id, restaurant_id, plan_date, created_at, updated_at
		 FROM table_plans WHERE restaurant_id = ? ORDER BY plan_date ASC LIMIT 1`,
		restaurantID)
}

// Last returns the plan with the latest date.
func (r *TablePlanRepo) Last(ctx context.Context, restaurantID uint64) (*model.TablePlan, error) {
	return r.getOne(ctx,
		`SELECT id, restaurant_id, plan_date, created_at, updated_at
		 FROM table_plans WHERE restaurant_id = ? ORDER BY plan_date DESC LIMIT 1`,
		restaurantID)
}

// LatestInserted returns the most recently created plan by insertion
// order, regardless of its date.
func (r *TablePlanRepo) LatestInserted(ctx context.Context, restaurantID uint64) (*model.TablePlan, error) {
	return r.getOne(ctx,
		`SELECT id, restaurant_id, plan_date, created_at, updated_at
		 FROM table_plans WHERE restaurant_id = ? ORDER BY id DESC LIMIT 1`,
		restaurantID)
}

func (r *TablePlanRepo) getOne(ctx context.Context, query string, args ...any) (*model.TablePlan, error) {
	var plan model.TablePlan
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&plan.ID, &plan.RestaurantID, &plan.Date, &plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if err := r.loadTables(ctx, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *TablePlanRepo) loadTables(ctx context.Context, plan *model.TablePlan) error {
	const q = `SELECT table_id, number, capacity, shape, position_x, position_y, rotate, status
	           FROM table_plan_tables WHERE plan_id = ? ORDER BY table_id`
	rows, err := r.db.QueryContext(ctx, q, plan.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	plan.Tables = plan.Tables[:0]
	for rows.Next() {
		var s model.TableSnapshot
		if err := rows.Scan(&s.TableID, &s.Number, &s.Capacity, &s.Shape, &s.PositionX, &s.PositionY, &s.Rotate, &s.Status); err != nil {
			return err
		}
		plan.Tables = append(plan.Tables, s)
	}
	return rows.Err()
}

// ReplaceTables swaps the full snapshot set of a plan inside one
// transaction.
func (r *TablePlanRepo) ReplaceTables(ctx context.Context, planID uint64, tables []model.TableSnapshot) error {
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

	if _, err := tx.ExecContext(ctx, `DELETE FROM table_plan_tables WHERE plan_id = ?`, planID); err != nil {
		return err
	}
	if len(tables) > 0 {
		query := `INSERT INTO table_plan_tables (plan_id, table_id, number, capacity, shape, position_x, position_y, rotate, status) VALUES `
		args := make([]any, 0, len(tables)*9)
		for i, s := range tables {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?, ?, ?, ?, ?, ?)"
			args = append(args, planID, s.TableID, s.Number, s.Capacity, s.Shape, s.PositionX, s.PositionY, s.Rotate, s.Status)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE table_plans SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, planID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// AddTableIfAbsent appends a snapshot unless the plan already holds one
// for the same table.  The conditional insert makes the add idempotent.
func (r *TablePlanRepo) AddTableIfAbsent(ctx context.Context, planID uint64, s model.TableSnapshot) error {
	const q = `INSERT INTO table_plan_tables (plan_id, table_id, number, capacity, shape, position_x, position_y, rotate, status)
	           SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?
	           FROM DUAL
	           WHERE NOT EXISTS (
	             SELECT 1 FROM table_plan_tables WHERE plan_id = ? AND table_id = ?
	           )`
	_, err := r.db.ExecContext(ctx, q,
		planID, s.TableID, s.Number, s.Capacity, s.Shape, s.PositionX, s.PositionY, s.Rotate, s.Status,
		planID, s.TableID)
	return err
}

// UpdateSnapshots overwrites the mutable snapshot fields of one table in
// every plan of the restaurant dated fromDay or later.
func (r *TablePlanRepo) UpdateSnapshots(ctx context.Context, restaurantID, tableID uint64, fromDay time.Time, s model.TableSnapshot) error {
	const q = `UPDATE table_plan_tables pt
	           JOIN table_plans p ON p.id = pt.plan_id
	           SET pt.number = ?, pt.capacity = ?, pt.shape = ?, pt.position_x = ?, pt.position_y = ?, pt.rotate = ?, pt.status = ?
	           WHERE p.restaurant_id = ? AND p.plan_date >= ? AND pt.table_id = ?`
	_, err := r.db.ExecContext(ctx, q,
		s.Number, s.Capacity, s.Shape, s.PositionX, s.PositionY, s.Rotate, s.Status,
		restaurantID, fromDay.Format(dateLayout), tableID)
	return err
}

// RemoveSnapshots pulls one table's snapshot from every plan of the
// restaurant dated fromDay or later.  Past plans are left untouched.
func (r *TablePlanRepo) RemoveSnapshots(ctx context.Context, restaurantID, tableID uint64, fromDay time.Time) error {
	const q = `DELETE pt FROM table_plan_tables pt
	           JOIN table_plans p ON p.id = pt.plan_id
	           WHERE p.restaurant_id = ? AND p.plan_date >= ? AND pt.table_id = ?`
	_, err := r.db.ExecContext(ctx, q, restaurantID, fromDay.Format(dateLayout), tableID)
	return err
}
