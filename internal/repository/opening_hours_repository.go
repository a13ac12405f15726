package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/table-reservation/internal/model"
)

// OpeningHoursRepo manages the weekly opening hours of restaurants.
type OpeningHoursRepo struct {
	db *sql.DB
}

// NewOpeningHoursRepo returns an OpeningHoursRepo bound to the given
// database.
func NewOpeningHoursRepo(db *sql.DB) *OpeningHoursRepo { return &OpeningHoursRepo{db: db} }

// ReplaceForRestaurant swaps a restaurant's full weekly schedule in one
// transaction.  Weekdays absent from hours end up with no row, which the
// widget reads as closed.
func (r *OpeningHoursRepo) ReplaceForRestaurant(ctx context.Context, restaurantID uint64, hours []model.OpeningHour) error {
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

	if _, err := tx.ExecContext(ctx, `DELETE FROM opening_hours WHERE restaurant_id = ?`, restaurantID); err != nil {
		return err
	}

	if len(hours) > 0 {
		var sb strings.Builder
		sb.WriteString(`INSERT INTO opening_hours (restaurant_id, weekday, open_time, close_time) VALUES `)
		args := make([]any, 0, len(hours)*4)
		for i, h := range hours {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("(?, ?, ?, ?)")
			args = append(args, restaurantID, h.Weekday, h.OpenTime, h.CloseTime)
		}
		if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListByRestaurant returns the schedule ordered by weekday.
func (r *OpeningHoursRepo) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.OpeningHour, error) {
	const q = `SELECT id, restaurant_id, weekday, open_time, close_time
	           FROM opening_hours WHERE restaurant_id = ? ORDER BY weekday`
	rows, err := r.db.QueryContext(ctx, q, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.OpeningHour, 0, 7)
	for rows.Next() {
		var h model.OpeningHour
		if err := rows.Scan(&h.ID, &h.RestaurantID, &h.Weekday, &h.OpenTime, &h.CloseTime); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetForWeekday returns the hours row for one weekday, or
// ErrHoursNotFound when the restaurant is closed that day.
func (r *OpeningHoursRepo) GetForWeekday(ctx context.Context, restaurantID uint64, weekday uint8) (*model.OpeningHour, error) {
	var h model.OpeningHour
	row := r.db.QueryRowContext(ctx,
		`SELECT id, restaurant_id, weekday, open_time, close_time
		 FROM opening_hours WHERE restaurant_id = ? AND weekday = ?`,
		restaurantID, weekday)
	if err := row.Scan(&h.ID, &h.RestaurantID, &h.Weekday, &h.OpenTime, &h.CloseTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHoursNotFound
		}
		return nil, err
	}
	return &h, nil
}
