package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/table-reservation/internal/model"
)

// TableReservationRepo reads the occupied-interval ledger.  Writes go
// through ReservationRepo so they always travel with the reservation
// row; this repo only answers availability queries.
type TableReservationRepo struct {
	db *sql.DB
}

// NewTableReservationRepo returns a TableReservationRepo bound to the
// given database.
func NewTableReservationRepo(db *sql.DB) *TableReservationRepo {
	return &TableReservationRepo{db: db}
}

// EntriesByDay returns every ledger row for one restaurant and day,
// grouped by table.  Canceled rows are included; callers that only want
// blocking intervals filter on status themselves.
func (r *TableReservationRepo) EntriesByDay(ctx context.Context, restaurantID uint64, day time.Time) (map[uint64][]model.TableReservation, error) {
	const q = `SELECT id, restaurant_id, reservation_date, table_id, reservation_id, status, occupied_start, occupied_end, created_at
	           FROM table_reservations
	           WHERE restaurant_id = ? AND reservation_date = ?
	           ORDER BY table_id, occupied_start`
	rows, err := r.db.QueryContext(ctx, q, restaurantID, day.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uint64][]model.TableReservation)
	for rows.Next() {
		var e model.TableReservation
		if err := rows.Scan(&e.ID, &e.RestaurantID, &e.Date, &e.TableID, &e.ReservationID,
			&e.Status, &e.OccupiedStart, &e.OccupiedEnd, &e.CreatedAt); err != nil {
			return nil, err
		}
		out[e.TableID] = append(out[e.TableID], e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
