package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/table-reservation/internal/model"
)

// ReservationRepo provides CRUD operations for reservations and their
// ledger rows.  It implements the booking engine's ReservationStore
// interface.  The reservation insert and the ledger insert always run in
// one transaction so a reservation can never exist without its occupied
// interval.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, code, restaurant_id, user_id, table_id, table_number, date_selected, time_selected, nbr_persons, details, status, created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }, res *model.Reservation) error {
	var userID sql.NullInt64
	var details sql.NullString
	if err := row.Scan(&res.ID, &res.Code, &res.RestaurantID, &userID, &res.TableID, &res.TableNumber,
		&res.DateSelected, &res.TimeSelected, &res.NbrPersons, &details, &res.Status,
		&res.CreatedAt, &res.UpdatedAt); err != nil {
		return err
	}
	if userID.Valid {
		uid := uint64(userID.Int64)
		res.UserID = &uid
	}
	res.Details = details.String
	return nil
}

// Commit atomically persists a reservation and its ledger entry.  The
// ledger insert is conditional: it only succeeds when no non-canceled
// interval for the same table and day overlaps the new one.  When the
// condition fails the transaction rolls back, nothing is persisted and
// ErrConflict is returned.  This conditional write is what serializes
// concurrent bookings racing for the same slot.
func (r *ReservationRepo) Commit(ctx context.Context, res *model.Reservation, entry *model.TableReservation) error {
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

	const qRes = `INSERT INTO reservations (code, restaurant_id, user_id, table_id, table_number, date_selected, time_selected, nbr_persons, details, status)
	              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var userID any
	if res.UserID != nil {
		userID = *res.UserID
	}
	ins, err := tx.ExecContext(ctx, qRes,
		res.Code, res.RestaurantID, userID, res.TableID, res.TableNumber,
		res.DateSelected.Format(dateLayout), res.TimeSelected, res.NbrPersons, res.Details, res.Status)
	if err != nil {
		return err
	}
	id, err := ins.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	entry.ReservationID = res.ID

	// Conditional ledger insert: zero rows affected means an overlapping
	// interval won the slot between the availability scan and now.
	const qLedger = `INSERT INTO table_reservations (restaurant_id, reservation_date, table_id, reservation_id, status, occupied_start, occupied_end)
	                 SELECT ?, ?, ?, ?, ?, ?, ?
	                 FROM DUAL
	                 WHERE NOT EXISTS (
	                   SELECT 1 FROM table_reservations
	                   WHERE table_id = ? AND reservation_date = ?
	                     AND status <> 'canceled'
	                     AND occupied_start < ? AND occupied_end > ?
	                 )`
	lres, err := tx.ExecContext(ctx, qLedger,
		entry.RestaurantID, entry.Date.Format(dateLayout), entry.TableID, entry.ReservationID, entry.Status,
		entry.OccupiedStart.UTC().Format("2006-01-02 15:04:05"), entry.OccupiedEnd.UTC().Format("2006-01-02 15:04:05"),
		entry.TableID, entry.Date.Format(dateLayout),
		entry.OccupiedEnd.UTC().Format("2006-01-02 15:04:05"), entry.OccupiedStart.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return err
	}
	if n, _ := lres.RowsAffected(); n == 0 {
		return ErrConflict
	}
	lid, err := lres.LastInsertId()
	if err != nil {
		return err
	}
	entry.ID = uint64(lid)

	// Query back timestamps and defaults.
	row := tx.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, res.ID)
	if err := scanReservation(row, res); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID loads a reservation, returning ErrReservationNotFound when it
// does not exist.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	var res model.Reservation
	row := r.db.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id)
	if err := scanReservation(row, &res); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// GetByCode loads a reservation by its public widget code.
func (r *ReservationRepo) GetByCode(ctx context.Context, code string) (*model.Reservation, error) {
	var res model.Reservation
	row := r.db.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE code = ?`, code)
	if err := scanReservation(row, &res); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// SetStatus updates a reservation's status and mirrors it into the
// matching ledger row, both in one transaction.  The ledger row is
// addressed by (date, table, reservation); when it is missing the
// transaction rolls back and ErrLedgerEntryNotFound is returned.
func (r *ReservationRepo) SetStatus(ctx context.Context, res *model.Reservation, status string) error {
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

	upd, err := tx.ExecContext(ctx,
		`UPDATE reservations SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, res.ID)
	if err != nil {
		return err
	}
	if n, _ := upd.RowsAffected(); n == 0 {
		return ErrReservationNotFound
	}

	mir, err := tx.ExecContext(ctx,
		`UPDATE table_reservations SET status = ?
		 WHERE reservation_id = ? AND table_id = ? AND reservation_date = ?`,
		status, res.ID, res.TableID, res.DateSelected.Format(dateLayout))
	if err != nil {
		return err
	}
	if n, _ := mir.RowsAffected(); n == 0 {
		return ErrLedgerEntryNotFound
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListByRestaurantAndDate returns all reservations of a restaurant for
// one day, newest first.  The manager dashboard renders this list.
func (r *ReservationRepo) ListByRestaurantAndDate(ctx context.Context, restaurantID uint64, day time.Time) ([]*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
	           WHERE restaurant_id = ? AND date_selected = ?
	           ORDER BY created_at DESC, id DESC`
	return r.list(ctx, q, restaurantID, day.Format(dateLayout))
}

// ListByUser returns all reservations created by a customer, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
	           WHERE user_id = ?
	           ORDER BY created_at DESC, id DESC`
	return r.list(ctx, q, userID)
}

func (r *ReservationRepo) list(ctx context.Context, query string, args ...any) ([]*model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Reservation, 0)
	for rows.Next() {
		res := new(model.Reservation)
		if err := scanReservation(rows, res); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
