package service

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
)

// PlanSource supplies table plans to the booking engine.  Implementations
// return ErrNoTablePlan when the restaurant has no plan; *TablePlanService
// satisfies this interface.
type PlanSource interface {
	// LatestInserted returns the most recently created plan of the
	// restaurant regardless of its date.
	LatestInserted(ctx context.Context, restaurantID uint64) (*model.TablePlan, error)
	// FindForDate returns the plan for the given day, clamped to the
	// earliest plan when the day precedes all plans and to the latest
	// plan otherwise.
	FindForDate(ctx context.Context, restaurantID uint64, day time.Time) (*model.TablePlan, error)
}

// LedgerSource reads occupied intervals for availability decisions.
type LedgerSource interface {
	// EntriesByDay returns all ledger rows of a restaurant for one day,
	// grouped by table id.  Tables without bookings have no key.
	EntriesByDay(ctx context.Context, restaurantID uint64, day time.Time) (map[uint64][]model.TableReservation, error)
}

// ReservationStore persists reservations together with their ledger rows.
type ReservationStore interface {
	// Commit atomically writes the reservation and its ledger entry.
	// It returns repository.ErrConflict when an overlapping non-canceled
	// interval exists for the same table and day at write time; in that
	// case nothing is persisted.
	Commit(ctx context.Context, res *model.Reservation, entry *model.TableReservation) error
	// GetByID loads a reservation, returning repository.ErrReservationNotFound
	// when it does not exist.
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	// SetStatus updates the reservation status and mirrors it into the
	// matching ledger row in one atomic step.  It returns
	// repository.ErrLedgerEntryNotFound when the ledger row is missing.
	SetStatus(ctx context.Context, res *model.Reservation, status string) error
}

// BookingRequest carries the parameters of one booking attempt.
type BookingRequest struct {
	RestaurantID uint64
	Date         time.Time // any time on the requested day
	Time         string    // "HH:mm"
	Persons      uint32
	UserID       *uint64 // nil for anonymous widget bookings
	Details      string
}

// ReservationService assigns tables to booking requests and drives the
// reservation lifecycle.  The zero value is not usable; construct it
// with NewReservationService.
type ReservationService struct {
	plans        PlanSource
	ledger       LedgerSource
	reservations ReservationStore
	policy       string // config.PlanPolicy* value

	now     func() time.Time
	shuffle func(n int, swap func(i, j int))
}

// NewReservationService builds a ReservationService using the given
// stores and plan selection policy.
func NewReservationService(plans PlanSource, ledger LedgerSource, reservations ReservationStore, policy string) *ReservationService {
	return &ReservationService{
		plans:        plans,
		ledger:       ledger,
		reservations: reservations,
		policy:       policy,
		now:          time.Now,
		shuffle:      rand.Shuffle,
	}
}

// Book finds a free compatible table for the request and records the
// reservation.  On success the returned reservation has status waiting
// and its ledger entry is already persisted.  Failure modes:
//
//	ErrInvalidTime            – malformed "HH:mm" time
//	ErrNoTablePlan            – the restaurant has no plan configured
//	ErrNoCompatibleTable      – party size matches no capacity tier in the plan
//	ErrNoAvailableTable       – all compatible tables are occupied for the slot
//	ErrConflictingReservation – a concurrent booking won the slot at commit time
func (s *ReservationService) Book(ctx context.Context, req BookingRequest) (*model.Reservation, error) {
	day := NormalizeDay(req.Date)
	occupiedStart, occupiedEnd, err := SlotBounds(day, req.Time)
	if err != nil {
		return nil, err
	}
	capacity, ok := CapacityForParty(req.Persons)
	if !ok {
		return nil, ErrNoCompatibleTable
	}

	plan, err := s.loadPlan(ctx, req.RestaurantID, day)
	if err != nil {
		return nil, err
	}

	candidates := make([]model.TableSnapshot, 0, len(plan.Tables))
	for _, t := range plan.Tables {
		if t.Capacity == capacity {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return nil, ErrNoCompatibleTable
	}
	// Uniform shuffle spreads load across identical tables.
	s.shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	entries, err := s.ledger.EntriesByDay(ctx, plan.RestaurantID, day)
	if err != nil {
		return nil, err
	}

	winner, ok := pickTable(candidates, entries, occupiedStart, occupiedEnd)
	if !ok {
		return nil, ErrNoAvailableTable
	}

	res := &model.Reservation{
		Code:         uuid.NewString(),
		RestaurantID: plan.RestaurantID,
		UserID:       req.UserID,
		TableID:      winner.TableID,
		TableNumber:  winner.Number,
		DateSelected: day,
		TimeSelected: req.Time,
		NbrPersons:   req.Persons,
		Details:      req.Details,
		Status:       model.ReservationWaiting,
	}
	entry := &model.TableReservation{
		RestaurantID:  plan.RestaurantID,
		Date:          day,
		TableID:       winner.TableID,
		Status:        model.ReservationWaiting,
		OccupiedStart: occupiedStart,
		OccupiedEnd:   occupiedEnd,
	}
	if err := s.reservations.Commit(ctx, res, entry); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrConflictingReservation
		}
		return nil, err
	}
	return res, nil
}

// loadPlan resolves the plan the engine books against, according to the
// configured selection policy.
func (s *ReservationService) loadPlan(ctx context.Context, restaurantID uint64, day time.Time) (*model.TablePlan, error) {
	if s.policy == config.PlanPolicyForRequestedDate {
		return s.plans.FindForDate(ctx, restaurantID, day)
	}
	return s.plans.LatestInserted(ctx, restaurantID)
}

// pickTable walks the shuffled candidates in two passes: tables with no
// booking at all for the day first, then already-used tables.  The first
// table whose non-canceled intervals do not overlap the requested slot
// wins.
func pickTable(candidates []model.TableSnapshot, entries map[uint64][]model.TableReservation, start, end time.Time) (model.TableSnapshot, bool) {
	for _, usedPass := range []bool{false, true} {
		for _, cand := range candidates {
			booked := entries[cand.TableID]
			if (len(booked) > 0) != usedPass {
				continue
			}
			if tableFree(booked, start, end) {
				return cand, true
			}
		}
	}
	return model.TableSnapshot{}, false
}

// tableFree reports whether none of the table's non-canceled intervals
// overlap [start, end).  Canceled reservations free their slot.
func tableFree(booked []model.TableReservation, start, end time.Time) bool {
	for _, b := range booked {
		if b.Status == model.ReservationCanceled {
			continue
		}
		if Overlaps(start, end, b.OccupiedStart, b.OccupiedEnd) {
			return false
		}
	}
	return true
}

// Confirm transitions a waiting reservation to confirmed and mirrors the
// status into its ledger entry.  It returns ErrNotFound when the
// reservation does not exist, ErrInvalidStatus when it is not waiting,
// and ErrNoTableReservation when the ledger entry is missing.
func (s *ReservationService) Confirm(ctx context.Context, reservationID uint64) (*model.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if res.Status != model.ReservationWaiting {
		return nil, ErrInvalidStatus
	}
	if err := s.setStatus(ctx, res, model.ReservationConfirmed); err != nil {
		return nil, err
	}
	return res, nil
}

// Cancel transitions a reservation to canceled, freeing its interval.
// Canceling a missing or already-canceled reservation returns ErrNotFound.
func (s *ReservationService) Cancel(ctx context.Context, reservationID uint64) (*model.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if res.Status == model.ReservationCanceled {
		return nil, ErrNotFound
	}
	if err := s.setStatus(ctx, res, model.ReservationCanceled); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *ReservationService) setStatus(ctx context.Context, res *model.Reservation, status string) error {
	if err := s.reservations.SetStatus(ctx, res, status); err != nil {
		if errors.Is(err, repository.ErrLedgerEntryNotFound) {
			return ErrNoTableReservation
		}
		return err
	}
	res.Status = status
	return nil
}
