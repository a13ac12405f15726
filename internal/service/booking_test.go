package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
)

// fakePlans serves a fixed plan for every lookup.
type fakePlans struct {
	plan *model.TablePlan
}

func (f *fakePlans) LatestInserted(ctx context.Context, restaurantID uint64) (*model.TablePlan, error) {
	if f.plan == nil {
		return nil, ErrNoTablePlan
	}
	return f.plan, nil
}

func (f *fakePlans) FindForDate(ctx context.Context, restaurantID uint64, day time.Time) (*model.TablePlan, error) {
	return f.LatestInserted(ctx, restaurantID)
}

// memStore is an in-memory ReservationStore + LedgerSource that mimics
// the conditional ledger write of the MySQL repository: the overlap
// check and the insert happen under one lock, so concurrent bookings
// racing for a slot serialize exactly like they do against the store.
type memStore struct {
	mu      sync.Mutex
	nextID  uint64
	res     map[uint64]*model.Reservation
	entries []*model.TableReservation
}

func newMemStore() *memStore {
	return &memStore{res: make(map[uint64]*model.Reservation)}
}

func (m *memStore) Commit(ctx context.Context, res *model.Reservation, entry *model.TableReservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.TableID != entry.TableID || !e.Date.Equal(entry.Date) || e.Status == model.ReservationCanceled {
			continue
		}
		if Overlaps(entry.OccupiedStart, entry.OccupiedEnd, e.OccupiedStart, e.OccupiedEnd) {
			return repository.ErrConflict
		}
	}
	m.nextID++
	res.ID = m.nextID
	entry.ReservationID = res.ID
	stored := *res
	m.res[res.ID] = &stored
	entryCopy := *entry
	m.entries = append(m.entries, &entryCopy)
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.res[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	out := *res
	return &out, nil
}

func (m *memStore) SetStatus(ctx context.Context, res *model.Reservation, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.res[res.ID]
	if !ok {
		return repository.ErrReservationNotFound
	}
	var entry *model.TableReservation
	for _, e := range m.entries {
		if e.ReservationID == res.ID {
			entry = e
			break
		}
	}
	if entry == nil {
		return repository.ErrLedgerEntryNotFound
	}
	stored.Status = status
	entry.Status = status
	return nil
}

func (m *memStore) EntriesByDay(ctx context.Context, restaurantID uint64, day time.Time) (map[uint64][]model.TableReservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[uint64][]model.TableReservation)
	for _, e := range m.entries {
		if e.RestaurantID == restaurantID && e.Date.Equal(day) {
			out[e.TableID] = append(out[e.TableID], *e)
		}
	}
	return out, nil
}

// dropLedger removes a reservation's ledger entry, simulating a diverged
// store.
func (m *memStore) dropLedger(reservationID uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.entries[:0]
	for _, e := range m.entries {
		if e.ReservationID != reservationID {
			kept = append(kept, e)
		}
	}
	m.entries = kept
}

func planWith(tables ...model.TableSnapshot) *model.TablePlan {
	return &model.TablePlan{
		ID:           1,
		RestaurantID: 7,
		Date:         time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Tables:       tables,
	}
}

func snap(tableID uint64, number string, capacity uint32) model.TableSnapshot {
	return model.TableSnapshot{TableID: tableID, Number: number, Capacity: capacity, Status: model.TableAvailable}
}

func newTestService(plan *model.TablePlan, store *memStore) *ReservationService {
	svc := NewReservationService(&fakePlans{plan: plan}, store, store, config.PlanPolicyLatestInserted)
	svc.shuffle = func(n int, swap func(i, j int)) {} // deterministic order
	return svc
}

func book(svc *ReservationService, timeStr string, persons uint32) (*model.Reservation, error) {
	return svc.Book(context.Background(), BookingRequest{
		RestaurantID: 7,
		Date:         time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		Time:         timeStr,
		Persons:      persons,
	})
}

func TestBookAssignsCompatibleTable(t *testing.T) {
	store := newMemStore()
	svc := newTestService(planWith(snap(1, "T1", 2), snap(2, "T2", 4)), store)

	res, err := book(svc, "18:00", 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), res.TableID)
	assert.Equal(t, "T2", res.TableNumber)
	assert.Equal(t, model.ReservationWaiting, res.Status)
	assert.NotEmpty(t, res.Code)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), res.DateSelected)
}

func TestBookNoDoubleBooking(t *testing.T) {
	store := newMemStore()
	svc := newTestService(planWith(snap(1, "T1", 4)), store)

	_, err := book(svc, "18:00", 4)
	require.NoError(t, err)

	_, err = book(svc, "18:00", 4)
	assert.ErrorIs(t, err, ErrNoAvailableTable)

	// A one-minute overlap still conflicts.
	_, err = book(svc, "18:59", 4)
	assert.ErrorIs(t, err, ErrNoAvailableTable)
}

func TestBookBackToBackAllowed(t *testing.T) {
	store := newMemStore()
	svc := newTestService(planWith(snap(1, "T1", 4)), store)

	_, err := book(svc, "18:00", 4)
	require.NoError(t, err)
	_, err = book(svc, "19:00", 4)
	assert.NoError(t, err)
	_, err = book(svc, "17:00", 4)
	assert.NoError(t, err)
}

func TestBookPrefersUnusedTables(t *testing.T) {
	store := newMemStore()
	svc := newTestService(planWith(snap(1, "T1", 4), snap(2, "T2", 4)), store)

	first, err := book(svc, "18:00", 4)
	require.NoError(t, err)
	// A booking at a non-overlapping hour must land on the other table,
	// even though the first is free at that time.
	second, err := book(svc, "12:00", 4)
	require.NoError(t, err)
	assert.NotEqual(t, first.TableID, second.TableID)
}

func TestBookErrorTaxonomy(t *testing.T) {
	store := newMemStore()
	svc := newTestService(planWith(snap(1, "T1", 2)), store)

	_, err := book(svc, "18:00", 9)
	assert.ErrorIs(t, err, ErrNoCompatibleTable)

	_, err = book(svc, "18:00", 4) // no 4-seat table in the plan
	assert.ErrorIs(t, err, ErrNoCompatibleTable)

	_, err = book(svc, "24:00", 2)
	assert.ErrorIs(t, err, ErrInvalidTime)

	empty := newTestService(nil, store)
	_, err = book(empty, "18:00", 2)
	assert.ErrorIs(t, err, ErrNoTablePlan)
}

func TestBookCommitConflictMapsToConflictingReservation(t *testing.T) {
	store := newMemStore()
	svc := newTestService(planWith(snap(1, "T1", 4)), store)

	// Seed a conflicting entry directly, invisible to the availability
	// scan by injecting it between scan and commit is not possible here,
	// so use a ledger source that always reports empty.
	_, err := book(svc, "18:00", 4)
	require.NoError(t, err)

	svc.ledger = emptyLedger{}
	_, err = book(svc, "18:30", 4)
	assert.ErrorIs(t, err, ErrConflictingReservation)
}

type emptyLedger struct{}

func (emptyLedger) EntriesByDay(ctx context.Context, restaurantID uint64, day time.Time) (map[uint64][]model.TableReservation, error) {
	return map[uint64][]model.TableReservation{}, nil
}

func TestCanceledReservationFreesSlot(t *testing.T) {
	store := newMemStore()
	svc := newTestService(planWith(snap(1, "T1", 4)), store)

	res, err := book(svc, "18:00", 4)
	require.NoError(t, err)
	_, err = book(svc, "18:00", 4)
	require.ErrorIs(t, err, ErrNoAvailableTable)

	_, err = svc.Cancel(context.Background(), res.ID)
	require.NoError(t, err)

	_, err = book(svc, "18:00", 4)
	assert.NoError(t, err)
}

func TestConfirmLifecycle(t *testing.T) {
	store := newMemStore()
	svc := newTestService(planWith(snap(1, "T1", 4)), store)
	ctx := context.Background()

	res, err := book(svc, "18:00", 4)
	require.NoError(t, err)

	confirmed, err := svc.Confirm(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationConfirmed, confirmed.Status)

	// Confirming twice is an invalid transition.
	_, err = svc.Confirm(ctx, res.ID)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// Unknown reservation.
	_, err = svc.Confirm(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	// Cancel still works from confirmed, then again is not_found.
	_, err = svc.Cancel(ctx, res.ID)
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, res.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStatusChangeWithoutLedgerEntry(t *testing.T) {
	store := newMemStore()
	svc := newTestService(planWith(snap(1, "T1", 4)), store)

	res, err := book(svc, "18:00", 4)
	require.NoError(t, err)
	store.dropLedger(res.ID)

	_, err = svc.Confirm(context.Background(), res.ID)
	assert.ErrorIs(t, err, ErrNoTableReservation)
}

func TestConcurrentBookingSingleWinner(t *testing.T) {
	store := newMemStore()
	svc := newTestService(planWith(snap(1, "T1", 4)), store)

	const attempts = 32
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = book(svc, "18:00", 4)
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.True(t,
				err == ErrNoAvailableTable || err == ErrConflictingReservation,
				"unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, won)
}

func TestBookingScenarioTwoSmallTables(t *testing.T) {
	store := newMemStore()
	svc := newTestService(planWith(snap(1, "A", 2), snap(2, "B", 2)), store)

	// Two couples at the same hour take both tables.
	first, err := book(svc, "19:00", 2)
	require.NoError(t, err)
	second, err := book(svc, "19:00", 2)
	require.NoError(t, err)
	assert.NotEqual(t, first.TableID, second.TableID)

	// A third couple is turned away.
	_, err = book(svc, "19:00", 2)
	assert.ErrorIs(t, err, ErrNoAvailableTable)

	// Back-to-back at 20:00 is fine.
	_, err = book(svc, "20:00", 1)
	require.NoError(t, err)

	// A party of four has no compatible table in this plan.
	_, err = book(svc, "19:00", 4)
	assert.ErrorIs(t, err, ErrNoCompatibleTable)

	// Canceling one couple reopens 19:00.
	_, err = svc.Cancel(context.Background(), first.ID)
	require.NoError(t, err)
	_, err = book(svc, "19:00", 2)
	assert.NoError(t, err)
}
