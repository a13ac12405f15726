package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
)

// fakeTables serves a fixed active-table list.
type fakeTables struct {
	active  []model.Table
	deleted []uint64
}

func (f *fakeTables) ListActive(ctx context.Context, restaurantID uint64) ([]model.Table, error) {
	return f.active, nil
}

func (f *fakeTables) Delete(ctx context.Context, tableID uint64) error {
	f.deleted = append(f.deleted, tableID)
	return nil
}

// memPlans is an in-memory PlanStore keyed by date, with insertion
// order tracked for LatestInserted.
type memPlans struct {
	nextID uint64
	plans  []*model.TablePlan
}

func (m *memPlans) find(restaurantID uint64, day time.Time) *model.TablePlan {
	for _, p := range m.plans {
		if p.RestaurantID == restaurantID && p.Date.Equal(day) {
			return p
		}
	}
	return nil
}

func (m *memPlans) GetByDate(ctx context.Context, restaurantID uint64, day time.Time) (*model.TablePlan, error) {
	if p := m.find(restaurantID, day); p != nil {
		return p, nil
	}
	return nil, repository.ErrPlanNotFound
}

func (m *memPlans) Create(ctx context.Context, plan *model.TablePlan) error {
	m.nextID++
	plan.ID = m.nextID
	m.plans = append(m.plans, plan)
	return nil
}

func (m *memPlans) byID(planID uint64) *model.TablePlan {
	for _, p := range m.plans {
		if p.ID == planID {
			return p
		}
	}
	return nil
}

func (m *memPlans) ReplaceTables(ctx context.Context, planID uint64, tables []model.TableSnapshot) error {
	p := m.byID(planID)
	if p == nil {
		return repository.ErrPlanNotFound
	}
	p.Tables = append([]model.TableSnapshot(nil), tables...)
	return nil
}

func (m *memPlans) AddTableIfAbsent(ctx context.Context, planID uint64, snap model.TableSnapshot) error {
	p := m.byID(planID)
	if p == nil {
		return repository.ErrPlanNotFound
	}
	for _, existing := range p.Tables {
		if existing.TableID == snap.TableID {
			return nil
		}
	}
	p.Tables = append(p.Tables, snap)
	return nil
}

func (m *memPlans) UpdateSnapshots(ctx context.Context, restaurantID, tableID uint64, fromDay time.Time, snap model.TableSnapshot) error {
	for _, p := range m.plans {
		if p.RestaurantID != restaurantID || p.Date.Before(fromDay) {
			continue
		}
		for i, existing := range p.Tables {
			if existing.TableID == tableID {
				p.Tables[i] = snap
			}
		}
	}
	return nil
}

func (m *memPlans) RemoveSnapshots(ctx context.Context, restaurantID, tableID uint64, fromDay time.Time) error {
	for _, p := range m.plans {
		if p.RestaurantID != restaurantID || p.Date.Before(fromDay) {
			continue
		}
		kept := p.Tables[:0]
		for _, existing := range p.Tables {
			if existing.TableID != tableID {
				kept = append(kept, existing)
			}
		}
		p.Tables = kept
	}
	return nil
}

func (m *memPlans) First(ctx context.Context, restaurantID uint64) (*model.TablePlan, error) {
	var first *model.TablePlan
	for _, p := range m.plans {
		if p.RestaurantID != restaurantID {
			continue
		}
		if first == nil || p.Date.Before(first.Date) {
			first = p
		}
	}
	if first == nil {
		return nil, repository.ErrPlanNotFound
	}
	return first, nil
}

func (m *memPlans) Last(ctx context.Context, restaurantID uint64) (*model.TablePlan, error) {
	var last *model.TablePlan
	for _, p := range m.plans {
		if p.RestaurantID != restaurantID {
			continue
		}
		if last == nil || p.Date.After(last.Date) {
			last = p
		}
	}
	if last == nil {
		return nil, repository.ErrPlanNotFound
	}
	return last, nil
}

func (m *memPlans) LatestInserted(ctx context.Context, restaurantID uint64) (*model.TablePlan, error) {
	for i := len(m.plans) - 1; i >= 0; i-- {
		if m.plans[i].RestaurantID == restaurantID {
			return m.plans[i], nil
		}
	}
	return nil, repository.ErrPlanNotFound
}

var planToday = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func newPlanService(tables *fakeTables, plans *memPlans) *TablePlanService {
	svc := NewTablePlanService(tables, plans)
	svc.now = func() time.Time { return planToday.Add(10 * time.Hour) }
	return svc
}

func activeTable(id uint64, number string, capacity uint32, rotate float64) model.Table {
	return model.Table{
		ID:           id,
		RestaurantID: 7,
		Number:       number,
		Capacity:     capacity,
		Rotate:       rotate,
		Status:       model.TableAvailable,
	}
}

func TestSyncPlanForTodayIdempotent(t *testing.T) {
	tables := &fakeTables{active: []model.Table{
		activeTable(1, "T1", 2, 0),
		activeTable(2, "T2", 4, 90),
	}}
	plans := &memPlans{}
	svc := newPlanService(tables, plans)
	ctx := context.Background()

	first, err := svc.SyncPlanForToday(ctx, 7)
	require.NoError(t, err)
	require.Len(t, first.Tables, 2)
	assert.Equal(t, planToday, first.Date)

	second, err := svc.SyncPlanForToday(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "no duplicate plan for the same day")
	assert.Equal(t, first.Tables, second.Tables, "snapshot set identical, order included")
}

func TestSyncPlanKeepsStickyRotation(t *testing.T) {
	tables := &fakeTables{active: []model.Table{activeTable(1, "T1", 2, 0)}}
	plans := &memPlans{}
	svc := newPlanService(tables, plans)
	ctx := context.Background()

	_, err := svc.SyncPlanForToday(ctx, 7)
	require.NoError(t, err)

	// Manager rotated the table on the floor editor; the table row still
	// carries the stale rotation.
	plan, err := plans.GetByDate(ctx, 7, planToday)
	require.NoError(t, err)
	plan.Tables[0].Rotate = 45

	resynced, err := svc.SyncPlanForToday(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, float64(45), resynced.Tables[0].Rotate)
}

func TestOnTableCreatedAddsToTodaysPlanOnce(t *testing.T) {
	tables := &fakeTables{}
	plans := &memPlans{}
	svc := newPlanService(tables, plans)
	ctx := context.Background()

	tbl := activeTable(3, "T3", 4, 0)
	require.NoError(t, svc.OnTableCreated(ctx, tbl))
	require.NoError(t, svc.OnTableCreated(ctx, tbl)) // idempotent

	plan, err := plans.GetByDate(ctx, 7, planToday)
	require.NoError(t, err)
	require.Len(t, plan.Tables, 1)
	assert.Equal(t, uint64(3), plan.Tables[0].TableID)
}

func TestOnTableUpdatedSkipsArchivedStatus(t *testing.T) {
	tables := &fakeTables{}
	plans := &memPlans{}
	svc := newPlanService(tables, plans)
	ctx := context.Background()

	tbl := activeTable(3, "T3", 4, 0)
	require.NoError(t, svc.OnTableCreated(ctx, tbl))

	tbl.Status = model.TableArchived
	require.NoError(t, svc.OnTableUpdated(ctx, tbl))

	plan, err := plans.GetByDate(ctx, 7, planToday)
	require.NoError(t, err)
	assert.Equal(t, model.TableAvailable, plan.Tables[0].Status, "archival must not leak through the update path")
}

func TestOnTableArchivedRemovesFromTodayOnward(t *testing.T) {
	tbl := activeTable(1, "T1", 2, 0)
	other := activeTable(2, "T2", 4, 0)
	tables := &fakeTables{active: []model.Table{tbl, other}}
	plans := &memPlans{}
	svc := newPlanService(tables, plans)
	ctx := context.Background()

	// Seed yesterday's plan containing the table, then today's.
	yesterday := planToday.AddDate(0, 0, -1)
	plans.Create(ctx, &model.TablePlan{
		RestaurantID: 7,
		Date:         yesterday,
		Tables:       []model.TableSnapshot{snapshotOf(tbl), snapshotOf(other)},
	})
	_, err := svc.SyncPlanForToday(ctx, 7)
	require.NoError(t, err)

	tables.active = []model.Table{other}
	tbl.Status = model.TableArchived
	require.NoError(t, svc.OnTableArchived(ctx, tbl))

	today, err := plans.GetByDate(ctx, 7, planToday)
	require.NoError(t, err)
	require.Len(t, today.Tables, 1)
	assert.Equal(t, uint64(2), today.Tables[0].TableID)

	past, err := plans.GetByDate(ctx, 7, yesterday)
	require.NoError(t, err)
	assert.Len(t, past.Tables, 2, "history keeps the archived table")
}

func TestOnTableDeletedRemovesRowAndSnapshots(t *testing.T) {
	tbl := activeTable(1, "T1", 2, 0)
	tables := &fakeTables{active: []model.Table{tbl}}
	plans := &memPlans{}
	svc := newPlanService(tables, plans)
	ctx := context.Background()

	_, err := svc.SyncPlanForToday(ctx, 7)
	require.NoError(t, err)

	require.NoError(t, svc.OnTableDeleted(ctx, tbl))
	plan, err := plans.GetByDate(ctx, 7, planToday)
	require.NoError(t, err)
	assert.Empty(t, plan.Tables)
	assert.Equal(t, []uint64{1}, tables.deleted)
}

func TestFindForDateClamps(t *testing.T) {
	plans := &memPlans{}
	svc := newPlanService(&fakeTables{}, plans)
	ctx := context.Background()

	_, err := svc.FindForDate(ctx, 7, planToday)
	assert.ErrorIs(t, err, ErrNoTablePlan)

	d1 := planToday
	d2 := planToday.AddDate(0, 0, 2)
	plans.Create(ctx, &model.TablePlan{RestaurantID: 7, Date: d1})
	plans.Create(ctx, &model.TablePlan{RestaurantID: 7, Date: d2})

	// Exact hit.
	p, err := svc.FindForDate(ctx, 7, d2)
	require.NoError(t, err)
	assert.Equal(t, d2, p.Date)

	// Before the first plan: clamp to first.
	p, err = svc.FindForDate(ctx, 7, d1.AddDate(0, 0, -5))
	require.NoError(t, err)
	assert.Equal(t, d1, p.Date)

	// Between and after: clamp to latest.
	p, err = svc.FindForDate(ctx, 7, d1.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, d2, p.Date)
	p, err = svc.FindForDate(ctx, 7, d2.AddDate(0, 0, 30))
	require.NoError(t, err)
	assert.Equal(t, d2, p.Date)
}
