package service

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
)

// TableSource reads and removes table rows on behalf of the plan service.
type TableSource interface {
	// ListActive returns the restaurant's non-archived tables ordered by id.
	ListActive(ctx context.Context, restaurantID uint64) ([]model.Table, error)
	// Delete removes a table row permanently.
	Delete(ctx context.Context, tableID uint64) error
}

// PlanStore persists table plans and their snapshots.  Lookup methods
// return repository.ErrPlanNotFound when no row matches.
type PlanStore interface {
	GetByDate(ctx context.Context, restaurantID uint64, day time.Time) (*model.TablePlan, error)
	Create(ctx context.Context, plan *model.TablePlan) error
	// ReplaceTables swaps the full snapshot set of a plan.
	ReplaceTables(ctx context.Context, planID uint64, tables []model.TableSnapshot) error
	// AddTableIfAbsent appends a snapshot unless the plan already holds
	// one for the same table (idempotent add).
	AddTableIfAbsent(ctx context.Context, planID uint64, snap model.TableSnapshot) error
	// UpdateSnapshots overwrites the mutable snapshot fields of one table
	// in every plan of the restaurant dated fromDay or later.
	UpdateSnapshots(ctx context.Context, restaurantID, tableID uint64, fromDay time.Time, snap model.TableSnapshot) error
	// RemoveSnapshots pulls one table's snapshot from every plan of the
	// restaurant dated fromDay or later.
	RemoveSnapshots(ctx context.Context, restaurantID, tableID uint64, fromDay time.Time) error
	// First and Last return the plans with the earliest and latest dates.
	First(ctx context.Context, restaurantID uint64) (*model.TablePlan, error)
	Last(ctx context.Context, restaurantID uint64) (*model.TablePlan, error)
	// LatestInserted returns the most recently created plan by insertion
	// order, regardless of date.
	LatestInserted(ctx context.Context, restaurantID uint64) (*model.TablePlan, error)
}

// TablePlanService keeps daily table plans in sync with the live table
// rows.  Today's plan is created lazily; plans for past days are never
// touched, so they preserve the layout history.
type TablePlanService struct {
	tables TableSource
	plans  PlanStore

	now func() time.Time
}

// NewTablePlanService builds a TablePlanService over the given stores.
func NewTablePlanService(tables TableSource, plans PlanStore) *TablePlanService {
	return &TablePlanService{tables: tables, plans: plans, now: time.Now}
}

func (s *TablePlanService) today() time.Time { return NormalizeDay(s.now()) }

// snapshotOf copies a table's layout fields into a plan snapshot.
func snapshotOf(t model.Table) model.TableSnapshot {
	return model.TableSnapshot{
		TableID:   t.ID,
		Number:    t.Number,
		Capacity:  t.Capacity,
		Shape:     t.Shape,
		PositionX: t.PositionX,
		PositionY: t.PositionY,
		Rotate:    t.Rotate,
		Status:    t.Status,
	}
}

// SyncPlanForToday rebuilds today's plan from the restaurant's active
// tables.  The snapshot set is always fully derived from the table rows;
// only the rotation of tables already present in the plan is carried
// over (sticky layout).  The operation is idempotent: running it twice
// without table changes yields an identical snapshot array.
func (s *TablePlanService) SyncPlanForToday(ctx context.Context, restaurantID uint64) (*model.TablePlan, error) {
	tables, err := s.tables.ListActive(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	plan, err := s.ensurePlan(ctx, restaurantID, s.today())
	if err != nil {
		return nil, err
	}

	existing := make(map[uint64]model.TableSnapshot, len(plan.Tables))
	for _, snap := range plan.Tables {
		existing[snap.TableID] = snap
	}

	snaps := make([]model.TableSnapshot, 0, len(tables))
	for _, t := range tables {
		snap := snapshotOf(t)
		if prev, ok := existing[t.ID]; ok {
			snap.Rotate = prev.Rotate
		}
		snaps = append(snaps, snap)
	}
	if err := s.plans.ReplaceTables(ctx, plan.ID, snaps); err != nil {
		return nil, err
	}
	plan.Tables = snaps
	return plan, nil
}

// OnTableCreated adds the new table to today's plan, creating the plan
// when it does not exist yet.  Adding the same table twice is a no-op.
func (s *TablePlanService) OnTableCreated(ctx context.Context, t model.Table) error {
	plan, err := s.ensurePlan(ctx, t.RestaurantID, s.today())
	if err != nil {
		return err
	}
	return s.plans.AddTableIfAbsent(ctx, plan.ID, snapshotOf(t))
}

// OnTableUpdated propagates a table edit into every plan dated today or
// later that contains the table.  Archived status never reaches a plan
// through this path; archival has its own flow.
func (s *TablePlanService) OnTableUpdated(ctx context.Context, t model.Table) error {
	if t.Status != model.TableAvailable && t.Status != model.TableUnavailable {
		return nil
	}
	return s.plans.UpdateSnapshots(ctx, t.RestaurantID, t.ID, s.today(), snapshotOf(t))
}

// OnTableArchived removes the table from all plans dated today or later
// and then resynchronises today's plan.  Plans for past days keep the
// table.
func (s *TablePlanService) OnTableArchived(ctx context.Context, t model.Table) error {
	if err := s.plans.RemoveSnapshots(ctx, t.RestaurantID, t.ID, s.today()); err != nil {
		return err
	}
	_, err := s.SyncPlanForToday(ctx, t.RestaurantID)
	return err
}

// OnTableDeleted removes the table from all plans dated today or later
// and hard-deletes the table row.
func (s *TablePlanService) OnTableDeleted(ctx context.Context, t model.Table) error {
	if err := s.plans.RemoveSnapshots(ctx, t.RestaurantID, t.ID, s.today()); err != nil {
		return err
	}
	return s.tables.Delete(ctx, t.ID)
}

// FindForDate returns the plan for the given day.  When no plan exists
// for that exact day the lookup clamps: days before the restaurant's
// first plan resolve to the first plan, later days to the latest plan.
// ErrNoTablePlan is returned when the restaurant has no plan at all.
func (s *TablePlanService) FindForDate(ctx context.Context, restaurantID uint64, day time.Time) (*model.TablePlan, error) {
	day = NormalizeDay(day)
	plan, err := s.plans.GetByDate(ctx, restaurantID, day)
	if err == nil {
		return plan, nil
	}
	if !errors.Is(err, repository.ErrPlanNotFound) {
		return nil, err
	}
	first, err := s.plans.First(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, repository.ErrPlanNotFound) {
			return nil, ErrNoTablePlan
		}
		return nil, err
	}
	if day.Before(first.Date) {
		return first, nil
	}
	return s.plans.Last(ctx, restaurantID)
}

// LatestInserted returns the restaurant's most recently created plan by
// insertion order.  The booking engine uses it under the
// latest_inserted_plan policy.  ErrNoTablePlan is returned when the
// restaurant has no plan.
func (s *TablePlanService) LatestInserted(ctx context.Context, restaurantID uint64) (*model.TablePlan, error) {
	plan, err := s.plans.LatestInserted(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, repository.ErrPlanNotFound) {
			return nil, ErrNoTablePlan
		}
		return nil, err
	}
	return plan, nil
}

// ensurePlan loads the plan for the given day, creating an empty one
// when absent.
func (s *TablePlanService) ensurePlan(ctx context.Context, restaurantID uint64, day time.Time) (*model.TablePlan, error) {
	plan, err := s.plans.GetByDate(ctx, restaurantID, day)
	if err == nil {
		return plan, nil
	}
	if !errors.Is(err, repository.ErrPlanNotFound) {
		return nil, err
	}
	plan = &model.TablePlan{RestaurantID: restaurantID, Date: day}
	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}
