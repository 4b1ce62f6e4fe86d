package workorder

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/uptrace/bun"

	"github.com/Les2015/auto-repair-shop/internal/record"
)

// ErrNotFound is returned by Get when no work order row matches the id.
var ErrNotFound = errors.New("workorder not found")

const (
	// ListLimit caps how many work orders are listed per vehicle.
	ListLimit = 10
	// StatusListLimit caps the side panel's open/completed lists.
	StatusListLimit = 100
)

type Repository interface {
	Create(ctx context.Context, w *Workorder) error
	Update(ctx context.Context, w *Workorder) error
	Get(ctx context.Context, id record.ID) (*Workorder, error)
	// ForVehicle lists a vehicle's work orders newest first, capped at limit.
	ForVehicle(ctx context.Context, vehicleID record.ID, limit int) ([]*Workorder, error)
	// ByStatus lists work orders in the given status newest first.
	ByStatus(ctx context.Context, status Status, limit int) ([]*Workorder, error)
	// Count returns how many work orders a vehicle has.
	Count(ctx context.Context, vehicleID record.ID) (int, error)
	// CountUnclosed counts a vehicle's open and completed work orders.
	CountUnclosed(ctx context.Context, vehicleID record.ID) (int, error)
}

type workorderRow struct {
	bun.BaseModel `bun:"table:workorders,alias:w"`

	ID              string    `bun:"id,pk"`
	VehicleID       string    `bun:"vehicle_id,notnull"`
	Mileage         int       `bun:"mileage,notnull"`
	Status          string    `bun:"status,notnull"`
	DateCreated     time.Time `bun:"date_created,notnull"`
	DateClosed      time.Time `bun:"date_closed,nullzero"`
	CustomerRequest string    `bun:"customer_request,notnull"`
	Mechanic        string    `bun:"mechanic,notnull"`
	TaskList        string    `bun:"task_list"`
	WorkPerformed   string    `bun:"work_performed"`
	Notes           string    `bun:"notes"`
}

// Row is exported for migrations only.
type Row = workorderRow

type repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) Repository {
	return &repository{db: db}
}

func toRow(w *Workorder) (*workorderRow, error) {
	mileage, err := strconv.Atoi(w.Mileage)
	if err != nil {
		return nil, err
	}
	created, err := ParseDate(w.DateCreated)
	if err != nil {
		return nil, err
	}
	closed, err := ParseDate(w.DateClosed)
	if err != nil {
		return nil, err
	}
	return &workorderRow{
		ID:              w.ID.String(),
		VehicleID:       w.VehicleID.String(),
		Mileage:         mileage,
		Status:          w.Status,
		DateCreated:     created,
		DateClosed:      closed,
		CustomerRequest: w.CustomerRequest,
		Mechanic:        w.Mechanic,
		TaskList:        w.TaskList,
		WorkPerformed:   w.WorkPerformed,
		Notes:           w.Notes,
	}, nil
}

func fromRow(row *workorderRow) *Workorder {
	return &Workorder{
		ID:              record.ID(row.ID),
		VehicleID:       record.ID(row.VehicleID),
		Mileage:         strconv.Itoa(row.Mileage),
		Status:          row.Status,
		DateCreated:     FormatDate(row.DateCreated),
		DateClosed:      FormatDate(row.DateClosed),
		CustomerRequest: row.CustomerRequest,
		Mechanic:        row.Mechanic,
		TaskList:        row.TaskList,
		WorkPerformed:   row.WorkPerformed,
		Notes:           row.Notes,
	}
}

func (r *repository) Create(ctx context.Context, w *Workorder) error {
	row, err := toRow(w)
	if err != nil {
		return err
	}
	_, err = r.db.NewInsert().Model(row).Exec(ctx)
	return err
}

func (r *repository) Update(ctx context.Context, w *Workorder) error {
	row, err := toRow(w)
	if err != nil {
		return err
	}
	result, err := r.db.NewUpdate().Model(row).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Get(ctx context.Context, id record.ID) (*Workorder, error) {
	row := new(workorderRow)
	err := r.db.NewSelect().Model(row).Where("id = ?", id.String()).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return fromRow(row), nil
}

func (r *repository) ForVehicle(ctx context.Context, vehicleID record.ID, limit int) ([]*Workorder, error) {
	var rows []workorderRow
	err := r.db.NewSelect().Model(&rows).
		Where("vehicle_id = ?", vehicleID.String()).
		Order("date_created DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

func (r *repository) ByStatus(ctx context.Context, status Status, limit int) ([]*Workorder, error) {
	var rows []workorderRow
	err := r.db.NewSelect().Model(&rows).
		Where("status = ?", string(status)).
		Order("date_created DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

func (r *repository) Count(ctx context.Context, vehicleID record.ID) (int, error) {
	return r.db.NewSelect().Model((*workorderRow)(nil)).
		Where("vehicle_id = ?", vehicleID.String()).
		Count(ctx)
}

func (r *repository) CountUnclosed(ctx context.Context, vehicleID record.ID) (int, error) {
	return r.db.NewSelect().Model((*workorderRow)(nil)).
		Where("vehicle_id = ?", vehicleID.String()).
		Where("status IN (?)", bun.In([]string{string(StatusOpen), string(StatusCompleted)})).
		Count(ctx)
}

func fromRows(rows []workorderRow) []*Workorder {
	workorders := make([]*Workorder, 0, len(rows))
	for i := range rows {
		workorders = append(workorders, fromRow(&rows[i]))
	}
	return workorders
}
