package vehicle

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/uptrace/bun"

	"github.com/Les2015/auto-repair-shop/internal/record"
)

// ErrNotFound is returned by Get when no vehicle row matches the id.
var ErrNotFound = errors.New("vehicle not found")

// ListLimit caps how many vehicles are listed per customer.
const ListLimit = 10

type Repository interface {
	Create(ctx context.Context, v *Vehicle) error
	Update(ctx context.Context, v *Vehicle) error
	Get(ctx context.Context, id record.ID) (*Vehicle, error)
	// ForCustomer lists the vehicles belonging to a customer, capped at limit.
	ForCustomer(ctx context.Context, customerID record.ID, limit int) ([]*Vehicle, error)
}

type vehicleRow struct {
	bun.BaseModel `bun:"table:vehicles,alias:v"`

	ID         string `bun:"id,pk"`
	CustomerID string `bun:"customer_id,notnull"`
	Make       string `bun:"make,notnull"`
	Model      string `bun:"model,notnull"`
	Year       int    `bun:"year,notnull"`
	License    string `bun:"license,notnull"`
	VIN        string `bun:"vin"`
	Notes      string `bun:"notes"`
}

// Row is exported for migrations only.
type Row = vehicleRow

type repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) Repository {
	return &repository{db: db}
}

func toRow(v *Vehicle) *vehicleRow {
	year, _ := strconv.Atoi(v.Year) // validated before save
	return &vehicleRow{
		ID:         v.ID.String(),
		CustomerID: v.CustomerID.String(),
		Make:       v.Make,
		Model:      v.Model,
		Year:       year,
		License:    v.License,
		VIN:        v.VIN,
		Notes:      v.Notes,
	}
}

func fromRow(row *vehicleRow) *Vehicle {
	return &Vehicle{
		ID:         record.ID(row.ID),
		CustomerID: record.ID(row.CustomerID),
		Make:       row.Make,
		Model:      row.Model,
		Year:       strconv.Itoa(row.Year),
		License:    row.License,
		VIN:        row.VIN,
		Notes:      row.Notes,
	}
}

func (r *repository) Create(ctx context.Context, v *Vehicle) error {
	_, err := r.db.NewInsert().Model(toRow(v)).Exec(ctx)
	return err
}

func (r *repository) Update(ctx context.Context, v *Vehicle) error {
	result, err := r.db.NewUpdate().Model(toRow(v)).WherePK().Exec(ctx)
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

func (r *repository) Get(ctx context.Context, id record.ID) (*Vehicle, error) {
	row := new(vehicleRow)
	err := r.db.NewSelect().Model(row).Where("id = ?", id.String()).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return fromRow(row), nil
}

func (r *repository) ForCustomer(ctx context.Context, customerID record.ID, limit int) ([]*Vehicle, error) {
	var rows []vehicleRow
	err := r.db.NewSelect().Model(&rows).
		Where("customer_id = ?", customerID.String()).
		Order("id ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	vehicles := make([]*Vehicle, 0, len(rows))
	for i := range rows {
		vehicles = append(vehicles, fromRow(&rows[i]))
	}
	return vehicles, nil
}
