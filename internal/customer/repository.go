package customer

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/uptrace/bun"

	"github.com/Les2015/auto-repair-shop/internal/record"
)

// ErrNotFound is returned by Get when no customer row matches the id.
var ErrNotFound = errors.New("customer not found")

// SearchLimit caps how many customers a search may return.
const SearchLimit = 50

type Repository interface {
	Create(ctx context.Context, c *Customer) error
	Update(ctx context.Context, c *Customer) error
	Get(ctx context.Context, id record.ID) (*Customer, error)
	// Search matches every non-empty criteria field with AND semantics.
	// First and last name match case-insensitively through the search
	// columns; everything else matches exactly. Results are ordered by
	// last name then first name and capped at limit.
	Search(ctx context.Context, criteria *Customer, limit int) ([]*Customer, error)
}

// customerRow is the customers table. The *_search columns hold uppercased
// copies of the name fields and exist only for case-insensitive matching.
type customerRow struct {
	bun.BaseModel `bun:"table:customers,alias:c"`

	ID              string `bun:"id,pk"`
	FirstName       string `bun:"first_name"`
	LastName        string `bun:"last_name,notnull"`
	Address1        string `bun:"address1,notnull"`
	Address2        string `bun:"address2"`
	City            string `bun:"city,notnull"`
	State           string `bun:"state,notnull"`
	Zip             string `bun:"zip,notnull"`
	Phone1          string `bun:"phone1,notnull"`
	Phone2          string `bun:"phone2"`
	Email           string `bun:"email"`
	Comments        string `bun:"comments"`
	FirstNameSearch string `bun:"first_name_search"`
	LastNameSearch  string `bun:"last_name_search"`
}

// Row is exported for migrations only.
type Row = customerRow

type repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) Repository {
	return &repository{db: db}
}

func toRow(c *Customer) *customerRow {
	return &customerRow{
		ID:              c.ID.String(),
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		Address1:        c.Address1,
		Address2:        c.Address2,
		City:            c.City,
		State:           c.State,
		Zip:             c.Zip,
		Phone1:          c.Phone1,
		Phone2:          c.Phone2,
		Email:           c.Email,
		Comments:        c.Comments,
		FirstNameSearch: strings.ToUpper(c.FirstName),
		LastNameSearch:  strings.ToUpper(c.LastName),
	}
}

func fromRow(row *customerRow) *Customer {
	return &Customer{
		ID:        record.ID(row.ID),
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Address1:  row.Address1,
		Address2:  row.Address2,
		City:      row.City,
		State:     row.State,
		Zip:       row.Zip,
		Phone1:    row.Phone1,
		Phone2:    row.Phone2,
		Email:     row.Email,
		Comments:  row.Comments,
	}
}

func (r *repository) Create(ctx context.Context, c *Customer) error {
	_, err := r.db.NewInsert().Model(toRow(c)).Exec(ctx)
	return err
}

func (r *repository) Update(ctx context.Context, c *Customer) error {
	result, err := r.db.NewUpdate().Model(toRow(c)).WherePK().Exec(ctx)
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

func (r *repository) Get(ctx context.Context, id record.ID) (*Customer, error) {
	row := new(customerRow)
	err := r.db.NewSelect().Model(row).Where("id = ?", id.String()).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return fromRow(row), nil
}

func (r *repository) Search(ctx context.Context, criteria *Customer, limit int) ([]*Customer, error) {
	var rows []customerRow
	q := r.db.NewSelect().Model(&rows)
	if criteria.FirstName != "" {
		q = q.Where("first_name_search = ?", strings.ToUpper(criteria.FirstName))
	}
	if criteria.LastName != "" {
		q = q.Where("last_name_search = ?", strings.ToUpper(criteria.LastName))
	}
	if criteria.Address1 != "" {
		q = q.Where("address1 = ?", criteria.Address1)
	}
	if criteria.City != "" {
		q = q.Where("city = ?", criteria.City)
	}
	if criteria.State != "" {
		q = q.Where("state = ?", criteria.State)
	}
	if criteria.Zip != "" {
		q = q.Where("zip = ?", criteria.Zip)
	}
	if criteria.Phone1 != "" {
		q = q.Where("phone1 = ?", criteria.Phone1)
	}
	if criteria.Email != "" {
		q = q.Where("email = ?", criteria.Email)
	}
	err := q.Order("last_name_search ASC").Order("first_name_search ASC").Limit(limit).Scan(ctx)
	if err != nil {
		return nil, err
	}
	customers := make([]*Customer, 0, len(rows))
	for i := range rows {
		customers = append(customers, fromRow(&rows[i]))
	}
	return customers, nil
}
