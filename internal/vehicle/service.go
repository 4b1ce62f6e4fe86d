package vehicle

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Les2015/auto-repair-shop/internal/customer"
	"github.com/Les2015/auto-repair-shop/internal/record"
	"github.com/Les2015/auto-repair-shop/internal/validate"
)

// CustomerDirectory resolves the customer a vehicle belongs to. Absent
// customers come back as (nil, nil).
type CustomerDirectory interface {
	Get(ctx context.Context, id record.ID) (*customer.Customer, error)
}

// Service is the persistence gateway for vehicles.
type Service struct {
	repo      Repository
	customers CustomerDirectory
	logger    *slog.Logger
}

func NewService(repo Repository, customers CustomerDirectory, logger *slog.Logger) *Service {
	return &Service{repo: repo, customers: customers, logger: logger}
}

// Save validates the record, re-resolves the customer link, and writes the
// vehicle, returning the resulting id. A failure on the customer link is an
// InternalError: the user never edits that field, so it can only be broken
// wiring on the caller's side.
func (s *Service) Save(ctx context.Context, v *Vehicle) (record.ID, error) {
	if report := v.Validate(); !report.Valid() {
		if contains(report.FieldNames(), "customer_id") {
			return record.Unsaved, validate.Internal(report.ErrorText(), report.FieldNames())
		}
		return record.Unsaved, report.Err()
	}

	owner, err := s.customers.Get(ctx, v.CustomerID)
	if err != nil {
		return record.Unsaved, err
	}
	if owner == nil {
		return record.Unsaved, validate.Internal("invalid customer_id\n", []string{"customer_id"})
	}

	if v.ID.Persisted() {
		existing, err := s.repo.Get(ctx, v.ID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return record.Unsaved, err
		}
		if existing != nil {
			if err := s.repo.Update(ctx, v); err != nil {
				return record.Unsaved, err
			}
			s.logger.InfoContext(ctx, "vehicle updated", "vehicle_id", v.ID)
			return v.ID, nil
		}
	}

	v.ID = record.ID(uuid.NewString())
	if err := s.repo.Create(ctx, v); err != nil {
		return record.Unsaved, err
	}
	s.logger.InfoContext(ctx, "vehicle created", "vehicle_id", v.ID, "customer_id", v.CustomerID)
	return v.ID, nil
}

// Get retrieves a vehicle by id, treating malformed or unknown ids as absent.
func (s *Service) Get(ctx context.Context, id record.ID) (*Vehicle, error) {
	if !id.Persisted() {
		return nil, nil
	}
	v, err := s.repo.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return v, err
}

// ForCustomer lists a customer's vehicles, capped at ListLimit. An unsaved
// customer has no vehicles.
func (s *Service) ForCustomer(ctx context.Context, customerID record.ID) ([]*Vehicle, error) {
	if !customerID.Persisted() {
		return nil, nil
	}
	return s.repo.ForCustomer(ctx, customerID, ListLimit)
}

func contains(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}
