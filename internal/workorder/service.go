package workorder

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Les2015/auto-repair-shop/internal/record"
	"github.com/Les2015/auto-repair-shop/internal/validate"
	"github.com/Les2015/auto-repair-shop/internal/vehicle"
)

// internalFields are validated fields the user never edits directly; a
// failure on one of them means the caller wired the record wrong.
var internalFields = map[string]bool{
	"vehicle_id":   true,
	"date_created": true,
	"date_closed":  true,
}

// VehicleDirectory resolves the vehicle a work order belongs to.
type VehicleDirectory interface {
	Get(ctx context.Context, id record.ID) (*vehicle.Vehicle, error)
}

// VehicleWorkorder pairs a work order with the vehicle it was opened for,
// as shown in the side panel lists.
type VehicleWorkorder struct {
	Vehicle   *vehicle.Vehicle
	Workorder *Workorder
}

// Service is the persistence gateway for work orders.
type Service struct {
	repo     Repository
	vehicles VehicleDirectory
	logger   *slog.Logger
}

func NewService(repo Repository, vehicles VehicleDirectory, logger *slog.Logger) *Service {
	return &Service{repo: repo, vehicles: vehicles, logger: logger}
}

// Save validates the record with its state-dependent required set,
// re-resolves the vehicle link, and writes the work order, returning the
// resulting id.
func (s *Service) Save(ctx context.Context, w *Workorder) (record.ID, error) {
	if report := w.Validate(); !report.Valid() {
		for _, name := range report.FieldNames() {
			if internalFields[name] {
				return record.Unsaved, validate.Internal(report.ErrorText(), report.FieldNames())
			}
		}
		return record.Unsaved, report.Err()
	}

	owner, err := s.vehicles.Get(ctx, w.VehicleID)
	if err != nil {
		return record.Unsaved, err
	}
	if owner == nil {
		return record.Unsaved, validate.Internal("invalid vehicle_id\n", []string{"vehicle_id"})
	}

	if w.ID.Persisted() {
		existing, err := s.repo.Get(ctx, w.ID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return record.Unsaved, err
		}
		if existing != nil {
			if err := s.repo.Update(ctx, w); err != nil {
				return record.Unsaved, err
			}
			s.logger.InfoContext(ctx, "workorder updated", "workorder_id", w.ID, "status", w.Status)
			return w.ID, nil
		}
	}

	w.ID = record.ID(uuid.NewString())
	if err := s.repo.Create(ctx, w); err != nil {
		return record.Unsaved, err
	}
	s.logger.InfoContext(ctx, "workorder created", "workorder_id", w.ID, "vehicle_id", w.VehicleID)
	return w.ID, nil
}

// Get retrieves a work order by id, treating malformed or unknown ids as
// absent.
func (s *Service) Get(ctx context.Context, id record.ID) (*Workorder, error) {
	if !id.Persisted() {
		return nil, nil
	}
	w, err := s.repo.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return w, err
}

// ForVehicle lists a vehicle's work orders newest first, capped at ListLimit.
func (s *Service) ForVehicle(ctx context.Context, vehicleID record.ID) ([]*Workorder, error) {
	if !vehicleID.Persisted() {
		return nil, nil
	}
	return s.repo.ForVehicle(ctx, vehicleID, ListLimit)
}

// Open returns every open work order paired with its vehicle, newest first,
// capped at StatusListLimit.
func (s *Service) Open(ctx context.Context) ([]VehicleWorkorder, error) {
	return s.byStatus(ctx, StatusOpen)
}

// Completed returns every completed work order paired with its vehicle,
// newest first, capped at StatusListLimit.
func (s *Service) Completed(ctx context.Context) ([]VehicleWorkorder, error) {
	return s.byStatus(ctx, StatusCompleted)
}

func (s *Service) byStatus(ctx context.Context, status Status) ([]VehicleWorkorder, error) {
	workorders, err := s.repo.ByStatus(ctx, status, StatusListLimit)
	if err != nil {
		return nil, err
	}
	pairs := make([]VehicleWorkorder, 0, len(workorders))
	for _, w := range workorders {
		v, err := s.vehicles.Get(ctx, w.VehicleID)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, VehicleWorkorder{Vehicle: v, Workorder: w})
	}
	return pairs, nil
}

// Count returns how many work orders have been saved for the vehicle.
func (s *Service) Count(ctx context.Context, vehicleID record.ID) (int, error) {
	if !vehicleID.Persisted() {
		return 0, nil
	}
	return s.repo.Count(ctx, vehicleID)
}

// HasUnclosed reports whether the vehicle has any open or completed work
// order. An unsaved vehicle never does.
func (s *Service) HasUnclosed(ctx context.Context, vehicleID record.ID) (bool, error) {
	if !vehicleID.Persisted() {
		return false, nil
	}
	n, err := s.repo.CountUnclosed(ctx, vehicleID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
