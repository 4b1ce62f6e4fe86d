package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Les2015/auto-repair-shop/internal/record"
)

// DuplicateError is raised only on customer creation: the incoming record
// matches an existing customer on first name, last name and primary phone.
// The conflicting record is carried along so it can be shown to the user.
type DuplicateError struct {
	Text  string
	Match *Customer
}

func (e *DuplicateError) Error() string {
	return e.Text
}

// Service is the persistence gateway for customers: it validates, detects
// duplicates on create, and decides between insert and update by the
// identity sentinel.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Save validates the record and writes it, returning the resulting id. A new
// record (sentinel id) is first checked against existing customers with the
// same first name, last name and primary phone; an unresolvable persisted id
// is treated as absent and the record is saved under a fresh key.
func (s *Service) Save(ctx context.Context, c *Customer) (record.ID, error) {
	if err := c.Validate().Err(); err != nil {
		return record.Unsaved, err
	}

	if !c.ID.Persisted() {
		return s.create(ctx, c)
	}

	existing, err := s.repo.Get(ctx, c.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return record.Unsaved, err
	}
	if existing == nil {
		return s.create(ctx, c)
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return record.Unsaved, err
	}
	s.logger.InfoContext(ctx, "customer updated", "customer_id", c.ID)
	return c.ID, nil
}

func (s *Service) create(ctx context.Context, c *Customer) (record.ID, error) {
	probe := &Customer{FirstName: c.FirstName, LastName: c.LastName, Phone1: c.Phone1}
	matches, err := s.repo.Search(ctx, probe, SearchLimit)
	if err != nil {
		return record.Unsaved, err
	}
	if len(matches) > 0 {
		return record.Unsaved, &DuplicateError{
			Text:  fmt.Sprintf("Customer %s %s already in database\n", c.FirstName, c.LastName),
			Match: matches[0],
		}
	}

	c.ID = record.ID(uuid.NewString())
	if err := s.repo.Create(ctx, c); err != nil {
		return record.Unsaved, err
	}
	s.logger.InfoContext(ctx, "customer created", "customer_id", c.ID)
	return c.ID, nil
}

// Get retrieves a customer by id. A malformed, sentinel or unknown id is not
// an error: the customer is simply absent.
func (s *Service) Get(ctx context.Context, id record.ID) (*Customer, error) {
	if !id.Persisted() {
		return nil, nil
	}
	c, err := s.repo.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return c, err
}

// Search returns customers matching all non-empty criteria fields, ordered by
// last name then first name, capped at SearchLimit.
func (s *Service) Search(ctx context.Context, criteria *Customer) ([]*Customer, error) {
	return s.repo.Search(ctx, criteria, SearchLimit)
}
