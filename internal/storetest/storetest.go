// Package storetest provides in-memory repository implementations for
// exercising the gateways and the controller without a database.
package storetest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Les2015/auto-repair-shop/internal/customer"
	"github.com/Les2015/auto-repair-shop/internal/record"
	"github.com/Les2015/auto-repair-shop/internal/vehicle"
	"github.com/Les2015/auto-repair-shop/internal/workorder"
)

type Customers struct {
	mu      sync.Mutex
	records map[record.ID]*customer.Customer
}

func NewCustomers() *Customers {
	return &Customers{records: make(map[record.ID]*customer.Customer)}
}

func (s *Customers) Create(_ context.Context, c *customer.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *c
	s.records[c.ID] = &clone
	return nil
}

func (s *Customers) Update(_ context.Context, c *customer.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[c.ID]; !ok {
		return customer.ErrNotFound
	}
	clone := *c
	s.records[c.ID] = &clone
	return nil
}

func (s *Customers) Get(_ context.Context, id record.ID) (*customer.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.records[id]
	if !ok {
		return nil, customer.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (s *Customers) Search(_ context.Context, criteria *customer.Customer, limit int) ([]*customer.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matches []*customer.Customer
	for _, c := range s.records {
		if matchesCustomer(c, criteria) {
			clone := *c
			matches = append(matches, &clone)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		li, lj := strings.ToUpper(matches[i].LastName), strings.ToUpper(matches[j].LastName)
		if li != lj {
			return li < lj
		}
		return strings.ToUpper(matches[i].FirstName) < strings.ToUpper(matches[j].FirstName)
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func matchesCustomer(c, criteria *customer.Customer) bool {
	if criteria.FirstName != "" && !strings.EqualFold(c.FirstName, criteria.FirstName) {
		return false
	}
	if criteria.LastName != "" && !strings.EqualFold(c.LastName, criteria.LastName) {
		return false
	}
	if criteria.Address1 != "" && c.Address1 != criteria.Address1 {
		return false
	}
	if criteria.City != "" && c.City != criteria.City {
		return false
	}
	if criteria.State != "" && c.State != criteria.State {
		return false
	}
	if criteria.Zip != "" && c.Zip != criteria.Zip {
		return false
	}
	if criteria.Phone1 != "" && c.Phone1 != criteria.Phone1 {
		return false
	}
	if criteria.Email != "" && c.Email != criteria.Email {
		return false
	}
	return true
}

type Vehicles struct {
	mu      sync.Mutex
	records map[record.ID]*vehicle.Vehicle
	order   []record.ID
}

func NewVehicles() *Vehicles {
	return &Vehicles{records: make(map[record.ID]*vehicle.Vehicle)}
}

func (s *Vehicles) Create(_ context.Context, v *vehicle.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *v
	s.records[v.ID] = &clone
	s.order = append(s.order, v.ID)
	return nil
}

func (s *Vehicles) Update(_ context.Context, v *vehicle.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[v.ID]; !ok {
		return vehicle.ErrNotFound
	}
	clone := *v
	s.records[v.ID] = &clone
	return nil
}

func (s *Vehicles) Get(_ context.Context, id record.ID) (*vehicle.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.records[id]
	if !ok {
		return nil, vehicle.ErrNotFound
	}
	clone := *v
	return &clone, nil
}

func (s *Vehicles) ForCustomer(_ context.Context, customerID record.ID, limit int) ([]*vehicle.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*vehicle.Vehicle
	for _, id := range s.order {
		v := s.records[id]
		if v.CustomerID != customerID {
			continue
		}
		clone := *v
		list = append(list, &clone)
		if len(list) == limit {
			break
		}
	}
	return list, nil
}

type Workorders struct {
	mu      sync.Mutex
	records map[record.ID]*workorder.Workorder
}

func NewWorkorders() *Workorders {
	return &Workorders{records: make(map[record.ID]*workorder.Workorder)}
}

func (s *Workorders) Create(_ context.Context, w *workorder.Workorder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *w
	s.records[w.ID] = &clone
	return nil
}

func (s *Workorders) Update(_ context.Context, w *workorder.Workorder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[w.ID]; !ok {
		return workorder.ErrNotFound
	}
	clone := *w
	s.records[w.ID] = &clone
	return nil
}

func (s *Workorders) Get(_ context.Context, id record.ID) (*workorder.Workorder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.records[id]
	if !ok {
		return nil, workorder.ErrNotFound
	}
	clone := *w
	return &clone, nil
}

func (s *Workorders) ForVehicle(_ context.Context, vehicleID record.ID, limit int) ([]*workorder.Workorder, error) {
	return s.filter(func(w *workorder.Workorder) bool {
		return w.VehicleID == vehicleID
	}, limit)
}

func (s *Workorders) ByStatus(_ context.Context, status workorder.Status, limit int) ([]*workorder.Workorder, error) {
	return s.filter(func(w *workorder.Workorder) bool {
		return w.Status == string(status)
	}, limit)
}

func (s *Workorders) Count(_ context.Context, vehicleID record.ID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, w := range s.records {
		if w.VehicleID == vehicleID {
			n++
		}
	}
	return n, nil
}

func (s *Workorders) CountUnclosed(_ context.Context, vehicleID record.ID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, w := range s.records {
		if w.VehicleID == vehicleID && w.Status != string(workorder.StatusClosed) {
			n++
		}
	}
	return n, nil
}

// filter returns matching work orders newest first.
func (s *Workorders) filter(keep func(*workorder.Workorder) bool, limit int) ([]*workorder.Workorder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*workorder.Workorder
	for _, w := range s.records {
		if keep(w) {
			clone := *w
			list = append(list, &clone)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		ti, _ := workorder.ParseDate(list[i].DateCreated)
		tj, _ := workorder.ParseDate(list[j].DateCreated)
		return ti.After(tj)
	})
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}
