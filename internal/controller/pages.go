package controller

import (
	"context"
	"fmt"

	"github.com/Les2015/auto-repair-shop/internal/customer"
	"github.com/Les2015/auto-repair-shop/internal/mechanics"
	"github.com/Les2015/auto-repair-shop/internal/record"
	"github.com/Les2015/auto-repair-shop/internal/vehicle"
	"github.com/Les2015/auto-repair-shop/internal/view"
	"github.com/Les2015/auto-repair-shop/internal/workorder"
)

// sidePanel loads the open and completed lists shown on every page.
func (c *Controller) sidePanel(ctx context.Context, s *session, active int) error {
	open, err := c.workorders.Open(ctx)
	if err != nil {
		return err
	}
	completed, err := c.workorders.Completed(ctx)
	if err != nil {
		return err
	}
	s.page.ConfigureSidePanel(active, open, completed)
	return nil
}

func (c *Controller) newCustomerPage(ctx context.Context, s *session, cust *customer.Customer, report *view.ErrorReport) error {
	s.page.SetMode(view.ModeNewCustomer)
	s.page.ConfigureHiddenFields(cust.ID, record.Unsaved, record.Unsaved)
	s.page.ConfigureCustomerContent(cust)
	s.page.ConfigureErrorMessages(report)
	return c.sidePanel(ctx, s, view.SideNewCustomer)
}

func (c *Controller) findCustomerPage(ctx context.Context, s *session, criteria *customer.Customer, results []*customer.Customer, searched bool, report *view.ErrorReport) error {
	s.page.SetMode(view.ModeFindCustomer)
	s.page.ConfigureHiddenFields(record.Unsaved, record.Unsaved, record.Unsaved)
	s.page.ConfigureCustomerContent(criteria)
	if searched {
		s.page.ConfigureSearchResults(results)
	}
	s.page.ConfigureErrorMessages(report)
	return c.sidePanel(ctx, s, view.SideFindCustomer)
}

// customerVehiclePage shows a customer with their vehicle tabs. formVehicle,
// when set, carries submitted vehicle fields back into the list at the slot
// they came from; otherwise the tabs show stored records plus a blank
// new-vehicle slot while the customer is under the limit.
func (c *Controller) customerVehiclePage(ctx context.Context, s *session, cust *customer.Customer, formVehicle *vehicle.Vehicle, activeID record.ID, report *view.ErrorReport) error {
	list, err := c.vehicles.ForCustomer(ctx, cust.ID)
	if err != nil {
		return err
	}
	if formVehicle != nil {
		list = mergeVehicle(list, formVehicle)
		activeID = formVehicle.ID
	} else if !hasVehicle(list, activeID) {
		activeID = record.Unsaved
	}
	if !hasUnsavedVehicle(list) && len(list) < vehicle.ListLimit {
		list = append(list, vehicle.New())
	}

	s.page.SetMode(view.ModeCustomerVehicle)
	s.page.ConfigureHiddenFields(cust.ID, activeID, record.Unsaved)
	s.page.ConfigureCustomerContent(cust)
	s.page.ConfigureVehicleContent(list)
	s.page.ConfigureErrorMessages(report)
	return c.sidePanel(ctx, s, view.SideNone)
}

// workorderPage shows a vehicle's work order tabs under the customer and
// vehicle header. formOrder, when set, carries submitted fields back into
// the list; a vehicle with no orders at all gets a blank new-order slot.
func (c *Controller) workorderPage(ctx context.Context, s *session, vehicleID record.ID, formOrder *workorder.Workorder, activeID record.ID, sideActive int, report *view.ErrorReport) error {
	veh, err := c.vehicles.Get(ctx, vehicleID)
	if err != nil {
		return err
	}
	if veh == nil {
		return fmt.Errorf("vehicle %s not found", vehicleID)
	}
	cust, err := c.customers.Get(ctx, veh.CustomerID)
	if err != nil {
		return err
	}
	if cust == nil {
		return fmt.Errorf("customer %s not found", veh.CustomerID)
	}

	orders, err := c.workorders.ForVehicle(ctx, vehicleID)
	if err != nil {
		return err
	}
	if formOrder != nil {
		orders = mergeWorkorder(orders, formOrder)
		activeID = formOrder.ID
	}
	if len(orders) == 0 {
		fresh := workorder.New()
		fresh.VehicleID = vehicleID
		orders = []*workorder.Workorder{fresh}
	}
	active := pickWorkorder(orders, activeID)
	roster := mechanics.EnsureListed(c.roster, active.Mechanic)

	s.page.SetMode(view.ModeWorkOrder)
	s.page.ConfigureHiddenFields(cust.ID, vehicleID, active.ID)
	s.page.ConfigureWorkorderHeader(cust, veh)
	s.page.ConfigureWorkorderContent(orders, roster)
	s.page.ConfigureErrorMessages(report)
	return c.sidePanel(ctx, s, sideActive)
}

// mergeVehicle puts a submitted vehicle back into the stored list: a
// persisted record replaces its row, an unsaved one takes the new-vehicle
// slot at the end.
func mergeVehicle(list []*vehicle.Vehicle, form *vehicle.Vehicle) []*vehicle.Vehicle {
	if form.ID.Persisted() {
		for i, v := range list {
			if v.ID == form.ID {
				list[i] = form
				return list
			}
		}
	}
	return append(list, form)
}

// mergeWorkorder puts a submitted work order back into the stored list: a
// persisted record replaces its row, an unsaved one takes the new-order
// slot at the front.
func mergeWorkorder(orders []*workorder.Workorder, form *workorder.Workorder) []*workorder.Workorder {
	if form.ID.Persisted() {
		for i, w := range orders {
			if w.ID == form.ID {
				orders[i] = form
				return orders
			}
		}
	}
	return append([]*workorder.Workorder{form}, orders...)
}

func hasVehicle(list []*vehicle.Vehicle, id record.ID) bool {
	if !id.Persisted() {
		return false
	}
	for _, v := range list {
		if v.ID == id {
			return true
		}
	}
	return false
}

func hasUnsavedVehicle(list []*vehicle.Vehicle) bool {
	for _, v := range list {
		if !v.ID.Persisted() {
			return true
		}
	}
	return false
}

// pickWorkorder resolves the active tab: the matching id when present,
// otherwise the first (newest or new) order.
func pickWorkorder(orders []*workorder.Workorder, id record.ID) *workorder.Workorder {
	if id.Persisted() {
		for _, w := range orders {
			if w.ID == id {
				return w
			}
		}
	}
	return orders[0]
}
