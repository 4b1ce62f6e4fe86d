package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Les2015/auto-repair-shop/internal/customer"
	"github.com/Les2015/auto-repair-shop/internal/record"
	"github.com/Les2015/auto-repair-shop/internal/validate"
	"github.com/Les2015/auto-repair-shop/internal/vehicle"
	"github.com/Les2015/auto-repair-shop/internal/view"
	"github.com/Les2015/auto-repair-shop/internal/workorder"
)

type commandHandler func(ctx context.Context, s *session, tag string) error

// contextChanging marks the commands that navigate away from the current
// form. They are intercepted by the save dialog when edits would be lost.
var contextChanging = map[string]bool{
	"newcust":  true,
	"findcust": true,
	"vtab":     true,
	"showwos":  true,
	"wotab":    true,
	"activewo": true,
}

// dispatch routes a button event to its handler. Context-changing commands
// first pass the unsaved-edit guard unless the dialog already resolved it.
func (c *Controller) dispatch(ctx context.Context, s *session, command, tag string, skipGuard bool) error {
	handler, ok := c.handlers[command]
	if !ok {
		// stale or hand-edited form; show the current view again
		return c.regenerate(ctx, s)
	}
	if !skipGuard && contextChanging[command] {
		dirty, err := c.fieldsNeedSaving(ctx, s)
		if err != nil {
			return err
		}
		if dirty {
			if err := c.regenerate(ctx, s); err != nil {
				return err
			}
			s.page.ShowSaveDialog(command, tag)
			return nil
		}
	}
	return handler(ctx, s, tag)
}

// resolveDialog acts on the user's answer to the save dialog. Yes saves the
// edited forms and then replays the original command, unless a save fails
// validation, in which case the page is regenerated with the errors. No
// replays without saving; Cancel stays on the current page.
func (c *Controller) resolveDialog(ctx context.Context, s *session) error {
	command := s.fields["request_button"]
	tag := s.fields["request_tag"]
	switch s.fields["answer"] {
	case "Yes":
		report, err := c.saveDirtyForms(ctx, s)
		if err != nil {
			return err
		}
		if report != nil {
			if err := c.regenerate(ctx, s); err != nil {
				return err
			}
			s.page.ConfigureErrorMessages(report)
			return nil
		}
		return c.dispatch(ctx, s, command, tag, true)
	case "No":
		return c.dispatch(ctx, s, command, tag, true)
	default:
		return c.regenerate(ctx, s)
	}
}

// dirtyCustomer compares the submitted customer fields against the stored
// record, or against a blank one when nothing is stored yet. A nil form
// means the page had no customer panel.
func (c *Controller) dirtyCustomer(ctx context.Context, s *session) (*customer.Customer, bool, error) {
	if _, ok := s.fields["first_name"]; !ok {
		return nil, false, nil
	}
	form := customer.FromForm(s.fields)
	stored, err := c.customers.Get(ctx, s.customerID)
	if err != nil {
		return nil, false, err
	}
	if stored == nil {
		stored = customer.New()
	}
	return form, !form.Equal(stored), nil
}

func (c *Controller) dirtyVehicle(ctx context.Context, s *session) (*vehicle.Vehicle, bool, error) {
	if _, ok := s.fields["model"]; !ok {
		return nil, false, nil
	}
	form := vehicle.FromForm(s.fields)
	stored, err := c.vehicles.Get(ctx, s.vehicleID)
	if err != nil {
		return nil, false, err
	}
	if stored == nil {
		stored = vehicle.New()
	}
	return form, !form.Equal(stored), nil
}

func (c *Controller) dirtyWorkorder(ctx context.Context, s *session) (*workorder.Workorder, bool, error) {
	if _, ok := s.fields["mileage"]; !ok {
		return nil, false, nil
	}
	form := workorder.FromForm(s.fields)
	stored, err := c.workorders.Get(ctx, s.workorderID)
	if err != nil {
		return nil, false, err
	}
	if stored == nil {
		stored = workorder.New()
	}
	return form, !form.Equal(stored), nil
}

// fieldsNeedSaving reports whether the submitted form differs from what is
// stored. The search form is never dirty: criteria are not a record.
func (c *Controller) fieldsNeedSaving(ctx context.Context, s *session) (bool, error) {
	switch s.mode {
	case view.ModeNewCustomer, view.ModeCustomerVehicle:
		if _, dirty, err := c.dirtyCustomer(ctx, s); err != nil || dirty {
			return dirty, err
		}
		if s.mode == view.ModeCustomerVehicle {
			if _, dirty, err := c.dirtyVehicle(ctx, s); err != nil || dirty {
				return dirty, err
			}
		}
	case view.ModeWorkOrder:
		if _, dirty, err := c.dirtyWorkorder(ctx, s); err != nil || dirty {
			return dirty, err
		}
	}
	return false, nil
}

// saveDirtyForms persists every edited form on the current page, updating
// the session identities as records gain keys. A validation failure stops
// the pass and is returned as a report for the user; infrastructure
// failures are returned as errors.
func (c *Controller) saveDirtyForms(ctx context.Context, s *session) (*view.ErrorReport, error) {
	switch s.mode {
	case view.ModeNewCustomer, view.ModeCustomerVehicle:
		form, dirty, err := c.dirtyCustomer(ctx, s)
		if err != nil {
			return nil, err
		}
		if dirty {
			id, err := c.customers.Save(ctx, form)
			if err != nil {
				return classifySave(err)
			}
			s.customerID = id
			s.fields["customer_id"] = id.String()
		}
		if s.mode != view.ModeCustomerVehicle {
			return nil, nil
		}
		vform, dirty, err := c.dirtyVehicle(ctx, s)
		if err != nil {
			return nil, err
		}
		if dirty {
			vform.CustomerID = s.customerID
			id, err := c.vehicles.Save(ctx, vform)
			if err != nil {
				return classifySave(err)
			}
			s.vehicleID = id
			s.fields["vehicle_id"] = id.String()
		}
	case view.ModeWorkOrder:
		form, dirty, err := c.dirtyWorkorder(ctx, s)
		if err != nil {
			return nil, err
		}
		if dirty {
			c.prepareWorkorder(s, form)
			id, err := c.workorders.Save(ctx, form)
			if err != nil {
				return classifySave(err)
			}
			s.workorderID = id
			s.fields["workorder_id"] = id.String()
		}
	}
	return nil, nil
}

// classifySave sorts a failed save into a user-facing report or a real
// error. Internal validation failures stay errors: the user cannot fix a
// broken record link from the form.
func classifySave(err error) (*view.ErrorReport, error) {
	var ierr *validate.InternalError
	if errors.As(err, &ierr) {
		return nil, err
	}
	var derr *customer.DuplicateError
	if errors.As(err, &derr) {
		return &view.ErrorReport{Text: derr.Text, Match: derr.Match}, nil
	}
	var verr *validate.Error
	if errors.As(err, &verr) {
		return &view.ErrorReport{Text: verr.Text, Fields: verr.Fields}, nil
	}
	return nil, err
}

// regenerate rebuilds the current page from the submitted fields, keeping
// the user's edits on screen.
func (c *Controller) regenerate(ctx context.Context, s *session) error {
	switch s.mode {
	case view.ModeFindCustomer:
		return c.findCustomerPage(ctx, s, customer.FromForm(s.fields), nil, false, nil)
	case view.ModeCustomerVehicle:
		var formVehicle *vehicle.Vehicle
		if _, ok := s.fields["model"]; ok {
			formVehicle = vehicle.FromForm(s.fields)
		}
		return c.customerVehiclePage(ctx, s, customer.FromForm(s.fields), formVehicle, s.vehicleID, nil)
	case view.ModeWorkOrder:
		var formOrder *workorder.Workorder
		if _, ok := s.fields["mileage"]; ok {
			formOrder = workorder.FromForm(s.fields)
			formOrder.VehicleID = s.vehicleID
		}
		return c.workorderPage(ctx, s, s.vehicleID, formOrder, s.workorderID, view.SideNone, nil)
	default:
		return c.newCustomerPage(ctx, s, customer.FromForm(s.fields), nil)
	}
}

func (c *Controller) handleNewCustomer(ctx context.Context, s *session, _ string) error {
	return c.newCustomerPage(ctx, s, customer.New(), nil)
}

func (c *Controller) handleFindCustomer(ctx context.Context, s *session, _ string) error {
	return c.findCustomerPage(ctx, s, customer.New(), nil, false, nil)
}

func (c *Controller) handleSaveCustomer(ctx context.Context, s *session, _ string) error {
	form := customer.FromForm(s.fields)
	id, err := c.customers.Save(ctx, form)
	if err != nil {
		report, err := classifySave(err)
		if err != nil {
			return err
		}
		if s.mode == view.ModeCustomerVehicle {
			var formVehicle *vehicle.Vehicle
			if _, ok := s.fields["model"]; ok {
				formVehicle = vehicle.FromForm(s.fields)
			}
			return c.customerVehiclePage(ctx, s, form, formVehicle, s.vehicleID, report)
		}
		return c.newCustomerPage(ctx, s, form, report)
	}
	s.customerID = id

	stored, err := c.customers.Get(ctx, id)
	if err != nil {
		return err
	}
	var formVehicle *vehicle.Vehicle
	if s.mode == view.ModeCustomerVehicle {
		if _, ok := s.fields["model"]; ok {
			formVehicle = vehicle.FromForm(s.fields)
		}
	}
	return c.customerVehiclePage(ctx, s, stored, formVehicle, s.vehicleID, nil)
}

func (c *Controller) handleShowCustomer(ctx context.Context, s *session, tag string) error {
	id := record.Normalize(tag)
	stored, err := c.customers.Get(ctx, id)
	if err != nil {
		return err
	}
	if stored == nil {
		return fmt.Errorf("customer %s not found", id)
	}
	s.customerID = id
	return c.customerVehiclePage(ctx, s, stored, nil, record.Unsaved, nil)
}

func (c *Controller) handleResetCustomer(ctx context.Context, s *session, tag string) error {
	if tag == "1" {
		return c.findCustomerPage(ctx, s, customer.New(), nil, false, nil)
	}
	return c.newCustomerPage(ctx, s, customer.New(), nil)
}

func (c *Controller) handleRestoreCustomer(ctx context.Context, s *session, _ string) error {
	stored, err := c.customers.Get(ctx, s.customerID)
	if err != nil {
		return err
	}
	if stored == nil {
		return c.newCustomerPage(ctx, s, customer.New(), nil)
	}
	var formVehicle *vehicle.Vehicle
	if _, ok := s.fields["model"]; ok {
		formVehicle = vehicle.FromForm(s.fields)
	}
	return c.customerVehiclePage(ctx, s, stored, formVehicle, s.vehicleID, nil)
}

func (c *Controller) handleSearch(ctx context.Context, s *session, _ string) error {
	criteria := customer.FromForm(s.fields)
	results, err := c.customers.Search(ctx, criteria)
	if err != nil {
		return err
	}
	return c.findCustomerPage(ctx, s, criteria, results, true, nil)
}

func (c *Controller) handleSaveVehicle(ctx context.Context, s *session, _ string) error {
	form := vehicle.FromForm(s.fields)
	form.CustomerID = s.customerID
	formCustomer := customer.FromForm(s.fields)
	id, err := c.vehicles.Save(ctx, form)
	if err != nil {
		report, err := classifySave(err)
		if err != nil {
			return err
		}
		return c.customerVehiclePage(ctx, s, formCustomer, form, form.ID, report)
	}
	s.vehicleID = id
	return c.customerVehiclePage(ctx, s, formCustomer, nil, id, nil)
}

func (c *Controller) handleRestoreVehicle(ctx context.Context, s *session, _ string) error {
	return c.customerVehiclePage(ctx, s, customer.FromForm(s.fields), nil, s.vehicleID, nil)
}

func (c *Controller) handleVehicleTab(ctx context.Context, s *session, tag string) error {
	stored, err := c.customers.Get(ctx, s.customerID)
	if err != nil {
		return err
	}
	if stored == nil {
		return fmt.Errorf("customer %s not found", s.customerID)
	}
	return c.customerVehiclePage(ctx, s, stored, nil, record.Normalize(tag), nil)
}

func (c *Controller) handleNewWorkorder(ctx context.Context, s *session, _ string) error {
	unclosed, err := c.workorders.HasUnclosed(ctx, s.vehicleID)
	if err != nil {
		return err
	}
	if unclosed {
		report := &view.ErrorReport{Text: "vehicle already has an unclosed work order\n"}
		return c.customerVehiclePage(ctx, s, customer.FromForm(s.fields), nil, s.vehicleID, report)
	}
	count, err := c.workorders.Count(ctx, s.vehicleID)
	if err != nil {
		return err
	}
	if count >= workorder.ListLimit {
		report := &view.ErrorReport{Text: "work order limit reached for this vehicle\n"}
		return c.customerVehiclePage(ctx, s, customer.FromForm(s.fields), nil, s.vehicleID, report)
	}
	fresh := workorder.New()
	fresh.VehicleID = s.vehicleID
	return c.workorderPage(ctx, s, s.vehicleID, fresh, record.Unsaved, view.SideNone, nil)
}

func (c *Controller) handleShowWorkorders(ctx context.Context, s *session, tag string) error {
	return c.workorderPage(ctx, s, record.Normalize(tag), nil, record.Unsaved, view.SideNone, nil)
}

func (c *Controller) handleSaveWorkorder(ctx context.Context, s *session, _ string) error {
	form := workorder.FromForm(s.fields)
	c.prepareWorkorder(s, form)
	id, err := c.workorders.Save(ctx, form)
	if err != nil {
		report, err := classifySave(err)
		if err != nil {
			return err
		}
		return c.workorderPage(ctx, s, s.vehicleID, form, form.ID, view.SideNone, report)
	}
	s.workorderID = id
	return c.workorderPage(ctx, s, s.vehicleID, nil, id, view.SideNone, nil)
}

func (c *Controller) handleWorkorderTab(ctx context.Context, s *session, tag string) error {
	return c.workorderPage(ctx, s, s.vehicleID, nil, record.Normalize(tag), view.SideNone, nil)
}

func (c *Controller) handleActiveWorkorder(ctx context.Context, s *session, tag string) error {
	stored, err := c.workorders.Get(ctx, record.Normalize(tag))
	if err != nil {
		return err
	}
	if stored == nil {
		return fmt.Errorf("workorder %s not found", tag)
	}
	s.workorderID = stored.ID
	s.vehicleID = stored.VehicleID
	return c.workorderPage(ctx, s, stored.VehicleID, nil, stored.ID, view.SideWorkorder, nil)
}

func (c *Controller) handleRestoreWorkorder(ctx context.Context, s *session, _ string) error {
	return c.workorderPage(ctx, s, s.vehicleID, nil, s.workorderID, view.SideNone, nil)
}

// prepareWorkorder fills the controller-owned fields before a save: the
// vehicle link, the creation stamp for a new record, and the close stamp
// the first time the order reaches its final state.
func (c *Controller) prepareWorkorder(s *session, w *workorder.Workorder) {
	w.VehicleID = s.vehicleID
	if !w.ID.Persisted() && w.DateCreated == "" {
		w.DateCreated = workorder.FormatDate(time.Now())
	}
	if w.Status == string(workorder.StatusClosed) && w.DateClosed == "" {
		w.DateClosed = workorder.FormatDate(time.Now())
	}
}
