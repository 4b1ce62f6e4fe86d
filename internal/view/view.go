// Package view renders the full page for one request. A Page is stateless
// between requests: the controller stages everything through the Configure
// setters, then a single ServeContent call writes the whole response. Panels
// that were never configured are simply omitted.
package view

import (
	"html/template"
	"io"

	"github.com/Les2015/auto-repair-shop/internal/customer"
	"github.com/Les2015/auto-repair-shop/internal/mechanics"
	"github.com/Les2015/auto-repair-shop/internal/record"
	"github.com/Les2015/auto-repair-shop/internal/vehicle"
	"github.com/Les2015/auto-repair-shop/internal/workorder"
)

// Mode selects which of the four page configurations is rendered.
type Mode int

const (
	ModeNewCustomer Mode = iota
	ModeFindCustomer
	ModeCustomerVehicle
	ModeWorkOrder
)

func (m Mode) String() string {
	switch m {
	case ModeNewCustomer:
		return "new-customer"
	case ModeFindCustomer:
		return "find-customer"
	case ModeCustomerVehicle:
		return "customer-vehicle"
	case ModeWorkOrder:
		return "work-order"
	}
	return "unknown"
}

// ParseMode is the inverse of Mode.String. Unknown input falls back to the
// new-customer page, the application's landing state.
func ParseMode(s string) Mode {
	switch s {
	case "find-customer":
		return ModeFindCustomer
	case "customer-vehicle":
		return ModeCustomerVehicle
	case "work-order":
		return ModeWorkOrder
	}
	return ModeNewCustomer
}

// Side panel highlight codes.
const (
	SideNone         = 0
	SideNewCustomer  = 1
	SideFindCustomer = 2
	SideWorkorder    = 3
)

// ErrorReport is the error object surfaced to the user: the accumulated
// error text, the field names to highlight, and for duplicate customers the
// conflicting record.
type ErrorReport struct {
	Text   string
	Fields []string
	Match  *customer.Customer
}

// SaveDialog asks Yes/No/Cancel before a context change discards unsaved
// edits. Command and Tag replay the original button event.
type SaveDialog struct {
	Command string
	Tag     string
}

// SidePanel carries the always-visible navigation: the open and completed
// work order lists plus which element is highlighted.
type SidePanel struct {
	Active    int
	Open      []workorder.VehicleWorkorder
	Completed []workorder.VehicleWorkorder
}

// Page accumulates one request's render state.
type Page struct {
	mode Mode

	customerID  record.ID
	vehicleID   record.ID
	workorderID record.ID

	customer       *customer.Customer
	searchResults  []*customer.Customer
	haveResults    bool
	vehicles       []*vehicle.Vehicle
	headerCustomer *customer.Customer
	headerVehicle  *vehicle.Vehicle
	workorders     []*workorder.Workorder
	mechanics      []string
	side           *SidePanel
	report         *ErrorReport
	dialog         *SaveDialog
}

// NewPage returns a blank page with all identities unsaved.
func NewPage() *Page {
	return &Page{
		customerID:  record.Unsaved,
		vehicleID:   record.Unsaved,
		workorderID: record.Unsaved,
	}
}

func (p *Page) SetMode(m Mode) { p.mode = m }

// Mode reports the configured page mode; exposed for the controller tests.
func (p *Page) Mode() Mode { return p.mode }

// ConfigureHiddenFields stages the three active ids for the hidden form
// fields that round-trip them through the browser.
func (p *Page) ConfigureHiddenFields(customerID, vehicleID, workorderID record.ID) {
	p.customerID = customerID
	p.vehicleID = vehicleID
	p.workorderID = workorderID
}

func (p *Page) ConfigureCustomerContent(c *customer.Customer) {
	p.customer = c
}

// Customer reports the staged customer record; exposed for tests.
func (p *Page) Customer() *customer.Customer { return p.customer }

func (p *Page) ConfigureSearchResults(results []*customer.Customer) {
	p.searchResults = results
	p.haveResults = true
}

func (p *Page) ConfigureVehicleContent(vehicles []*vehicle.Vehicle) {
	p.vehicles = vehicles
}

// Vehicles reports the staged vehicle list; exposed for tests.
func (p *Page) Vehicles() []*vehicle.Vehicle { return p.vehicles }

func (p *Page) ConfigureWorkorderHeader(c *customer.Customer, v *vehicle.Vehicle) {
	p.headerCustomer = c
	p.headerVehicle = v
}

func (p *Page) ConfigureWorkorderContent(workorders []*workorder.Workorder, mechanics []string) {
	p.workorders = workorders
	p.mechanics = mechanics
}

// Workorders reports the staged work order list; exposed for tests.
func (p *Page) Workorders() []*workorder.Workorder { return p.workorders }

func (p *Page) ConfigureSidePanel(active int, open, completed []workorder.VehicleWorkorder) {
	p.side = &SidePanel{Active: active, Open: open, Completed: completed}
}

func (p *Page) ConfigureErrorMessages(report *ErrorReport) {
	p.report = report
}

// Errors reports the staged error object; exposed for tests.
func (p *Page) Errors() *ErrorReport { return p.report }

func (p *Page) ShowSaveDialog(command, tag string) {
	p.dialog = &SaveDialog{Command: command, Tag: tag}
}

// Dialog reports the staged save dialog; exposed for tests.
func (p *Page) Dialog() *SaveDialog { return p.dialog }

// pageData is the template's view of the page.
type pageData struct {
	Mode           string
	CustomerID     string
	VehicleID      string
	WorkorderID    string
	Customer       *customer.Customer
	HaveResults    bool
	Results        []*customer.Customer
	Vehicles       []*vehicle.Vehicle
	ActiveVehicle  *vehicle.Vehicle
	HeaderCustomer *customer.Customer
	HeaderVehicle  *vehicle.Vehicle
	Workorders     []*workorder.Workorder
	ActiveOrder    *workorder.Workorder
	Mechanics      []string
	NoneSelected   string
	Statuses       []workorder.Status
	Side           *SidePanel
	Report         *ErrorReport
	Highlight      map[string]bool
	Dialog         *SaveDialog
}

// ServeContent renders the whole page in one pass.
func (p *Page) ServeContent(w io.Writer) error {
	data := &pageData{
		Mode:           p.mode.String(),
		CustomerID:     p.customerID.String(),
		VehicleID:      p.vehicleID.String(),
		WorkorderID:    p.workorderID.String(),
		Customer:       p.customer,
		HaveResults:    p.haveResults,
		Results:        p.searchResults,
		Vehicles:       p.vehicles,
		ActiveVehicle:  p.activeVehicle(),
		HeaderCustomer: p.headerCustomer,
		HeaderVehicle:  p.headerVehicle,
		Workorders:     p.workorders,
		ActiveOrder:    p.activeWorkorder(),
		Mechanics:      p.mechanics,
		NoneSelected:   mechanics.NoneSelected,
		Statuses:       workorder.Statuses,
		Side:           p.side,
		Report:         p.report,
		Highlight:      highlightSet(p.report),
		Dialog:         p.dialog,
	}
	return pageTemplate.Execute(w, data)
}

// ServeError renders the dedicated internal error page for failures that
// nothing recovered.
func ServeError(w io.Writer, err error) error {
	return errorTemplate.Execute(w, template.HTML(template.HTMLEscapeString(err.Error())))
}

// activeVehicle picks the vehicle whose tab is selected: the one matching
// the active id, or the trailing new-vehicle placeholder when unsaved.
func (p *Page) activeVehicle() *vehicle.Vehicle {
	if len(p.vehicles) == 0 {
		return nil
	}
	if p.vehicleID.Persisted() {
		for _, v := range p.vehicles {
			if v.ID == p.vehicleID {
				return v
			}
		}
	}
	return p.vehicles[len(p.vehicles)-1]
}

// activeWorkorder picks the work order whose tab is selected: the one
// matching the active id, or the leading new-order placeholder when unsaved.
func (p *Page) activeWorkorder() *workorder.Workorder {
	if len(p.workorders) == 0 {
		return nil
	}
	if p.workorderID.Persisted() {
		for _, w := range p.workorders {
			if w.ID == p.workorderID {
				return w
			}
		}
	}
	return p.workorders[0]
}

func highlightSet(report *ErrorReport) map[string]bool {
	if report == nil {
		return nil
	}
	set := make(map[string]bool, len(report.Fields))
	for _, f := range report.Fields {
		set[f] = true
	}
	return set
}
