package view_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Les2015/auto-repair-shop/internal/customer"
	"github.com/Les2015/auto-repair-shop/internal/record"
	"github.com/Les2015/auto-repair-shop/internal/vehicle"
	"github.com/Les2015/auto-repair-shop/internal/view"
	"github.com/Les2015/auto-repair-shop/internal/workorder"
)

func render(t *testing.T, p *view.Page) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, p.ServeContent(&buf))
	return buf.String()
}

func TestBlankPageRendersNoPanels(t *testing.T) {
	p := view.NewPage()
	html := render(t, p)

	assert.NotContains(t, html, "submit_savecust")
	assert.NotContains(t, html, "submit_savevhcl")
	assert.NotContains(t, html, "submit_savewo")
	assert.NotContains(t, html, "class=\"dialog\"")
	// hidden identities default to the sentinel
	assert.Contains(t, html, `name="customer_id" value="-1"`)
}

func TestNewCustomerPage(t *testing.T) {
	p := view.NewPage()
	p.SetMode(view.ModeNewCustomer)
	c := customer.New()
	c.FirstName = "Ada"
	p.ConfigureCustomerContent(c)
	p.ConfigureHiddenFields(c.ID, record.Unsaved, record.Unsaved)
	p.ConfigureSidePanel(view.SideNewCustomer, nil, nil)

	html := render(t, p)
	assert.Contains(t, html, `value="Ada"`)
	assert.Contains(t, html, "submit_savecust")
	assert.Contains(t, html, "submit_resetcust_0")
	assert.Contains(t, html, "submit_newcust")
	assert.NotContains(t, html, "submit_search")
}

func TestFindCustomerPageShowsResults(t *testing.T) {
	p := view.NewPage()
	p.SetMode(view.ModeFindCustomer)
	p.ConfigureCustomerContent(customer.New())
	match := customer.New()
	match.ID = record.ID("c-1")
	match.FirstName = "Ada"
	match.LastName = "Moreno"
	p.ConfigureSearchResults([]*customer.Customer{match})

	html := render(t, p)
	assert.Contains(t, html, "submit_search")
	assert.Contains(t, html, "/search?cid=c-1")
	assert.Contains(t, html, "Moreno, Ada")
}

func TestFindCustomerPageEmptyResults(t *testing.T) {
	p := view.NewPage()
	p.SetMode(view.ModeFindCustomer)
	p.ConfigureCustomerContent(customer.New())
	p.ConfigureSearchResults(nil)

	html := render(t, p)
	assert.Contains(t, html, "No matching customers found.")
}

func TestVehicleTabsAndActiveSlot(t *testing.T) {
	saved := vehicle.New()
	saved.ID = record.ID("v-1")
	saved.Make = "Toyota"
	saved.Model = "Corolla"
	fresh := vehicle.New()

	p := view.NewPage()
	p.SetMode(view.ModeCustomerVehicle)
	p.ConfigureCustomerContent(customer.New())
	p.ConfigureHiddenFields(record.ID("c-1"), record.Unsaved, record.Unsaved)
	p.ConfigureVehicleContent([]*vehicle.Vehicle{saved, fresh})

	html := render(t, p)
	assert.Contains(t, html, "submit_vtab_v-1")
	assert.Contains(t, html, "Toyota Corolla")
	assert.Contains(t, html, "New Vehicle")
	assert.Contains(t, html, "submit_savevhcl")
}

func TestWorkorderPage(t *testing.T) {
	cust := customer.New()
	cust.FirstName = "Ada"
	cust.LastName = "Moreno"
	veh := vehicle.New()
	veh.ID = record.ID("v-1")
	veh.Make = "Toyota"
	veh.Model = "Corolla"
	veh.Year = "2019"

	w := workorder.New()
	w.ID = record.ID("w-1")
	w.Mechanic = "Lee Chaplin"
	w.DateCreated = "Jun 05, 2026 09:00:00"
	w.Status = string(workorder.StatusOpen)

	p := view.NewPage()
	p.SetMode(view.ModeWorkOrder)
	p.ConfigureHiddenFields(record.ID("c-1"), veh.ID, w.ID)
	p.ConfigureWorkorderHeader(cust, veh)
	p.ConfigureWorkorderContent([]*workorder.Workorder{w}, []string{"Lee Chaplin", "Maria Ortega"})

	html := render(t, p)
	assert.Contains(t, html, "Ada Moreno")
	assert.Contains(t, html, "2019 Toyota Corolla")
	assert.Contains(t, html, "submit_wotab_w-1")
	assert.Contains(t, html, "Jun 05, 2026")
	assert.Contains(t, html, `<option value="Lee Chaplin" selected>`)
	assert.Contains(t, html, "no mechanic selected")
	assert.Contains(t, html, `<option value="OPEN" selected>`)
}

func TestWorkorderPageSentinelMechanicRoundTrips(t *testing.T) {
	fresh := workorder.New()

	p := view.NewPage()
	p.SetMode(view.ModeWorkOrder)
	p.ConfigureWorkorderContent([]*workorder.Workorder{fresh}, []string{"Lee Chaplin"})

	html := render(t, p)
	// the sentinel submits its own text, not an empty value
	assert.Contains(t, html, `<option value="no mechanic selected" selected>no mechanic selected</option>`)
	assert.NotContains(t, html, `<option value=""`)
}

func TestErrorReportHighlightsFields(t *testing.T) {
	p := view.NewPage()
	p.SetMode(view.ModeNewCustomer)
	p.ConfigureCustomerContent(customer.New())
	p.ConfigureErrorMessages(&view.ErrorReport{
		Text:   "missing last_name\ninvalid zip\n",
		Fields: []string{"zip", "last_name"},
	})

	html := render(t, p)
	assert.Contains(t, html, "missing last_name")
	assert.Contains(t, html, `class="field error"`)
}

func TestSaveDialog(t *testing.T) {
	p := view.NewPage()
	p.SetMode(view.ModeCustomerVehicle)
	p.ConfigureCustomerContent(customer.New())
	p.ShowSaveDialog("findcust", "")

	html := render(t, p)
	assert.Contains(t, html, `name="request_button" value="findcust"`)
	assert.Contains(t, html, `formaction="/dialog"`)
	assert.Contains(t, html, `value="Yes"`)
	assert.Contains(t, html, `value="Cancel"`)
}

func TestServeError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, view.ServeError(&buf, errors.New("boom")))
	assert.Contains(t, buf.String(), "Something went wrong")
	assert.Contains(t, buf.String(), "boom")
}
