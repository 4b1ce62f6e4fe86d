package controller_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Les2015/auto-repair-shop/internal/controller"
	"github.com/Les2015/auto-repair-shop/internal/customer"
	"github.com/Les2015/auto-repair-shop/internal/record"
	"github.com/Les2015/auto-repair-shop/internal/storetest"
	"github.com/Les2015/auto-repair-shop/internal/vehicle"
	"github.com/Les2015/auto-repair-shop/internal/workorder"
)

type env struct {
	router     *chi.Mux
	customers  *customer.Service
	vehicles   *vehicle.Service
	workorders *workorder.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	customers := customer.NewService(storetest.NewCustomers(), logger)
	vehicles := vehicle.NewService(storetest.NewVehicles(), customers, logger)
	workorders := workorder.NewService(storetest.NewWorkorders(), vehicles, logger)

	ctrl := controller.New(customers, vehicles, workorders, []string{"Lee Chaplin", "Maria Ortega"}, logger)
	router := chi.NewRouter()
	ctrl.Routes(router)

	return &env{router: router, customers: customers, vehicles: vehicles, workorders: workorders}
}

func (e *env) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *env) post(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// seedCustomer stores a valid customer directly through the gateway.
func (e *env) seedCustomer(t *testing.T) record.ID {
	t.Helper()
	c := customer.New()
	c.FirstName = "Ada"
	c.LastName = "Moreno"
	c.Address1 = "12 Shoreline Blvd"
	c.City = "Mountain View"
	c.State = "CA"
	c.Zip = "94041"
	c.Phone1 = "650-555-0101"
	id, err := e.customers.Save(context.Background(), c)
	require.NoError(t, err)
	return id
}

func (e *env) seedVehicle(t *testing.T, owner record.ID) record.ID {
	t.Helper()
	v := vehicle.New()
	v.CustomerID = owner
	v.Make = "Toyota"
	v.Model = "Corolla"
	v.Year = "2019"
	v.License = "8ABC123"
	id, err := e.vehicles.Save(context.Background(), v)
	require.NoError(t, err)
	return id
}

func (e *env) seedOpenWorkorder(t *testing.T, vehicleID record.ID) record.ID {
	t.Helper()
	w := workorder.New()
	w.VehicleID = vehicleID
	w.Mileage = "42000"
	w.CustomerRequest = "brakes squeal when cold"
	w.Mechanic = "Lee Chaplin"
	w.DateCreated = workorder.FormatDate(time.Now())
	id, err := e.workorders.Save(context.Background(), w)
	require.NoError(t, err)
	return id
}

// customerForm is a fully filled new-customer submission.
func customerForm() url.Values {
	return url.Values{
		"mode":         {"new-customer"},
		"customer_id":  {"-1"},
		"vehicle_id":   {"-1"},
		"workorder_id": {"-1"},
		"first_name":   {"Ada"},
		"last_name":    {"Moreno"},
		"address1":     {"12 Shoreline Blvd"},
		"address2":     {""},
		"city":         {"Mountain View"},
		"state":        {"CA"},
		"zip":          {"94041"},
		"phone1":       {"650-555-0101"},
		"phone2":       {""},
		"email":        {""},
		"comments":     {""},
	}
}

func TestIndexShowsNewCustomerPage(t *testing.T) {
	e := newEnv(t)

	w := e.get(t, "/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `name="first_name"`)
	assert.Contains(t, body, "submit_savecust")
	assert.Contains(t, body, `name="mode" value="new-customer"`)
	assert.Contains(t, body, "submit_findcust")
}

func TestSaveNewCustomerMovesToVehiclePage(t *testing.T) {
	e := newEnv(t)
	form := customerForm()
	form.Set("submit_savecust", "1")

	w := e.post(t, "/customer", form)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `name="mode" value="customer-vehicle"`)
	assert.Contains(t, body, "submit_savevhcl")
	assert.Contains(t, body, "New Vehicle")

	results, err := e.customers.Search(context.Background(), &customer.Customer{LastName: "Moreno"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].ID.Persisted())
}

func TestFormValuesTrimmed(t *testing.T) {
	e := newEnv(t)
	form := customerForm()
	form.Set("last_name", " Moreno ")
	form.Set("zip", "  94041 ")
	form.Set("phone1", " 650-555-0101")
	form.Set("submit_savecust", "1")

	w := e.post(t, "/customer", form)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.NotContains(t, body, "invalid zip")
	assert.Contains(t, body, `name="mode" value="customer-vehicle"`)

	results, err := e.customers.Search(context.Background(), &customer.Customer{LastName: "Moreno"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Moreno", results[0].LastName)
	assert.Equal(t, "94041", results[0].Zip)
	assert.Equal(t, "650-555-0101", results[0].Phone1)
}

func TestSaveCustomerValidationErrors(t *testing.T) {
	e := newEnv(t)
	form := customerForm()
	form.Set("last_name", "")
	form.Set("zip", "123")
	form.Set("submit_savecust", "1")

	w := e.post(t, "/customer", form)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "missing last_name")
	assert.Contains(t, body, "invalid zip")
	// the typed values stay on the form
	assert.Contains(t, body, `value="Ada"`)
	assert.Contains(t, body, `name="mode" value="new-customer"`)
}

func TestDuplicateCustomerReported(t *testing.T) {
	e := newEnv(t)
	e.seedCustomer(t)

	form := customerForm()
	form.Set("submit_savecust", "1")
	w := e.post(t, "/customer", form)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "already in database")
}

func TestSearchFlow(t *testing.T) {
	e := newEnv(t)
	id := e.seedCustomer(t)

	form := url.Values{
		"mode":        {"find-customer"},
		"customer_id": {"-1"},
		"last_name":   {"moreno"},
		"first_name":  {""},
	}
	form.Set("submit_search", "1")
	w := e.post(t, "/customer", form)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/search?cid="+id.String())

	w = e.get(t, "/search?cid="+id.String())
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `value="Moreno"`)
	assert.Contains(t, body, `name="mode" value="customer-vehicle"`)
}

func TestSearchWithNoMatches(t *testing.T) {
	e := newEnv(t)

	form := url.Values{
		"mode":       {"find-customer"},
		"last_name":  {"Nobody"},
		"first_name": {""},
	}
	form.Set("submit_search", "1")
	w := e.post(t, "/customer", form)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No matching customers found.")
}

func TestSaveVehicleAndWorkorderFlow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	customerID := e.seedCustomer(t)

	form := url.Values{
		"mode":         {"customer-vehicle"},
		"customer_id":  {customerID.String()},
		"vehicle_id":   {"-1"},
		"workorder_id": {"-1"},
		"first_name":   {"Ada"},
		"last_name":    {"Moreno"},
		"address1":     {"12 Shoreline Blvd"},
		"city":         {"Mountain View"},
		"state":        {"CA"},
		"zip":          {"94041"},
		"phone1":       {"650-555-0101"},
		"make":         {"Toyota"},
		"model":        {"Corolla"},
		"year":         {"2019"},
		"license":      {"8ABC123"},
		"vin":          {""},
		"notes":        {""},
	}
	form.Set("submit_savevhcl", "1")
	w := e.post(t, "/customer", form)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Toyota Corolla")

	list, err := e.vehicles.ForCustomer(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	vehicleID := list[0].ID

	// open the work order page for the saved vehicle
	woForm := url.Values{
		"mode":         {"customer-vehicle"},
		"customer_id":  {customerID.String()},
		"vehicle_id":   {vehicleID.String()},
		"workorder_id": {"-1"},
	}
	woForm.Set("submit_newwo", "1")
	w = e.post(t, "/customer", woForm)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `name="mileage"`)
	assert.Contains(t, body, "New Work Order")
	assert.Contains(t, body, "Ada Moreno")

	// fill and save the new work order
	saveForm := url.Values{
		"mode":             {"work-order"},
		"customer_id":      {customerID.String()},
		"vehicle_id":       {vehicleID.String()},
		"workorder_id":     {"-1"},
		"mileage":          {"42000"},
		"status":           {"OPEN"},
		"mechanic":         {"Lee Chaplin"},
		"customer_request": {"brakes squeal when cold"},
		"date_created":     {""},
		"date_closed":      {""},
		"task_list":        {""},
		"work_performed":   {""},
		"notes":            {""},
	}
	saveForm.Set("submit_savewo", "1")
	w = e.post(t, "/customer", saveForm)
	require.Equal(t, http.StatusOK, w.Code)

	orders, err := e.workorders.ForVehicle(ctx, vehicleID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.True(t, orders[0].ID.Persisted())
	assert.NotEmpty(t, orders[0].DateCreated)
	assert.Contains(t, w.Body.String(), "submit_wotab_"+orders[0].ID.String())
}

func TestSaveVehicleValidationKeepsEdits(t *testing.T) {
	e := newEnv(t)
	customerID := e.seedCustomer(t)

	form := url.Values{
		"mode":        {"customer-vehicle"},
		"customer_id": {customerID.String()},
		"vehicle_id":  {"-1"},
		"make":        {"Toyota"},
		"model":       {"Corolla"},
		"year":        {"1800"},
		"license":     {"8ABC123"},
		"vin":         {""},
		"notes":       {""},
	}
	form.Set("submit_savevhcl", "1")
	w := e.post(t, "/customer", form)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "invalid year")
	assert.Contains(t, body, `value="1800"`)
}

func TestNewWorkorderBlockedWhenUnclosed(t *testing.T) {
	e := newEnv(t)
	customerID := e.seedCustomer(t)
	vehicleID := e.seedVehicle(t, customerID)
	e.seedOpenWorkorder(t, vehicleID)

	form := url.Values{
		"mode":        {"customer-vehicle"},
		"customer_id": {customerID.String()},
		"vehicle_id":  {vehicleID.String()},
	}
	form.Set("submit_newwo", "1")
	w := e.post(t, "/customer", form)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "unclosed work order")
}

func TestSidePanelListsOpenOrders(t *testing.T) {
	e := newEnv(t)
	customerID := e.seedCustomer(t)
	vehicleID := e.seedVehicle(t, customerID)
	orderID := e.seedOpenWorkorder(t, vehicleID)

	w := e.get(t, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "submit_activewo_"+orderID.String())

	form := url.Values{"mode": {"new-customer"}}
	form.Set("submit_activewo_"+orderID.String(), "1")
	w = e.post(t, "/customer", form)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `name="mode" value="work-order"`)
	assert.Contains(t, body, "Ada Moreno")
	assert.Contains(t, body, `value="42000"`)
}

func TestContextChangeWithEditsShowsDialog(t *testing.T) {
	e := newEnv(t)

	form := customerForm()
	form.Set("submit_findcust", "1")
	w := e.post(t, "/customer", form)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `name="request_button" value="findcust"`)
	// the edits stay on screen behind the dialog
	assert.Contains(t, body, `value="Moreno"`)
}

func TestContextChangeWithoutEditsSkipsDialog(t *testing.T) {
	e := newEnv(t)

	form := url.Values{
		"mode":        {"new-customer"},
		"customer_id": {"-1"},
		"first_name":  {""},
		"last_name":   {""},
		"address1":    {""},
		"city":        {""},
		"state":       {""},
		"zip":         {""},
		"phone1":      {""},
	}
	form.Set("submit_findcust", "1")
	w := e.post(t, "/customer", form)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.NotContains(t, body, "request_button")
	assert.Contains(t, body, "submit_search")
}

func TestDialogAnswers(t *testing.T) {
	t.Run("No discards and navigates", func(t *testing.T) {
		e := newEnv(t)
		form := customerForm()
		form.Set("answer", "No")
		form.Set("request_button", "findcust")
		form.Set("request_tag", "")

		w := e.post(t, "/dialog", form)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "submit_search")

		results, err := e.customers.Search(context.Background(), &customer.Customer{LastName: "Moreno"})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("Cancel stays on the page", func(t *testing.T) {
		e := newEnv(t)
		form := customerForm()
		form.Set("answer", "Cancel")
		form.Set("request_button", "findcust")

		w := e.post(t, "/dialog", form)
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `value="Moreno"`)
		assert.Contains(t, body, `name="mode" value="new-customer"`)
	})

	t.Run("Yes saves then navigates", func(t *testing.T) {
		e := newEnv(t)
		form := customerForm()
		form.Set("answer", "Yes")
		form.Set("request_button", "findcust")

		w := e.post(t, "/dialog", form)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "submit_search")

		results, err := e.customers.Search(context.Background(), &customer.Customer{LastName: "Moreno"})
		require.NoError(t, err)
		require.Len(t, results, 1)
	})

	t.Run("Yes with invalid record shows errors instead", func(t *testing.T) {
		e := newEnv(t)
		form := customerForm()
		form.Set("last_name", "")
		form.Set("answer", "Yes")
		form.Set("request_button", "findcust")

		w := e.post(t, "/dialog", form)
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "missing last_name")
		// navigation did not happen
		assert.Contains(t, body, `name="mode" value="new-customer"`)
	})
}

func TestRestoreCustomerDiscardsEdits(t *testing.T) {
	e := newEnv(t)
	customerID := e.seedCustomer(t)

	form := url.Values{
		"mode":        {"customer-vehicle"},
		"customer_id": {customerID.String()},
		"vehicle_id":  {"-1"},
		"first_name":  {"Scribbled"},
		"last_name":   {"Over"},
		"address1":    {"x"},
		"city":        {"x"},
		"state":       {"CA"},
		"zip":         {"94041"},
		"phone1":      {"650-555-0101"},
	}
	form.Set("submit_rstrcust", "1")
	w := e.post(t, "/customer", form)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `value="Moreno"`)
	assert.NotContains(t, body, `value="Scribbled"`)
}

func TestUnknownCustomerLinkFails(t *testing.T) {
	e := newEnv(t)
	w := e.get(t, "/search?cid=no-such-customer")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Something went wrong")
}
