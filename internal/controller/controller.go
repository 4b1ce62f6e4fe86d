// Package controller drives the single-page application: it decodes the
// button event behind each request, guards context changes against unsaved
// edits, and assembles the next page through the view layer.
package controller

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Les2015/auto-repair-shop/internal/customer"
	"github.com/Les2015/auto-repair-shop/internal/record"
	"github.com/Les2015/auto-repair-shop/internal/vehicle"
	"github.com/Les2015/auto-repair-shop/internal/view"
	"github.com/Les2015/auto-repair-shop/internal/workorder"
)

// Controller holds the gateways and the mechanic roster. It keeps no
// per-user state; everything a request needs rides in the form itself.
type Controller struct {
	customers  *customer.Service
	vehicles   *vehicle.Service
	workorders *workorder.Service
	roster     []string
	logger     *slog.Logger
	handlers   map[string]commandHandler
}

func New(customers *customer.Service, vehicles *vehicle.Service, workorders *workorder.Service, roster []string, logger *slog.Logger) *Controller {
	c := &Controller{
		customers:  customers,
		vehicles:   vehicles,
		workorders: workorders,
		roster:     roster,
		logger:     logger,
	}
	c.handlers = map[string]commandHandler{
		"newcust":   c.handleNewCustomer,
		"findcust":  c.handleFindCustomer,
		"savecust":  c.handleSaveCustomer,
		"showcust":  c.handleShowCustomer,
		"resetcust": c.handleResetCustomer,
		"rstrcust":  c.handleRestoreCustomer,
		"search":    c.handleSearch,
		"savevhcl":  c.handleSaveVehicle,
		"rstrvhcl":  c.handleRestoreVehicle,
		"vtab":      c.handleVehicleTab,
		"newwo":     c.handleNewWorkorder,
		"showwos":   c.handleShowWorkorders,
		"savewo":    c.handleSaveWorkorder,
		"wotab":     c.handleWorkorderTab,
		"activewo":  c.handleActiveWorkorder,
		"rstrwo":    c.handleRestoreWorkorder,
	}
	return c
}

// Routes mounts the application's four endpoints.
func (c *Controller) Routes(r chi.Router) {
	r.Get("/", c.handleIndex)
	r.Post("/customer", c.handleCommand)
	r.Get("/search", c.handleCustomerLink)
	r.Post("/dialog", c.handleDialog)
}

// session is the per-request working state reconstructed from the form: the
// submitted field values, the page mode, the three active identities, and
// the page being assembled for the response.
type session struct {
	fields      map[string]string
	mode        view.Mode
	customerID  record.ID
	vehicleID   record.ID
	workorderID record.ID
	page        *view.Page
}

func newSession(r *http.Request) (*session, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	fields := make(map[string]string, len(r.Form))
	for name, values := range r.Form {
		if len(values) > 0 {
			// browsers pass pasted padding through; stray spaces would
			// defeat validation, dirty detection and the duplicate probe
			fields[name] = strings.TrimSpace(values[0])
		}
	}
	return &session{
		fields:      fields,
		mode:        view.ParseMode(fields["mode"]),
		customerID:  record.Normalize(fields["customer_id"]),
		vehicleID:   record.Normalize(fields["vehicle_id"]),
		workorderID: record.Normalize(fields["workorder_id"]),
		page:        view.NewPage(),
	}, nil
}

// parseButton finds the submit_<command>[_<tag>] key the browser sent for
// the clicked button.
func parseButton(fields map[string]string) (command, tag string) {
	for name := range fields {
		if !strings.HasPrefix(name, "submit_") {
			continue
		}
		parts := strings.SplitN(strings.TrimPrefix(name, "submit_"), "_", 2)
		command = parts[0]
		if len(parts) == 2 {
			tag = parts[1]
		}
		return command, tag
	}
	return "", ""
}

func (c *Controller) handleIndex(w http.ResponseWriter, r *http.Request) {
	s, err := newSession(r)
	if err != nil {
		c.serveFailure(w, r, err)
		return
	}
	if err := c.dispatch(r.Context(), s, "newcust", "", false); err != nil {
		c.serveFailure(w, r, err)
		return
	}
	c.render(w, r, s)
}

func (c *Controller) handleCommand(w http.ResponseWriter, r *http.Request) {
	s, err := newSession(r)
	if err != nil {
		c.serveFailure(w, r, err)
		return
	}
	command, tag := parseButton(s.fields)
	if command == "" {
		command = "newcust"
	}
	if err := c.dispatch(r.Context(), s, command, tag, false); err != nil {
		c.serveFailure(w, r, err)
		return
	}
	c.render(w, r, s)
}

// handleCustomerLink serves the hyperlinks in the search results table.
// A plain GET carries no form state, so there is nothing to guard.
func (c *Controller) handleCustomerLink(w http.ResponseWriter, r *http.Request) {
	s, err := newSession(r)
	if err != nil {
		c.serveFailure(w, r, err)
		return
	}
	if err := c.dispatch(r.Context(), s, "showcust", r.URL.Query().Get("cid"), true); err != nil {
		c.serveFailure(w, r, err)
		return
	}
	c.render(w, r, s)
}

func (c *Controller) handleDialog(w http.ResponseWriter, r *http.Request) {
	s, err := newSession(r)
	if err != nil {
		c.serveFailure(w, r, err)
		return
	}
	if err := c.resolveDialog(r.Context(), s); err != nil {
		c.serveFailure(w, r, err)
		return
	}
	c.render(w, r, s)
}

func (c *Controller) render(w http.ResponseWriter, r *http.Request, s *session) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.ServeContent(w); err != nil {
		c.logger.ErrorContext(r.Context(), "page render failed", "error", err)
	}
}

// serveFailure is the outer error boundary: whatever leaked past the
// handlers becomes the internal error page.
func (c *Controller) serveFailure(w http.ResponseWriter, r *http.Request, err error) {
	c.logger.ErrorContext(r.Context(), "request failed", "error", err, "path", r.URL.Path)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	if err := view.ServeError(w, err); err != nil {
		c.logger.ErrorContext(r.Context(), "error page render failed", "error", err)
	}
}
