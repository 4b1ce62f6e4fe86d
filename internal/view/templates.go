package view

import (
	"html/template"

	"github.com/Les2015/auto-repair-shop/internal/vehicle"
	"github.com/Les2015/auto-repair-shop/internal/workorder"
)

var templateFuncs = template.FuncMap{
	"shortdate":  shortDate,
	"vlabel":     vehicleLabel,
	"wlabel":     workorderLabel,
	"fieldclass": fieldClass,
}

// shortDate trims a form timestamp down to its date for the tab strips and
// side panel. Unparseable input is shown as-is.
func shortDate(value string) string {
	t, err := workorder.ParseDate(value)
	if err != nil || t.IsZero() {
		return value
	}
	return t.Format("Jan 02, 2006")
}

func vehicleLabel(v *vehicle.Vehicle) string {
	if v == nil {
		return "Unknown Vehicle"
	}
	if !v.ID.Persisted() {
		return "New Vehicle"
	}
	return v.Make + " " + v.Model
}

func workorderLabel(w *workorder.Workorder) string {
	if !w.ID.Persisted() {
		return "New Work Order"
	}
	return shortDate(w.DateCreated)
}

// fieldClass marks inputs whose fields were rejected by validation.
func fieldClass(highlight map[string]bool, name string) string {
	if highlight[name] {
		return "field error"
	}
	return "field"
}

var pageTemplate = template.Must(template.New("page").Funcs(templateFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
<title>Auto Repair Shop</title>
<link rel="stylesheet" href="/static/shop.css">
</head>
<body class="mode-{{.Mode}}">

<form method="post" action="/customer">
<input type="hidden" name="mode" value="{{.Mode}}">
<input type="hidden" name="customer_id" value="{{.CustomerID}}">
<input type="hidden" name="vehicle_id" value="{{.VehicleID}}">
<input type="hidden" name="workorder_id" value="{{.WorkorderID}}">

{{if .Dialog}}
<div class="dialog">
<p>Do you want to save your changes first?</p>
<input type="hidden" name="request_button" value="{{.Dialog.Command}}">
<input type="hidden" name="request_tag" value="{{.Dialog.Tag}}">
<button type="submit" formaction="/dialog" name="answer" value="Yes">Yes</button>
<button type="submit" formaction="/dialog" name="answer" value="No">No</button>
<button type="submit" formaction="/dialog" name="answer" value="Cancel">Cancel</button>
</div>
{{end}}

{{if .Side}}
<div class="sidepanel">
<button type="submit" name="submit_newcust" value="1"{{if eq .Side.Active 1}} class="active"{{end}}>New Customer</button>
<button type="submit" name="submit_findcust" value="1"{{if eq .Side.Active 2}} class="active"{{end}}>Find Customer</button>
<h3>Open Work Orders</h3>
<ul>
{{range .Side.Open}}
<li><button type="submit" name="submit_activewo_{{.Workorder.ID}}" value="1">{{vlabel .Vehicle}} ({{shortdate .Workorder.DateCreated}})</button></li>
{{end}}
</ul>
<h3>Completed Work Orders</h3>
<ul>
{{range .Side.Completed}}
<li><button type="submit" name="submit_activewo_{{.Workorder.ID}}" value="1">{{vlabel .Vehicle}} ({{shortdate .Workorder.DateCreated}})</button></li>
{{end}}
</ul>
</div>
{{end}}

<div class="content">
{{if .Report}}
<div class="errors">
{{if .Report.Match}}<p class="duplicate">{{with .Report.Match}}{{.FirstName}} {{.LastName}}, {{.Address1}}, {{.City}} {{.State}} {{.Zip}}, {{.Phone1}}{{end}}</p>{{end}}
<pre>{{.Report.Text}}</pre>
</div>
{{end}}

{{if .HeaderCustomer}}
<div class="header">
<span>{{.HeaderCustomer.FirstName}} {{.HeaderCustomer.LastName}}</span>
<span>{{.HeaderCustomer.Phone1}}</span>
{{with .HeaderVehicle}}<span>{{.Year}} {{.Make}} {{.Model}}</span><span>{{.License}}</span>{{end}}
<button type="submit" name="submit_showcust_{{.CustomerID}}" value="1">Customer</button>
</div>
{{end}}

{{if .Customer}}
<div class="customer">
{{with .Customer}}
<label class="{{fieldclass $.Highlight "first_name"}}">First Name <input name="first_name" value="{{.FirstName}}" maxlength="50"></label>
<label class="{{fieldclass $.Highlight "last_name"}}">Last Name <input name="last_name" value="{{.LastName}}" maxlength="50"></label>
<label class="{{fieldclass $.Highlight "address1"}}">Address <input name="address1" value="{{.Address1}}" maxlength="50"></label>
<label class="{{fieldclass $.Highlight "address2"}}">Address 2 <input name="address2" value="{{.Address2}}" maxlength="50"></label>
<label class="{{fieldclass $.Highlight "city"}}">City <input name="city" value="{{.City}}" maxlength="50"></label>
<label class="{{fieldclass $.Highlight "state"}}">State <input name="state" value="{{.State}}" maxlength="2"></label>
<label class="{{fieldclass $.Highlight "zip"}}">Zip <input name="zip" value="{{.Zip}}" maxlength="10"></label>
<label class="{{fieldclass $.Highlight "phone1"}}">Primary Phone <input name="phone1" value="{{.Phone1}}" maxlength="30"></label>
<label class="{{fieldclass $.Highlight "phone2"}}">Secondary Phone <input name="phone2" value="{{.Phone2}}" maxlength="30"></label>
<label class="{{fieldclass $.Highlight "email"}}">Email <input name="email" value="{{.Email}}" maxlength="50"></label>
<label class="{{fieldclass $.Highlight "comments"}}">Comments <textarea name="comments" maxlength="5000">{{.Comments}}</textarea></label>
{{end}}
{{if eq .Mode "find-customer"}}
<button type="submit" name="submit_search" value="1">Search</button>
<button type="submit" name="submit_resetcust_1" value="1">Reset</button>
{{else if eq .Mode "new-customer"}}
<button type="submit" name="submit_savecust" value="1">Save</button>
<button type="submit" name="submit_resetcust_0" value="1">Reset</button>
{{else}}
<button type="submit" name="submit_savecust" value="1">Save</button>
<button type="submit" name="submit_rstrcust" value="1">Restore</button>
{{end}}
</div>
{{end}}

{{if .HaveResults}}
<div class="results">
{{if .Results}}
<table>
<tr><th>Name</th><th>Address</th><th>Phone</th></tr>
{{range .Results}}
<tr>
<td><a href="/search?cid={{.ID}}">{{.LastName}}, {{.FirstName}}</a></td>
<td>{{.Address1}}, {{.City}} {{.State}} {{.Zip}}</td>
<td>{{.Phone1}}</td>
</tr>
{{end}}
</table>
{{else}}
<p>No matching customers found.</p>
{{end}}
</div>
{{end}}

{{if .Vehicles}}
<div class="vehicles">
<div class="tabs">
{{range .Vehicles}}
{{if .ID.Persisted}}<button type="submit" name="submit_vtab_{{.ID}}" value="1">{{vlabel .}}</button>{{else}}<span class="tab">{{vlabel .}}</span>{{end}}
{{end}}
</div>
{{with .ActiveVehicle}}
<label class="{{fieldclass $.Highlight "make"}}">Make <input name="make" value="{{.Make}}" maxlength="50"></label>
<label class="{{fieldclass $.Highlight "model"}}">Model <input name="model" value="{{.Model}}" maxlength="50"></label>
<label class="{{fieldclass $.Highlight "year"}}">Year <input name="year" value="{{.Year}}" maxlength="4"></label>
<label class="{{fieldclass $.Highlight "license"}}">License <input name="license" value="{{.License}}" maxlength="10"></label>
<label class="{{fieldclass $.Highlight "vin"}}">VIN <input name="vin" value="{{.VIN}}" maxlength="17"></label>
<label class="{{fieldclass $.Highlight "notes"}}">Notes <textarea name="notes" maxlength="5000">{{.Notes}}</textarea></label>
{{end}}
<button type="submit" name="submit_savevhcl" value="1">Save</button>
<button type="submit" name="submit_rstrvhcl" value="1">Restore</button>
{{if .ActiveVehicle}}{{if .ActiveVehicle.ID.Persisted}}
<button type="submit" name="submit_newwo" value="1">New Work Order</button>
<button type="submit" name="submit_showwos_{{.ActiveVehicle.ID}}" value="1">Work Orders</button>
{{end}}{{end}}
</div>
{{end}}

{{if .Workorders}}
<div class="workorders">
<div class="tabs">
{{range .Workorders}}
{{if .ID.Persisted}}<button type="submit" name="submit_wotab_{{.ID}}" value="1">{{wlabel .}}</button>{{else}}<span class="tab">{{wlabel .}}</span>{{end}}
{{end}}
</div>
{{with .ActiveOrder}}
<label>Created <input name="date_created" value="{{.DateCreated}}" readonly></label>
<label>Closed <input name="date_closed" value="{{.DateClosed}}" readonly></label>
<label class="{{fieldclass $.Highlight "mileage"}}">Mileage <input name="mileage" value="{{.Mileage}}" maxlength="7"></label>
<label class="{{fieldclass $.Highlight "status"}}">Status
<select name="status">
{{range $.Statuses}}<option value="{{.}}"{{if eq (printf "%s" .) $.ActiveOrder.Status}} selected{{end}}>{{.}}</option>{{end}}
</select>
</label>
<label class="{{fieldclass $.Highlight "mechanic"}}">Mechanic
<select name="mechanic">
<option value="{{$.NoneSelected}}"{{if or (eq .Mechanic "") (eq .Mechanic $.NoneSelected)}} selected{{end}}>{{$.NoneSelected}}</option>
{{range $.Mechanics}}<option value="{{.}}"{{if eq . $.ActiveOrder.Mechanic}} selected{{end}}>{{.}}</option>{{end}}
</select>
</label>
<label class="{{fieldclass $.Highlight "customer_request"}}">Customer Request <textarea name="customer_request" maxlength="5000">{{.CustomerRequest}}</textarea></label>
<label class="{{fieldclass $.Highlight "task_list"}}">Task List <textarea name="task_list" maxlength="5000">{{.TaskList}}</textarea></label>
<label class="{{fieldclass $.Highlight "work_performed"}}">Work Performed <textarea name="work_performed" maxlength="5000">{{.WorkPerformed}}</textarea></label>
<label class="{{fieldclass $.Highlight "notes"}}">Notes <textarea name="notes" maxlength="5000">{{.Notes}}</textarea></label>
{{end}}
<button type="submit" name="submit_savewo" value="1">Save</button>
<button type="submit" name="submit_rstrwo" value="1">Restore</button>
</div>
{{end}}

</div>
</form>
</body>
</html>
`))

var errorTemplate = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html>
<head><title>Auto Repair Shop</title></head>
<body>
<h1>Something went wrong</h1>
<p>The request could not be completed. Please go back and try again.</p>
<pre>{{.}}</pre>
</body>
</html>
`))
