package searchstate

import (
	"net/url"
	"strconv"
	"strings"

	. "peoplefinder/internal/models"
)

// fieldSpec ties one filter field to its URL parameter name. The slice
// order is the canonical encoding order. Email and phone are taken as
// typed; everything else is trimmed on submit.
type fieldSpec struct {
	name string
	trim bool
	get  func(f *SearchFilters) *string
}

var fieldSpecs = []fieldSpec{
	{"firstName", true, func(f *SearchFilters) *string { return &f.FirstName }},
	{"middleName", true, func(f *SearchFilters) *string { return &f.MiddleName }},
	{"lastName", true, func(f *SearchFilters) *string { return &f.LastName }},
	{"zip", true, func(f *SearchFilters) *string { return &f.Zip }},
	{"city", true, func(f *SearchFilters) *string { return &f.City }},
	{"state", true, func(f *SearchFilters) *string { return &f.State }},
	{"dob", true, func(f *SearchFilters) *string { return &f.DOB }},
	{"email", false, func(f *SearchFilters) *string { return &f.Email }},
	{"phone", false, func(f *SearchFilters) *string { return &f.Phone }},
}

// wireNames translates the dashboard's camelCase parameters to the names
// the upstream search API expects.
var wireNames = map[string]string{
	"firstName":  "firstname",
	"middleName": "middlename",
	"lastName":   "lastname",
	"zip":        "zip",
	"city":       "city",
	"state":      "st",
	"dob":        "dob",
	"email":      "email",
	"phone":      "phone",
}

// Decode reconstructs a SearchState from a raw query string. A query with
// no recognized parameters is the not-yet-searched state: absent filters,
// fetching disabled. An unparseable page falls back to 1.
func Decode(rawQuery string) SearchState {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return SearchState{Page: 1}
	}

	recognized := values.Has("page")
	filters := &SearchFilters{}
	for _, spec := range fieldSpecs {
		if values.Has(spec.name) {
			recognized = true
		}
		*spec.get(filters) = values.Get(spec.name)
	}

	if !recognized {
		return SearchState{Page: 1}
	}

	page, err := strconv.Atoi(values.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	return SearchState{Filters: filters, Page: page}
}

// Encode produces the canonical query string for a state: non-empty fields
// only, in field order, then page. The inactive state encodes to an empty
// string, i.e. the bare path.
func Encode(state SearchState) string {
	if !state.Active() {
		return ""
	}

	var parts []string
	for _, spec := range fieldSpecs {
		if value := *spec.get(state.Filters); value != "" {
			parts = append(parts, spec.name+"="+url.QueryEscape(value))
		}
	}
	parts = append(parts, "page="+strconv.Itoa(state.Page))

	return strings.Join(parts, "&")
}

// Submit activates a search: text fields are trimmed (email and phone are
// left as typed) and the page resets to 1.
func Submit(filters SearchFilters) SearchState {
	for _, spec := range fieldSpecs {
		if spec.trim {
			field := spec.get(&filters)
			*field = strings.TrimSpace(*field)
		}
	}

	return SearchState{Filters: &filters, Page: 1}
}

// Reset returns to the not-yet-searched state.
func Reset() SearchState {
	return SearchState{Page: 1}
}

// ChangePage moves to page n, preserving filters. It only applies to an
// active search; on an inactive state or a page below 1 the input state is
// returned unchanged.
func ChangePage(state SearchState, n int) SearchState {
	if !state.Active() || n < 1 {
		return state
	}

	state.Page = n
	return state
}

// WireQuery maps the filters to the upstream parameter names, omitting
// empty fields. Page and limit are appended by the upstream client.
func WireQuery(filters *SearchFilters) url.Values {
	wire := url.Values{}
	if filters == nil {
		return wire
	}

	for _, spec := range fieldSpecs {
		if value := *spec.get(filters); value != "" {
			wire.Set(wireNames[spec.name], value)
		}
	}

	return wire
}
