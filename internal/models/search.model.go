package models

// SearchFilters is the full set of criteria the search form accepts. Empty
// string means the field does not constrain the query; values are free text.
type SearchFilters struct {
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName"`
	LastName   string `json:"lastName"`
	Zip        string `json:"zip"`
	City       string `json:"city"`
	State      string `json:"state"`
	DOB        string `json:"dob"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

// SearchState is one dashboard query. Filters == nil means no search has
// been submitted yet, which is distinct from a submitted all-empty search:
// with nil filters fetching is disabled entirely.
type SearchState struct {
	Filters *SearchFilters `json:"filters"`
	Page    int            `json:"page"`
}

func (s SearchState) Active() bool {
	return s.Filters != nil
}

type Person struct {
	ID         string `json:"id"`
	Firstname  string `json:"firstname"`
	Middlename string `json:"middlename"`
	Lastname   string `json:"lastname"`
	DOB        string `json:"dob"`
	Address    string `json:"address"`
	City       string `json:"city"`
	St         string `json:"st"`
	Zip        string `json:"zip"`
	SSN        string `json:"ssn"`
}

type SearchResponse struct {
	Data       []Person `json:"data"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	TotalPages int      `json:"totalPages"`
}

// SearchPayload is what the search endpoints hand back to the dashboard:
// the response for the current fetch key, or a disabled payload when no
// search is active.
type SearchPayload struct {
	Active   bool            `json:"active"`
	Key      string          `json:"key,omitempty"`
	Cached   bool            `json:"cached"`
	Response *SearchResponse `json:"response,omitempty"`
}

type StateCount struct {
	State string `json:"state"`
	Count int    `json:"count"`
}

type DatabaseStats struct {
	TotalRecords   int          `json:"totalRecords"`
	RecordsByState []StateCount `json:"recordsByState"`
}
