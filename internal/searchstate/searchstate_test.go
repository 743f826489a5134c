package searchstate

import (
	"testing"

	. "peoplefinder/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_OmitsEmptyFields(t *testing.T) {
	tests := []struct {
		name     string
		state    SearchState
		expected string
	}{
		{
			name: "two fields set",
			state: SearchState{
				Filters: &SearchFilters{FirstName: "John", LastName: "Smith"},
				Page:    1,
			},
			expected: "firstName=John&lastName=Smith&page=1",
		},
		{
			name: "all empty filters still carry page",
			state: SearchState{
				Filters: &SearchFilters{},
				Page:    1,
			},
			expected: "page=1",
		},
		{
			name: "field order is declaration order, not alphabetical",
			state: SearchState{
				Filters: &SearchFilters{Phone: "5551234567", City: "Austin", FirstName: "Ann"},
				Page:    3,
			},
			expected: "firstName=Ann&city=Austin&phone=5551234567&page=3",
		},
		{
			name: "values are escaped",
			state: SearchState{
				Filters: &SearchFilters{LastName: "O'Brien Smith"},
				Page:    2,
			},
			expected: "lastName=O%27Brien+Smith&page=2",
		},
		{
			name:     "inactive state encodes to the bare path",
			state:    SearchState{Page: 1},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Encode(tt.state))
		})
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	states := []SearchState{
		{Filters: &SearchFilters{FirstName: "John", LastName: "Smith"}, Page: 1},
		{Filters: &SearchFilters{City: "Austin"}, Page: 2},
		{Filters: &SearchFilters{}, Page: 1},
		{Filters: &SearchFilters{
			FirstName:  "A",
			MiddleName: "B",
			LastName:   "C",
			Zip:        "40202",
			City:       "Louisville",
			State:      "KY",
			DOB:        "19800101",
			Email:      "a@example.com",
			Phone:      "5551234567",
		}, Page: 17},
	}

	for _, state := range states {
		decoded := Decode(Encode(state))
		require.NotNil(t, decoded.Filters)
		assert.Equal(t, *state.Filters, *decoded.Filters)
		assert.Equal(t, state.Page, decoded.Page)
	}
}

func TestDecode_UnrecognizedOrEmptyQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"empty query", ""},
		{"unrecognized params only", "utm_source=mail&foo=bar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := Decode(tt.query)
			assert.False(t, state.Active(), "no recognized params should leave the search inactive")
			assert.Equal(t, 1, state.Page)
		})
	}
}

func TestDecode_PageHandling(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected int
	}{
		{"missing page defaults to 1", "lastName=Smith", 1},
		{"unparseable page defaults to 1", "lastName=Smith&page=abc", 1},
		{"zero page defaults to 1", "lastName=Smith&page=0", 1},
		{"negative page defaults to 1", "lastName=Smith&page=-4", 1},
		{"valid page kept", "lastName=Smith&page=7", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := Decode(tt.query)
			assert.True(t, state.Active())
			assert.Equal(t, tt.expected, state.Page)
		})
	}
}

func TestSubmit_TrimsTextFieldsOnly(t *testing.T) {
	state := Submit(SearchFilters{
		FirstName: "  John ",
		LastName:  "\tSmith\n",
		City:      " Austin ",
		Email:     "  john@example.com ",
		Phone:     " 555 123 4567 ",
	})

	require.True(t, state.Active())
	assert.Equal(t, 1, state.Page)
	assert.Equal(t, "John", state.Filters.FirstName)
	assert.Equal(t, "Smith", state.Filters.LastName)
	assert.Equal(t, "Austin", state.Filters.City)
	// Email and phone are taken as typed
	assert.Equal(t, "  john@example.com ", state.Filters.Email)
	assert.Equal(t, " 555 123 4567 ", state.Filters.Phone)
}

func TestSubmit_ResetsPage(t *testing.T) {
	state := Submit(SearchFilters{City: "Austin"})
	assert.Equal(t, 1, state.Page)
}

func TestReset(t *testing.T) {
	state := Reset()
	assert.False(t, state.Active())
	assert.Equal(t, 1, state.Page)
	assert.Equal(t, "", Encode(state))
}

func TestChangePage(t *testing.T) {
	active := SearchState{Filters: &SearchFilters{City: "Austin"}, Page: 1}

	moved := ChangePage(active, 2)
	assert.Equal(t, 2, moved.Page)
	assert.Equal(t, active.Filters, moved.Filters)

	// Below 1 is ignored
	same := ChangePage(active, 0)
	assert.Equal(t, 1, same.Page)

	// Inactive states cannot page
	inactive := ChangePage(Reset(), 5)
	assert.False(t, inactive.Active())
	assert.Equal(t, 1, inactive.Page)
}

func TestChangePage_ChangesFetchKey(t *testing.T) {
	page1 := SearchState{Filters: &SearchFilters{City: "Austin"}, Page: 1}
	page2 := ChangePage(page1, 2)

	assert.NotEqual(t, Encode(page1), Encode(page2))
	assert.Equal(t, "city=Austin&page=1", Encode(page1))
	assert.Equal(t, "city=Austin&page=2", Encode(page2))
}

func TestWireQuery_TranslatesParameterNames(t *testing.T) {
	wire := WireQuery(&SearchFilters{
		FirstName:  "John",
		MiddleName: "Q",
		LastName:   "Smith",
		State:      "TX",
		City:       "Austin",
		Zip:        "78701",
		DOB:        "19800101",
		Email:      "j@example.com",
		Phone:      "5551234567",
	})

	assert.Equal(t, "John", wire.Get("firstname"))
	assert.Equal(t, "Q", wire.Get("middlename"))
	assert.Equal(t, "Smith", wire.Get("lastname"))
	assert.Equal(t, "TX", wire.Get("st"))
	assert.Equal(t, "Austin", wire.Get("city"))
	assert.Equal(t, "78701", wire.Get("zip"))
	assert.Equal(t, "19800101", wire.Get("dob"))
	assert.Equal(t, "j@example.com", wire.Get("email"))
	assert.Equal(t, "5551234567", wire.Get("phone"))

	// camelCase names never reach the wire
	assert.Empty(t, wire.Get("firstName"))
	assert.Empty(t, wire.Get("state"))
}

func TestWireQuery_OmitsEmptyAndNil(t *testing.T) {
	wire := WireQuery(&SearchFilters{LastName: "Smith"})
	assert.Len(t, wire, 1)
	assert.Equal(t, "Smith", wire.Get("lastname"))

	assert.Empty(t, WireQuery(nil))
}
