package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	. "peoplefinder/internal/models"
)

// SearchLimit is the fixed page size requested from the upstream search
// endpoint regardless of what the UI displays.
const SearchLimit = 100

// SearchPeople runs one search against the remote index. The query must
// already use the upstream's wire parameter names; page and limit are
// added here.
func (c *Client) SearchPeople(ctx context.Context, bearer string, query url.Values, page int) (*SearchResponse, error) {
	wire := url.Values{}
	for key, values := range query {
		for _, value := range values {
			wire.Add(key, value)
		}
	}
	wire.Set("page", strconv.Itoa(page))
	wire.Set("limit", strconv.Itoa(SearchLimit))

	raw, err := c.do(ctx, http.MethodGet, "/people/search", bearer, nil, wire)
	if err != nil {
		return nil, err
	}

	return decodeSearchBody(raw, page), nil
}

func (c *Client) GetStates(ctx context.Context, bearer string) ([]string, error) {
	log := c.log.Function("GetStates")

	raw, err := c.do(ctx, http.MethodGet, "/people/states", bearer, nil, nil)
	if err != nil {
		return nil, err
	}

	var states []string
	if err := json.Unmarshal(raw, &states); err != nil {
		return nil, log.Err("failed to decode states response", &DecodeError{Err: err})
	}

	return states, nil
}

func (c *Client) GetStats(ctx context.Context, bearer string) (*DatabaseStats, error) {
	log := c.log.Function("GetStats")

	raw, err := c.do(ctx, http.MethodGet, "/people/stats", bearer, nil, nil)
	if err != nil {
		return nil, err
	}

	var stats DatabaseStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, log.Err("failed to decode stats response", &DecodeError{Err: err})
	}

	return &stats, nil
}

func (c *Client) GetPersonByID(ctx context.Context, bearer, id string) (*Person, error) {
	log := c.log.Function("GetPersonByID")

	raw, err := c.do(ctx, http.MethodGet, "/people/"+url.PathEscape(id), bearer, nil, nil)
	if err != nil {
		return nil, err
	}

	var person Person
	if err := json.Unmarshal(raw, &person); err != nil {
		return nil, log.Err("failed to decode person response", &DecodeError{Err: err})
	}

	return &person, nil
}

// decodeSearchBody tolerates the three envelope shapes the server has been
// seen to produce: a bare array, {data: [...]}, or {items: [...]}. Anything
// else decodes to an empty result set rather than an error. The server
// contract is not pinned down; when it is, this collapses to one shape.
func decodeSearchBody(raw []byte, page int) *SearchResponse {
	var people []Person
	if err := json.Unmarshal(raw, &people); err == nil {
		return synthesize(people, SearchResponse{}, page)
	}

	var envelope struct {
		Data       json.RawMessage `json:"data"`
		Items      json.RawMessage `json:"items"`
		Total      int             `json:"total"`
		Page       int             `json:"page"`
		Limit      int             `json:"limit"`
		TotalPages int             `json:"totalPages"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return synthesize(nil, SearchResponse{}, page)
	}

	rows := envelope.Data
	if rows == nil {
		rows = envelope.Items
	}
	if rows != nil {
		// A malformed row list degrades to empty, same as an unknown shape.
		_ = json.Unmarshal(rows, &people)
	}

	return synthesize(people, SearchResponse{
		Total:      envelope.Total,
		Page:       envelope.Page,
		Limit:      envelope.Limit,
		TotalPages: envelope.TotalPages,
	}, page)
}

// synthesize fills in any paging metadata the envelope did not carry.
func synthesize(people []Person, meta SearchResponse, page int) *SearchResponse {
	if people == nil {
		people = []Person{}
	}

	response := &SearchResponse{
		Data:       people,
		Total:      meta.Total,
		Page:       meta.Page,
		Limit:      meta.Limit,
		TotalPages: meta.TotalPages,
	}

	if response.Total == 0 {
		response.Total = len(people)
	}
	if response.Page == 0 {
		response.Page = page
	}
	if response.Limit == 0 {
		response.Limit = SearchLimit
	}
	if response.TotalPages == 0 {
		response.TotalPages = (response.Total + response.Limit - 1) / response.Limit
		if response.TotalPages < 1 {
			response.TotalPages = 1
		}
	}

	return response
}
