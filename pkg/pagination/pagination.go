// Package pagination slices list endpoints into pages driven by query
// parameters.
package pagination

import (
	"net/http"
	"strconv"
)

// Params holds pagination parameters extracted from a query string.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// DefaultParams returns the defaults used when the query carries none.
func DefaultParams() Params {
	return Params{Page: 1, PerPage: 20}
}

// FromRequest extracts page and per_page from an HTTP request. Out-of-range
// values fall back to the defaults; per_page is capped at 50.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()

	if page := r.URL.Query().Get("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 0 {
			p.Page = v
		}
	}
	if perPage := r.URL.Query().Get("per_page"); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= 50 {
			p.PerPage = v
		}
	}
	return p
}

// Result wraps one page of a list response.
type Result[T any] struct {
	Data       []T  `json:"data"`
	TotalCount int  `json:"total_count"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// Paginate slices items according to params and wraps the page in a Result.
// A page past the end yields an empty data slice, not an error. Non-positive
// page or per_page values fall back to the defaults.
func Paginate[T any](items []T, params Params) Result[T] {
	defaults := DefaultParams()
	if params.Page <= 0 {
		params.Page = defaults.Page
	}
	if params.PerPage <= 0 {
		params.PerPage = defaults.PerPage
	}

	total := len(items)
	totalPages := total / params.PerPage
	if total%params.PerPage > 0 {
		totalPages++
	}

	start := (params.Page - 1) * params.PerPage
	if start > total {
		start = total
	}
	end := start + params.PerPage
	if end > total {
		end = total
	}

	return Result[T]{
		Data:       items[start:end],
		TotalCount: total,
		Page:       params.Page,
		PerPage:    params.PerPage,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1 && total > 0,
	}
}
