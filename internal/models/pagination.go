package models

import (
	"net/url"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PaginationParams describes a page request.
type PaginationParams struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination is the metadata attached to a paginated response.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// PaginatedResponse wraps one page of items.
type PaginatedResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// GetPaginationParams reads page and limit from a query string, clamping
// page to at least 1 and limit to [1, MaxLimit].
func GetPaginationParams(q url.Values) PaginationParams {
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil {
		page = DefaultPage
	}
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil {
		limit = DefaultLimit
	}
	return PaginationParams{
		Page:  max(1, page),
		Limit: min(MaxLimit, max(1, limit)),
	}
}

// NewPagination fills in the metadata for a page of total items.
func NewPagination(p PaginationParams, total int) Pagination {
	pages := 0
	if total > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{Page: p.Page, Limit: p.Limit, Total: total, TotalPages: pages}
}

// Offset returns the number of rows to skip for the page.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}
