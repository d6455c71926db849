package task

import (
	"math"
	"strings"
)

const (
	DefaultPerPage = 9
	MaxPerPage     = 100
)

// ListQuery selects one page of tasks.
type ListQuery struct {
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
	Search  string `json:"search,omitempty"`
	Status  string `json:"status,omitempty"`
}

// Normalize clamps page to at least 1 and per_page to [1, MaxPerPage], and
// trims the filters.
func (q ListQuery) Normalize() ListQuery {
	q.Page = max(q.Page, 1)
	q.PerPage = min(max(q.PerPage, 1), MaxPerPage)
	q.Search = strings.TrimSpace(q.Search)
	q.Status = strings.TrimSpace(q.Status)
	return q
}

// Offset is the number of rows skipped before the page starts. It saturates
// at math.MaxInt instead of wrapping, so huge pages stay past the end.
func (q ListQuery) Offset() int {
	if q.Page <= 1 || q.PerPage <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.PerPage {
		return math.MaxInt
	}
	return (q.Page - 1) * q.PerPage
}

// Pagination describes where a page sits in the filtered result set.
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewPagination computes total_pages as ceil(total / per_page).
func NewPagination(page, perPage int, total int64) Pagination {
	totalPages := 0
	if perPage > 0 {
		totalPages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Page is a list result.
type Page struct {
	Items      []Task     `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// NewPage builds a page for an already normalized query.
func NewPage(items []Task, q ListQuery, total int64) *Page {
	if items == nil {
		items = []Task{}
	}
	return &Page{
		Items:      items,
		Pagination: NewPagination(q.Page, q.PerPage, total),
	}
}
