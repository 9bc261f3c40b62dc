package domain

import (
	"fmt"
	"time"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// PageQuery is the caller-supplied pagination request. The same
// abstraction serves both the request listing and the user listing so
// clamping behaves identically for both.
type PageQuery struct {
	Page    int  `json:"page"`
	PerPage int  `json:"per_page"`
	All     bool `json:"all"`
}

// Normalized returns a copy with zero values replaced by defaults.
func (q PageQuery) Normalized() PageQuery {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PerPage == 0 {
		q.PerPage = DefaultPerPage
	}
	return q
}

// Validate rejects non-positive pages and per-page values outside
// 1..MaxPerPage before any query runs.
func (q PageQuery) Validate() error {
	if q.Page < 1 {
		return fmt.Errorf("%w: page must be a positive integer, got %d", ErrInvalidArgument, q.Page)
	}
	if q.PerPage < 1 || q.PerPage > MaxPerPage {
		return fmt.Errorf("%w: per_page must be between 1 and %d, got %d", ErrInvalidArgument, MaxPerPage, q.PerPage)
	}
	return nil
}

// PageMeta describes one result page returned alongside the items.
type PageMeta struct {
	Page       int `json:"page"`
	PageTotal  int `json:"page_total"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
}

// Resolve clamps the requested page against the total item count and
// returns the final page metadata plus the row offset to query at.
// With zero matching rows the page collapses to 0 and the offset to 0.
func (q PageQuery) Resolve(totalItems int) (PageMeta, int) {
	pageTotal := 0
	if totalItems > 0 {
		pageTotal = (totalItems + q.PerPage - 1) / q.PerPage
	}

	page := q.Page
	if pageTotal == 0 {
		page = 0
	} else if page > pageTotal {
		page = pageTotal
	}

	offset := 0
	if page > 1 {
		offset = (page - 1) * q.PerPage
	}

	return PageMeta{
		Page:       page,
		PageTotal:  pageTotal,
		PerPage:    q.PerPage,
		TotalItems: totalItems,
	}, offset
}

// RequestFilter holds the optional, AND-combined request listing
// filters. RequesterID is forced by the query service for non-staff
// callers regardless of what was supplied.
type RequestFilter struct {
	Status      RequestStatus
	CategoryID  *int64
	StartDate   *time.Time
	EndDate     *time.Time
	Search      string
	RequesterID string
	PageQuery
}

// UserFilter holds the optional user listing filters.
type UserFilter struct {
	Role   Role
	Active *bool
	Search string
	PageQuery
}
