// Package paging holds offset pagination parameters and the page envelope
// returned by list endpoints.
package paging

import (
	"net/url"
	"strconv"
)

const maxPerPage = 100

type Params struct {
	Page    int
	PerPage int
}

// FromQuery reads "page" and "per_page", falling back to page 1 and defaultPerPage.
func FromQuery(q url.Values, defaultPerPage int) Params {
	p := Params{Page: 1, PerPage: defaultPerPage}

	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		p.Page = n
	}

	if n, err := strconv.Atoi(q.Get("per_page")); err == nil && n > 0 {
		p.PerPage = min(n, maxPerPage)
	}

	return p
}

func (p Params) Limit() int  { return p.PerPage }
func (p Params) Offset() int { return (p.Page - 1) * p.PerPage }

// Result is one page of items.
type Result[T any] struct {
	Data        []T `json:"data"`
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	LastPage    int `json:"last_page"`
}

func NewResult[T any](items []T, p Params, total int) *Result[T] {
	if items == nil {
		items = []T{}
	}

	last := 1
	if p.PerPage > 0 && total > 0 {
		last = (total + p.PerPage - 1) / p.PerPage
	}

	return &Result[T]{
		Data:        items,
		CurrentPage: p.Page,
		PerPage:     p.PerPage,
		Total:       total,
		LastPage:    last,
	}
}

// Map converts the items of a page, keeping the page metadata.
func Map[T, U any](r *Result[T], fn func(T) U) *Result[U] {
	out := make([]U, len(r.Data))
	for i, item := range r.Data {
		out[i] = fn(item)
	}

	return &Result[U]{
		Data:        out,
		CurrentPage: r.CurrentPage,
		PerPage:     r.PerPage,
		Total:       r.Total,
		LastPage:    r.LastPage,
	}
}
