// Package view turns API models into what the pages render.
package view

import "fmt"

// Pagination is the Previous / "Page N of M" / Next control.
type Pagination struct {
	Page         int
	TotalPages   int
	HasPrevious  bool
	HasNext      bool
	PreviousPage int
	NextPage     int
	Label        string
}

// NewPagination builds the control for page out of totalPages.
func NewPagination(page, totalPages int) Pagination {
	if totalPages < 0 {
		totalPages = 0
	}
	if page < 1 {
		page = 1
	}

	p := Pagination{
		Page:        page,
		TotalPages:  totalPages,
		HasPrevious: page > 1,
		HasNext:     page < totalPages,
		Label:       fmt.Sprintf("Page %d of %d", page, totalPages),
	}
	if p.HasPrevious {
		p.PreviousPage = page - 1
	}
	if p.HasNext {
		p.NextPage = page + 1
	}
	return p
}

// Visible reports whether the control is shown at all.
func (p Pagination) Visible() bool {
	return p.TotalPages > 1
}
