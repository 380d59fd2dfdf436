package repository

import "math"

// Page selects one page of a list query.  Number is 1-based.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps size to at least 1 and number to at least 1.  Number is
// also capped so that Offset cannot overflow.
func NewPage(number, size int) Page {
	if size < 1 {
		size = 1
	}
	if number < 1 {
		number = 1
	}
	if last := math.MaxInt/size + 1; number > last {
		number = last
	}
	return Page{Number: number, Size: size}
}

// Offset is the number of rows skipped before the page.
func (p Page) Offset() int { return (p.Number - 1) * p.Size }

// Paginated is one page of results plus the figures a pager needs.
type Paginated[T any] struct {
	Data        []T `json:"data"`
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	LastPage    int `json:"last_page"`
}

// NewPaginated wraps items fetched for page out of total matching rows.
func NewPaginated[T any](items []T, page Page, total int) Paginated[T] {
	if items == nil {
		items = []T{}
	}
	last := 1
	if total > 0 && page.Size > 0 {
		last = (total + page.Size - 1) / page.Size
	}
	return Paginated[T]{
		Data:        items,
		CurrentPage: page.Number,
		PerPage:     page.Size,
		Total:       total,
		LastPage:    last,
	}
}

// Paginate cuts page out of an in-memory slice.
func Paginate[T any](all []T, page Page) Paginated[T] {
	start := page.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + page.Size
	if end > len(all) {
		end = len(all)
	}
	out := make([]T, end-start)
	copy(out, all[start:end])
	return NewPaginated(out, page, len(all))
}
