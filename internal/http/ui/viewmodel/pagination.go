package viewmodel

import "fmt"

// DefaultPageSize is the number of rows shown per page in list views.
const DefaultPageSize = 10

// maxPlainPages is the page count up to which every page number is listed.
const maxPlainPages = 5

// PageItem is one entry of the page-number strip: a page link or an ellipsis.
type PageItem struct {
	Number   int
	Ellipsis bool
	Current  bool
	URL      string
}

// Pagination contains pagination metadata for list views.
type Pagination struct {
	Page       int
	PageSize   int
	TotalPages int
	TotalCount int
	HasPrev    bool
	HasNext    bool
	// StartIndex and EndIndex are 1-based and inclusive; both are 0 for an empty list.
	StartIndex int
	EndIndex   int
	PrevURL    string
	NextURL    string
	Pages      []PageItem
}

// TotalPages returns max(1, ceil(count/size)).
func TotalPages(count, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if count <= 0 {
		return 1
	}
	return (count + size - 1) / size
}

// ClampPage forces page into [1, total].
func ClampPage(page, total int) int {
	return max(1, min(page, max(total, 1)))
}

// NewPagination computes pagination for a collection of count items with page clamped
// into range.
func NewPagination(count, page, size int) Pagination {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := TotalPages(count, size)
	page = ClampPage(page, total)

	p := Pagination{
		Page:       page,
		PageSize:   size,
		TotalPages: total,
		TotalCount: count,
		HasPrev:    page > 1,
		HasNext:    page < total,
	}
	if count > 0 {
		p.StartIndex = (page-1)*size + 1
		p.EndIndex = min(page*size, count)
	}
	p.Pages = PageNumbers(page, total)
	return p
}

// SetPage moves to page n, clamped, recomputing the derived fields.
func (p *Pagination) SetPage(n int) {
	*p = NewPagination(p.TotalCount, n, p.PageSize)
}

// WithURLs fills PrevURL, NextURL and every page item's URL using build.
func (p Pagination) WithURLs(build func(page int) string) Pagination {
	if p.HasPrev {
		p.PrevURL = build(p.Page - 1)
	}
	if p.HasNext {
		p.NextURL = build(p.Page + 1)
	}
	pages := make([]PageItem, len(p.Pages))
	for i, item := range p.Pages {
		if !item.Ellipsis {
			item.URL = build(item.Number)
		}
		pages[i] = item
	}
	p.Pages = pages
	return p
}

// Summary renders "Showing a to b of n entries".
func (p Pagination) Summary() string {
	return fmt.Sprintf("Showing %d to %d of %d entries", p.StartIndex, p.EndIndex, p.TotalCount)
}

// Slice returns the visible window of items for p.
func Slice[T any](items []T, p Pagination) []T {
	if len(items) == 0 || p.StartIndex == 0 {
		return nil
	}
	start := min(p.StartIndex-1, len(items))
	end := min(p.EndIndex, len(items))
	return items[start:end]
}

// PageNumbers builds the page strip: every page when there are at most five; otherwise
// the first page, an ellipsis when current > 3, the window [max(2,c-1), min(T-1,c+1)],
// an ellipsis when current < T-2, and the last page.
func PageNumbers(current, total int) []PageItem {
	total = max(total, 1)
	current = ClampPage(current, total)

	item := func(n int) PageItem { return PageItem{Number: n, Current: n == current} }

	if total <= maxPlainPages {
		out := make([]PageItem, 0, total)
		for n := 1; n <= total; n++ {
			out = append(out, item(n))
		}
		return out
	}

	out := []PageItem{item(1)}
	if current > 3 {
		out = append(out, PageItem{Ellipsis: true})
	}
	for n := max(2, current-1); n <= min(total-1, current+1); n++ {
		out = append(out, item(n))
	}
	if current < total-2 {
		out = append(out, PageItem{Ellipsis: true})
	}
	return append(out, item(total))
}
