package ranking

// ViewState is the per-session position in a ranked view.
// The caller stores it between requests; nothing in this package keeps it.
type ViewState struct {
	Page int `json:"page"`
}

// Clamp returns the state with Page forced into [1, totalPages]
func (s ViewState) Clamp(totalPages int) ViewState {
	return ViewState{Page: ClampPage(s.Page, totalPages)}
}

// TotalPages is max(1, ceil(n/pageSize)). A non-positive pageSize means one page.
func TotalPages(n, pageSize int) int {
	if pageSize < 1 || n <= 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

// ClampPage forces page into [1, totalPages]
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate returns the slice for page (clamped) and the page count.
// A non-positive pageSize puts every item on a single page.
func Paginate[T any](items []T, page, pageSize int) ([]T, int) {
	total := TotalPages(len(items), pageSize)
	if pageSize < 1 {
		return items, total
	}

	page = ClampPage(page, total)
	start := (page - 1) * pageSize
	if start >= len(items) {
		return items[:0], total
	}
	end := min(start+pageSize, len(items))

	return items[start:end], total
}
