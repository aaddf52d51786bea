// Package domain provides core business logic interfaces and types.
package domain

// Page bounds a list scan. The balance aggregation walks collections page by
// page until a short page is returned, so no scan is capped at a single fetch.
type Page struct {
	Limit  int
	Offset int
}

// DefaultPage returns sensible defaults for list scans.
func DefaultPage() Page {
	return Page{Limit: 500}
}

// Next advances to the following page.
func (p Page) Next() Page {
	return Page{Limit: p.Limit, Offset: p.Offset + p.Limit}
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}
