package authzkit

import "strings"

// listSortColumns is the sort-key allow-list shared by role and permission
// listings. The primary key is always accepted.
var listSortColumns = []string{"id", "created", "name"}

// ListQuery describes a paginated listing request. The zero value is not
// useful; start from NewListQuery and refine with the With helpers.
type ListQuery struct {
	// SortBy is the sort column, matched case-insensitively against the
	// allow-list. Empty means the primary key.
	SortBy string

	// Ascending orders the listing ascending when true. Listings default
	// to descending, matching the newest-first expectation of browsers.
	Ascending bool

	// Page is the 1-indexed page to return.
	Page int

	// PageSize is the number of rows per page. Zero means the service's
	// configured default.
	PageSize int
}

// NewListQuery creates a ListQuery with default values: primary-key sort,
// descending, first page, service-default page size.
func NewListQuery() ListQuery {
	return ListQuery{SortBy: "id", Page: 1}
}

// WithSortBy sets the sort column.
func (q ListQuery) WithSortBy(sortBy string) ListQuery {
	q.SortBy = sortBy
	return q
}

// WithAscending sets the sort direction.
func (q ListQuery) WithAscending(asc bool) ListQuery {
	q.Ascending = asc
	return q
}

// WithPage sets the 1-indexed page.
func (q ListQuery) WithPage(page int) ListQuery {
	q.Page = page
	return q
}

// WithPageSize sets the page size.
func (q ListQuery) WithPageSize(size int) ListQuery {
	q.PageSize = size
	return q
}

// ListMeta echoes the effective listing parameters alongside the total row
// count, so callers can render pagination controls.
type ListMeta struct {
	PageSize  int    `json:"page_size"`
	Page      int    `json:"page"`
	Total     int    `json:"total"`
	SortBy    string `json:"sort_by"`
	Ascending bool   `json:"asc"`
}

// normalize applies defaults and lowercases the sort key. Called by the
// service before validation so metadata reflects effective values. The page
// is left alone: NewListQuery supplies the default of 1, and an explicit
// page below 1 must reach window to be rejected.
func (q ListQuery) normalize(defaultPageSize int) ListQuery {
	if q.SortBy == "" {
		q.SortBy = "id"
	}
	q.SortBy = strings.ToLower(q.SortBy)
	if q.PageSize <= 0 {
		q.PageSize = defaultPageSize
	}
	return q
}

// validateSortBy checks the sort key against the allow-list plus the
// implicit primary key.
func (q ListQuery) validateSortBy(allowed []string) error {
	if q.SortBy == "id" {
		return nil
	}
	for _, col := range allowed {
		if q.SortBy == col {
			return nil
		}
	}
	return NewError(ErrUnknownSortBy, q.SortBy).WithSortBy(q.SortBy)
}

// window computes the half-open row range [offset, offset+limit) for the
// requested page. Pages below 1 and pages whose start lies beyond the
// total row count are rejected; a start exactly at the total is allowed
// and yields an empty final page only when total is a page-size multiple.
func (q ListQuery) window(total int) (offset, limit int, err error) {
	if q.Page < 1 {
		return 0, 0, NewError(ErrNoSuchPage, "").WithPage(q.Page)
	}
	offset = (q.Page - 1) * q.PageSize
	if offset > total {
		return 0, 0, NewError(ErrNoSuchPage, "").WithPage(q.Page)
	}
	return offset, q.PageSize, nil
}

// orderExpr renders the ORDER BY expression. The sort key has already been
// validated against the allow-list, so interpolation is safe.
func (q ListQuery) orderExpr() string {
	if q.Ascending {
		return q.SortBy + " ASC"
	}
	return q.SortBy + " DESC"
}

// meta returns the listing metadata for this (normalized) query.
func (q ListQuery) meta(total int) ListMeta {
	return ListMeta{
		PageSize:  q.PageSize,
		Page:      q.Page,
		Total:     total,
		SortBy:    q.SortBy,
		Ascending: q.Ascending,
	}
}
