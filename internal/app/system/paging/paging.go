// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultPageSize is the number of rows shown in paged lists when the
// caller does not ask for a specific size.
const DefaultPageSize = 20

// MaxPageSize caps caller-supplied page sizes so a single request cannot
// pull an unbounded slice of a collection.
const MaxPageSize = 100

// Page describes one window of an offset-paginated listing. PageNumber and
// PageSize are both 1-based/positive; Clamp normalizes anything else.
type Page struct {
	PageNumber int
	PageSize   int
}

// Clamp normalizes a page so PageNumber >= 1 and 1 <= PageSize <= MaxPageSize.
func (p Page) Clamp() Page {
	if p.PageNumber < 1 {
		p.PageNumber = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Skip returns the number of documents to skip for this page.
func (p Page) Skip() int64 {
	return int64(p.PageNumber-1) * int64(p.PageSize)
}

// Limit returns the page size as int64 for Mongo Find().SetLimit().
func (p Page) Limit() int64 { return int64(p.PageSize) }

// HasNext reports whether more rows exist past this page, given the total
// number of matching documents and how many were returned for this page.
func (p Page) HasNext(total int64, returned int) bool {
	return total > p.Skip()+int64(returned)
}

// Parse extracts "page" and "size" query parameters (1-based) from a
// request, falling back to page 1 and DefaultPageSize.
func Parse(r *http.Request) Page {
	return Page{
		PageNumber: parsePositive(query.Get(r, "page"), 1),
		PageSize:   parsePositive(query.Get(r, "size"), DefaultPageSize),
	}.Clamp()
}

func parsePositive(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
