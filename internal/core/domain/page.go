package domain

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// NewPage normalises number and size: pages start at 1 and size falls back
// to DefaultPageSize when out of range.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return Page{Number: number, Size: size}
}

// Offset is the number of rows to skip.
func (p Page) Offset() int { return (p.Number - 1) * p.Size }

// Pagination describes a page of results.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalProducts"`
}

// Paginate computes the Pagination for total rows at page p.
func Paginate(p Page, total int64) Pagination {
	pages := int((total + int64(p.Size) - 1) / int64(p.Size))
	return Pagination{CurrentPage: p.Number, TotalPages: pages, TotalItems: total}
}
