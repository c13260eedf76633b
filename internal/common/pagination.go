package common

const (
	DefaultPageSize = 100
	MaxPageSize     = 100
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// NewPage validates the page request. A zero size selects DefaultPageSize.
func NewPage(number, size int) (Page, error) {
	if size == 0 {
		size = DefaultPageSize
	}

	v := NewValidator()
	v.Check(number >= 1, "page", "must be greater than zero")
	v.Check(size >= 1 && size <= MaxPageSize, "page_size", "must be between 1 and 100")
	if !v.Valid() {
		return Page{}, v.ValidationError()
	}

	return Page{Number: number, Size: size}, nil
}

func (p Page) Limit() int {
	return p.Size
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Metadata describes a page of results for the client.
type Metadata struct {
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	HasNext  bool `json:"has_next"`
}

// Trim cuts a result fetched with limit Size+1 back to Size and reports whether more rows exist.
func Trim[T any](p Page, items []T) ([]T, Metadata) {
	md := Metadata{Page: p.Number, PageSize: p.Size}
	if len(items) > p.Size {
		items = items[:p.Size]
		md.HasNext = true
	}

	return items, md
}
