package store

// Pagination bounds. Requests outside these are clamped rather than rejected.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page describes a pagination window over a listing query.
// Page numbers start at 1.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps the page to sane bounds and returns the result.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Limit returns the SQL LIMIT for the page.
func (p Page) Limit() int {
	return p.Normalize().Size
}

// Offset returns the SQL OFFSET for the page.
func (p Page) Offset() int {
	n := p.Normalize()
	return (n.Number - 1) * n.Size
}
