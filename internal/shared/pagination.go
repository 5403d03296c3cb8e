package shared

// Pagination bounds for list endpoints.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page holds sanitised pagination parameters.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps raw query values: pages are 1-based and the size is bounded
// to [1, MaxPageSize] with a documented default of DefaultPageSize.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

// Offset returns the row offset for SQL queries.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
