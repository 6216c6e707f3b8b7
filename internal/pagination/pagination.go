package pagination

// Shared page/limit arithmetic for every list view. Sorting is the caller's
// concern and must be applied before the offset window.

const (
	// DefaultLimit is used when a request does not specify a page size.
	DefaultLimit = 10
	// MaxLimit caps the page size a caller may request.
	MaxLimit = 100
)

// Params describes the requested window of a list view.
type Params struct {
	Page  int
	Limit int
}

// Normalize clamps the parameters into their valid ranges.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset returns the number of items preceding the requested page.
func (p Params) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.Limit
}

// Page is a window of a list view with derived page metadata. A request past
// the last page carries an empty Items slice, not an error.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// New assembles a page from the already-windowed items and the total count
// of matching items before windowing.
func New[T any](items []T, params Params, total int) Page[T] {
	params = params.Normalize()
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Page:       params.Page,
		PageSize:   params.Limit,
		TotalPages: TotalPages(total, params.Limit),
	}
}

// TotalPages computes ceil(total/limit).
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
