package listing

// DefaultItemsPerPage is the fixed page size of the console lists.
const DefaultItemsPerPage = 20

type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// TotalPages is ceil(n/perPage); zero items give zero pages.
func TotalPages(n, perPage int) int {
	if perPage <= 0 {
		perPage = DefaultItemsPerPage
	}
	return (n + perPage - 1) / perPage
}

// Paginate returns the 1-indexed page of items. Pages outside
// [1, TotalPages] come back empty.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	if perPage <= 0 {
		perPage = DefaultItemsPerPage
	}
	p := Page[T]{
		Items:      []T{},
		Page:       page,
		PerPage:    perPage,
		TotalItems: len(items),
		TotalPages: TotalPages(len(items), perPage),
	}
	if page < 1 || page > p.TotalPages {
		return p
	}
	start := (page - 1) * perPage
	end := min(start+perPage, len(items))
	p.Items = items[start:end]
	return p
}

// Pager tracks the current page of a list. Moving outside the valid range
// is a no-op.
type Pager struct {
	current int
	perPage int
	total   int
}

func NewPager(perPage int) *Pager {
	if perPage <= 0 {
		perPage = DefaultItemsPerPage
	}
	return &Pager{current: 1, perPage: perPage}
}

func (p *Pager) Current() int    { return p.current }
func (p *Pager) PerPage() int    { return p.perPage }
func (p *Pager) TotalPages() int { return TotalPages(p.total, p.perPage) }

// SetTotal updates the item count and pulls the current page back inside the
// range when the list shrank.
func (p *Pager) SetTotal(n int) {
	p.total = n
	if last := p.TotalPages(); p.current > last {
		p.current = max(last, 1)
	}
}

// GoTo reports whether the page changed.
func (p *Pager) GoTo(page int) bool {
	if page < 1 || page > p.TotalPages() || page == p.current {
		return false
	}
	p.current = page
	return true
}

func (p *Pager) Next() bool { return p.GoTo(p.current + 1) }
func (p *Pager) Prev() bool { return p.GoTo(p.current - 1) }

// Reset goes back to the first page, used whenever filters or search change.
func (p *Pager) Reset() { p.current = 1 }
