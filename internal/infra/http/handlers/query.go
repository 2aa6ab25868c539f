package handlers

import (
	"net/http"
	"strconv"

	"github.com/xavierca1/seller-console/internal/entity"
)

// ListQuery is the query string of GET /leads and GET /opportunities.
// Filter carries the status (leads) or the stage (opportunities).
type ListQuery struct {
	Search    *string
	Filter    *string
	Sort      string `validate:"required_with=Direction"`
	Direction string `validate:"omitempty,oneof=asc desc"`
	Page      int    `validate:"omitempty,min=1"`
}

// parseListQuery reads the list parameters. Absent parameters stay nil or
// zero so the persisted view is left as it is.
func parseListQuery(w http.ResponseWriter, r *http.Request, filterKey string) (ListQuery, bool) {
	v := r.URL.Query()
	q := ListQuery{
		Sort:      v.Get("sort"),
		Direction: v.Get("direction"),
	}
	if v.Has("search") {
		s := v.Get("search")
		q.Search = &s
	}
	if v.Has(filterKey) {
		f := v.Get(filterKey)
		q.Filter = &f
	}
	if raw := v.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", "page must be a number")
			return q, false
		}
		q.Page = page
		if page < 1 {
			q.Page = -1 // rejected by the min tag
		}
	}
	return q, checkStruct(w, q)
}

// sortConfig returns nil when no sort was requested. A field without a
// direction sorts ascending.
func (q ListQuery) sortConfig() *entity.SortConfig {
	if q.Sort == "" {
		return nil
	}
	dir := entity.SortAsc
	if q.Direction != "" {
		dir = entity.SortDirection(q.Direction)
	}
	return &entity.SortConfig{Field: q.Sort, Direction: dir}
}

func (q ListQuery) page() *int {
	if q.Page == 0 {
		return nil
	}
	return &q.Page
}
