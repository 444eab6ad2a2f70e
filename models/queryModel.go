package models

// Filter operators accepted by the query layer. These mirror what the
// document store can evaluate natively; anything else is rejected up front.
const (
	OpEqual        = "="
	OpLess         = "<"
	OpLessEqual    = "<="
	OpGreater      = ">"
	OpGreaterEqual = ">="
	OpIn           = "in"
	OpNotIn        = "not-in"
)

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

type QueryFilter struct {
	Field string      `json:"field" validate:"required"`
	Op    string      `json:"op" validate:"required"`
	Value interface{} `json:"value"`
}

// QuerySpec is the caller-facing description of a filtered, sorted,
// paginated listing. It is ephemeral and never persisted.
type QuerySpec struct {
	Filters   []QueryFilter `json:"filters"`
	Search    string        `json:"search"`
	SortField string        `json:"sort_field"`
	SortDir   string        `json:"sort_dir"`
	Page      int64         `json:"page"`
	Limit     int64         `json:"limit"`
}

// PagedOrders is an offset-mode result page with its count metadata.
type PagedOrders struct {
	Items       []Order `json:"items"`
	Total       int64   `json:"total"`
	TotalPages  int64   `json:"total_pages"`
	CurrentPage int64   `json:"current_page"`
}

// CursorOrders is a cursor-mode result page. Next_cursor is opaque; an empty
// value means the listing is exhausted.
type CursorOrders struct {
	Items       []Order `json:"items"`
	Next_cursor string  `json:"next_cursor"`
}
