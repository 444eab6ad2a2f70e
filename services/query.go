package services

import (
	"strings"

	"github.com/restrolabs/Restro_Ordering_Backend/apperrors"
	"github.com/restrolabs/Restro_Ordering_Backend/models"
	"github.com/restrolabs/Restro_Ordering_Backend/repository"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100

	// DefaultOrderSort is the listing default for orders; catalog listings
	// use position ascending instead.
	DefaultOrderSort   = "created_at"
	DefaultCatalogSort = "position"
)

// CompiledQuery is the ordered plan the pagination executor runs: a set of
// conjunctive filters, one sort directive, and page-derived fetch bounds.
// Search is carried separately because the store cannot evaluate it; it is
// applied in memory over the full filtered set before pagination.
type CompiledQuery struct {
	Filters []repository.Filter
	Sort    repository.Sort
	Limit   int64
	Offset  int64
	Search  string
}

var allowedOps = map[string]bool{
	models.OpEqual:        true,
	models.OpLess:         true,
	models.OpLessEqual:    true,
	models.OpGreater:      true,
	models.OpGreaterEqual: true,
	models.OpIn:           true,
	models.OpNotIn:        true,
}

// CompileQuery translates a caller query spec into primitive store
// operations. page defaults to 1, limit is clamped to [1, MaxLimit], and
// the sort falls back to created_at descending unless the caller overrides
// it. Unknown filter operators are rejected before anything reaches the
// store.
func CompileQuery(spec models.QuerySpec) (*CompiledQuery, error) {
	filters := make([]repository.Filter, 0, len(spec.Filters))
	for _, f := range spec.Filters {
		if !allowedOps[f.Op] {
			return nil, apperrors.Validation("unsupported filter operator %q on field %q", f.Op, f.Field)
		}
		if strings.TrimSpace(f.Field) == "" {
			return nil, apperrors.Validation("filter field must not be empty")
		}
		filters = append(filters, repository.Filter{Field: f.Field, Op: f.Op, Value: f.Value})
	}

	page := spec.Page
	if page < 1 {
		page = 1
	}
	limit := spec.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	sortField := strings.TrimSpace(spec.SortField)
	descending := true
	if sortField == "" {
		sortField = DefaultOrderSort
	}
	switch spec.SortDir {
	case models.SortAsc:
		descending = false
	case models.SortDesc, "":
	default:
		return nil, apperrors.Validation("sort direction must be %q or %q", models.SortAsc, models.SortDesc)
	}

	return &CompiledQuery{
		Filters: filters,
		Sort:    repository.Sort{Field: sortField, Descending: descending},
		Limit:   limit,
		Offset:  (page - 1) * limit,
		Search:  strings.ToLower(strings.TrimSpace(spec.Search)),
	}, nil
}
