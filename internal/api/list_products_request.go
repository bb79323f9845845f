package api

// ListProductsRequest carries the catalog query parameters. Page and Limit
// arrive unbounded from the client and are clamped by Normalize.
// swagger:model api.ListProductsRequest
type ListProductsRequest struct {
	Page      int      `query:"page"`
	Limit     int      `query:"limit"`
	Category  string   `query:"category"`
	Search    string   `query:"search"`
	MinPrice  *float64 `query:"min_price" validate:"omitempty,gte=0"`
	MaxPrice  *float64 `query:"max_price" validate:"omitempty,gte=0"`
	SortBy    string   `query:"sort_by" validate:"omitempty,oneof=name price category stock_quantity created_at"`
	SortOrder string   `query:"sort_order" validate:"omitempty,oneof=asc desc"`
}

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

// Normalize clamps pagination to sane ranges and fills defaults.
func (r *ListProductsRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 {
		r.Limit = defaultPageSize
	}
	if r.Limit > maxPageSize {
		r.Limit = maxPageSize
	}
	if r.SortBy == "" {
		r.SortBy = "created_at"
	}
	if r.SortOrder == "" {
		r.SortOrder = "desc"
	}
}
