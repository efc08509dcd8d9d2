package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func f64(v float64) *float64 { return &v }
func bp(v bool) *bool        { return &v }

func TestBuildEstateWhere(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		filter    EstateFilter
		wantWhere []string
		wantArgs  []any
	}{
		{
			name:      "empty filter",
			filter:    EstateFilter{},
			wantWhere: []string{},
			wantArgs:  []any{},
		},
		{
			name:      "search is case insensitive substring",
			filter:    EstateFilter{Search: "Sea View"},
			wantWhere: []string{"LOWER(title) LIKE ?"},
			wantArgs:  []any{"%sea view%"},
		},
		{
			name:      "wildcards in search are escaped",
			filter:    EstateFilter{Search: "100%_done"},
			wantWhere: []string{"LOWER(title) LIKE ?"},
			wantArgs:  []any{`%100\%\_done%`},
		},
		{
			name:      "price window",
			filter:    EstateFilter{MinPrice: f64(100), MaxPrice: f64(500)},
			wantWhere: []string{"price >= ?", "price <= ?"},
			wantArgs:  []any{100.0, 500.0},
		},
		{
			name:      "reserved words are quoted",
			filter:    EstateFilter{Type: "VILLA", Condition: "NEW"},
			wantWhere: []string{"`type` = ?", "`condition` = ?"},
			wantArgs:  []any{"VILLA", "NEW"},
		},
		{
			name:      "amenities any-match",
			filter:    EstateFilter{Amenities: []string{"POOL", "GYM"}},
			wantWhere: []string{"(JSON_CONTAINS(amenities, JSON_QUOTE(?)) OR JSON_CONTAINS(amenities, JSON_QUOTE(?)))"},
			wantArgs:  []any{"POOL", "GYM"},
		},
		{
			name:      "owner scope",
			filter:    EstateFilter{OwnerID: 9, OpenToVisitors: bp(true)},
			wantWhere: []string{"user_id = ?", "open_to_visitors = ?"},
			wantArgs:  []any{uint64(9), true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			where, args := buildEstateWhere(tt.filter)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBuildEstateWhereCombined(t *testing.T) {
	t.Parallel()

	where, args := buildEstateWhere(EstateFilter{
		Search:   "loft",
		Category: "RENT",
		MinPrice: f64(250),
	})
	joined := strings.Join(where, " AND ")
	assert.Contains(t, joined, "LOWER(title) LIKE ?")
	assert.Contains(t, joined, "category = ?")
	assert.Contains(t, joined, "price >= ?")
	assert.Len(t, args, 3)
}

func TestNewPagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		page, limit int
		total       int64
		want        Pagination
	}{
		{
			name: "first of many", page: 1, limit: 10, total: 25,
			want: Pagination{Page: 1, Limit: 10, TotalPages: 3, HasNextPage: true, HasPreviousPage: false},
		},
		{
			name: "middle page", page: 2, limit: 10, total: 25,
			want: Pagination{Page: 2, Limit: 10, TotalPages: 3, HasNextPage: true, HasPreviousPage: true},
		},
		{
			name: "last partial page", page: 3, limit: 10, total: 25,
			want: Pagination{Page: 3, Limit: 10, TotalPages: 3, HasNextPage: false, HasPreviousPage: true},
		},
		{
			name: "exact boundary", page: 2, limit: 10, total: 20,
			want: Pagination{Page: 2, Limit: 10, TotalPages: 2, HasNextPage: false, HasPreviousPage: true},
		},
		{
			name: "empty result", page: 1, limit: 10, total: 0,
			want: Pagination{Page: 1, Limit: 10, TotalPages: 0, HasNextPage: false, HasPreviousPage: false},
		},
		{
			name: "past the end", page: 5, limit: 10, total: 11,
			want: Pagination{Page: 5, Limit: 10, TotalPages: 2, HasNextPage: false, HasPreviousPage: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NewPagination(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.want, got)
			// hasNextPage holds exactly when page*limit < total.
			assert.Equal(t, int64(tt.page)*int64(tt.limit) < tt.total, got.HasNextPage)
		})
	}
}

func TestSortColumn(t *testing.T) {
	t.Parallel()

	for key, want := range map[string]string{
		"createdAt": "created_at",
		"price":     "price",
		"views":     "views",
		"rating":    "average_rating",
	} {
		col, ok := SortColumn(key)
		assert.True(t, ok, key)
		assert.Equal(t, want, col)
	}

	for _, key := range []string{"", "id; DROP TABLE estates", "created_at", "Price"} {
		_, ok := SortColumn(key)
		assert.False(t, ok, key)
	}
}

func TestGroupColumn(t *testing.T) {
	t.Parallel()

	col, ok := GroupColumn("rentPeriod")
	assert.True(t, ok)
	assert.Equal(t, "rent_period", col)

	_, ok = GroupColumn("views")
	assert.False(t, ok)
}
