package model_test

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/product-service/internal/model"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		name       string
		content    []int
		page, size int
		total      int64
		wantPages  int
		wantLast   bool
	}{
		{name: "empty store", content: nil, page: 0, size: 10, total: 0, wantPages: 0, wantLast: true},
		{name: "first of three", content: []int{1, 2}, page: 0, size: 2, total: 5, wantPages: 3, wantLast: false},
		{name: "last partial", content: []int{5}, page: 2, size: 2, total: 5, wantPages: 3, wantLast: true},
		{name: "exact fit", content: []int{3, 4}, page: 1, size: 2, total: 4, wantPages: 2, wantLast: true},
		{name: "past the end", content: nil, page: 7, size: 2, total: 4, wantPages: 2, wantLast: true},
		{name: "max page number", content: nil, page: math.MaxInt, size: 10, total: 4, wantPages: 1, wantLast: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := model.NewPage(tt.content, tt.page, tt.size, tt.total)

			assert.NotNil(t, p.Content)
			assert.Equal(t, tt.page, p.PageNumber)
			assert.Equal(t, tt.size, p.PageSize)
			assert.Equal(t, tt.total, p.TotalElements)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.wantLast, p.IsLastPage)
		})
	}
}

func TestMapPage(t *testing.T) {
	p := model.NewPage([]int{1, 2}, 0, 2, 3)

	mapped := model.MapPage(p, strconv.Itoa)

	assert.Equal(t, []string{"1", "2"}, mapped.Content)
	assert.Equal(t, 2, mapped.TotalPages)
	assert.False(t, mapped.IsLastPage)
}
