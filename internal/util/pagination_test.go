package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		page, size int
		offset     int
		limit      int
	}{
		{name: "first page", page: 1, size: 10, offset: 0, limit: 10},
		{name: "third page", page: 3, size: 10, offset: 20, limit: 10},
		{name: "zero page", page: 0, size: 10, offset: 0, limit: 10},
		{name: "negative page", page: -4, size: 5, offset: 0, limit: 5},
		{name: "zero size", page: 2, size: 0, offset: 10, limit: 10},
		{name: "negative size", page: 1, size: -1, offset: 0, limit: 10},
		{name: "max size kept", page: 2, size: 100, offset: 100, limit: 100},
		{name: "large size clamped", page: 2, size: 1000, offset: 100, limit: 100},
		{name: "huge size clamped", page: 1, size: math.MaxInt / 8, offset: 0, limit: 100},
		{name: "huge page clamped", page: math.MaxInt/10 + 2, size: 10, offset: (MaxPage - 1) * 10, limit: 10},
		{name: "max int page", page: math.MaxInt, size: 100, offset: (MaxPage - 1) * 100, limit: 100},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			offset, limit := Calculate(tt.page, tt.size)
			assert.Equal(t, tt.offset, offset)
			assert.Equal(t, tt.limit, limit)
		})
	}
}

func TestTotalPages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3, TotalPages(25, 10))
	assert.Equal(t, 2, TotalPages(20, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 0, TotalPages(10, 0))
}

func TestNewPage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Page{Page: 1, Limit: 10, Total: 25, Pages: 3}, NewPage(0, 0, 25))
	assert.Equal(t, Page{Page: 3, Limit: 10, Total: 25, Pages: 3}, NewPage(3, 10, 25))
	assert.Equal(t, Page{Page: 1, Limit: MaxPageSize, Total: 25, Pages: 1}, NewPage(1, 5000, 25))
}

func TestCalculate_OffsetNeverNegative(t *testing.T) {
	t.Parallel()

	for _, page := range []int{math.MinInt, -1, 0, 1, MaxPage, MaxPage + 1, math.MaxInt} {
		for _, size := range []int{math.MinInt, 0, 1, 10, MaxPageSize, MaxPageSize + 1, math.MaxInt} {
			offset, limit := Calculate(page, size)
			assert.GreaterOrEqual(t, offset, 0, "page=%d size=%d", page, size)
			assert.True(t, limit >= 1 && limit <= MaxPageSize, "page=%d size=%d limit=%d", page, size, limit)
		}
	}
}

func TestParseIntDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 7, ParseIntDefault("", 7))
	assert.Equal(t, 7, ParseIntDefault("abc", 7))
	assert.Equal(t, 12, ParseIntDefault("12", 7))
	assert.Equal(t, -1, ParseIntDefault("-1", 7))
}
