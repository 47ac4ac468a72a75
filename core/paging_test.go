package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaging_Clean(t *testing.T) {
	tests := []struct {
		name string
		in   Paging
		want Paging
	}{
		{name: "zero values", in: Paging{}, want: Paging{Page: 1, Size: DefaultPageSize}},
		{name: "negative page", in: Paging{Page: -3, Size: 5}, want: Paging{Page: 1, Size: 5}},
		{name: "size too big", in: Paging{Page: 2, Size: 1000}, want: Paging{Page: 2, Size: MaxPageSize}},
		{name: "valid", in: Paging{Page: 4, Size: 25}, want: Paging{Page: 4, Size: 25}},
		{name: "huge page", in: Paging{Page: math.MaxInt, Size: MaxPageSize}, want: Paging{Page: MaxPage, Size: MaxPageSize}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.Clean()
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestPaging_Offset(t *testing.T) {
	assert.Equal(t, 0, Paging{Page: 1, Size: 10}.Offset())
	assert.Equal(t, 20, Paging{Page: 3, Size: 10}.Offset())
}

func TestPaging_TotalPages(t *testing.T) {
	tests := []struct {
		total int
		size  int
		want  int
	}{
		{total: 0, size: 10, want: 0},
		{total: 1, size: 10, want: 1},
		{total: 10, size: 10, want: 1},
		{total: 11, size: 10, want: 2},
		{total: 5, size: 0, want: 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Paging{Page: 1, Size: tt.size}.TotalPages(tt.total), "total=%d size=%d", tt.total, tt.size)
	}
}

func TestPaging_OffsetNeverOverflows(t *testing.T) {
	p := Paging{Page: math.MaxInt, Size: math.MaxInt}
	p.Clean()
	assert.Positive(t, p.Offset())
	assert.LessOrEqual(t, p.Offset(), math.MaxInt32)
}
