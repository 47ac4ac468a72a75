package core

import "math"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxPage keeps Offset within int32 whatever the page size.
	MaxPage = math.MaxInt32 / MaxPageSize
)

// Paging is the page window requested by a client. Zero values mean "first page, default size".
type Paging struct {
	Page int `query:"page"`
	Size int `query:"size"`
}

// Clean clamps the window to valid bounds.
func (p *Paging) Clean() {
	if p.Page < 1 {
		p.Page = 1
	} else if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	} else if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
}

func (p Paging) Offset() int {
	return (p.Page - 1) * p.Size
}

// TotalPages returns the number of pages needed to hold `total` records.
func (p Paging) TotalPages(total int) int {
	if total <= 0 || p.Size <= 0 {
		return 0
	}
	return (total + p.Size - 1) / p.Size
}
