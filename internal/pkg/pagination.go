package pkg

import (
	"strconv"
	"strings"
)

const DefaultPageSize = 10

// Page is one slice of an ordered listing. Number is always within [1, NumPages].
type Page[T any] struct {
	Items    []T   `json:"items"`
	Number   int   `json:"number"`
	NumPages int   `json:"num_pages"`
	Total    int64 `json:"total"`
	PageSize int   `json:"page_size"`
	HasNext  bool  `json:"has_next"`
	HasPrev  bool  `json:"has_prev"`
}

// PageWindow is the resolved offset/limit for a requested page.
type PageWindow struct {
	Number   int
	NumPages int
	Offset   int
	Limit    int
}

// ResolvePage clamps the requested page into the valid range for total items.
// Any page outside [1, NumPages] becomes the last page, and an empty listing
// still has one (empty) page.
func ResolvePage(requested int, total int64, size int) PageWindow {
	if size <= 0 {
		size = DefaultPageSize
	}
	numPages := int((total + int64(size) - 1) / int64(size))
	if numPages < 1 {
		numPages = 1
	}
	if requested < 1 || requested > numPages {
		requested = numPages
	}
	return PageWindow{
		Number:   requested,
		NumPages: numPages,
		Offset:   (requested - 1) * size,
		Limit:    size,
	}
}

func NewPage[T any](items []T, w PageWindow, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:    items,
		Number:   w.Number,
		NumPages: w.NumPages,
		Total:    total,
		PageSize: w.Limit,
		HasNext:  w.Number < w.NumPages,
		HasPrev:  w.Number > 1,
	}
}

// ParsePage reads a page query value. Only a missing or non-integer value
// means page 1; out-of-range integers are left for ResolvePage to clamp.
func ParsePage(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 1
	}
	return n
}
