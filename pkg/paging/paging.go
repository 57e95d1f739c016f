// Package paging parses page/limit query parameters.
package paging

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps Offset within a Postgres int4 for any limit.
	MaxPage = math.MaxInt32 / MaxLimit
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Limit  int
}

// FromQuery reads ?page= and ?limit=, defaulting to page 1 of 10.
// Non-positive or unparsable values fall back to the defaults.
func FromQuery(c *gin.Context) Page {
	p := Page{Number: 1, Limit: DefaultLimit}
	if n, err := strconv.Atoi(c.Query("page")); err == nil && n > 0 {
		p.Number = n
	}
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 {
		p.Limit = n
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Number > MaxPage {
		p.Number = MaxPage
	}
	return p
}

// Offset is the number of rows to skip.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// TotalPages is ceil(total/limit).
func (p Page) TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}
