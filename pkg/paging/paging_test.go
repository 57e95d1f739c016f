package paging

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func pageFor(query string) Page {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return FromQuery(c)
}

func TestFromQuery(t *testing.T) {
	tests := []struct {
		query string
		want  Page
	}{
		{"", Page{1, 10}},
		{"page=3&limit=5", Page{3, 5}},
		{"page=0&limit=-1", Page{1, 10}},
		{"page=abc", Page{1, 10}},
		{"limit=1000", Page{1, MaxLimit}},
		{"page=9223372036854775807&limit=100", Page{MaxPage, MaxLimit}},
		{"page=99999999999999999999", Page{1, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, pageFor(tt.query))
		})
	}
}

func TestOffsetAndTotalPages(t *testing.T) {
	p := Page{Number: 2, Limit: 10}
	assert.Equal(t, 10, p.Offset())
	assert.Equal(t, 3, p.TotalPages(25))
	assert.Equal(t, 1, p.TotalPages(10))
	assert.Equal(t, 0, p.TotalPages(0))
}

func TestOffsetStaysInRangeForHugePages(t *testing.T) {
	p := pageFor("page=9223372036854775807&limit=100")
	assert.Positive(t, p.Offset())
	assert.LessOrEqual(t, p.Offset(), math.MaxInt32)
}
