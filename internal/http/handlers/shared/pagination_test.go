package shared

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query    string
		page     int
		pageSize int
	}{
		{query: "", page: 1, pageSize: DefaultPageSize},
		{query: "?page=3&page_size=50", page: 3, pageSize: 50},
		{query: "?page=-2&page_size=abc", page: 1, pageSize: DefaultPageSize},
		{query: "?page_size=500", page: 1, pageSize: MaxPageSize},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/owner/orders"+tc.query, nil)
		page, pageSize := ParsePagination(c)
		if page != tc.page || pageSize != tc.pageSize {
			t.Fatalf("query %q: got (%d, %d) want (%d, %d)", tc.query, page, pageSize, tc.page, tc.pageSize)
		}
	}
}
