package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/todo-tracker/todo-api/internal/constants"
)

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"", 1, constants.DefaultPageSize, 0},
		{"page=3&limit=10", 3, 10, 20},
		{"page=0&limit=1000", 1, constants.DefaultPageSize, 0},
		{"page=abc&limit=-4", 1, constants.DefaultPageSize, 0},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/task-list/?"+tt.query, nil)

		params := GetPaginationParams(c)
		assert.Equal(t, tt.wantPage, params.Page, tt.query)
		assert.Equal(t, tt.wantLimit, params.Limit, tt.query)
		assert.Equal(t, tt.wantOffset, params.Offset, tt.query)
	}
}

func TestPaginationParams_Response(t *testing.T) {
	resp := NewPaginationParams(2, 5).Response(12)
	assert.Equal(t, PaginationResponse{Page: 2, Limit: 5, Total: 12}, resp)
}
