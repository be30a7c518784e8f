package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/codermanagement/task-tracker/internal/constants"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func contextWithQuery(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/tasks?"+rawQuery, nil)
	return c
}

func TestGetPaginationParams_NotRequested(t *testing.T) {
	_, ok := GetPaginationParams(contextWithQuery("name=spec"))
	assert.False(t, ok)
}

func TestGetPaginationParams_Values(t *testing.T) {
	params, ok := GetPaginationParams(contextWithQuery("page=3&limit=10"))
	assert.True(t, ok)
	assert.Equal(t, PaginationParams{Page: 3, Limit: 10, Offset: 20}, params)
}

func TestGetPaginationParams_Clamps(t *testing.T) {
	params, ok := GetPaginationParams(contextWithQuery("page=-2&limit=1000"))
	assert.True(t, ok)
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.Limit)
	assert.Equal(t, 0, params.Offset)
}

func TestGetPaginationParams_HugePageStaysNonNegative(t *testing.T) {
	params, ok := GetPaginationParams(contextWithQuery("page=9223372036854775807&limit=100"))
	assert.True(t, ok)
	assert.Equal(t, constants.MaxPage, params.Page)
	assert.Equal(t, (constants.MaxPage-1)*100, params.Offset)
	assert.GreaterOrEqual(t, params.Offset, 0)
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%write spec%", ContainsPattern("Write Spec"))
	assert.Equal(t, "%100!% done!_now!!%", ContainsPattern("100% done_now!"))
}
