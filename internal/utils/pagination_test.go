package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func queryContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/tours?"+rawQuery, nil)
	return c
}

func TestParseQueryOptionsDefaults(t *testing.T) {
	opts := ParseQueryOptions(queryContext(t, ""))

	assert.Equal(t, DefaultPage, opts.Page)
	assert.Equal(t, DefaultPageSize, opts.Limit)
	assert.Empty(t, opts.Filter)
	assert.Equal(t, bson.D{{Key: "created_at", Value: -1}}, opts.Sort)
	assert.Equal(t, int64(0), opts.Skip())
}

func TestParseQueryOptionsRangeOperators(t *testing.T) {
	opts := ParseQueryOptions(queryContext(t, "price[gte]=500&price[lt]=2000&difficulty=easy"))

	require.Contains(t, opts.Filter, "price")
	cond, ok := opts.Filter["price"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, float64(500), cond["$gte"])
	assert.Equal(t, float64(2000), cond["$lt"])
	assert.Equal(t, "easy", opts.Filter["difficulty"])
}

func TestParseQueryOptionsPagination(t *testing.T) {
	opts := ParseQueryOptions(queryContext(t, "page=2&limit=5"))

	assert.Equal(t, 2, opts.Page)
	assert.Equal(t, 5, opts.Limit)
	assert.Equal(t, int64(5), opts.Skip())
}

func TestParseQueryOptionsLimitCapped(t *testing.T) {
	opts := ParseQueryOptions(queryContext(t, "limit=99999"))
	assert.Equal(t, MaxPageSize, opts.Limit)
}

func TestParseQueryOptionsSort(t *testing.T) {
	opts := ParseQueryOptions(queryContext(t, "sort=-price,name"))

	assert.Equal(t, bson.D{
		{Key: "price", Value: -1},
		{Key: "name", Value: 1},
	}, opts.Sort)
}

func TestParseQueryOptionsFields(t *testing.T) {
	opts := ParseQueryOptions(queryContext(t, "fields=name,price"))

	assert.Equal(t, bson.M{"name": 1, "price": 1}, opts.Projection)
}

func TestParseQueryOptionsDropsOperatorKeys(t *testing.T) {
	opts := ParseQueryOptions(queryContext(t, "%24where=1&a.b=1&name=x"))

	assert.NotContains(t, opts.Filter, "$where")
	assert.NotContains(t, opts.Filter, "a.b")
	assert.Equal(t, "x", opts.Filter["name"])
}

func TestParseQueryOptionsIgnoresReservedKeys(t *testing.T) {
	opts := ParseQueryOptions(queryContext(t, "page=3&limit=10&sort=price&fields=name&duration=5"))

	assert.NotContains(t, opts.Filter, "page")
	assert.NotContains(t, opts.Filter, "limit")
	assert.NotContains(t, opts.Filter, "sort")
	assert.NotContains(t, opts.Filter, "fields")
	assert.Equal(t, float64(5), opts.Filter["duration"])
}

func TestCoerceValue(t *testing.T) {
	assert.Equal(t, float64(42), coerceValue("42"))
	assert.Equal(t, true, coerceValue("true"))
	assert.Equal(t, "easy", coerceValue("easy"))
}
