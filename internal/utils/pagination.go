package utils

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// QueryOptions is the parsed form of a list query string: field filters,
// sort order, sparse field projection and pagination.
type QueryOptions struct {
	Filter     bson.M
	Sort       bson.D
	Projection bson.M
	Page       int
	Limit      int
}

var rangeKeyPattern = regexp.MustCompile(`^([a-z_][a-z0-9_]*)\[(gte|gt|lte|lt|ne)\]$`)

// reserved query parameters that never become filters
var reservedParams = map[string]bool{
	"page":   true,
	"limit":  true,
	"sort":   true,
	"fields": true,
}

// ParseQueryOptions translates a request query string into store query
// options. Suffixed comparison keys (price[gte]=500) become range operators;
// every other non-reserved key becomes an equality filter. Keys carrying
// operator characters are dropped rather than passed to the store.
func ParseQueryOptions(c *gin.Context) *QueryOptions {
	opts := &QueryOptions{
		Filter: bson.M{},
		Page:   DefaultPage,
		Limit:  DefaultPageSize,
	}

	for key, values := range c.Request.URL.Query() {
		if reservedParams[key] || len(values) == 0 {
			continue
		}
		if strings.ContainsAny(key, "$.") {
			continue
		}

		value := values[0]
		if m := rangeKeyPattern.FindStringSubmatch(key); m != nil {
			field, op := m[1], "$"+m[2]
			cond, ok := opts.Filter[field].(bson.M)
			if !ok {
				cond = bson.M{}
				opts.Filter[field] = cond
			}
			cond[op] = coerceValue(value)
			continue
		}

		opts.Filter[key] = coerceValue(value)
	}

	if page, err := strconv.Atoi(c.Query("page")); err == nil && page >= 1 {
		opts.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit >= 1 {
		if limit > MaxPageSize {
			limit = MaxPageSize
		}
		opts.Limit = limit
	}

	opts.Sort = parseSort(c.Query("sort"))
	opts.Projection = parseFields(c.Query("fields"))

	return opts
}

func (q *QueryOptions) Skip() int64 {
	return int64(q.Page-1) * int64(q.Limit)
}

// FindOptions converts the parsed query into driver find options.
func (q *QueryOptions) FindOptions() *options.FindOptions {
	opts := options.Find().
		SetSkip(q.Skip()).
		SetLimit(int64(q.Limit))

	if len(q.Sort) > 0 {
		opts.SetSort(q.Sort)
	}
	if len(q.Projection) > 0 {
		opts.SetProjection(q.Projection)
	}

	return opts
}

// parseSort turns "-price,name" into a mongo sort document. A leading minus
// means descending. Defaults to newest first.
func parseSort(sort string) bson.D {
	if sort == "" {
		return bson.D{{Key: "created_at", Value: -1}}
	}

	var out bson.D
	for _, field := range strings.Split(sort, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		order := 1
		if strings.HasPrefix(field, "-") {
			order = -1
			field = field[1:]
		}
		if field == "" || strings.ContainsAny(field, "$.") {
			continue
		}
		out = append(out, bson.E{Key: field, Value: order})
	}
	return out
}

// parseFields turns "name,price" into an inclusion projection.
func parseFields(fields string) bson.M {
	if fields == "" {
		return nil
	}

	projection := bson.M{}
	for _, field := range strings.Split(fields, ",") {
		field = strings.TrimSpace(field)
		if field == "" || strings.ContainsAny(field, "$.") {
			continue
		}
		projection[field] = 1
	}
	if len(projection) == 0 {
		return nil
	}
	return projection
}

// coerceValue parses numbers and booleans so range filters compare
// numerically instead of lexically.
func coerceValue(value string) interface{} {
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return value
}
