package utils

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/BerniceZTT/clientiq/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContextUserKey 上下文中保存当前用户的键
const ContextUserKey = "user"

// MaxPageLimit 每页最大条数
const MaxPageLimit = 100

// ErrNoUser 上下文中没有登录用户
var ErrNoUser = errors.New("not authorized")

// GetUser 获取当前登录用户
func GetUser(c *gin.Context) (*models.User, error) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, ErrNoUser
	}
	user, ok := value.(*models.User)
	if !ok || user == nil {
		return nil, ErrNoUser
	}
	return user, nil
}

// Pagination 分页参数
type Pagination struct {
	Page  int64
	Limit int64
}

// Skip 跳过的条数
func (p Pagination) Skip() int64 {
	return (p.Page - 1) * p.Limit
}

// TotalPages 总页数
func (p Pagination) TotalPages(total int64) int64 {
	if total <= 0 {
		return 0
	}
	return int64(math.Ceil(float64(total) / float64(p.Limit)))
}

// ParsePagination 解析分页参数，非法值回退为默认值并限制在 [1,100]
func ParsePagination(c *gin.Context, defaultLimit int64) Pagination {
	return Pagination{
		Page:  ParsePage(c.Query("page")),
		Limit: ParseLimit(c.Query("limit"), defaultLimit),
	}
}

// ParsePage 页码小于 1 或无法解析时为 1
func ParsePage(raw string) int64 {
	page, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// ParseLimit 无法解析或为 0 时使用默认值，结果限制在 [1,100]
func ParseLimit(raw string, defaultLimit int64) int64 {
	limit, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || limit == 0 {
		limit = defaultLimit
	}
	return ClampInt(limit, 1, MaxPageLimit)
}

// ClampInt 将 n 限制在 [lo,hi]
func ClampInt(n, lo, hi int64) int64 {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// ClampFloat 将 f 限制在 [lo,hi]，NaN 视为 lo
func ClampFloat(f, lo, hi float64) float64 {
	if math.IsNaN(f) || f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}

// PaginatedResponse 分页列表响应 {<key>, page, totalPages, total}
func PaginatedResponse(c *gin.Context, key string, items interface{}, total int64, p Pagination) {
	c.JSON(http.StatusOK, gin.H{
		key:          items,
		"page":       p.Page,
		"totalPages": p.TotalPages(total),
		"total":      total,
	})
}

// ParseObjectID 解析 24 位十六进制 ObjectID，要求能原样还原
func ParseObjectID(raw string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(raw)
	if err != nil || oid.Hex() != strings.ToLower(raw) {
		return primitive.NilObjectID, false
	}
	return oid, true
}

// ParseOptionalObjectID 空字符串或非法 ID 返回 nil
func ParseOptionalObjectID(raw string) *primitive.ObjectID {
	if raw == "" {
		return nil
	}
	oid, ok := ParseObjectID(raw)
	if !ok {
		return nil
	}
	return &oid
}

// ParseDate 解析 RFC3339 或 YYYY-MM-DD 格式日期
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, CreateBadRequestError("Invalid date")
	}
	return t, nil
}

// IsBlank 去除空白后是否为空
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
