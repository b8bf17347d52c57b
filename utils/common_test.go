package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BerniceZTT/clientiq/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestParsePagination(t *testing.T) {
	cases := []struct {
		query string
		page  int64
		limit int64
	}{
		{"", 1, 20},
		{"page=3&limit=10", 3, 10},
		{"page=0&limit=0", 1, 20},
		{"page=-2&limit=-5", 1, 1},
		{"page=abc&limit=5000", 1, 100},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)

			p := ParsePagination(c, 20)
			assert.Equal(t, tc.page, p.Page)
			assert.Equal(t, tc.limit, p.Limit)
		})
	}
}

func TestPaginationMath(t *testing.T) {
	p := Pagination{Page: 3, Limit: 20}
	assert.Equal(t, int64(40), p.Skip())
	assert.Equal(t, int64(3), p.TotalPages(41))
	assert.Equal(t, int64(2), p.TotalPages(40))
	assert.Equal(t, int64(0), p.TotalPages(0))
}

func TestPaginatedResponse(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	PaginatedResponse(c, "customers", []string{"a"}, 21, Pagination{Page: 2, Limit: 20})
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []interface{}{"a"}, body["customers"])
	assert.Equal(t, 2.0, body["page"])
	assert.Equal(t, 2.0, body["totalPages"])
	assert.Equal(t, 21.0, body["total"])
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, ClampFloat(-1, 0, 100))
	assert.Equal(t, 100.0, ClampFloat(250, 0, 100))
	assert.Equal(t, 42.5, ClampFloat(42.5, 0, 100))
	assert.Equal(t, 0.0, ClampFloat(math.NaN(), 0, 100))
	assert.Equal(t, int64(5), ClampInt(5, 1, 10))
}

func TestParseObjectID(t *testing.T) {
	id := primitive.NewObjectID()

	got, ok := ParseObjectID(id.Hex())
	assert.True(t, ok)
	assert.Equal(t, id, got)

	for _, raw := range []string{"", "123", "zzzzzzzzzzzzzzzzzzzzzzzz", id.Hex() + "0"} {
		_, ok := ParseObjectID(raw)
		assert.False(t, ok, raw)
	}

	assert.Nil(t, ParseOptionalObjectID(""))
	assert.Nil(t, ParseOptionalObjectID("bad"))
	assert.Equal(t, id, *ParseOptionalObjectID(id.Hex()))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", d.Format("2006-01-02"))

	d, err = ParseDate("2024-06-01T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC), d.UTC())

	_, err = ParseDate("tomorrow")
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))
}

func TestGetUser(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := GetUser(c)
	assert.ErrorIs(t, err, ErrNoUser)

	user := &models.User{Name: "Sam"}
	c.Set(ContextUserKey, user)
	got, err := GetUser(c)
	require.NoError(t, err)
	assert.Same(t, user, got)
}

func TestHandleError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		body   string
	}{
		{CreateNotFoundError("Customer"), http.StatusNotFound, `{"message":"Customer not found"}`},
		{fmt.Errorf("wrap: %w", CreateBadRequestError("Invalid ID")), http.StatusBadRequest, `{"message":"wrap: Invalid ID"}`},
		{errors.New("boom"), http.StatusInternalServerError, `{"message":"boom"}`},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/x", nil)

		HandleError(c, tc.err)
		assert.Equal(t, tc.status, w.Code)
		assert.JSONEq(t, tc.body, w.Body.String())
		assert.True(t, c.IsAborted())
	}
}

func TestShortAuthHeader(t *testing.T) {
	assert.Equal(t, "Bearer abc", ShortAuthHeader("Bearer abc"))
	assert.Equal(t, "Bearer eyJhbGci...", ShortAuthHeader("Bearer eyJhbGciOiJIUzI1NiJ9"))
}
