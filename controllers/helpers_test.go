package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BerniceZTT/clientiq/models"
	"github.com/BerniceZTT/clientiq/service"
	"github.com/BerniceZTT/clientiq/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.RegisterValidators()
}

var testUser = &models.User{
	ID:    primitive.NewObjectID(),
	Name:  "Sam Rivera",
	Email: "sam@example.com",
	Role:  models.UserRoleUser,
}

type recordedActivity struct {
	Type        models.ActivityType
	Ref         models.EntityRef
	Description string
	AuthorID    primitive.ObjectID
	Metadata    map[string]interface{}
}

type mockActivityLogger struct {
	entries []recordedActivity
}

func (m *mockActivityLogger) Record(_ context.Context, activityType models.ActivityType, ref models.EntityRef, description string, authorID primitive.ObjectID, metadata map[string]interface{}) {
	m.entries = append(m.entries, recordedActivity{
		Type:        activityType,
		Ref:         ref,
		Description: description,
		AuthorID:    authorID,
		Metadata:    metadata,
	})
}

type stubUsers map[primitive.ObjectID]models.UserSummary

func (s stubUsers) Summaries(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	out := make(map[primitive.ObjectID]models.UserSummary)
	for _, id := range ids {
		if u, ok := s[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

type stubCustomers map[primitive.ObjectID]models.CustomerSummary

func (s stubCustomers) Summaries(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.CustomerSummary, error) {
	out := make(map[primitive.ObjectID]models.CustomerSummary)
	for _, id := range ids {
		if c, ok := s[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

type stubLeads map[primitive.ObjectID]models.LeadSummary

func (s stubLeads) Summaries(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.LeadSummary, error) {
	out := make(map[primitive.ObjectID]models.LeadSummary)
	for _, id := range ids {
		if l, ok := s[id]; ok {
			out[id] = l
		}
	}
	return out, nil
}

func newExpander(users stubUsers, customers stubCustomers, leads stubLeads) *service.Expander {
	return &service.Expander{UserLookup: users, CustomerLookup: customers, LeadLookup: leads}
}

// newRouter 注册单个路由，user 为 nil 时模拟未登录
func newRouter(user *models.User, method, path string, handler gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Handle(method, path, func(c *gin.Context) {
		if user != nil {
			c.Set(utils.ContextUserKey, user)
		}
		c.Next()
	}, handler)
	return r
}

func doRequest(r http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func messageOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	decodeBody(t, w, &body)
	return body.Message
}
