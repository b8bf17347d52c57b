package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/BerniceZTT/clientiq/controllers"
	"github.com/BerniceZTT/clientiq/models"
	"github.com/BerniceZTT/clientiq/repository"
	"github.com/BerniceZTT/clientiq/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type userByID map[primitive.ObjectID]*models.User

func (u userByID) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if user, ok := u[id]; ok {
		return user, nil
	}
	return nil, repository.ErrNotFound
}

func TestRouterWiring(t *testing.T) {
	tokens := utils.NewTokenManager("secret", time.Hour)
	member := &models.User{ID: primitive.NewObjectID(), Name: "Member", Role: models.UserRoleUser}
	token, err := tokens.GenerateToken(member.ID)
	require.NoError(t, err)

	router := NewRouter(&Handlers{
		AI:     controllers.NewAIController(nil, nil),
		Upload: controllers.NewUploadController(nil),
		Tokens: tokens,
		Users:  userByID{member.ID: member},
	}, nil)

	cases := []struct {
		name   string
		method string
		path   string
		auth   bool
		code   int
		msg    string
	}{
		{"health is public", http.MethodGet, "/api/health", false, http.StatusOK, ""},
		{"metrics is public", http.MethodGet, "/metrics", false, http.StatusOK, ""},
		{"unknown route", http.MethodGet, "/api/nope", true, http.StatusNotFound, "Not found"},
		{"customers need auth", http.MethodGet, "/api/customers", false, http.StatusUnauthorized, "Not authorized, no token"},
		{"malformed lead id", http.MethodGet, "/api/leads/not-an-id", true, http.StatusBadRequest, "Invalid ID"},
		{"malformed note target", http.MethodPost, "/api/leads/123/notes", true, http.StatusBadRequest, "Invalid ID"},
		{"admin only stats", http.MethodGet, "/api/admin/stats", true, http.StatusForbidden, "Admin access required"},
		{"admin only db status", http.MethodGet, "/api/db-status", true, http.StatusForbidden, "Admin access required"},
		{"ai not configured", http.MethodPost, "/api/ai/summarize", true, http.StatusServiceUnavailable, ""},
		{"upload needs auth", http.MethodPost, "/api/upload", false, http.StatusUnauthorized, ""},
		{"registration upload is public", http.MethodPost, "/api/upload/register", false, http.StatusBadRequest, "No file provided"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{"customerId":"x"}`))
			req.Header.Set("Content-Type", "application/json")
			if tc.auth {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.code, w.Code, w.Body.String())
			if tc.msg != "" {
				assert.Contains(t, w.Body.String(), `"message":"`+tc.msg+`"`)
			}
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}
