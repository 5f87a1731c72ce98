package middleware

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adpilot/internal/domain/user"
	uservo "adpilot/internal/domain/user/valueobjects"
	"adpilot/internal/infrastructure/auth"
	"adpilot/internal/infrastructure/ratelimit"
	"adpilot/internal/shared/constants"
	"adpilot/internal/shared/logger"
)

type usersByID map[uint]*user.User

func (u usersByID) GetByID(_ context.Context, id uint) (*user.User, error) {
	return u[id], nil
}

type failingUsers struct{}

func (failingUsers) GetByID(context.Context, uint) (*user.User, error) {
	return nil, stderrors.New("db down")
}

func makeUser(t *testing.T, id uint, home *uint, status string) *user.User {
	t.Helper()
	email, err := uservo.NewEmail("someone@acme.io")
	require.NoError(t, err)
	u, err := user.ReconstructUser(id, email, "Someone", "", home, false, status, time.Now(), time.Now())
	require.NoError(t, err)
	return u
}

func TestRequireAuth(t *testing.T) {
	jwtSvc := auth.NewJWTService("test-secret", "adpilot", 5)
	users := usersByID{
		1: makeUser(t, 1, tenantPtr(8), constants.UserStatusActive),
		2: makeUser(t, 2, nil, constants.UserStatusInactive),
	}
	m := NewAuthMiddleware(jwtSvc, users, logger.NewNopLogger())

	r := gin.New()
	r.GET("/me", m.RequireAuth(), func(c *gin.Context) {
		id, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "tenant": GetHomeTenant(c), "roles": GetClaimedRoles(c)})
	})

	issue := func(userID uint, tenant *uint) string {
		tok, err := jwtSvc.Generate(userID, tenant, []string{"tenant_user"})
		require.NoError(t, err)
		return tok.AccessToken
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer " + issue(1, tenantPtr(99)), http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"unknown user", "Bearer " + issue(3, nil), http.StatusUnauthorized},
		{"inactive user", "Bearer " + issue(2, nil), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(constants.HeaderAuthorization, tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				// The home tenant comes from the user record, not the claim.
				assert.JSONEq(t, `{"id":1,"tenant":8,"roles":["tenant_user"]}`, w.Body.String())
			}
		})
	}
}

func TestRequireAuth_StoreFailure(t *testing.T) {
	jwtSvc := auth.NewJWTService("test-secret", "adpilot", 5)
	m := NewAuthMiddleware(jwtSvc, failingUsers{}, logger.NewNopLogger())
	r := gin.New()
	r.GET("/me", m.RequireAuth(), ok)

	tok, err := jwtSvc.Generate(1, nil, nil)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(constants.HeaderAuthorization, "Bearer "+tok.AccessToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRateLimiter_Limit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	rl := NewRateLimiter(ratelimit.NewRedisRateLimiter(client), "login", ratelimit.Limit{Requests: 2, Window: time.Minute}, logger.NewNopLogger())
	r := gin.New()
	r.POST("/login", rl.Limit(), ok)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	// Redis going away fails open.
	mr.Close()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRateLimiter_NilLimiterPassesThrough(t *testing.T) {
	rl := NewRateLimiter(nil, "login", ratelimit.Limit{Requests: 1, Window: time.Minute}, logger.NewNopLogger())
	assert.Nil(t, rl)

	r := gin.New()
	r.POST("/login", rl.Limit(), ok)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.GET("/", RequestID(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(constants.ContextKeyRequestID))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(constants.HeaderXRequestID)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(constants.HeaderXRequestID, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(constants.HeaderXRequestID))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(logger.NewNopLogger()))
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}
