package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hnclone/backend/internal/models"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{AuthRequired(testSecret)}, handlers...)
	chain = append(chain, func(c *gin.Context) {
		id, _ := PrincipalID(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": c.GetString("role")})
	})
	r.GET("/probe", chain...)
	return r
}

func probe(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	r := newRouter()

	t.Run("missing header", func(t *testing.T) {
		w := probe(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("not a bearer token", func(t *testing.T) {
		w := probe(r, "Basic abc123")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := probe(r, "Bearer not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		token := signToken(t, []byte("other-secret"), jwt.MapClaims{
			"user_id": 1,
			"exp":     time.Now().Add(time.Minute).Unix(),
		})
		w := probe(r, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"user_id": 1,
			"exp":     time.Now().Add(-time.Minute).Unix(),
		})
		w := probe(r, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token passes the principal through", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"user_id":  42,
			"username": "alice",
			"role":     models.RoleGuest,
			"exp":      time.Now().Add(time.Minute).Unix(),
		})
		w := probe(r, "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id": 42, "role": "guest"}`, w.Body.String())
	})
}

func TestRequireAdmin(t *testing.T) {
	r := newRouter(RequireAdmin())

	t.Run("guest is rejected", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"user_id": 1,
			"role":    models.RoleGuest,
			"exp":     time.Now().Add(time.Minute).Unix(),
		})
		w := probe(r, "Bearer "+token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin passes", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"user_id": 1,
			"role":    models.RoleAdmin,
			"exp":     time.Now().Add(time.Minute).Unix(),
		})
		w := probe(r, "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestPrincipalID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := PrincipalID(c)
	assert.False(t, ok)

	c.Set("user_id", 7)
	id, ok := PrincipalID(c)
	assert.True(t, ok)
	assert.Equal(t, 7, id)

	c.Set("user_id", float64(9))
	id, ok = PrincipalID(c)
	assert.True(t, ok)
	assert.Equal(t, 9, id)
}
