package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/sitefixhq/sitefix/config"
	"github.com/sitefixhq/sitefix/model"
)

func newTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"actor": ActorFromContext(c).UserID})
	})
	return r
}

func TestSecretKeyAuthMiddleware(t *testing.T) {
	config.MockConfig(&config.Configuration{Server: config.ServerConfig{SecretKey: "super-secret"}})
	r := newTestRouter(SecretKeyAuthMiddleware())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(KeyHeader, "super-secret")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(KeyHeader, "wrong")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIdentityMiddleware(t *testing.T) {
	r := newTestRouter(IdentityMiddleware())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(UserIDHeader, "usr_1")
	req.Header.Set(OrganizationHeader, "org_1")
	req.Header.Set(RoleHeader, model.RoleGM)
	req.Header.Set(DisplayNameHeader, "Grace Manager")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "usr_1")
}

func TestIdentityMiddlewareMissingHeaders(t *testing.T) {
	r := newTestRouter(IdentityMiddleware())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIdentityMiddlewareUnknownRole(t *testing.T) {
	r := newTestRouter(IdentityMiddleware())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(UserIDHeader, "usr_1")
	req.Header.Set(OrganizationHeader, "org_1")
	req.Header.Set(RoleHeader, "janitor")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
