package security

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SNTejaswi/MERN-CHAT-APP/global"
	"github.com/SNTejaswi/MERN-CHAT-APP/tools/security"
)

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", Middleware(DefaultOptions()), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})
	return r
}

func doGet(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddlewareAcceptsBearerToken(t *testing.T) {
	r := newAuthRouter()
	token, _, err := security.Generate(
		security.DefaultOptions(global.GetJwtSecret()), "user-1")
	require.NoError(t, err)

	w := doGet(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", w.Body.String())

	// bare token without the scheme also passes
	w = doGet(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	w := doGet(newAuthRouter(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddlewareRejectsBadToken(t *testing.T) {
	w := doGet(newAuthRouter(), "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
