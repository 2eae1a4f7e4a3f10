package security

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SNTejaswi/MERN-CHAT-APP/global"
	"github.com/SNTejaswi/MERN-CHAT-APP/tools/errs"
	"github.com/SNTejaswi/MERN-CHAT-APP/tools/security"
)

// CtxUserIDKey is where the middleware stores the authenticated user id.
// Downstream handlers read it with UserID(c).
const CtxUserIDKey = "authUserId"

type Options struct {
	HeaderToken               string // default "Authorization"
	EnableAuthorizationBearer bool   // default true
}

func DefaultOptions() *Options {
	return &Options{
		HeaderToken:               "Authorization",
		EnableAuthorizationBearer: true,
	}
}

// Middleware resolves the bearer token to a user id, or aborts with 401.
func Middleware(opts *Options) gin.HandlerFunc {
	if opts == nil {
		opts = DefaultOptions()
	}
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader(opts.HeaderToken))
		if opts.EnableAuthorizationBearer && token != "" {
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[len("bearer "):])
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrUnauthorized.WithDetail("no token"))
			return
		}

		userID, err := security.Verify(security.DefaultOptions(global.GetJwtSecret()), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrUnauthorized.WithDetail(err.Error()))
			return
		}

		c.Set(CtxUserIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated user id set by Middleware.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}
