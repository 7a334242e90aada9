package middleware

import (
	"strings"

	"github.com/gitKrishh/finance-tracker/internal/store"
	"github.com/gitKrishh/finance-tracker/internal/token"
	"github.com/gitKrishh/finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
)

// CurrentUserKey is the gin context key the resolved user is stored under.
const CurrentUserKey = "currentUser"

// AccessTokenCookie is the cookie the access token travels in.
const AccessTokenCookie = "accessToken"

// Auth verifies the access token on each request and attaches the resolved
// user to the context. The cookie-transported token takes priority; a bearer
// header is the fallback. Any failure terminates the request with 401.
func Auth(tokens *token.Manager, users *store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
			tokenStr = cookie
		}

		if tokenStr == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
					tokenStr = parts[1]
				}
			}
		}

		if tokenStr == "" {
			util.Fail(c, util.Unauthorized("Unauthorized request: No token provided"))
			c.Abort()
			return
		}

		claims, err := tokens.VerifyAccess(tokenStr)
		if err != nil {
			util.Fail(c, util.Unauthorized("Invalid access token"))
			c.Abort()
			return
		}

		// a valid token can outlive its user
		user, err := users.GetByID(claims.UserID)
		if err != nil {
			util.Fail(c, util.Unauthorized("Invalid access token: User not found"))
			c.Abort()
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}
