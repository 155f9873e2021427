package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/keval2310/Expense-Manager/internal/models"
	"github.com/keval2310/Expense-Manager/internal/store"
	"github.com/keval2310/Expense-Manager/internal/util"

	"github.com/gin-gonic/gin"
)

const userKey = "currentUser"

// CurrentUser returns the authenticated user placed in the context by
// Authenticate, or nil on unauthenticated requests.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// Authenticate verifies the bearer token and loads the user into the
// context. A missing token is 401; a bad or expired one is 403.
func Authenticate(jwtSecret string, st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}

		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.MsgAuthRequired)
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil || claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
			util.Error(c, http.StatusForbidden, util.MsgBadToken)
			c.Abort()
			return
		}

		user, err := st.UserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				util.Error(c, http.StatusForbidden, util.MsgBadToken)
			} else {
				util.Error(c, http.StatusInternalServerError, util.MsgStorage)
			}
			c.Abort()
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// RequireAdmin gates admin-only routes. Must run after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			util.Error(c, http.StatusForbidden, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}
