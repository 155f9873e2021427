package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/keval2310/Expense-Manager/internal/models"
	"github.com/keval2310/Expense-Manager/internal/store"

	"github.com/gin-gonic/gin"
)

const maxAuditBody = 2000

// sensitiveBody reports whether a request body may carry credentials
// and must stay out of the audit trail.
func sensitiveBody(path string) bool {
	return strings.Contains(path, "password") || strings.Contains(path, "/auth/")
}

// Audit records mutating requests of authenticated users. Failures to
// write the trail never fail the request itself.
func Audit(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method != http.MethodPost && method != http.MethodPut && method != http.MethodDelete {
			c.Next()
			return
		}

		var bodyBytes []byte
		if c.Request.Body != nil && !sensitiveBody(c.Request.URL.Path) {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		c.Next()

		user := CurrentUser(c)
		if user == nil {
			return
		}

		path := c.Request.URL.Path
		action := method + " " + path
		if len(bodyBytes) > 0 && len(bodyBytes) < maxAuditBody {
			action += " " + string(bodyBytes)
		}

		entry := models.AuditLog{
			ID:        models.NewID(),
			UserID:    user.ID,
			Method:    method,
			Path:      path,
			Action:    action,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}
		_ = st.AppendAuditLog(c.Request.Context(), &entry)
	}
}
