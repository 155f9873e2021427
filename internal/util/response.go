package util

import "github.com/gin-gonic/gin"

// Error writes the shared error envelope.
func Error(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, gin.H{"error": msg})
}

// common error messages
const (
	MsgAuthRequired = "authentication required"
	MsgBadToken     = "invalid or expired token"
	MsgForbidden    = "forbidden"
	MsgNotFound     = "not found"
	MsgBadParams    = "invalid request parameters"
	MsgStorage      = "storage failure"
)
