package handler

import (
	"net/http"
	"strconv"

	"github.com/keval2310/Expense-Manager/internal/middleware"
	"github.com/keval2310/Expense-Manager/internal/store"
	"github.com/keval2310/Expense-Manager/internal/util"

	"github.com/gin-gonic/gin"
)

// AuditHandler lists the audit trail: own entries for users, everything
// for admins.
type AuditHandler struct {
	Store    store.Store
	PageSize int
}

func NewAuditHandler(st store.Store, pageSize int) *AuditHandler {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &AuditHandler{Store: st, PageSize: pageSize}
}

func (h *AuditHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.MsgAuthRequired)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.PageSize)))

	logs, total, err := h.Store.ListAuditLogs(c.Request.Context(), store.AuditFilter{
		Scope: store.ScopeFor(user),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		return
	}

	page, limit = store.Normalize(page, limit)
	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}
