package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/keval2310/Expense-Manager/internal/analytics"
	"github.com/keval2310/Expense-Manager/internal/middleware"
	"github.com/keval2310/Expense-Manager/internal/models"
	"github.com/keval2310/Expense-Manager/internal/store"
	"github.com/keval2310/Expense-Manager/internal/util"

	"github.com/gin-gonic/gin"
)

const maxTrendMonths = 36

// AnalyticsHandler serves the four aggregation endpoints. Everything is
// computed on request over the caller's scoped rows; the datasets are
// small enough that caching would not pay for itself.
type AnalyticsHandler struct {
	Store       store.Store
	TrendMonths int // default window when ?months is absent
}

func NewAnalyticsHandler(st store.Store, trendMonths int) *AnalyticsHandler {
	if trendMonths <= 0 || trendMonths > maxTrendMonths {
		trendMonths = 12
	}
	return &AnalyticsHandler{Store: st, TrendMonths: trendMonths}
}

func (h *AnalyticsHandler) scopedTransactions(c *gin.Context) ([]models.Transaction, bool) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.MsgAuthRequired)
		return nil, false
	}
	txs, err := h.Store.AllTransactions(c.Request.Context(), store.ScopeFor(user))
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		return nil, false
	}
	return txs, true
}

func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	txs, ok := h.scopedTransactions(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analytics.Dashboard(txs, time.Now()))
}

func (h *AnalyticsHandler) CategoryBreakdown(c *gin.Context) {
	kind := models.Kind(c.DefaultQuery("type", string(models.KindExpense)))
	if !kind.IsValid() {
		util.Error(c, http.StatusBadRequest, "type must be expense or income")
		return
	}

	txs, ok := h.scopedTransactions(c)
	if !ok {
		return
	}
	cats, err := h.Store.ListCategories(c.Request.Context(), "")
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"type":      kind,
		"breakdown": analytics.CategoryBreakdown(txs, cats, kind),
	})
}

func (h *AnalyticsHandler) MonthlyTrends(c *gin.Context) {
	months := h.TrendMonths
	if v := c.Query("months"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			util.Error(c, http.StatusBadRequest, "months must be an integer")
			return
		}
		months = n
	}
	// out-of-range values clamp to 1..36 rather than erroring
	if months < 1 {
		months = 1
	}
	if months > maxTrendMonths {
		months = maxTrendMonths
	}

	txs, ok := h.scopedTransactions(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"months": months,
		"trends": analytics.MonthlyTrends(txs, months, time.Now()),
	})
}

func (h *AnalyticsHandler) ProjectBreakdown(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.MsgAuthRequired)
		return
	}

	scope := store.ScopeFor(user)
	txs, err := h.Store.AllTransactions(c.Request.Context(), scope)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		return
	}
	projects, err := h.Store.AllProjects(c.Request.Context(), scope)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"breakdown": analytics.ProjectBreakdown(txs, projects),
	})
}
