package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/keval2310/Expense-Manager/internal/middleware"
	"github.com/keval2310/Expense-Manager/internal/models"
	"github.com/keval2310/Expense-Manager/internal/store"
	"github.com/keval2310/Expense-Manager/internal/util"

	"github.com/gin-gonic/gin"
)

// TransactionHandler serves one transaction family; the router mounts
// one instance for expenses and one for incomes.
type TransactionHandler struct {
	Store    store.Store
	Kind     models.Kind
	PageSize int
	// expenses support search over remarks and category name; incomes
	// deliberately do not
	SearchEnabled bool
}

func NewTransactionHandler(st store.Store, kind models.Kind, pageSize int) *TransactionHandler {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &TransactionHandler{
		Store:         st,
		Kind:          kind,
		PageSize:      pageSize,
		SearchEnabled: kind == models.KindExpense,
	}
}

func (h *TransactionHandler) plural() string {
	return string(h.Kind) + "s"
}

type transactionReq struct {
	Date          string  `json:"date" binding:"required"`
	CategoryID    *string `json:"category_id"`
	SubcategoryID *string `json:"subcategory_id"`
	ProjectID     *string `json:"project_id"`
	Amount        float64 `json:"amount" binding:"required"`
	Remarks       string  `json:"remarks" binding:"max=255"`
}

type transactionResp struct {
	ID            string      `json:"id"`
	Kind          models.Kind `json:"kind"`
	UserID        string      `json:"user_id"`
	Date          string      `json:"date"`
	CategoryID    *string     `json:"category_id"`
	SubcategoryID *string     `json:"subcategory_id"`
	ProjectID     *string     `json:"project_id"`
	Amount        float64     `json:"amount"`
	Remarks       string      `json:"remarks"`
	CreatedAt     time.Time   `json:"created_at"`
}

func toTransactionResp(t *models.Transaction) transactionResp {
	return transactionResp{
		ID:            t.ID,
		Kind:          t.Kind,
		UserID:        t.UserID,
		Date:          util.FormatDate(t.Date),
		CategoryID:    t.CategoryID,
		SubcategoryID: t.SubcategoryID,
		ProjectID:     t.ProjectID,
		Amount:        util.FromCents(t.AmountCents),
		Remarks:       t.Remarks,
		CreatedAt:     t.CreatedAt,
	}
}

// applyTransactionReq validates amount and date and copies the request
// onto the model. Referenced category/subcategory/project ids are not
// verified; a dangling reference is detached lazily on delete.
func applyTransactionReq(t *models.Transaction, req *transactionReq) error {
	if err := util.ValidateAmount(req.Amount); err != nil {
		return err
	}
	date, err := util.ParseDate(req.Date)
	if err != nil {
		return err
	}

	t.Date = date
	t.CategoryID = req.CategoryID
	t.SubcategoryID = req.SubcategoryID
	t.ProjectID = req.ProjectID
	t.AmountCents = util.ToCents(req.Amount)
	t.Remarks = strings.TrimSpace(req.Remarks)
	return nil
}

func (h *TransactionHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.MsgAuthRequired)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.PageSize)))

	search := ""
	if h.SearchEnabled {
		search = c.Query("search")
	}

	txs, total, err := h.Store.ListTransactions(c.Request.Context(), store.TransactionFilter{
		Scope:  store.ScopeFor(user),
		Kind:   h.Kind,
		Search: search,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		return
	}

	items := make([]transactionResp, 0, len(txs))
	for i := range txs {
		items = append(items, toTransactionResp(&txs[i]))
	}
	page, limit = store.Normalize(page, limit)
	c.JSON(http.StatusOK, gin.H{
		h.plural(): items,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

func (h *TransactionHandler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.MsgAuthRequired)
		return
	}

	t := h.loadOwn(c, user)
	if t == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{string(h.Kind): toTransactionResp(t)})
}

func (h *TransactionHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.MsgAuthRequired)
		return
	}

	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.MsgBadParams)
		return
	}

	t := models.Transaction{
		ID:     models.NewID(),
		Kind:   h.Kind,
		UserID: user.ID,
	}
	if err := applyTransactionReq(&t, &req); err != nil {
		util.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Store.CreateTransaction(c.Request.Context(), &t); err != nil {
		util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		return
	}
	c.JSON(http.StatusCreated, gin.H{string(h.Kind): toTransactionResp(&t)})
}

// loadOwn fetches the target row of h.Kind and enforces the ownership
// policy. It writes the error response itself and returns nil on denial.
func (h *TransactionHandler) loadOwn(c *gin.Context, user *models.User) *models.Transaction {
	t, err := h.Store.TransactionByID(c.Request.Context(), c.Param("id"))
	if err != nil || t.Kind != h.Kind {
		if err == nil || errors.Is(err, store.ErrNotFound) {
			util.Error(c, http.StatusNotFound, string(h.Kind)+" not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		}
		return nil
	}
	if !util.CanModify(user, t.UserID) {
		util.Error(c, http.StatusForbidden, util.MsgForbidden)
		return nil
	}
	return t
}

func (h *TransactionHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.MsgAuthRequired)
		return
	}

	t := h.loadOwn(c, user)
	if t == nil {
		return
	}

	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.MsgBadParams)
		return
	}
	if err := applyTransactionReq(t, &req); err != nil {
		util.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Store.UpdateTransaction(c.Request.Context(), t); err != nil {
		util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		return
	}
	c.JSON(http.StatusOK, gin.H{string(h.Kind): toTransactionResp(t)})
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.MsgAuthRequired)
		return
	}

	t := h.loadOwn(c, user)
	if t == nil {
		return
	}

	if err := h.Store.DeleteTransaction(c.Request.Context(), t.ID); err != nil {
		util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": string(h.Kind) + " deleted"})
}
