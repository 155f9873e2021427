package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/keval2310/Expense-Manager/internal/middleware"
	"github.com/keval2310/Expense-Manager/internal/models"
	"github.com/keval2310/Expense-Manager/internal/store"
	"github.com/keval2310/Expense-Manager/internal/util"

	"github.com/gin-gonic/gin"
)

// CategoryHandler serves category CRUD. Categories are shared reference
// data: any authenticated user may create or change them.
type CategoryHandler struct {
	Store store.Store
}

func NewCategoryHandler(st store.Store) *CategoryHandler {
	return &CategoryHandler{Store: st}
}

type categoryReq struct {
	Name     string `json:"name" binding:"required,max=64"`
	Type     string `json:"type" binding:"required,oneof=expense income"`
	IsActive *bool  `json:"is_active"`
}

func (h *CategoryHandler) List(c *gin.Context) {
	kind := models.Kind(c.Query("type"))
	if kind != "" && !kind.IsValid() {
		util.Error(c, http.StatusBadRequest, "type must be expense or income")
		return
	}

	cats, err := h.Store.ListCategories(c.Request.Context(), kind)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

func (h *CategoryHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.MsgAuthRequired)
		return
	}

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.MsgBadParams)
		return
	}

	cat := models.Category{
		ID:        models.NewID(),
		Name:      strings.TrimSpace(req.Name),
		Type:      models.Kind(req.Type),
		IsActive:  true,
		CreatedBy: user.ID,
	}
	if req.IsActive != nil {
		cat.IsActive = *req.IsActive
	}

	if err := h.Store.CreateCategory(c.Request.Context(), &cat); err != nil {
		util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": cat})
}

func (h *CategoryHandler) Update(c *gin.Context) {
	cat, err := h.Store.CategoryByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Error(c, http.StatusNotFound, "category not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		}
		return
	}

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.MsgBadParams)
		return
	}

	cat.Name = strings.TrimSpace(req.Name)
	cat.Type = models.Kind(req.Type)
	if req.IsActive != nil {
		cat.IsActive = *req.IsActive
	}

	if err := h.Store.UpdateCategory(c.Request.Context(), cat); err != nil {
		util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": cat})
}

// Delete removes a category; subcategories and transactions that
// referenced it survive with the reference cleared.
func (h *CategoryHandler) Delete(c *gin.Context) {
	err := h.Store.DeleteCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Error(c, http.StatusNotFound, "category not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}
