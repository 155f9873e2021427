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

// SubcategoryHandler serves subcategory CRUD.
type SubcategoryHandler struct {
	Store store.Store
}

func NewSubcategoryHandler(st store.Store) *SubcategoryHandler {
	return &SubcategoryHandler{Store: st}
}

type subcategoryReq struct {
	Name       string `json:"name" binding:"required,max=64"`
	CategoryID string `json:"category_id" binding:"required"`
	IsActive   *bool  `json:"is_active"`
}

func (h *SubcategoryHandler) List(c *gin.Context) {
	subs, err := h.Store.ListSubcategories(c.Request.Context(), c.Query("category_id"))
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subcategories": subs})
}

func (h *SubcategoryHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.MsgAuthRequired)
		return
	}

	var req subcategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.MsgBadParams)
		return
	}

	// the parent category must exist at creation time
	if _, err := h.Store.CategoryByID(c.Request.Context(), req.CategoryID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Error(c, http.StatusBadRequest, "category not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		}
		return
	}

	categoryID := req.CategoryID
	sub := models.Subcategory{
		ID:         models.NewID(),
		Name:       strings.TrimSpace(req.Name),
		CategoryID: &categoryID,
		IsActive:   true,
		CreatedBy:  user.ID,
	}
	if req.IsActive != nil {
		sub.IsActive = *req.IsActive
	}

	if err := h.Store.CreateSubcategory(c.Request.Context(), &sub); err != nil {
		util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"subcategory": sub})
}

func (h *SubcategoryHandler) Update(c *gin.Context) {
	sub, err := h.Store.SubcategoryByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Error(c, http.StatusNotFound, "subcategory not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		}
		return
	}

	var req subcategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.MsgBadParams)
		return
	}

	if _, err := h.Store.CategoryByID(c.Request.Context(), req.CategoryID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Error(c, http.StatusBadRequest, "category not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		}
		return
	}

	categoryID := req.CategoryID
	sub.Name = strings.TrimSpace(req.Name)
	sub.CategoryID = &categoryID
	if req.IsActive != nil {
		sub.IsActive = *req.IsActive
	}

	if err := h.Store.UpdateSubcategory(c.Request.Context(), sub); err != nil {
		util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subcategory": sub})
}

func (h *SubcategoryHandler) Delete(c *gin.Context) {
	err := h.Store.DeleteSubcategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Error(c, http.StatusNotFound, "subcategory not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "subcategory deleted"})
}
