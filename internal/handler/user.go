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
	"golang.org/x/crypto/bcrypt"
)

// UserHandler serves profile and admin user management.
type UserHandler struct {
	Store      store.Store
	BcryptCost int
}

func NewUserHandler(st store.Store, bcryptCost int) *UserHandler {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = 12
	}
	return &UserHandler{Store: st, BcryptCost: bcryptCost}
}

// Me returns the current user.
func (h *UserHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.MsgAuthRequired)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userResp(user)})
}

type updateProfileReq struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"required,email,max=100"`
}

// UpdateProfile changes the current user's name and email.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.MsgAuthRequired)
		return
	}

	var req updateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.MsgBadParams)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != user.Email {
		if _, err := h.Store.UserByEmail(c.Request.Context(), email); err == nil {
			util.Error(c, http.StatusBadRequest, "email already registered")
			return
		} else if !errors.Is(err, store.ErrNotFound) {
			util.Error(c, http.StatusInternalServerError, util.MsgStorage)
			return
		}
	}

	user.Name = strings.TrimSpace(req.Name)
	user.Email = email
	if err := h.Store.UpdateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			util.Error(c, http.StatusBadRequest, "email already registered")
			return
		}
		util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResp(user)})
}

type changePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// ChangePassword verifies the old password and stores a new hash.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.MsgAuthRequired)
		return
	}

	var req changePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.MsgBadParams)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		util.Error(c, http.StatusBadRequest, "old password is incorrect")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), h.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "password hashing failed")
		return
	}

	user.PasswordHash = string(hash)
	if err := h.Store.UpdateUser(c.Request.Context(), user); err != nil {
		util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// List returns every user. Admin only (enforced by the router).
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Store.ListUsers(c.Request.Context())
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		return
	}

	items := make([]gin.H, 0, len(users))
	for i := range users {
		items = append(items, userResp(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"users": items,
		"total": len(items),
	})
}

type adminUpdateUserReq struct {
	Name string `json:"name" binding:"omitempty,max=100"`
	Role string `json:"role" binding:"omitempty,oneof=admin user"`
}

// Update lets an admin rename a user or change their role.
func (h *UserHandler) Update(c *gin.Context) {
	target, err := h.Store.UserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Error(c, http.StatusNotFound, "user not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		}
		return
	}

	var req adminUpdateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.MsgBadParams)
		return
	}

	if req.Name != "" {
		target.Name = strings.TrimSpace(req.Name)
	}
	if req.Role != "" {
		target.Role = models.Role(req.Role)
	}

	if err := h.Store.UpdateUser(c.Request.Context(), target); err != nil {
		util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResp(target)})
}
