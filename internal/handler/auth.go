package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/keval2310/Expense-Manager/internal/models"
	"github.com/keval2310/Expense-Manager/internal/store"
	"github.com/keval2310/Expense-Manager/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	Store      store.Store
	JWTSecret  string
	Issuer     string
	TokenTTL   time.Duration
	BcryptCost int
}

func NewAuthHandler(st store.Store, jwtSecret, issuer string, ttlHours, bcryptCost int) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = 12
	}
	return &AuthHandler{
		Store:      st,
		JWTSecret:  jwtSecret,
		Issuer:     issuer,
		TokenTTL:   time.Duration(ttlHours) * time.Hour,
		BcryptCost: bcryptCost,
	}
}

type registerReq struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"omitempty,oneof=admin user"`
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func userResp(u *models.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"role":       u.Role,
		"created_at": u.CreatedAt,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.MsgBadParams)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := h.Store.UserByEmail(c.Request.Context(), email); err == nil {
		util.Error(c, http.StatusBadRequest, "email already registered")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "password hashing failed")
		return
	}

	role := models.RoleUser
	if req.Role != "" {
		role = models.Role(req.Role)
	}

	user := models.User{
		ID:           models.NewID(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := h.Store.CreateUser(c.Request.Context(), &user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			util.Error(c, http.StatusBadRequest, "email already registered")
			return
		}
		util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, h.Issuer, &user, h.TokenTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "token generation failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  userResp(&user),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.MsgBadParams)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// unknown email and wrong password return the same answer
	user, err := h.Store.UserByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Error(c, http.StatusUnauthorized, "invalid email or password")
		} else {
			util.Error(c, http.StatusInternalServerError, util.MsgStorage)
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		util.Error(c, http.StatusUnauthorized, "invalid email or password")
		return
	}

	now := time.Now()
	user.LastLoginAt = &now
	user.LastLoginIP = c.ClientIP()
	_ = h.Store.UpdateUser(c.Request.Context(), user)

	token, err := util.GenerateToken(h.JWTSecret, h.Issuer, user, h.TokenTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "token generation failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userResp(user),
	})
}
