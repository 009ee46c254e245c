package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain/models"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/repositories"
)

type AuthHandler struct {
	Users     repositories.UserRepository
	JWTSecret []byte
}

type loginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/login
func (h AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	user, err := h.Users.GetByLogin(c.Request.Context(), strings.TrimSpace(req.Login))
	if errors.Is(err, sql.ErrNoRows) {
		RespondError(c, http.StatusUnauthorized, "wrong login or password", nil)
		return
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "login failed", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		RespondError(c, http.StatusUnauthorized, "wrong login or password", nil)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString(h.JWTSecret)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "could not issue token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": signed,
		"user":  user.ToPublic(),
	})
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=8"`
}

// POST /api/auth/register
func (h AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	ctx := c.Request.Context()
	exists, err := h.Users.CountByLogin(ctx, req.Email, req.Username)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "could not check user", err)
		return
	}
	if exists > 0 {
		RespondError(c, http.StatusConflict, "email or username already registered", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "could not hash password", err)
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: string(hash),
		Role:         "user",
		Status:       "active",
	}
	id, err := h.Users.Create(ctx, user)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "could not save user", err)
		return
	}
	user.ID = id

	c.JSON(http.StatusCreated, gin.H{
		"message": "registered",
		"user":    user.ToPublic(),
	})
}
