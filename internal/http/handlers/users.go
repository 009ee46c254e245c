package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain/models"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/repositories"
)

type UserHandler struct {
	Users repositories.UserRepository
}

// GET /api/users
func (h UserHandler) List(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	out := make([]models.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToPublic())
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/users/:id
func (h UserHandler) Get(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	user, err := h.Users.GetByID(c.Request.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		RespondDomainError(c, domain.NotFoundError{Resource: "user"})
		return
	}
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	c.JSON(http.StatusOK, user.ToPublic())
}

type userCreateRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=user admin"`
}

// POST /api/users (admin creates staff accounts with a role)
func (h UserHandler) Create(c *gin.Context) {
	var req userCreateRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	ctx := c.Request.Context()
	exists, err := h.Users.CountByLogin(ctx, req.Email, req.Username)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	if exists > 0 {
		RespondDomainError(c, domain.ConflictError{
			Resource: "user",
			Msg:      "email or username already registered",
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}

	id, err := h.Users.Create(ctx, models.User{
		Name:         strings.TrimSpace(req.Name),
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: string(hash),
		Role:         req.Role,
		Status:       "active",
	})
	if err != nil {
		RespondDomainError(c, classifyDuplicate(err, "user", "email or username already registered"))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

type userUpdateRequest struct {
	Name   string `json:"name" binding:"required"`
	Phone  string `json:"phone"`
	Role   string `json:"role" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// PUT /api/users/:id
func (h UserHandler) Update(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req userUpdateRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	updated, err := h.Users.Update(c.Request.Context(), models.User{
		ID:     id,
		Name:   strings.TrimSpace(req.Name),
		Phone:  strings.TrimSpace(req.Phone),
		Role:   req.Role,
		Status: req.Status,
	})
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	if !updated {
		RespondDomainError(c, domain.NotFoundError{Resource: "user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

// DELETE /api/users/:id
func (h UserHandler) Delete(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	deleted, err := h.Users.Delete(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	if !deleted {
		RespondDomainError(c, domain.NotFoundError{Resource: "user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
