package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain/models"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/repositories"
)

type LocationHandler struct {
	Locations repositories.LocationRepository
}

type locationPayload struct {
	Name    string `json:"name" binding:"required"`
	City    string `json:"city" binding:"required"`
	Address string `json:"address"`
}

// GET /api/locations
func (h LocationHandler) List(c *gin.Context) {
	locations, err := h.Locations.List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	c.JSON(http.StatusOK, locations)
}

// GET /api/locations/:id
func (h LocationHandler) Get(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	loc, err := h.Locations.GetByID(c.Request.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		RespondDomainError(c, domain.NotFoundError{Resource: "location"})
		return
	}
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	c.JSON(http.StatusOK, loc)
}

// POST /api/locations
func (h LocationHandler) Create(c *gin.Context) {
	var req locationPayload
	if !BindJSONOrError(c, &req) {
		return
	}
	id, err := h.Locations.Create(c.Request.Context(), models.Location{
		Name:    strings.TrimSpace(req.Name),
		City:    strings.TrimSpace(req.City),
		Address: strings.TrimSpace(req.Address),
	})
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// PUT /api/locations/:id
func (h LocationHandler) Update(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req locationPayload
	if !BindJSONOrError(c, &req) {
		return
	}
	updated, err := h.Locations.Update(c.Request.Context(), models.Location{
		ID:      id,
		Name:    strings.TrimSpace(req.Name),
		City:    strings.TrimSpace(req.City),
		Address: strings.TrimSpace(req.Address),
	})
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	if !updated {
		RespondDomainError(c, domain.NotFoundError{Resource: "location"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

// DELETE /api/locations/:id
func (h LocationHandler) Delete(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	deleted, err := h.Locations.Delete(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	if !deleted {
		RespondDomainError(c, domain.NotFoundError{Resource: "location"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
