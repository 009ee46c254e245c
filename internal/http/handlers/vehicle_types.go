package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain/models"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/repositories"
)

type VehicleTypeHandler struct {
	Types repositories.VehicleTypeRepository
}

type vehicleTypePayload struct {
	Name         string `json:"name" binding:"required"`
	SeatCapacity int    `json:"seatCapacity" binding:"required,min=1"`
	PricePerSeat int64  `json:"pricePerSeat" binding:"required,min=0"`
}

// GET /api/vehicle-types
func (h VehicleTypeHandler) List(c *gin.Context) {
	types, err := h.Types.List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	c.JSON(http.StatusOK, types)
}

// GET /api/vehicle-types/:id
func (h VehicleTypeHandler) Get(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	vt, err := h.Types.GetByID(c.Request.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		RespondDomainError(c, domain.NotFoundError{Resource: "vehicle type"})
		return
	}
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	c.JSON(http.StatusOK, vt)
}

// POST /api/vehicle-types
func (h VehicleTypeHandler) Create(c *gin.Context) {
	var req vehicleTypePayload
	if !BindJSONOrError(c, &req) {
		return
	}
	id, err := h.Types.Create(c.Request.Context(), models.VehicleType{
		Name:         strings.TrimSpace(req.Name),
		SeatCapacity: req.SeatCapacity,
		PricePerSeat: req.PricePerSeat,
	})
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// PUT /api/vehicle-types/:id
func (h VehicleTypeHandler) Update(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req vehicleTypePayload
	if !BindJSONOrError(c, &req) {
		return
	}

	ctx := c.Request.Context()
	templateSize, err := h.Types.CountTemplate(ctx, id)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	if req.SeatCapacity < templateSize {
		RespondDomainError(c, domain.ValidationError{
			Field: "seatCapacity",
			Msg:   fmt.Sprintf("capacity %d is below the current template of %d seats", req.SeatCapacity, templateSize),
		})
		return
	}

	updated, err := h.Types.Update(ctx, models.VehicleType{
		ID:           id,
		Name:         strings.TrimSpace(req.Name),
		SeatCapacity: req.SeatCapacity,
		PricePerSeat: req.PricePerSeat,
	})
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	if !updated {
		RespondDomainError(c, domain.NotFoundError{Resource: "vehicle type"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

// DELETE /api/vehicle-types/:id
func (h VehicleTypeHandler) Delete(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	deleted, err := h.Types.Delete(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	if !deleted {
		RespondDomainError(c, domain.NotFoundError{Resource: "vehicle type"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// GET /api/vehicle-types/:id/seat-template
func (h VehicleTypeHandler) GetTemplate(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	entries, err := h.Types.ListTemplate(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	c.JSON(http.StatusOK, entries)
}

type seatTemplatePayload struct {
	Entries []struct {
		SeatNumber string `json:"seatNumber" binding:"required"`
		Row        int    `json:"row"`
		Col        int    `json:"col"`
	} `json:"entries" binding:"required,min=1,dive"`
}

// PUT /api/vehicle-types/:id/seat-template
//
// Replaces the whole template. Seat numbers must be unique within the
// payload; the database enforces the same per vehicle type. The entry
// count may never exceed the type's seat capacity.
func (h VehicleTypeHandler) PutTemplate(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req seatTemplatePayload
	if !BindJSONOrError(c, &req) {
		return
	}

	ctx := c.Request.Context()
	vt, err := h.Types.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		RespondDomainError(c, domain.NotFoundError{Resource: "vehicle type"})
		return
	}
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	if len(req.Entries) > vt.SeatCapacity {
		RespondDomainError(c, domain.ValidationError{
			Field: "entries",
			Msg:   fmt.Sprintf("template has %d seats but capacity is %d", len(req.Entries), vt.SeatCapacity),
		})
		return
	}

	seen := map[string]bool{}
	entries := make([]models.SeatTemplateEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		seat := strings.ToUpper(strings.TrimSpace(e.SeatNumber))
		if seat == "" {
			RespondDomainError(c, domain.ValidationError{Field: "seatNumber", Msg: "required"})
			return
		}
		if seen[seat] {
			RespondDomainError(c, domain.ValidationError{Field: "seatNumber", Msg: "duplicate seat " + seat})
			return
		}
		seen[seat] = true
		entries = append(entries, models.SeatTemplateEntry{
			VehicleTypeID:    id,
			SeatNumber:       seat,
			Row:              e.Row,
			Col:              e.Col,
			DefaultAvailable: true,
		})
	}

	if err := h.Types.ReplaceTemplate(ctx, id, entries); err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "template replaced", "entries": len(entries)})
}
