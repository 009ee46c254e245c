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
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/utils"
)

type VehicleHandler struct {
	Vehicles repositories.VehicleRepository
	Types    repositories.VehicleTypeRepository
}

type vehiclePayload struct {
	PlateNumber   string `json:"plateNumber" binding:"required"`
	VehicleTypeID int64  `json:"vehicleTypeId" binding:"required"`
}

// GET /api/vehicles?q=B+1234
func (h VehicleHandler) List(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	vehicles, err := h.Vehicles.List(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

// GET /api/vehicles/:id
func (h VehicleHandler) Get(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	v, err := h.Vehicles.GetByID(c.Request.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		RespondDomainError(c, domain.NotFoundError{Resource: "vehicle"})
		return
	}
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	c.JSON(http.StatusOK, v)
}

// POST /api/vehicles
func (h VehicleHandler) Create(c *gin.Context) {
	var req vehiclePayload
	if !BindJSONOrError(c, &req) {
		return
	}

	plate := utils.NormalizePlate(req.PlateNumber)
	if !utils.ValidPlate(plate) {
		RespondDomainError(c, domain.ValidationError{Field: "plateNumber", Msg: "invalid plate format"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Types.GetByID(ctx, req.VehicleTypeID); errors.Is(err, sql.ErrNoRows) {
		RespondDomainError(c, domain.NotFoundError{Resource: "vehicle type"})
		return
	} else if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}

	id, err := h.Vehicles.Create(ctx, models.Vehicle{
		PlateNumber:   plate,
		VehicleTypeID: req.VehicleTypeID,
	})
	if err != nil {
		RespondDomainError(c, classifyDuplicate(err, "vehicle", "plate number already registered"))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "plateNumber": plate})
}

// PUT /api/vehicles/:id
func (h VehicleHandler) Update(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req vehiclePayload
	if !BindJSONOrError(c, &req) {
		return
	}

	plate := utils.NormalizePlate(req.PlateNumber)
	if !utils.ValidPlate(plate) {
		RespondDomainError(c, domain.ValidationError{Field: "plateNumber", Msg: "invalid plate format"})
		return
	}

	updated, err := h.Vehicles.Update(c.Request.Context(), models.Vehicle{
		ID:            id,
		PlateNumber:   plate,
		VehicleTypeID: req.VehicleTypeID,
	})
	if err != nil {
		RespondDomainError(c, classifyDuplicate(err, "vehicle", "plate number already registered"))
		return
	}
	if !updated {
		RespondDomainError(c, domain.NotFoundError{Resource: "vehicle"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

// DELETE /api/vehicles/:id
//
// A vehicle with upcoming or running trips cannot be removed.
func (h VehicleHandler) Delete(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	active, err := h.Vehicles.CountActiveTrips(ctx, id)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	if active > 0 {
		RespondDomainError(c, domain.ConflictError{
			Resource: "vehicle",
			Msg:      "vehicle still has active trips",
		})
		return
	}

	deleted, err := h.Vehicles.Delete(ctx, id)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	if !deleted {
		RespondDomainError(c, domain.NotFoundError{Resource: "vehicle"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
