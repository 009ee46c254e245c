package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain/models"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/repositories"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/services"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/utils"
)

type TripHandler struct {
	Trips     repositories.TripRepository
	Vehicles  repositories.VehicleRepository
	Locations repositories.LocationRepository
	Lifecycle services.TripLifecycleService
	Inventory services.SeatInventoryService
}

type tripStopPayload struct {
	LocationID int64  `json:"locationId" binding:"required"`
	StopOrder  int    `json:"stopOrder" binding:"required,min=1"`
	ArrivesAt  string `json:"arrivesAt"`
	DepartsAt  string `json:"departsAt"`
	Kind       string `json:"kind" binding:"required,oneof=pickup dropoff"`
}

type tripPayload struct {
	VehicleID int64             `json:"vehicleId" binding:"required"`
	DriverID  int64             `json:"driverId" binding:"required"`
	Note      string            `json:"note"`
	Stops     []tripStopPayload `json:"stops" binding:"required,min=2,dive"`
}

// GET /api/trips?status=upcoming
func (h TripHandler) List(c *gin.Context) {
	status := strings.TrimSpace(c.Query("status"))
	trips, err := h.Trips.List(c.Request.Context(), status)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	c.JSON(http.StatusOK, trips)
}

// GET /api/trips/:id
func (h TripHandler) Get(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	trip, err := h.Trips.GetByID(c.Request.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		RespondDomainError(c, domain.NotFoundError{Resource: "trip"})
		return
	}
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	c.JSON(http.StatusOK, trip)
}

// POST /api/trips
//
// Stops must have strictly increasing stopOrder, start with a pickup and
// end with a dropoff.
func (h TripHandler) Create(c *gin.Context) {
	var req tripPayload
	if !BindJSONOrError(c, &req) {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Vehicles.GetByID(ctx, req.VehicleID); errors.Is(err, sql.ErrNoRows) {
		RespondDomainError(c, domain.NotFoundError{Resource: "vehicle"})
		return
	} else if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}

	stops, err := h.buildStops(ctx, req.Stops)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	id, err := h.Trips.Create(ctx, models.Trip{
		VehicleID: req.VehicleID,
		DriverID:  req.DriverID,
		Note:      strings.TrimSpace(req.Note),
		Stops:     stops,
	})
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h TripHandler) buildStops(ctx context.Context, payload []tripStopPayload) ([]models.TripStop, error) {
	stops := make([]models.TripStop, 0, len(payload))
	lastOrder := 0
	for i, sp := range payload {
		if sp.StopOrder <= lastOrder {
			return nil, domain.ValidationError{Field: "stops", Msg: "stopOrder must be strictly increasing"}
		}
		lastOrder = sp.StopOrder

		if _, err := h.Locations.GetByID(ctx, sp.LocationID); errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError{Resource: "location"}
		} else if err != nil {
			return nil, domain.InternalError{Err: err}
		}

		stop := models.TripStop{
			LocationID: sp.LocationID,
			StopOrder:  sp.StopOrder,
			Kind:       models.StopKind(sp.Kind),
		}
		if sp.ArrivesAt != "" {
			t, err := utils.ParseDateTime(sp.ArrivesAt)
			if err != nil {
				return nil, domain.ValidationError{Field: "arrivesAt", Msg: "invalid datetime", Err: err}
			}
			stop.ArrivesAt = &t
		}
		if sp.DepartsAt != "" {
			t, err := utils.ParseDateTime(sp.DepartsAt)
			if err != nil {
				return nil, domain.ValidationError{Field: "departsAt", Msg: "invalid datetime", Err: err}
			}
			stop.DepartsAt = &t
		}

		if i == 0 && stop.Kind != models.StopPickup {
			return nil, domain.ValidationError{Field: "stops", Msg: "first stop must be a pickup"}
		}
		if i == len(payload)-1 && stop.Kind != models.StopDropoff {
			return nil, domain.ValidationError{Field: "stops", Msg: "last stop must be a dropoff"}
		}
		stops = append(stops, stop)
	}
	return stops, nil
}

type tripUpdatePayload struct {
	DriverID int64  `json:"driverId" binding:"required"`
	Note     string `json:"note"`
}

// PUT /api/trips/:id
func (h TripHandler) Update(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req tripUpdatePayload
	if !BindJSONOrError(c, &req) {
		return
	}
	updated, err := h.Trips.Update(c.Request.Context(), id, req.DriverID, strings.TrimSpace(req.Note))
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	if !updated {
		RespondDomainError(c, domain.NotFoundError{Resource: "trip"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

// DELETE /api/trips/:id
//
// Trips that already sold tickets must be cancelled, not deleted.
func (h TripHandler) Delete(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	sold, err := h.Trips.CountTickets(ctx, id)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	if sold > 0 {
		RespondDomainError(c, domain.ConflictError{
			Resource: "trip",
			Msg:      "trip has tickets, cancel it instead",
		})
		return
	}

	deleted, err := h.Trips.Delete(ctx, id)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	if !deleted {
		RespondDomainError(c, domain.NotFoundError{Resource: "trip"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

type tripStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

// PUT /api/trips/:id/status
func (h TripHandler) PutStatus(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req tripStatusPayload
	if !BindJSONOrError(c, &req) {
		return
	}

	result, err := h.Lifecycle.Transition(c.Request.Context(), id, models.TripStatus(req.Status))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/trips/:id/seats
func (h TripHandler) GetSeats(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	availability, err := h.Inventory.GetAvailability(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, availability)
}

// POST /api/trips/:id/seats/instantiate
func (h TripHandler) InstantiateSeats(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	count, err := h.Inventory.InstantiateForTrip(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tripId": id, "seats": count})
}
