package api

import (
	"database/sql"
	"log"
	stdhttp "net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/cache"
	intconfig "github.com/Youth-Garden-School/pragma-lab-sub001/internal/config"
	h "github.com/Youth-Garden-School/pragma-lab-sub001/internal/http/handlers"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/http/middleware"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/repositories"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/services"
)

// NewRouter wires repositories, services and handlers onto the gin
// engine. Everything hangs off the injected *sql.DB and seat cache.
func NewRouter(env intconfig.Env, db *sql.DB, seatCache *cache.SeatCache) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	userRepo := repositories.UserRepository{DB: db}
	locationRepo := repositories.LocationRepository{DB: db}
	vehicleTypeRepo := repositories.VehicleTypeRepository{DB: db}
	vehicleRepo := repositories.VehicleRepository{DB: db}
	tripRepo := repositories.TripRepository{DB: db}
	seatRepo := repositories.TripSeatRepository{DB: db}
	ticketRepo := repositories.TicketRepository{DB: db}

	inventory := services.SeatInventoryService{
		TripRepo:        tripRepo,
		VehicleRepo:     vehicleRepo,
		VehicleTypeRepo: vehicleTypeRepo,
		SeatRepo:        seatRepo,
		Cache:           seatCache,
	}
	ledger := services.BookingLedgerService{
		DB:         db,
		TripRepo:   tripRepo,
		SeatRepo:   seatRepo,
		TicketRepo: ticketRepo,
		Cache:      seatCache,
	}
	lifecycle := services.TripLifecycleService{
		DB:         db,
		TripRepo:   tripRepo,
		SeatRepo:   seatRepo,
		TicketRepo: ticketRepo,
		Cache:      seatCache,
	}
	docs := services.TicketDocsService{
		TicketRepo:   ticketRepo,
		TripRepo:     tripRepo,
		UserRepo:     userRepo,
		VehicleRepo:  vehicleRepo,
		LocationRepo: locationRepo,
	}
	reports := services.ReportService{DB: db, TicketRepo: ticketRepo}

	system := h.SystemHandler{DB: db}
	authH := h.AuthHandler{Users: userRepo, JWTSecret: []byte(env.JWTSecret)}
	usersH := h.UserHandler{Users: userRepo}
	locationsH := h.LocationHandler{Locations: locationRepo}
	typesH := h.VehicleTypeHandler{Types: vehicleTypeRepo}
	vehiclesH := h.VehicleHandler{Vehicles: vehicleRepo, Types: vehicleTypeRepo}
	tripsH := h.TripHandler{
		Trips:     tripRepo,
		Vehicles:  vehicleRepo,
		Locations: locationRepo,
		Lifecycle: lifecycle,
		Inventory: inventory,
	}
	ticketsH := h.TicketHandler{Tickets: ticketRepo, Ledger: ledger, Docs: docs}
	reportsH := h.ReportHandler{Reports: reports}

	secret := []byte(env.JWTSecret)
	authed := middleware.RequireAuth(secret)
	adminOnly := middleware.RequireRoles("admin")

	api := r.Group("/api")
	{
		api.GET("/health", system.Health)
		api.GET("/db-check", system.DBCheck)
		api.GET("/metrics", gin.WrapH(promhttp.Handler()))

		auth := api.Group("/auth")
		auth.POST("/login", authH.Login)
		auth.POST("/register", authH.Register)

		users := api.Group("/users", authed, adminOnly)
		users.GET("", usersH.List)
		users.GET("/:id", usersH.Get)
		users.POST("", usersH.Create)
		users.PUT("/:id", usersH.Update)
		users.DELETE("/:id", usersH.Delete)

		locations := api.Group("/locations")
		locations.GET("", locationsH.List)
		locations.GET("/:id", locationsH.Get)
		locations.POST("", authed, adminOnly, locationsH.Create)
		locations.PUT("/:id", authed, adminOnly, locationsH.Update)
		locations.DELETE("/:id", authed, adminOnly, locationsH.Delete)

		types := api.Group("/vehicle-types")
		types.GET("", typesH.List)
		types.GET("/:id", typesH.Get)
		types.GET("/:id/seat-template", typesH.GetTemplate)
		types.POST("", authed, adminOnly, typesH.Create)
		types.PUT("/:id", authed, adminOnly, typesH.Update)
		types.PUT("/:id/seat-template", authed, adminOnly, typesH.PutTemplate)
		types.DELETE("/:id", authed, adminOnly, typesH.Delete)

		vehicles := api.Group("/vehicles", authed, adminOnly)
		vehicles.GET("", vehiclesH.List)
		vehicles.GET("/:id", vehiclesH.Get)
		vehicles.POST("", vehiclesH.Create)
		vehicles.PUT("/:id", vehiclesH.Update)
		vehicles.DELETE("/:id", vehiclesH.Delete)

		trips := api.Group("/trips")
		trips.GET("", tripsH.List)
		trips.GET("/:id", tripsH.Get)
		trips.GET("/:id/seats", tripsH.GetSeats)
		trips.POST("", authed, adminOnly, tripsH.Create)
		trips.PUT("/:id", authed, adminOnly, tripsH.Update)
		trips.PUT("/:id/status", authed, adminOnly, tripsH.PutStatus)
		trips.POST("/:id/seats/instantiate", authed, adminOnly, tripsH.InstantiateSeats)
		trips.DELETE("/:id", authed, adminOnly, tripsH.Delete)

		tickets := api.Group("/tickets", authed)
		tickets.GET("", ticketsH.List)
		tickets.GET("/:id", ticketsH.Get)
		tickets.POST("", ticketsH.Reserve)
		tickets.PUT("/:id/cancel", ticketsH.Cancel)
		tickets.PUT("/:id/refund", adminOnly, ticketsH.Refund)
		tickets.POST("/:id/payments", ticketsH.RecordPayment)
		tickets.GET("/:id/e-ticket", ticketsH.ETicketPDF)
		tickets.GET("/:id/invoice", ticketsH.InvoicePDF)

		reportsGroup := api.Group("/reports", authed, adminOnly)
		reportsGroup.GET("/sales", reportsH.Sales)
		reportsGroup.GET("/tickets/export", reportsH.ExportTickets)
	}

	return r
}
