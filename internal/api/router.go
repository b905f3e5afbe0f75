package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/restobook/restaurant-api/internal/api/handler"
	"github.com/restobook/restaurant-api/internal/api/middleware"
	"github.com/restobook/restaurant-api/internal/core/authz"
	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/guard"
	"github.com/restobook/restaurant-api/internal/core/ports"
	"github.com/restobook/restaurant-api/internal/core/service"
	"github.com/restobook/restaurant-api/internal/core/validation"
)

// Stores is the persistence backend the router is built on: the mongo
// repositories, or the memory store for local runs.
type Stores struct {
	Users             ports.AuthRepository
	Restaurants       ports.RestaurantRepository
	Settings          ports.SettingsRepository
	Employees         ports.EmployeeRepository
	Permissions       ports.PermissionRepository
	Tables            ports.TableRepository
	Reservations      ports.ReservationRepository
	TableReservations ports.TableReservationRepository
	Menus             ports.MenuCatalog
	Locker            ports.SlotLocker
}

type Options struct {
	JWTSecret string
	TokenTTL  time.Duration
	Events    ports.EventSink
	Log       zerolog.Logger

	// Probed by /health/ready when set.
	Mongo *mongo.Database
	Redis redis.UniversalClient

	// Registerer receives the HTTP metrics. Defaults to the global registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(s Stores, o Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(o.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: o.Registerer,
	}))

	// --- Dependencies ---
	authService := service.NewAuthService(s.Users, o.JWTSecret, o.TokenTTL)

	d := &guard.Deps{
		Resolver: authz.NewResolver(authz.Stores{
			Restaurants:       s.Restaurants,
			Employees:         s.Employees,
			Permissions:       s.Permissions,
			Tables:            s.Tables,
			Reservations:      s.Reservations,
			TableReservations: s.TableReservations,
			Menus:             s.Menus,
		}),
		Validator:         validation.New(),
		Conflicts:         validation.NewConflictDetector(s.TableReservations),
		Restaurants:       s.Restaurants,
		Settings:          s.Settings,
		Employees:         s.Employees,
		Permissions:       s.Permissions,
		Tables:            s.Tables,
		Reservations:      s.Reservations,
		TableReservations: s.TableReservations,
		Users:             s.Users,
		Log:               o.Log,
	}

	staff := service.NewEmployeeService(s.Employees, s.Permissions, o.Log)
	restaurants := guard.NewRestaurants(service.NewRestaurantService(s.Restaurants, s.Settings, staff, o.Log), d)
	employees := guard.NewEmployees(staff, d)
	permissions := guard.NewPermissions(service.NewPermissionService(s.Permissions, o.Log), d)
	tables := guard.NewTables(service.NewTableService(s.Tables, o.Log), d)
	reservations := guard.NewReservations(service.NewReservationService(s.Reservations, s.Settings, o.Events, o.Log), d)
	bookings := guard.NewTableReservations(
		service.NewTableReservationService(s.TableReservations, s.Tables, s.Settings, s.Locker, o.Events, o.Log),
		d,
	)

	authHandler := handler.NewAuthHandler(authService)
	restaurantHandler := handler.NewRestaurantHandler(restaurants)
	tableHandler := handler.NewTableHandler(tables)
	staffHandler := handler.NewStaffHandler(employees, permissions)
	reservationHandler := handler.NewReservationHandler(reservations)
	bookingHandler := handler.NewTableReservationHandler(bookings)
	authMiddleware := middleware.Auth(authService)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/users/:id/verify", authHandler.VerifyEmail, authMiddleware, middleware.RBAC(domain.RoleAdmin))

	// --- API v1 (bearer token required) ---
	v1 := e.Group("/v1", authMiddleware)

	v1.POST("/restaurants", restaurantHandler.Create, middleware.RBAC(domain.RoleRestaurantOwner, domain.RoleAdmin))
	v1.GET("/restaurants/:id", restaurantHandler.Get)
	v1.DELETE("/restaurants/:id", restaurantHandler.Delete)
	v1.GET("/restaurants/:id/settings", restaurantHandler.GetSettings)
	v1.PUT("/restaurants/:id/settings", restaurantHandler.UpdateSettings)

	v1.GET("/restaurants/:id/tables", tableHandler.List)
	v1.POST("/restaurants/:id/tables", tableHandler.Create)
	v1.PUT("/tables/:id", tableHandler.Update)
	v1.DELETE("/tables/:id", tableHandler.Delete)

	v1.GET("/restaurants/:id/employees", staffHandler.ListEmployees)
	v1.POST("/restaurants/:id/employees", staffHandler.Hire)
	v1.GET("/employees/:id", staffHandler.GetEmployee)
	v1.DELETE("/employees/:id", staffHandler.DeleteEmployee)
	v1.PATCH("/employees/:id/role", staffHandler.UpdateRole)
	v1.PATCH("/employees/:id/active", staffHandler.SetActive)
	v1.GET("/employees/:id/permissions", staffHandler.ListPermissions)
	v1.POST("/employees/:id/permissions", staffHandler.Grant)
	v1.DELETE("/permissions/:id", staffHandler.Revoke)

	v1.GET("/restaurants/:id/reservations", reservationHandler.List)
	v1.POST("/reservations", reservationHandler.Create)
	v1.GET("/reservations/mine", reservationHandler.ListMine)
	v1.GET("/reservations/:id", reservationHandler.Get)
	v1.PUT("/reservations/:id", reservationHandler.Update)
	v1.DELETE("/reservations/:id", reservationHandler.Delete)
	v1.PATCH("/reservations/:id/status", reservationHandler.UpdateStatus)
	v1.POST("/reservations/:id/cancel", reservationHandler.Cancel)

	v1.GET("/restaurants/:id/table-reservations", bookingHandler.List)
	v1.POST("/table-reservations", bookingHandler.Create)
	v1.GET("/table-reservations/mine", bookingHandler.ListMine)
	v1.GET("/table-reservations/:id", bookingHandler.Get)
	v1.PUT("/table-reservations/:id", bookingHandler.Update)
	v1.DELETE("/table-reservations/:id", bookingHandler.Delete)
	v1.PATCH("/table-reservations/:id/status", bookingHandler.UpdateStatus)
	v1.POST("/table-reservations/:id/cancel", bookingHandler.Cancel)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(o.Mongo, o.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
