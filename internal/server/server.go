// Package server wires repositories, services and handlers into a fiber app.
package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"

	"crudefi-api/internal/apperror"
	"crudefi-api/internal/handler"
	"crudefi-api/internal/middleware"
	"crudefi-api/internal/model"
	"crudefi-api/internal/permission"
	"crudefi-api/internal/repository"
	"crudefi-api/internal/response"
	"crudefi-api/internal/service"
	"crudefi-api/internal/ws"
	"crudefi-api/pkg/config"
	"crudefi-api/pkg/jwt"
)

// Deps are the long-lived objects main owns.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Table  *permission.Table
	Tokens *jwt.Manager
	// Hub is optional; without it no /ws route is mounted and no events are sent.
	Hub *ws.Hub
	// AccessLog enables fiber's request logger.
	AccessLog bool
}

// NewApp builds the HTTP application. It fails when a route declares a
// resource/action pair that the permission table does not know.
func NewApp(deps Deps) (*fiber.App, error) {
	if deps.Config == nil || deps.DB == nil || deps.Table == nil || deps.Tokens == nil {
		return nil, errors.New("server: config, db, table and tokens are required")
	}

	var notifier service.Notifier
	if deps.Hub != nil {
		notifier = deps.Hub
	}

	// Repositories
	userRepo := repository.NewUserRepo(deps.DB)
	workRoleRepo := repository.NewWorkRoleRepo(deps.DB)
	staffRepo := repository.NewStaffRepo(deps.DB)
	shiftRepo := repository.NewShiftRepo(deps.DB)
	salaryRepo := repository.NewSalaryRepo(deps.DB)
	supplierRepo := repository.NewCrudRepo[model.Supplier](deps.DB, "name ASC")
	fruitRepo := repository.NewCrudRepo[model.Fruit](deps.DB, "name ASC")
	deliveryRepo := repository.NewCrudRepo[model.FruitDelivery](deps.DB, "delivery_date DESC", "Supplier", "Fruit")
	extractionRepo := repository.NewCrudRepo[model.OilExtraction](deps.DB, "extraction_date DESC", "Fruit")
	expenseRepo := repository.NewCrudRepo[model.Expense](deps.DB, "expense_date DESC")
	assetRepo := repository.NewCrudRepo[model.Asset](deps.DB, "purchase_date DESC")

	// Services
	authService := service.NewAuthService(userRepo, deps.Tokens)
	userService := service.NewUserService(userRepo)
	shiftService := service.NewShiftService(shiftRepo, staffRepo, workRoleRepo, salaryRepo, notifier)
	salaryService := service.NewSalaryService(salaryRepo, shiftRepo, workRoleRepo, notifier)
	assetService := service.NewAssetService(assetRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, deps.Table)
	userHandler := handler.NewUserHandler(userService)
	shiftHandler := handler.NewShiftHandler(shiftService)
	salaryHandler := handler.NewSalaryHandler(salaryService)
	assetHandler := handler.NewAssetHandler(assetService)
	supplierHandler := handler.NewCrudHandler(service.NewSupplierService(supplierRepo), "Supplier")
	fruitHandler := handler.NewCrudHandler(service.NewFruitService(fruitRepo), "Fruit")
	deliveryHandler := handler.NewCrudHandler(service.NewDeliveryService(deliveryRepo, supplierRepo, fruitRepo, notifier), "Fruit delivery")
	extractionHandler := handler.NewCrudHandler(service.NewExtractionService(extractionRepo, fruitRepo, deliveryRepo, notifier), "Oil extraction")
	expenseHandler := handler.NewCrudHandler(service.NewExpenseService(expenseRepo), "Expense")
	workRoleHandler := handler.NewCrudHandler(service.NewWorkRoleService(workRoleRepo), "Work role")
	staffHandler := handler.NewCrudHandler(service.NewStaffService(staffRepo, workRoleRepo, userRepo), "Staff")

	app := fiber.New(fiber.Config{
		AppName: "CrudeFi API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(response.Envelope{Success: false, Message: fe.Message, Code: codeForStatus(fe.Code)})
			}
			return response.Error(c, err)
		},
	})

	// Middleware
	app.Use(requestid.New())
	if deps.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins(deps.Config.Server.CORSOrigins),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return response.Message(c, "ok")
	})

	requireAuth := middleware.RequireAuth(middleware.AuthConfig{
		Auth:              authService,
		Table:             deps.Table,
		DevAutoLoginEmail: deps.Config.Server.DevAutoLoginEmail,
	})

	api := app.Group("/api")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)

	// ============ AUTHENTICATED ROUTES ============
	auth.Get("/me", requireAuth, authHandler.Me)
	auth.Post("/change-password", requireAuth, authHandler.ChangePassword)
	api.Get("/permissions", requireAuth, authHandler.Permissions)

	// ============ PERMISSION-CHECKED ROUTES ============
	r := &router{group: api, auth: requireAuth, table: deps.Table}

	// Shifts. Fixed paths go before /:id.
	r.handle(fiber.MethodGet, "/shifts", permission.ResourceShifts, permission.ActionRead, shiftHandler.GetShifts)
	r.handle(fiber.MethodGet, "/shifts/open", permission.ResourceShifts, permission.ActionRead, shiftHandler.GetOpenShifts)
	r.handle(fiber.MethodGet, "/shifts/staff/:staff_id", permission.ResourceShifts, permission.ActionRead, shiftHandler.GetStaffShifts)
	r.handle(fiber.MethodGet, "/shifts/:id", permission.ResourceShifts, permission.ActionRead, shiftHandler.GetShift)
	r.handle(fiber.MethodPost, "/shifts/open", permission.ResourceShifts, permission.ActionCreate, shiftHandler.OpenShift)
	r.handle(fiber.MethodPost, "/shifts", permission.ResourceShifts, permission.ActionCreate, shiftHandler.OpenShift)
	r.handle(fiber.MethodPost, "/shifts/:id/close", permission.ResourceShifts, permission.ActionUpdate, shiftHandler.CloseShift)
	r.handle(fiber.MethodPut, "/shifts/:id", permission.ResourceShifts, permission.ActionUpdate, shiftHandler.CloseShift)
	r.handle(fiber.MethodDelete, "/shifts/:id", permission.ResourceShifts, permission.ActionDelete, shiftHandler.DeleteShift)

	// Salary
	r.handle(fiber.MethodGet, "/salary", permission.ResourceSalary, permission.ActionRead, salaryHandler.GetSalaries)
	r.handle(fiber.MethodGet, "/salary/summary", permission.ResourceSalary, permission.ActionRead, salaryHandler.GetSummary)
	r.handle(fiber.MethodGet, "/salary/:id", permission.ResourceSalary, permission.ActionRead, salaryHandler.GetSalary)
	r.handle(fiber.MethodPost, "/salary", permission.ResourceSalary, permission.ActionCreate, salaryHandler.CreateSalary)
	r.handle(fiber.MethodPut, "/salary/:id/pay", permission.ResourceSalary, permission.ActionUpdate, salaryHandler.MarkPaid)
	r.handle(fiber.MethodDelete, "/salary/:id", permission.ResourceSalary, permission.ActionDelete, salaryHandler.DeleteSalary)

	// Assets
	r.handle(fiber.MethodGet, "/assets/:id/depreciation", permission.ResourceAssets, permission.ActionRead, assetHandler.Depreciation)
	r.crud("/assets", permission.ResourceAssets, assetHandler)

	// Plain CRUD resources
	r.crud("/fruit-deliveries", permission.ResourceFruitDeliveries, deliveryHandler)
	r.crud("/suppliers", permission.ResourceSuppliers, supplierHandler)
	r.crud("/fruits", permission.ResourceFruits, fruitHandler)
	r.crud("/oil-extractions", permission.ResourceOilExtractions, extractionHandler)
	r.crud("/expenses", permission.ResourceExpenses, expenseHandler)
	r.crud("/roles", permission.ResourceRoles, workRoleHandler)
	r.crud("/staff", permission.ResourceStaff, staffHandler)

	// Users
	r.handle(fiber.MethodGet, "/users", permission.ResourceUsers, permission.ActionRead, userHandler.GetUsers)
	r.handle(fiber.MethodGet, "/users/:id", permission.ResourceUsers, permission.ActionRead, userHandler.GetUser)
	r.handle(fiber.MethodPost, "/users", permission.ResourceUsers, permission.ActionCreate, userHandler.CreateUser)
	r.handle(fiber.MethodPut, "/users/:id", permission.ResourceUsers, permission.ActionUpdate, userHandler.UpdateUser)
	r.handle(fiber.MethodDelete, "/users/:id", permission.ResourceUsers, permission.ActionDelete, userHandler.DeleteUser)

	if err := r.validate(); err != nil {
		return nil, err
	}

	// WebSocket Route
	if deps.Hub != nil {
		app.Use("/ws", handler.UpgradeWS)
		app.Get("/ws", middleware.RequireAuth(middleware.AuthConfig{
			Auth:            authService,
			Table:           deps.Table,
			AllowQueryToken: true,
		}), handler.ServeWS(deps.Hub))
	}

	return app, nil
}

type routePair struct {
	method   string
	path     string
	resource permission.Resource
	action   permission.Action
}

// router mounts permission-checked routes and remembers the pair each one
// declares so they can be checked against the table once.
type router struct {
	group fiber.Router
	auth  fiber.Handler
	table *permission.Table
	pairs []routePair
}

type crudEndpoints interface {
	List(c *fiber.Ctx) error
	Get(c *fiber.Ctx) error
	Create(c *fiber.Ctx) error
	Update(c *fiber.Ctx) error
	Delete(c *fiber.Ctx) error
}

func (r *router) handle(method, path string, resource permission.Resource, action permission.Action, h fiber.Handler) {
	r.pairs = append(r.pairs, routePair{method: method, path: path, resource: resource, action: action})
	r.group.Add(method, path, r.auth, middleware.Authorize(r.table, resource, action), h)
}

func (r *router) crud(path string, resource permission.Resource, h crudEndpoints) {
	r.handle(fiber.MethodGet, path, resource, permission.ActionRead, h.List)
	r.handle(fiber.MethodGet, path+"/:id", resource, permission.ActionRead, h.Get)
	r.handle(fiber.MethodPost, path, resource, permission.ActionCreate, h.Create)
	r.handle(fiber.MethodPut, path+"/:id", resource, permission.ActionUpdate, h.Update)
	r.handle(fiber.MethodDelete, path+"/:id", resource, permission.ActionDelete, h.Delete)
}

func (r *router) validate() error {
	var errs []error
	for _, p := range r.pairs {
		if err := r.table.Validate(p.resource, p.action); err != nil {
			errs = append(errs, fmt.Errorf("route %s %s: %w", p.method, p.path, err))
		}
	}
	return errors.Join(errs...)
}

func corsOrigins(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "*"
	}
	return raw
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusUnauthorized:
		return apperror.KindUnauthenticated.String()
	case fiber.StatusForbidden:
		return apperror.KindForbidden.String()
	case fiber.StatusNotFound:
		return apperror.KindNotFound.String()
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return apperror.KindValidation.String()
	default:
		return apperror.KindInternal.String()
	}
}
