package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/HuongLanTo/split-money/internal/auth"
	"github.com/HuongLanTo/split-money/internal/config"
	"github.com/HuongLanTo/split-money/internal/middleware"
	"github.com/HuongLanTo/split-money/internal/service"
	"github.com/HuongLanTo/split-money/internal/storage/sqlite"
	"github.com/HuongLanTo/split-money/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	authSvc := service.NewAuthService(authenticator, jwtManager)
	groupSvc := service.NewGroupService(store)
	expenseSvc := service.NewExpenseService(store)

	app := newApp()
	registerRoutes(app, jwtManager, authSvc, groupSvc, expenseSvc)

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Server starting", "address", addr)
	if err := app.Listen(addr); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// newApp builds the Fiber application with the shared middleware chain.
func newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "split-money",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
				message = fiberErr.Message
			}

			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	app.Use(cors.New())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.Metrics())

	return app
}

// registerRoutes wires the REST surface.
func registerRoutes(
	app *fiber.App,
	jwtManager *auth.JWTManager,
	authSvc *service.AuthService,
	groupSvc *service.GroupService,
	expenseSvc *service.ExpenseService,
) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("Split Money is running")
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	api.Post("/auth/register", authSvc.Register)
	api.Post("/auth/login", authSvc.Login)

	authenticated := middleware.RequireAuth(jwtManager)

	groups := api.Group("/groups", authenticated)
	groups.Post("/", groupSvc.CreateGroup)
	groups.Get("/", groupSvc.ListGroups)
	groups.Get("/:groupId", groupSvc.GetGroup)
	groups.Post("/:groupId/member", groupSvc.AddMember)
	groups.Delete("/:groupId/member/:userId", groupSvc.RemoveMember)

	expenses := api.Group("/expenses", authenticated)
	expenses.Post("/", expenseSvc.CreateExpense)
	expenses.Get("/group/:groupId", expenseSvc.ListGroupExpenses)
	expenses.Get("/group/:groupId/balances", expenseSvc.GroupBalances)
	expenses.Get("/me", expenseSvc.MyExpenses)
	expenses.Get("/me/balances", expenseSvc.MyBalances)
}
