package app

import (
	"net/http"
	"time"

	"synergies-backend/internal/auth"
	"synergies-backend/internal/commission"
	"synergies-backend/internal/config"
	"synergies-backend/internal/constants"
	"synergies-backend/internal/database"
	"synergies-backend/internal/emails"
	"synergies-backend/internal/employees"
	"synergies-backend/internal/health"
	"synergies-backend/internal/middleware"
	"synergies-backend/internal/notes"
	"synergies-backend/internal/recommendation"
	"synergies-backend/internal/reminders"
	"synergies-backend/internal/suggestions"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration. The DB and Redis clients are returned for startup pings.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	// CORS (before session)
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	// Session (Redis); the health marker reuses the same client
	sessionHandler, rdb, err := middleware.Session(middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	})
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.ResponseFormatter())
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	// --- Health (no auth) ---
	healthHandlers := &health.Handlers{
		Rdb:      rdb,
		DB:       nil, // wired after database init below
		AdminKey: cfg.HealthAdminKey,
	}
	app.Get("/health/json", healthHandlers.JSON)
	app.Get("/health/errors", healthHandlers.Errors)
	app.Get("/health/reset", healthHandlers.Reset)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if cfg.AutoMigrate {
			if err := database.AutoMigrate(db); err != nil {
				return nil, nil, nil, err
			}
		}
	}
	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}

	// --- Auth (no auth middleware) ---
	var finder auth.EmployeeFinder
	if db != nil {
		finder = &auth.GormEmployeeFinder{DB: db}
	}
	authHandlers := &auth.Handlers{Finder: finder, Rdb: rdb, Config: sessionCfg}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	sender := &emails.ResendClient{APIKey: cfg.ResendAPIKey, MailFrom: cfg.MailFrom}

	// --- Protected modules ---
	if db != nil && rdb != nil {
		healthHandlers.DB = database.Pinger(db)

		commissionService := &commission.Service{DB: db}
		recoService := &recommendation.Service{DB: db, Commissions: commissionService, Sender: sender}
		recoHandlers := &recommendation.Handlers{Service: recoService}
		recoGroup := app.Group("/api/v1/recos", middleware.RequireAuth())
		recoGroup.Post("/", middleware.AuthorizePermission(constants.CreateReco), recoHandlers.Create)
		recoGroup.Get("/inbox", middleware.AuthorizePermission(constants.ViewOwn), recoHandlers.Inbox)
		recoGroup.Get("/outbox", middleware.AuthorizePermission(constants.ViewOwn), recoHandlers.Outbox)
		recoGroup.Get("/kanban", middleware.AuthorizePermission(constants.ViewOwn), recoHandlers.Kanban)
		recoGroup.Get("/admin", middleware.AuthorizePermission(constants.ViewDirection), recoHandlers.AdminList)
		recoGroup.Get("/admin/export", middleware.AuthorizePermission(constants.ExportData), recoHandlers.AdminExport)
		recoGroup.Get("/:id", middleware.AuthorizePermission(constants.ViewOwn), recoHandlers.Get)
		recoGroup.Patch("/:id/intake-status", middleware.AuthorizePermission(constants.ViewOwn), recoHandlers.UpdateIntakeStatus)
		recoGroup.Patch("/:id/deal-stage", middleware.AuthorizePermission(constants.ViewOwn), recoHandlers.UpdateDealStage)
		recoGroup.Post("/:id/relance", middleware.AuthorizePermission(constants.ViewOwn), recoHandlers.Relance)

		commissionHandlers := &commission.Handlers{Service: commissionService}
		commGroup := app.Group("/api/v1/commissions", middleware.RequireAuth(), middleware.AuthorizePermission(constants.ManageCommissions))
		commGroup.Get("/", commissionHandlers.Ledger)
		commGroup.Get("/export", middleware.AuthorizePermission(constants.ExportData), commissionHandlers.Export)
		commGroup.Patch("/:id/amount", commissionHandlers.UpdateAmount)
		commGroup.Patch("/:id/due-date", commissionHandlers.UpdateDueDate)
		commGroup.Patch("/:id/mark-paid", commissionHandlers.MarkPaid)
		commGroup.Patch("/:id/toggle-validation", commissionHandlers.ToggleValidation)
		commGroup.Get("/:id/logs", commissionHandlers.Logs)

		notesService := &notes.Service{DB: db}
		notesHandlers := notes.NewHandlers(notesService)
		recoGroup.Get("/:id/notes", middleware.AuthorizePermission(constants.AddNote), notesHandlers.List)
		recoGroup.Post("/:id/notes", middleware.AuthorizePermission(constants.AddNote), notesHandlers.Add)
		app.Delete("/api/v1/notes/:id", middleware.RequireAuth(), middleware.AuthorizePermission(constants.AddNote), notesHandlers.Delete)

		suggestionsService := &suggestions.Service{DB: db}
		suggestionsHandlers := suggestions.NewHandlers(suggestionsService)
		suggGroup := app.Group("/api/v1/suggestions", middleware.RequireAuth())
		suggGroup.Post("/", middleware.AuthorizePermission(constants.SuggestFeature), suggestionsHandlers.Submit)
		suggGroup.Get("/", middleware.AuthorizePermission(constants.ViewDirection), suggestionsHandlers.List)

		employeesService := &employees.Service{DB: db}
		employeesHandlers := employees.NewHandlers(employeesService)
		empGroup := app.Group("/api/v1/employees", middleware.RequireAuth())
		empGroup.Get("/", employeesHandlers.Directory)
		empGroup.Get("/team", middleware.AuthorizePermission(constants.ViewTeams), employeesHandlers.Team)
		empGroup.Get("/:id", employeesHandlers.Get)

		emailHandlers := &emails.Handlers{Sender: sender}
		app.Post("/api/send-email", middleware.RequireAuth(), emailHandlers.SendEmail)

		remindersService := &reminders.Service{
			DB:             db,
			Sender:         sender,
			DirectionEmail: cfg.DirectionEmail,
			Pause:          600 * time.Millisecond,
		}
		remindersHandlers := reminders.NewHandlers(remindersService)
		cronGroup := app.Group("/api/cron", middleware.RequireCronSecret(cfg.CronSecret))
		cronGroup.Get("/reminder-48h", remindersHandlers.Reminder48h)
		cronGroup.Get("/reminder-72h-manager", remindersHandlers.Reminder72hManager)
		cronGroup.Get("/notify-manager-closed-won", remindersHandlers.NotifyManagerClosedWon)
		cronGroup.Get("/commission-due", remindersHandlers.CommissionsDue)
	}

	return app, db, rdb, nil
}

// Handler adapts the Fiber app to net/http for serverless deployments.
func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
