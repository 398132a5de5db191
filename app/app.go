// Package app assembles the Fiber application: template engine, middleware
// chain, error handling and routes.
package app

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"dbconsole/activity"
	"dbconsole/assets"
	"dbconsole/auth"
	"dbconsole/config"
	"dbconsole/datasets"
	"dbconsole/handlers/api"
	"dbconsole/handlers/web"
	"dbconsole/metrics"
	"dbconsole/middleware"
	"dbconsole/models"
	"dbconsole/session"
	"dbconsole/storage"
	"dbconsole/templates"
	"dbconsole/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"
	"github.com/gofiber/websocket/v2"
)

// Deps are the long-lived services the handlers share
type Deps struct {
	// SessionStorage backs the browser sessions; nil keeps them in memory
	SessionStorage fiber.Storage
	Authenticator  session.Authenticator
	Accounts       []session.Account
	Preferences    *storage.PreferenceStorage
	Registry       *datasets.Registry
	Feed           *activity.Feed
	Metrics        *metrics.Metrics
	Tokens         *auth.TokenIssuer
}

// New builds the application
func New(cfg *config.Config, deps Deps) *fiber.App {
	engine := html.NewFileSystem(http.FS(templates.FS), ".html")
	addFuncs(engine)

	app := fiber.New(fiber.Config{
		Views:                 engine,
		ViewsLayout:           "layouts/main",
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{Output: utils.Log.Zerolog()}))
	app.Use(compress.New(compress.Config{
		// Compression would buffer the event stream
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/activity")
		},
	}))
	app.Use(helmet.New(helmet.Config{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "SAMEORIGIN",
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline';",
	}))
	if headers := cfg.GetSecurityHeaders(); len(headers) > 0 {
		app.Use(func(c *fiber.Ctx) error {
			for k, v := range headers {
				c.Set(k, v)
			}
			return c.Next()
		})
	}

	app.Use("/assets", filesystem.New(filesystem.Config{
		Root:   http.FS(assets.FS),
		MaxAge: int((24 * time.Hour).Seconds()),
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	app.Get("/metrics", deps.Metrics.Handler())

	app.Use(middleware.LocaleMiddleware())
	app.Use(middleware.CSRFProtection(middleware.CSRFConfig{
		TokenLength:  32,
		CookieName:   "csrf_token",
		HeaderName:   "X-CSRF-Token",
		FormField:    "_csrf",
		ContextKey:   "csrf",
		CookieMaxAge: 3600,
		CookieSecure: cfg.Session.CookieSecure,
		// Bearer-token API calls carry no ambient credentials
		Skipper: func(c *fiber.Ctx) bool {
			return middleware.IsAPIRequest(c) && middleware.HasBearer(c)
		},
	}))

	store := middleware.NewSessionStore(deps.SessionStorage, cfg.Session.Expiration, cfg.Session.CookieSecure)
	app.Use(middleware.SessionScope(store, deps.Authenticator))

	registerRoutes(app, cfg, deps, store)

	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundError(utils.TLang(middleware.Lang(c), "error_404"), nil)
	})

	return app
}

func registerRoutes(app *fiber.App, cfg *config.Config, deps Deps, store *fibersession.Store) {
	authHandler := web.NewAuthHandler(store, deps.Registry, deps.Feed, deps.Metrics, deps.Accounts)
	dashboardHandler := web.NewDashboardHandler(store, deps.Registry, deps.Feed)
	dialogHandler := web.NewDialogHandler(store, deps.Registry, deps.Feed, deps.Metrics)
	settingsHandler := web.NewSettingsHandler(deps.Preferences)
	adminHandler := web.NewAdminHandler(deps.Preferences, deps.Feed)

	sessionHandler := api.NewSessionHandler(deps.Tokens)
	tablesHandler := api.NewTablesHandler(store, deps.Registry, deps.Feed, deps.Metrics)
	activityHandler := api.NewActivityHandler(deps.Feed, deps.Metrics)
	i18nHandler := &api.I18nHandler{}

	requireAuth := middleware.RequireAuth()
	requireAdmin := middleware.RequireRole(models.RoleAdmin)

	// Public routes
	app.Get("/", authHandler.ShowIndex)
	app.Get("/login", authHandler.ShowLogin)
	app.Post("/login", middleware.RateLimiter(cfg.Server.RateLimitPerMinute, time.Minute), authHandler.HandleLogin)
	app.Post("/logout", authHandler.HandleLogout)

	// Pages
	app.Get("/dashboard", requireAuth, dashboardHandler.ShowDashboard)
	app.Get("/reports", requireAuth, dashboardHandler.ShowReports)

	dialogs := app.Group("/dialogs", requireAuth)
	dialogs.Get("/:kind", dialogHandler.ShowDialog)
	dialogs.Post("/:kind/rows", dialogHandler.AddRow)
	dialogs.Post("/:kind/rows/:id", dialogHandler.UpdateRow)
	dialogs.Post("/:kind/rows/:id/delete", dialogHandler.DeleteRow)

	settings := app.Group("/settings", requireAuth)
	settings.Get("", settingsHandler.ShowSettings)
	settings.Post("/profile", settingsHandler.UpdateProfile)
	settings.Post("/password", settingsHandler.ChangePassword)
	settings.Post("/notifications", settingsHandler.ToggleNotification)
	settings.Post("/system", requireAdmin, adminHandler.ToggleSystem)

	// API routes
	apiRoutes := app.Group("/api", middleware.BearerAuth(deps.Tokens))
	{
		apiRoutes.Get("/session", sessionHandler.GetSession)
		apiRoutes.Post("/session/token", requireAuth, sessionHandler.IssueToken)
		apiRoutes.Get("/i18n/:lang", i18nHandler.GetTranslations)

		tables := apiRoutes.Group("/tables", requireAuth)
		tables.Get("/:kind", tablesHandler.ListRows)
		tables.Post("/:kind", tablesHandler.CreateRow)
		tables.Put("/:kind/:id", tablesHandler.UpdateRow)
		tables.Delete("/:kind/:id", tablesHandler.DeleteRow)

		feed := apiRoutes.Group("/activity", requireAdmin)
		feed.Get("", activityHandler.ListActivity)
		feed.Get("/stream", activityHandler.HandleSSE)
		feed.Get("/ws", api.UpgradeWebSocket, websocket.New(activityHandler.HandleWebSocket))
	}
}

// errorHandler maps AppError and fiber.Error to a status and answers with
// JSON for API and HTMX requests, the error page otherwise
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()

	var appErr *utils.AppError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		code = appErr.Code
		message = appErr.Message
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	}

	log := utils.Log
	if appErr != nil && len(appErr.Context) > 0 {
		log = log.WithFields(appErr.Context)
	}
	if code >= fiber.StatusInternalServerError {
		log.Error("Application error on %s %s: %v", c.Method(), c.Path(), err)
		message = utils.TLang(middleware.Lang(c), "error_500")
	} else {
		log.Debug("Request error on %s %s: %v", c.Method(), c.Path(), err)
	}

	if middleware.IsAPIRequest(c) {
		return c.Status(code).JSON(fiber.Map{
			"error": message,
		})
	}

	if renderErr := web.RenderError(c, code, message); renderErr != nil {
		utils.Log.Error("Failed to render error page: %v", renderErr)
		return c.Status(code).SendString(message)
	}
	return nil
}
