package main

import (
	"context"
	"errors"
	"fmt"

	"ainews-console/internal/backend"
	common_api "ainews-console/internal/common/api"
	"ainews-console/internal/config"
	"ainews-console/internal/export"
	"ainews-console/internal/features/admin"
	"ainews-console/internal/features/auth"
	"ainews-console/internal/features/countries"
	"ainews-console/internal/features/dialogs"
	"ainews-console/internal/features/gdpr"
	"ainews-console/internal/features/plans"
	"ainews-console/internal/features/public"
	socket_feature "ainews-console/internal/features/socket"
	"ainews-console/internal/features/sources"
	"ainews-console/internal/features/subscribers"
	"ainews-console/internal/features/system"
	"ainews-console/internal/features/tags"
	"ainews-console/internal/features/theme"
	"ainews-console/internal/features/user"
	"ainews-console/internal/logger"
	"ainews-console/internal/middleware"
	"ainews-console/internal/screen"
	"ainews-console/internal/session"
	"ainews-console/internal/socket"
	"ainews-console/internal/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates the Fiber app with the console-wide middleware.
func NewFiberServer(cfg *config.Config, sessions *session.Store) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		// Sessions keep ids and slugs across requests.
		Immutable: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware(cfg))

	// Every console route runs inside a session; applied once here so route
	// groups do not resolve it twice.
	app.Use("/console", middleware.SessionMiddleware(sessions))

	return app
}

// AsRoute tags the constructor so Fx adds it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// AsScreen adds a screen definition to the "screens" group.
func AsScreen(f any) any {
	return fx.Annotate(
		f,
		fx.ResultTags(`group:"screens"`),
	)
}

var NewRegistryFromScreens = fx.Annotate(
	screen.NewRegistry,
	fx.ParamTags(`group:"screens"`),
)

// RegisterAllRoutes calls Setup() on each member of the "routes" group.
func RegisterAllRoutes(app *fiber.App, log *zap.Logger, routes []common_api.Route) {
	log.Info("registering routes", zap.Int("count", len(routes)))
	for _, route := range routes {
		log.Debug("setting up route", zap.String("route", fmt.Sprintf("%T", route)))
		route.Setup(app)
	}
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, ``, `group:"routes"`),
)

// StartServer runs Fiber in a goroutine and shuts it down with the app.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config, log *zap.Logger, shutdown fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				log.Info("console listening", zap.String("addr", port), zap.String("backend", cfg.BackendURL))
				if err := app.Listen(port); err != nil {
					log.Error("server failed", zap.Error(err))
					shutdown.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}

// @title           AI News Console API
// @version         1.0
// @description     Session-scoped admin screens and reader pages for the AI news backend.

// @host            localhost:8090
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,

			storage.NewFromConfig,
			backend.NewFromConfig,
			socket.NewFromConfig,

			// Screens
			AsScreen(tags.NewDefinition),
			AsScreen(sources.NewDefinition),
			AsScreen(countries.NewDefinition),
			AsScreen(gdpr.NewConsentsDefinition),
			AsScreen(gdpr.NewRequestsDefinition),
			AsScreen(gdpr.NewBreachesDefinition),
			AsScreen(gdpr.NewRetentionDefinition),
			AsScreen(plans.NewDefinition),
			AsScreen(subscribers.NewDefinition),
			NewRegistryFromScreens,

			session.NewStoreFromConfig,
			export.NewFromConfig,
			NewFiberServer,

			// Services
			admin.NewAdminService,
			theme.NewThemeService,
			user.NewUserService,

			// Controllers
			admin.NewAdminController,
			auth.NewAuthController,
			dialogs.NewDialogsController,
			public.NewPublicController,
			theme.NewThemeController,
			user.NewUserController,
			socket_feature.NewSocketController,
			system.NewHealthController,

			// Routes
			AsRoute(admin.NewAdminApi),
			AsRoute(auth.NewAuthApi),
			AsRoute(dialogs.NewDialogsApi),
			AsRoute(public.NewPublicApi),
			AsRoute(theme.NewThemeApi),
			AsRoute(user.NewUserApi),
			AsRoute(socket_feature.NewSocketApi),
			AsRoute(system.NewHealthApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			StartServer,
			// Constructing the export service registers its scheduler.
			func(export.ExportService) {},
		),
	)

	app.Run()
}
