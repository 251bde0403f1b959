package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/auditgrid/auth"
	"github.com/auditgrid/auth/social"
	"github.com/auditgrid/auth/social/providers/google"
	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	zl, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer zl.Sync()

	logger := newZapLogger(zl)

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *ServerConfig, logger auth.Logger) error {
	ctx := context.Background()

	db, err := openDatabase(ctx, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	repos := auth.NewRepositoryManager(db)
	repos.MustValidate()

	provider := auth.NewAccountProvider(repos.Accounts()).WithLogger(logger)
	auther := auth.NewAuthenticator(provider, cfg).WithLogger(logger)

	app := fiber.New(fiber.Config{
		AppName: "auditgrid auth",
	})

	auth.RegisterAuthRoutes(app,
		auth.WithControllerLogger(logger),
		auth.WithControllerRepo(repos),
		auth.WithControllerAuther(auther),
		auth.WithControllerConfig(cfg),
	)

	registerSocialRoutes(app, cfg, repos, auther, logger)
	registerDashboard(app, cfg, auther)

	errs := make(chan error, 1)
	go func() {
		errs <- app.Listen(cfg.Server.Addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errs:
		return err
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
		return app.Shutdown()
	}
}

func openDatabase(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if _, err := db.NewCreateTable().
		Model((*auth.Account)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func registerSocialRoutes(app *fiber.App, cfg *ServerConfig, repos auth.RepositoryManager, auther *auth.Auther, logger auth.Logger) {
	if cfg.Google.ClientID == "" {
		logger.Info("google sign in disabled, no client id configured")
		return
	}

	linker := social.NewLinker(repos.Accounts(), social.WithLogger(logger))

	controller := social.NewHTTPController(
		linker,
		auther.TokenService(),
		cfg,
		social.HTTPConfig{},
		social.WithControllerLogger(logger),
		social.WithProvider(google.New(google.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			CallbackURL:  cfg.Google.CallbackURL,
		})),
	)

	controller.RegisterRoutes(app)
}

func registerDashboard(app *fiber.App, cfg *ServerConfig, auther *auth.Auther) {
	app.Get("/dashboard",
		auth.ProtectedRoute(cfg, auther.TokenService()),
		func(ctx *fiber.Ctx) error {
			claims, ok := auth.ClaimsFromContext(ctx, cfg)
			if !ok {
				return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Unauthorized",
				})
			}

			return ctx.JSON(fiber.Map{
				"id":    claims.UserID(),
				"email": claims.Email(),
				"name":  claims.Name(),
				"role":  claims.Role(),
			})
		})
}
