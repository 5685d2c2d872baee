package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/aegisops/guardops/internal"
	"github.com/aegisops/guardops/internal/armory"
	armorypg "github.com/aegisops/guardops/internal/armory/postgres"
	"github.com/aegisops/guardops/internal/core/events"
	"github.com/aegisops/guardops/internal/fleet"
	fleetpg "github.com/aegisops/guardops/internal/fleet/postgres"
	"github.com/aegisops/guardops/internal/guard"
	guardpg "github.com/aegisops/guardops/internal/guard/postgres"
	"github.com/aegisops/guardops/internal/merit"
	meritpg "github.com/aegisops/guardops/internal/merit/postgres"
	"github.com/aegisops/guardops/internal/mission"
	missionpg "github.com/aegisops/guardops/internal/mission/postgres"
	"github.com/aegisops/guardops/internal/notification"
	notificationpg "github.com/aegisops/guardops/internal/notification/postgres"
	"github.com/aegisops/guardops/internal/replacement"
	replacementpg "github.com/aegisops/guardops/internal/replacement/postgres"
	"github.com/aegisops/guardops/internal/shift"
	shiftpg "github.com/aegisops/guardops/internal/shift/postgres"
	"github.com/aegisops/guardops/internal/transport/rest"
	"github.com/aegisops/guardops/internal/transport/swagger"
	"github.com/aegisops/guardops/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	GormDB   *gorm.DB
	Router   *chi.Mux
	Handlers rest.Handlers
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := swagger.ValidateSpec("./api/openapi.yml"); err != nil {
		slog.Warn("OpenAPI spec validation failed, swagger UI may be broken", "error", err)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Handlers, deps.Config.Security.JWTSecret, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"), config.Observability.Logging.Level)
	lg := logger.L()

	db, gormDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	handlers := buildHandlers(config, gormDB, lg)

	return &Dependencies{
		Config:   config,
		Logger:   lg,
		DB:       db,
		GormDB:   gormDB,
		Router:   chi.NewRouter(),
		Handlers: handlers,
	}, nil
}

func buildHandlers(config *internal.Config, gormDB *gorm.DB, lg *slog.Logger) rest.Handlers {
	bus := events.NewEventBus(lg)
	grace := time.Duration(config.Allocation.GracePeriodMinutes) * time.Minute

	guardRepo := guardpg.NewGuardRepository(gormDB)
	guardService := guard.NewService(guardRepo, lg)

	armoryRepo := armorypg.NewArmoryRepository(gormDB)
	gate := armory.NewGate(armoryRepo, lg)
	armoryService := armory.NewService(armoryRepo, guardService, gate, bus, lg)

	fleetRepo := fleetpg.NewFleetRepository(gormDB)
	fleetService := fleet.NewService(fleetRepo, guardService, lg)

	shiftRepo := shiftpg.NewShiftRepository(gormDB)
	shiftService := shift.NewService(shiftRepo, guardService, grace, lg)

	notificationRepo := notificationpg.NewNotificationRepository(gormDB)
	notificationService := notification.NewService(notificationRepo, lg)

	replacementRepo := replacementpg.NewReplacementRepository(gormDB)
	replacementService := replacement.NewService(
		replacementRepo, guardService, notificationService, bus,
		grace, config.Allocation.CandidateCap, lg)

	missionRepo := missionpg.NewMissionRepository(gormDB)
	missionService := mission.NewService(missionRepo, bus, lg)

	meritRepo := meritpg.NewMeritRepository(gormDB)
	meritService := merit.NewService(meritRepo, guardService, config.Allocation.OvertimeLimit, lg)

	return rest.Handlers{
		Guard:        guard.NewHandler(guardService),
		Armory:       armory.NewHandler(armoryService),
		Fleet:        fleet.NewHandler(fleetService),
		Shift:        shift.NewHandler(shiftService),
		Replacement:  replacement.NewHandler(replacementService),
		Mission:      mission.NewHandler(missionService),
		Merit:        merit.NewHandler(meritService),
		Notification: notification.NewHandler(notificationService),
	}
}

// initDB opens one pgx connection pool and layers GORM over it so the
// repositories and the health check share the same pool.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, *gorm.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: dbConn.DB}), &gorm.Config{})
	if err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("failed to open gorm over db connection: %w", err)
	}

	return dbConn, gormDB, nil
}
