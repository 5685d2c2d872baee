package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aegisops/guardops/internal/core/events"
	"github.com/aegisops/guardops/internal/guard"
	guardpg "github.com/aegisops/guardops/internal/guard/postgres"
	"github.com/aegisops/guardops/internal/notification"
	notificationpg "github.com/aegisops/guardops/internal/notification/postgres"
	"github.com/aegisops/guardops/internal/replacement"
	replacementpg "github.com/aegisops/guardops/internal/replacement/postgres"
	"github.com/aegisops/guardops/pkg/logger"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start and manage background workers such as the no-show detector.`,
}

var detectorWorkerCmd = &cobra.Command{
	Use:   "detector",
	Short: "Start the no-show detector",
	Long:  `Start the periodic no-show scan that marks overdue shifts and fans out replacement notifications.`,
	Run: func(cmd *cobra.Command, args []string) {
		startDetectorWorker()
	},
}

var detectorInterval time.Duration

func startDetectorWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(os.Getenv("APP_ENV"), config.Observability.Logging.Level)
	lg := logger.L()

	_, gormDB, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}

	interval := config.Allocation.DetectorInterval
	if detectorInterval > 0 {
		interval = detectorInterval
	}
	grace := time.Duration(config.Allocation.GracePeriodMinutes) * time.Minute

	bus := events.NewEventBus(lg)
	guardService := guard.NewService(guardpg.NewGuardRepository(gormDB), lg)
	notificationService := notification.NewService(notificationpg.NewNotificationRepository(gormDB), lg)
	replacementService := replacement.NewService(
		replacementpg.NewReplacementRepository(gormDB),
		guardService, notificationService, bus,
		grace, config.Allocation.CandidateCap, lg)

	detector := replacement.NewDetector(replacementService, interval, lg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		lg.Info("received signal, shutting down detector", "signal", sig)
		cancel()
	}()

	if err := detector.Run(ctx); err != nil && err != context.Canceled {
		lg.Error("detector stopped with error", "error", err)
		os.Exit(1)
	}

	lg.Info("detector shutdown complete")
}

func init() {
	detectorWorkerCmd.Flags().DurationVar(&detectorInterval, "interval", 0, "Scan interval (overrides config)")

	workerCmd.AddCommand(detectorWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
