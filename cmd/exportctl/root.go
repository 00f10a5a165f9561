package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"export-readiness/internal/config"
	"export-readiness/internal/db"
	"export-readiness/internal/repository"
	"export-readiness/internal/service"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "exportctl",
	Short: "Herramientas de operación del motor de clasificación exportadora",
	Long: `exportctl aplica migraciones, recalcula clasificaciones tras un cambio
de umbrales y muestra la vista previa del puntaje de una empresa.

La configuración se lee de variables de entorno (y de .env si existe).`,
	SilenceUsage: true,
}

// Execute corre el comando raíz.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log en modo desarrollo")
	rootCmd.AddCommand(newMigrateCmd(), newReclassifyCmd(), newPreviewCmd())
}

// app agrupa las dependencias que comparten los subcomandos.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	pool   *pgxpool.Pool
}

func newApp(ctx context.Context) (*app, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := zap.NewNop()
	if verbose || cfg.IsDevelopment() {
		if logger, err = zap.NewDevelopment(); err != nil {
			return nil, err
		}
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	return &app{cfg: cfg, logger: logger, pool: pool}, nil
}

func (a *app) Close() {
	a.pool.Close()
	_ = a.logger.Sync()
}

func (a *app) classificationService() *service.ClassificationService {
	settings := service.NewSettingsService(a.logger, repository.NewPgSettingsRepository(a.pool))
	return service.NewClassificationService(
		a.logger,
		repository.NewPgCompanyRepository(a.pool),
		repository.NewPgClassificationRepository(a.pool),
		settings,
		service.NewScoringEngine(a.cfg.ActivityLookbackMonths),
	)
}
