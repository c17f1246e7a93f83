package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"smartmedical-server/internal/config"
	"smartmedical-server/internal/logger"
	"smartmedical-server/internal/models"
	"smartmedical-server/internal/repository"
	"smartmedical-server/internal/routes"
	"smartmedical-server/internal/services"
)

func main() {
	// Load environment variables; a missing .env is fine outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	rootCmd := &cobra.Command{
		Use:   "smartmedical-server",
		Short: "Medical appointment scheduling API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the MySQL schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			db, err := models.Open(models.DatabaseConfig{DSN: cfg.Database.DSN, LogLevel: cfg.LogLevel})
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			if err := models.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Println("Schema is up to date")
			return nil
		},
	}
}

func runServer() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	appLog := logger.New(cfg.LogLevel)

	appointments, patients, err := openStores(cfg)
	if err != nil {
		return err
	}

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, appointments, patients, cfg, appLog)

	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	appLog.WithField("port", cfg.Port).WithField("storage", cfg.StorageDriver).Info("Server starting")
	if err := router.Run(serverAddr); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	return nil
}

func openStores(cfg *config.Config) (services.AppointmentStore, routes.PatientRepository, error) {
	if cfg.StorageDriver == config.StorageMemory {
		appointments, patients := repository.NewMemoryStores()
		return appointments, patients, nil
	}

	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN, LogLevel: cfg.LogLevel})
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	return repository.NewAppointmentRepository(db), repository.NewPatientRepository(db), nil
}
