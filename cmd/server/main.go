package main

import (
	"fmt"

	"github.com/joho/godotenv"

	"github.com/MKhiriev/go-weave-sync/internal/adapter"
	"github.com/MKhiriev/go-weave-sync/internal/config"
	handlerhttp "github.com/MKhiriev/go-weave-sync/internal/handler/http"
	"github.com/MKhiriev/go-weave-sync/internal/logger"
	"github.com/MKhiriev/go-weave-sync/internal/server"
	"github.com/MKhiriev/go-weave-sync/internal/service"
	"github.com/MKhiriev/go-weave-sync/internal/store"
	"github.com/MKhiriev/go-weave-sync/migrations"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	// a missing .env file is not an error; env vars may come from anywhere
	_ = godotenv.Load()

	log := logger.NewLogger("go-weave-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	db, err := connectDatabase(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err := migrations.Migrate(db.DB, cfg.DatabaseDriver()); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	storages := store.NewStorages(db, log)

	var directory adapter.CredentialChecker
	if cfg.Directory.Address != "" {
		directory = adapter.NewHTTPDirectory(adapter.DirectoryConfig{
			BaseURL: cfg.Directory.Address,
			Timeout: cfg.Directory.RequestTimeout,
		}, log)
	}

	services := service.NewServices(storages, directory, cfg, log)

	router := handlerhttp.NewHandler(services, cfg, log).Init()

	srv, err := server.NewServer(router, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func connectDatabase(cfg *config.StructuredConfig, log *logger.Logger) (*store.Database, error) {
	switch cfg.DatabaseDriver() {
	case store.DriverSQLite:
		return store.NewConnectSQLite(cfg.Storage.DB.DSN, log)
	default:
		return store.NewConnectPostgres(cfg.Storage.DB.DSN, log)
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
