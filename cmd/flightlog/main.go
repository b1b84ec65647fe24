// Package main runs the flight log service: it bootstraps the database,
// reconciles the schema, then serves the REST API.
//
// Usage:
//
//	flightlog [options]
//
// Options:
//
//	-data PATH        Data directory for the database file (env: FLIGHTLOG_DATA_PATH)
//	-airports PATH    Bundled airports snapshot database (env: FLIGHTLOG_AIRPORTS_DB)
//	-airlines PATH    Bundled airlines snapshot database (env: FLIGHTLOG_AIRLINES_DB)
//	-port N           HTTP port (default: 8080, env: FLIGHTLOG_PORT)
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"

	"flightlog/internal/api"
	"flightlog/internal/storage"
)

type config struct {
	DataPath   string `env:"FLIGHTLOG_DATA_PATH" envDefault:"./data"`
	AirportsDB string `env:"FLIGHTLOG_AIRPORTS_DB"`
	AirlinesDB string `env:"FLIGHTLOG_AIRLINES_DB"`
	Port       int    `env:"FLIGHTLOG_PORT" envDefault:"8080"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing environment: %v\n", err)
		os.Exit(1)
	}

	// Flags override the environment.
	dataPath := flag.String("data", cfg.DataPath, "Data directory for the database file")
	airportsDB := flag.String("airports", cfg.AirportsDB, "Bundled airports snapshot database")
	airlinesDB := flag.String("airlines", cfg.AirlinesDB, "Bundled airlines snapshot database")
	port := flag.Int("port", cfg.Port, "HTTP port")
	flag.Parse()

	// The snapshots ship inside the data directory unless overridden.
	if *airportsDB == "" {
		*airportsDB = filepath.Join(*dataPath, "airports.db")
	}
	if *airlinesDB == "" {
		*airlinesDB = filepath.Join(*dataPath, "airlines.db")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	db, err := storage.Open(context.Background(), storage.Config{
		Dir:        *dataPath,
		AirportsDB: *airportsDB,
		AirlinesDB: *airlinesDB,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("database initialization failed", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	server := api.NewServer(db, logger, api.Config{Port: *port})
	if err := server.Run(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
