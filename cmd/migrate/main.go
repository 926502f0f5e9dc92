package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"docrecon/internal/config"
	"docrecon/internal/logger"
)

const usage = "Usage: migrate [up|down|steps N|version]"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Service:     "docrecon-migrate",
		Environment: cfg.Server.Environment,
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
	})
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if len(args) < 1 {
		return errors.New(usage)
	}

	m, err := migrate.New("file://db/migrations", cfg.DB.DSN())
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration up failed: %w", err)
		}
		log.Info("migrations applied successfully")

	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration down failed: %w", err)
		}
		log.Info("migrations reverted successfully")

	case "steps":
		if len(args) < 2 {
			return errors.New("steps requires a number argument")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid steps argument: %w", err)
		}
		if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration steps failed: %w", err)
		}
		log.Info("applied migration steps", zap.Int("steps", n))

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		log.Info("schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))

	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
	return nil
}
