package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"invoiceflow/internal/config"
	"invoiceflow/internal/logger"
)

const usage = "Usage: migrate [up|down|steps N|force V|version]"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	zl, err := logger.New(&cfg.Log)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	m, err := migrate.New("file://db/migrations", cfg.DB.DSN())
	if err != nil {
		zl.Fatal("failed to create migrate instance", zap.Error(err))
	}
	defer m.Close()

	switch cmd := os.Args[1]; cmd {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			zl.Fatal("migration up failed", zap.Error(err))
		}
		zl.Info("migrations applied successfully")

	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			zl.Fatal("migration down failed", zap.Error(err))
		}
		zl.Info("migrations reverted successfully")

	case "steps", "force":
		if len(os.Args) < 3 {
			zl.Fatal(cmd + " requires a number argument")
		}
		n, err := strconv.Atoi(os.Args[2])
		if err != nil {
			zl.Fatal("invalid number argument", zap.String("arg", os.Args[2]), zap.Error(err))
		}
		if cmd == "force" {
			if err := m.Force(n); err != nil {
				zl.Fatal("migration force failed", zap.Error(err))
			}
			zl.Info("forced migration version", zap.Int("version", n))
			return
		}
		if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			zl.Fatal("migration steps failed", zap.Error(err))
		}
		zl.Info("applied migration steps", zap.Int("steps", n))

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			zl.Fatal("failed to get version", zap.Error(err))
		}
		fmt.Printf("version: %d, dirty: %v\n", version, dirty)

	default:
		fmt.Printf("unknown command: %s\n", cmd)
		fmt.Println(usage)
		os.Exit(1)
	}
}
