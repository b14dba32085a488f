package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/wolfman30/smart-hospital/cmd/mainconfig"
	"github.com/wolfman30/smart-hospital/internal/app/bootstrap"
	appconfig "github.com/wolfman30/smart-hospital/internal/config"
	"github.com/wolfman30/smart-hospital/internal/inventory"
	"github.com/wolfman30/smart-hospital/internal/staff"
	"github.com/wolfman30/smart-hospital/internal/store"
	appmigrations "github.com/wolfman30/smart-hospital/migrations"
	"github.com/wolfman30/smart-hospital/pkg/logging"
)

// migrate prepares a deployment: the Postgres schema when documents live in
// Postgres, the four documents, the administrator account and a canonical
// inventory document.
//
//	migrate               run every step
//	migrate force <ver>   force the schema version (postgres only)
func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	ctx := context.Background()

	if cfg.StoreBackend == "postgres" {
		if err := migrateSchema(cfg.DatabaseURL, os.Args[1:]); err != nil {
			log.Fatalf("schema: %v", err)
		}
		if len(os.Args) >= 2 && os.Args[1] == "force" {
			return
		}
	}

	st, closeStore, err := bootstrap.BuildStore(ctx, cfg, mainconfig.AWSLoader(cfg), logger)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer closeStore()

	if err := initDocuments(ctx, st, cfg, logger); err != nil {
		closeStore()
		log.Fatalf("init: %v", err)
	}
	fmt.Println("migrations complete")
}

func migrateSchema(databaseURL string, args []string) error {
	if databaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping db: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("db driver: %w", err)
	}
	srcDriver, err := iofs.New(appmigrations.FS, ".")
	if err != nil {
		return fmt.Errorf("source driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", srcDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if len(args) >= 2 && args[0] == "force" {
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version: %w", err)
		}
		if err := m.Force(version); err != nil {
			return fmt.Errorf("force version: %w", err)
		}
		fmt.Printf("forced version to %d\n", version)
		return nil
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// initDocuments is idempotent: running it twice leaves the documents as the
// first run wrote them.
func initDocuments(ctx context.Context, st *store.Store, cfg *appconfig.Config, logger *logging.Logger) error {
	if err := st.EnsureDocuments(ctx); err != nil {
		return fmt.Errorf("ensure documents: %w", err)
	}

	created, err := staff.NewDocumentRepository(st).SeedAdmin(ctx, cfg.AdminSeedPassword)
	switch {
	case errors.Is(err, staff.ErrMissingCredentials):
		logger.Warn("ADMIN_SEED_PASSWORD not set, administrator account not seeded")
	case err != nil:
		return fmt.Errorf("seed admin: %w", err)
	case created:
		logger.Info("administrator account seeded", "email", staff.AdminEmail)
	}

	engine, err := inventory.NewEngine(ctx, st, inventory.Config{
		Threshold:    &cfg.LowStockThreshold,
		DefaultUnits: &cfg.DefaultUnits,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("load inventory: %w", err)
	}
	if engine.Shape() == inventory.ShapeLegacyArray {
		if err := engine.Persist(ctx); err != nil {
			return fmt.Errorf("canonicalise inventory: %w", err)
		}
		logger.Info("inventory converted to blood_group records")
	}
	return nil
}
