// Command storefrontctl runs admin chores against the storefront database: migrations,
// catalog seeding, account bootstrap and offline quotes.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/fekuna/amigurumi-order-service/config"
	"github.com/fekuna/amigurumi-order-service/internal/auth"
	authRepoPkg "github.com/fekuna/amigurumi-order-service/internal/auth/repository"
	catRepoPkg "github.com/fekuna/amigurumi-order-service/internal/catalog/repository"
	catUCPkg "github.com/fekuna/amigurumi-order-service/internal/catalog/usecase"
	setRepoPkg "github.com/fekuna/amigurumi-order-service/internal/settings/repository"
	setUCPkg "github.com/fekuna/amigurumi-order-service/internal/settings/usecase"
	"github.com/fekuna/amigurumi-order-service/migrations"
	"github.com/fekuna/amigurumi-order-service/pkg/cache"
	"github.com/fekuna/amigurumi-order-service/pkg/database/postgres"
	"github.com/fekuna/amigurumi-order-service/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	if err := newApp(openServices, os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openServices connects to Postgres only. Caching goes to an in-process store so the CLI does
// not need Redis; the running service picks up catalog writes once its cache entries expire.
func openServices(_ *cli.Context) (*services, error) {
	cfg := config.LoadEnv()
	log := logger.NewZapLogger(&logger.ZapLoggerConfig{
		Encoding:          "console",
		Level:             "warn",
		DisableStacktrace: true,
	})

	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		return nil, err
	}

	store := cache.NewMemory()
	return &services{
		migrate:  func() error { return postgres.Migrate(db, migrations.FS) },
		catalog:  catUCPkg.NewCatalogUseCase(catRepoPkg.NewPGRepository(db), store, log),
		settings: setUCPkg.NewSettingsUseCase(setRepoPkg.NewPGRepository(db), store, log),
		accounts: auth.NewService(authRepoPkg.NewPGRepository(db), auth.NewCacheSessionStore(store), cfg.Session.TTL(), log),
		close: func() {
			if err := db.Close(); err != nil {
				log.Warn("close database", zap.Error(err))
			}
			_ = log.Sync()
		},
	}, nil
}
