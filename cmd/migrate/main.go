package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/Behyna/bank-webhooks/internal/config"
	"github.com/Behyna/bank-webhooks/internal/database"
	"github.com/Behyna/bank-webhooks/internal/logger"
	pkgdatabase "github.com/Behyna/bank-webhooks/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	appLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	db, err := pkgdatabase.NewConnection(context.Background(), cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Database connection failed", zap.Error(err))
	}

	if err := database.Migrate(db, appLogger); err != nil {
		appLogger.Fatal("Migration failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}
