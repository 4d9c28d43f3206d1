package database

import (
	"context"
	"fmt"

	"github.com/Behyna/bank-webhooks/internal/config"
	"github.com/Behyna/bank-webhooks/internal/model"
	"github.com/Behyna/bank-webhooks/pkg/database"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewConnection(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := database.NewConnection(context.Background(), cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := Migrate(db, logger); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// Migrate creates or alters every table the service owns.
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		logger.Error("Database migration failed", zap.Error(err))
		return fmt.Errorf("auto migrate: %w", err)
	}

	logger.Info("Database schema is up to date", zap.Int("tables", len(model.All())))
	return nil
}
