package database

import (
	"fmt"

	"discord-wallet-bot-go/internal/config"
	"discord-wallet-bot-go/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewDatabase creates a new database connection and performs auto-migration.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate the schema
	err = AutoMigrate(db, cfg)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// AutoMigrate creates missing tables and refreshes the coin registry from
// the config. Wallets and trades are durable state and are never dropped.
func AutoMigrate(db *gorm.DB, cfg *config.Config) error {
	if err := db.AutoMigrate(&models.Member{}, &models.Coin{}, &models.Wallet{}, &models.Trade{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	// Populate the 'coins' table from the config. Existing rows are
	// overwritten so the registry always matches the configured prices.
	for _, c := range cfg.Economy.Coins {
		coin := models.Coin{
			Symbol:     c.Symbol,
			Name:       c.Name,
			Price:      c.Price,
			MaxDecimal: c.MaxDecimal,
		}
		if err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&coin).Error; err != nil {
			return fmt.Errorf("failed to populate coin '%s': %w", c.Symbol, err)
		}
	}

	return nil
}
