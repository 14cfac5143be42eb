package database

import (
	"testing"

	"discord-wallet-bot-go/internal/config"
	"discord-wallet-bot-go/internal/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestAutoMigrate_SeedsAndRefreshesCoins(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	assert.NoError(t, err)

	cfg := &config.Config{Economy: config.Economy{Coins: []config.Coin{
		{Symbol: "BTC", Name: "Bitcoin", Price: 60000, MaxDecimal: 8},
	}}}
	assert.NoError(t, AutoMigrate(db, cfg))

	var coin models.Coin
	assert.NoError(t, db.First(&coin, "symbol = ?", "BTC").Error)
	assert.Equal(t, 60000.0, coin.Price)

	// A second migration with a new configured price overwrites the row
	// without touching durable wallet state.
	db.Create(&models.Wallet{ID: "w1", MemberID: "m1", Tier: models.TierCopper})

	cfg.Economy.Coins[0].Price = 65000
	assert.NoError(t, AutoMigrate(db, cfg))

	assert.NoError(t, db.First(&coin, "symbol = ?", "BTC").Error)
	assert.Equal(t, 65000.0, coin.Price)

	var walletCount int64
	db.Model(&models.Wallet{}).Count(&walletCount)
	assert.Equal(t, int64(1), walletCount)
}
