package registry

import (
	"testing"

	"discord-wallet-bot-go/internal/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestGetCoin(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.Coin{}))
	db.Create(&models.Coin{Symbol: "BTC", Name: "Bitcoin", Price: 60000, MaxDecimal: 8})

	r := NewRegistry(db)

	coin, err := r.GetCoin("BTC")
	assert.NoError(t, err)
	assert.Equal(t, "Bitcoin", coin.Name)
	assert.Equal(t, 60000.0, coin.Price)
	assert.Equal(t, 8, coin.MaxDecimal)

	_, err = r.GetCoin("XRP")
	assert.ErrorIs(t, err, models.ErrCoinNotFound)
}
