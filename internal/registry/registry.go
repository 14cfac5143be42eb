package registry

import (
	"errors"
	"fmt"

	"discord-wallet-bot-go/internal/models"

	"gorm.io/gorm"
)

// Registry is the read-only coin metadata lookup. Rows are seeded from the
// config at migration time.
type Registry struct {
	db *gorm.DB
}

// NewRegistry creates a coin registry backed by the given database.
func NewRegistry(db *gorm.DB) *Registry {
	return &Registry{db: db}
}

// GetCoin fetches a coin by its symbol.
func (r *Registry) GetCoin(symbol string) (*models.Coin, error) {
	var coin models.Coin
	if err := r.db.First(&coin, "symbol = ?", symbol).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrCoinNotFound
		}
		return nil, fmt.Errorf("failed to load coin %s: %w", symbol, err)
	}
	return &coin, nil
}
