package models

// Coin is a coin registry entry. Price is the current reference price used
// for seeding and valuation; MaxDecimal is the most fractional digits ever
// shown for quantities of this coin.
type Coin struct {
	Symbol     string `gorm:"primaryKey"`
	Name       string `gorm:"not null"`
	Price      float64
	MaxDecimal int
}
