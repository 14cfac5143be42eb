package models

import "gorm.io/gorm"

const (
	TradeTypeInitial = "INITIAL"
	TradeTypeBuy     = "BUY"
	TradeTypeSell    = "SELL"
)

// Trade represents one append-only trade record in a wallet. Price is a
// snapshot taken at trade time; later registry price changes never touch it.
// The auto-increment id doubles as the tie-break when timestamps collide.
type Trade struct {
	gorm.Model
	WalletID   string  `gorm:"index;not null" json:"wallet_id"`
	CoinSymbol string  `gorm:"index;not null" json:"coin_symbol"`
	Price      float64 `json:"price"`
	Quantity   float64 `json:"quantity"`
	Type       string  `json:"type"`
	Timestamp  int64   `json:"timestamp"`
}
