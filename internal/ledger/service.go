package ledger

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"discord-wallet-bot-go/internal/config"
	"discord-wallet-bot-go/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MemberDirectory is the existence predicate the ledger needs from the
// member directory.
type MemberDirectory interface {
	Exists(id string) bool
}

// WalletHandle identifies a freshly created wallet.
type WalletHandle struct {
	ID   string
	Tier models.Tier
}

// WalletInfo is one entry of a member's wallet listing.
type WalletInfo struct {
	ID   string
	Tier models.Tier
}

// PortfolioLine is the latest trade per coin in a wallet. Price is the
// recorded trade-time price, not the current registry price.
type PortfolioLine struct {
	CoinName   string
	CoinSymbol string
	Price      float64
	Quantity   float64
}

// Service owns wallet and trade persistence.
type Service struct {
	db        *gorm.DB
	directory MemberDirectory
	logger    *zap.Logger
	seedCoin  string
	seedQty   float64
}

// NewService creates a wallet ledger service.
func NewService(db *gorm.DB, directory MemberDirectory, logger *zap.Logger, cfg *config.Economy) *Service {
	return &Service{
		db:        db,
		directory: directory,
		logger:    logger,
		seedCoin:  cfg.SeedCoin,
		seedQty:   cfg.SeedQuantity,
	}
}

// CreateWallet persists a new wallet for the member and seeds it with the
// initial holding in a single transaction. Either both rows land or neither.
func (s *Service) CreateWallet(memberID string, tier models.Tier) (WalletHandle, error) {
	if !s.directory.Exists(memberID) {
		return WalletHandle{}, models.ErrMemberNotFound
	}

	now := time.Now()
	wallet := models.Wallet{
		ID:        uuid.NewString(),
		MemberID:  memberID,
		Tier:      tier,
		CreatedAt: now,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&wallet).Error; err != nil {
			return fmt.Errorf("failed to create wallet: %w", err)
		}

		var coin models.Coin
		if err := tx.First(&coin, "symbol = ?", s.seedCoin).Error; err != nil {
			return fmt.Errorf("failed to load seed coin %s: %w", s.seedCoin, err)
		}

		seed := models.Trade{
			WalletID:   wallet.ID,
			CoinSymbol: coin.Symbol,
			Price:      coin.Price,
			Quantity:   s.seedQty,
			Type:       models.TradeTypeInitial,
			Timestamp:  now.Unix(),
		}
		if err := tx.Create(&seed).Error; err != nil {
			return fmt.Errorf("failed to create seed trade: %w", err)
		}
		return nil
	})
	if err != nil {
		return WalletHandle{}, err
	}

	s.logger.Info("Created wallet",
		zap.String("member_id", memberID),
		zap.String("wallet_id", wallet.ID),
		zap.String("tier", tier.String()),
	)

	return WalletHandle{ID: wallet.ID, Tier: wallet.Tier}, nil
}

// ListWallets returns all wallets owned by the member in creation order.
func (s *Service) ListWallets(memberID string) ([]WalletInfo, error) {
	if !s.directory.Exists(memberID) {
		return nil, models.ErrMemberNotFound
	}

	var wallets []models.Wallet
	if err := s.db.Where("member_id = ?", memberID).Order("created_at ASC").Find(&wallets).Error; err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	if len(wallets) == 0 {
		return nil, models.ErrNoWalletsFound
	}

	infos := make([]WalletInfo, 0, len(wallets))
	for _, w := range wallets {
		infos = append(infos, WalletInfo{ID: w.ID, Tier: w.Tier})
	}
	return infos, nil
}

// GetPortfolio returns the latest trade per coin for the given wallet,
// sorted by coin symbol. The wallet must exist and belong to the member.
func (s *Service) GetPortfolio(memberID, walletID string) ([]PortfolioLine, error) {
	if !s.directory.Exists(memberID) {
		return nil, models.ErrMemberNotFound
	}

	var wallet models.Wallet
	if err := s.db.First(&wallet, "member_id = ? AND id = ?", memberID, walletID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}

	var trades []models.Trade
	if err := s.db.Where("wallet_id = ?", walletID).Order("timestamp ASC, id ASC").Find(&trades).Error; err != nil {
		return nil, fmt.Errorf("failed to load trades: %w", err)
	}

	// Last row per coin wins; rows arrive ordered by timestamp with the
	// insertion id breaking exact-timestamp ties.
	latest := make(map[string]models.Trade)
	for _, t := range trades {
		latest[t.CoinSymbol] = t
	}

	symbols := make([]string, 0, len(latest))
	for symbol := range latest {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	lines := make([]PortfolioLine, 0, len(symbols))
	for _, symbol := range symbols {
		t := latest[symbol]
		name := symbol
		var coin models.Coin
		if err := s.db.First(&coin, "symbol = ?", symbol).Error; err == nil {
			name = coin.Name
		}
		lines = append(lines, PortfolioLine{
			CoinName:   name,
			CoinSymbol: symbol,
			Price:      t.Price,
			Quantity:   t.Quantity,
		})
	}
	return lines, nil
}
