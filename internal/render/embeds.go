package render

import (
	"fmt"
	"strings"

	"discord-wallet-bot-go/internal/discord"
	"discord-wallet-bot-go/internal/ledger"
	"discord-wallet-bot-go/internal/models"
)

// IconLookup resolves a display icon by its emoji name. It returns an
// empty string when no matching display asset is registered.
type IconLookup func(name string) string

// CoinSource is the registry lookup the portfolio block composes with.
type CoinSource interface {
	GetCoin(symbol string) (*models.Coin, error)
}

const defaultMaxDecimal = 8

// SuccessEmbed wraps a notice in the success dressing.
func SuccessEmbed(title, description string) discord.Embed {
	return discord.Embed{
		Title:       ":smile: **" + title + "**",
		Description: description,
		Color:       ColorGood,
	}
}

// ErrorEmbed wraps a notice in the failure dressing.
func ErrorEmbed(title, description string) discord.Embed {
	return discord.Embed{
		Title:       ":frowning: **" + title + "**",
		Description: description,
		Color:       ColorBad,
	}
}

// WarnEmbed wraps a notice in the warning dressing.
func WarnEmbed(title, description string) discord.Embed {
	return discord.Embed{
		Title:       ":face_with_raised_eyebrow: **" + title + "**",
		Description: description,
		Color:       ColorWarn,
	}
}

// TierPrompt builds the tier-selection prompt listing every tier with its
// icon and payout multiplier.
func TierPrompt(icons IconLookup) discord.Embed {
	var b strings.Builder
	for _, tier := range models.AllTiers {
		fmt.Fprintf(&b, "**%s (**%s**) : x%d**\n", tier, icons(tier.IconKey()), tier.Multiplier())
	}
	return discord.Embed{
		Title:       ":moneybag: Pick a wallet tier",
		Description: b.String(),
		Color:       ColorWarn,
	}
}

// WalletCreated builds the confirmation the prompt is edited into.
func WalletCreated(handle ledger.WalletHandle, icons IconLookup) discord.Embed {
	description := fmt.Sprintf("> Address: **%s**\n> Tier: **%s (**%s**)**",
		handle.ID, handle.Tier, icons(handle.Tier.IconKey()))
	return SuccessEmbed("Wallet created!", description)
}

// WalletList builds the listing of all wallets a member owns.
func WalletList(memberName string, wallets []ledger.WalletInfo, icons IconLookup) discord.Embed {
	var b strings.Builder
	for _, w := range wallets {
		fmt.Fprintf(&b, "> Address: **%s**\n> Tier: **%s (**%s**)**\n\n",
			w.ID, w.Tier, icons(w.Tier.IconKey()))
	}
	return SuccessEmbed(memberName+"'s wallets", b.String())
}

// PortfolioDetail builds the holdings block for one wallet: per coin the
// held quantity at the coin's display precision, the recorded buy price,
// the current registry price and the return between the two.
func PortfolioDetail(walletID string, lines []ledger.PortfolioLine, coins CoinSource, icons IconLookup) discord.Embed {
	var b strings.Builder
	for _, line := range lines {
		maxDecimal := defaultMaxDecimal
		currentPrice := line.Price
		if coin, err := coins.GetCoin(line.CoinSymbol); err == nil {
			maxDecimal = coin.MaxDecimal
			currentPrice = coin.Price
		}

		fmt.Fprintf(&b, "> %s **%s (%s)**\n", icons(line.CoinSymbol), line.CoinName, line.CoinSymbol)
		fmt.Fprintf(&b, "> **Quantity: %s %s**\n", FormatQuantity(line.Quantity, maxDecimal), line.CoinSymbol)
		fmt.Fprintf(&b, "> **Unit buy price: %s $**\n", FormatQuantity(line.Price, 2))
		fmt.Fprintf(&b, "> **   └ unit value now: %s $**\n", FormatQuantity(currentPrice, 2))
		fmt.Fprintf(&b, "> **Return: %s**\n\n", FormatReturn(currentPrice, line.Price))
	}
	return SuccessEmbed("Contents of wallet "+walletID, b.String())
}
