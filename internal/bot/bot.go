package bot

import (
	"errors"
	"strings"
	"time"

	"discord-wallet-bot-go/internal/config"
	"discord-wallet-bot-go/internal/discord"
	"discord-wallet-bot-go/internal/ledger"
	"discord-wallet-bot-go/internal/models"
	"discord-wallet-bot-go/internal/render"
	"discord-wallet-bot-go/internal/selection"

	"go.uber.org/zap"
)

// Ledger is the query surface the command handlers need.
type Ledger interface {
	ListWallets(memberID string) ([]ledger.WalletInfo, error)
	GetPortfolio(memberID, walletID string) ([]ledger.PortfolioLine, error)
}

// Directory is the member directory surface the command handlers need.
type Directory interface {
	Exists(id string) bool
	Register(id, name string) (*models.Member, error)
}

// Bot routes incoming chat events to the wallet commands and translates
// domain errors into user-facing notices.
type Bot struct {
	logger    *zap.Logger
	commands  config.Commands
	chat      discord.ClientInterface
	directory Directory
	ledger    Ledger
	coins     render.CoinSource
	workflow  *selection.Workflow

	StartTime time.Time
}

// New creates the bot.
func New(logger *zap.Logger, cfg *config.Config, chat discord.ClientInterface, directory Directory, l Ledger, coins render.CoinSource, workflow *selection.Workflow) *Bot {
	return &Bot{
		logger:    logger,
		commands:  cfg.Commands,
		chat:      chat,
		directory: directory,
		ledger:    l,
		coins:     coins,
		workflow:  workflow,
		StartTime: time.Now(),
	}
}

// Pending returns the number of outstanding tier prompts.
func (b *Bot) Pending() int {
	return b.workflow.Pending()
}

// HandleReaction forwards reaction events to the selection workflow.
func (b *Bot) HandleReaction(ev discord.ReactionEvent) {
	b.workflow.HandleReaction(ev)
}

// HandleMessage dispatches a chat message to the matching command.
// Messages from bots and messages without the command prefix are ignored.
func (b *Bot) HandleMessage(ev discord.MessageEvent) {
	if ev.Bot {
		return
	}

	fields := strings.Fields(ev.Content)
	if len(fields) < 2 || fields[0] != b.commands.Prefix {
		return
	}
	verb, args := fields[1], fields[2:]

	switch {
	case matchesAlias(verb, b.commands.Join):
		b.join(ev)
	case matchesAlias(verb, b.commands.Create):
		b.workflow.Begin(ev)
	case matchesAlias(verb, b.commands.Info):
		b.walletInfo(ev, args)
	case matchesAlias(verb, b.commands.Delete):
		b.notify(ev.ChannelID, render.WarnEmbed("Wallet deletion",
			"Deleting wallets is not available yet."))
	}
}

func matchesAlias(verb string, aliases []string) bool {
	for _, alias := range aliases {
		if verb == alias {
			return true
		}
	}
	return false
}

func (b *Bot) join(ev discord.MessageEvent) {
	m, err := b.directory.Register(ev.AuthorID, ev.AuthorName)
	switch {
	case errors.Is(err, models.ErrMemberExists):
		b.notify(ev.ChannelID, render.WarnEmbed("Already joined",
			ev.AuthorName+" is already registered."))
	case err != nil:
		b.logger.Error("Failed to register member", zap.Error(err))
		b.notify(ev.ChannelID, render.ErrorEmbed("Joining failed for an unknown reason",
			"An unknown problem left only this note behind.\n"+err.Error()))
	default:
		b.logger.Info("Registered member", zap.String("member_id", m.ID))
		b.notify(ev.ChannelID, render.SuccessEmbed("Welcome!",
			m.Name+" joined. Create a wallet with the \"createWallet\" command."))
	}
}

// walletInfo lists the member's wallets, or shows one wallet's holdings
// when a wallet address argument is given.
func (b *Bot) walletInfo(ev discord.MessageEvent, args []string) {
	if len(args) == 0 {
		b.walletList(ev)
		return
	}
	b.walletDetail(ev, args[0])
}

func (b *Bot) walletList(ev discord.MessageEvent) {
	wallets, err := b.ledger.ListWallets(ev.AuthorID)
	switch {
	case errors.Is(err, models.ErrMemberNotFound):
		b.notify(ev.ChannelID, render.ErrorEmbed("Wallet lookup failed",
			ev.AuthorName+" is not registered.\n\nPlease join first with the \"join\" command."))
	case errors.Is(err, models.ErrNoWalletsFound):
		b.notify(ev.ChannelID, render.ErrorEmbed("Wallet lookup failed",
			ev.AuthorName+" has no wallets.\n\nCreate one with the \"createWallet\" command."))
	case err != nil:
		b.logger.Error("Wallet lookup failed", zap.Error(err))
		b.notify(ev.ChannelID, render.ErrorEmbed("Wallet lookup failed for an unknown reason",
			"An unknown problem left only this note behind.\n"+err.Error()))
	default:
		b.notify(ev.ChannelID, render.WalletList(ev.AuthorName, wallets, b.iconLookup(ev.GuildID)))
	}
}

func (b *Bot) walletDetail(ev discord.MessageEvent, walletID string) {
	lines, err := b.ledger.GetPortfolio(ev.AuthorID, walletID)
	switch {
	case errors.Is(err, models.ErrMemberNotFound):
		b.notify(ev.ChannelID, render.ErrorEmbed("Wallet detail lookup failed",
			ev.AuthorName+" is not registered.\n\nPlease join first with the \"join\" command."))
	case errors.Is(err, models.ErrWalletNotFound):
		b.notify(ev.ChannelID, render.ErrorEmbed("Wallet detail lookup failed",
			"No wallet with address "+walletID+" exists, or "+ev.AuthorName+" does not own it."))
	case err != nil:
		b.logger.Error("Wallet detail lookup failed", zap.Error(err))
		b.notify(ev.ChannelID, render.ErrorEmbed("Wallet detail lookup failed for an unknown reason",
			"An unknown problem left only this note behind.\n"+err.Error()))
	default:
		b.notify(ev.ChannelID, render.PortfolioDetail(walletID, lines, b.coins, b.iconLookup(ev.GuildID)))
	}
}

func (b *Bot) notify(channelID string, embed discord.Embed) {
	if _, err := b.chat.SendEmbed(channelID, embed); err != nil {
		b.logger.Error("Failed to send notice", zap.Error(err))
	}
}

func (b *Bot) iconLookup(guildID string) render.IconLookup {
	return func(name string) string {
		if guildID == "" {
			return ""
		}
		emoji, ok, err := b.chat.EmojiByName(guildID, name)
		if err != nil || !ok {
			return ""
		}
		return emoji.Formatted()
	}
}
