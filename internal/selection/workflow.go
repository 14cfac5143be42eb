package selection

import (
	"errors"
	"time"

	"discord-wallet-bot-go/internal/discord"
	"discord-wallet-bot-go/internal/ledger"
	"discord-wallet-bot-go/internal/models"
	"discord-wallet-bot-go/internal/render"

	"go.uber.org/zap"
)

// Ledger is the single ledger operation a resolved selection performs.
type Ledger interface {
	CreateWallet(memberID string, tier models.Tier) (ledger.WalletHandle, error)
}

// MemberDirectory is the existence predicate checked before prompting.
type MemberDirectory interface {
	Exists(id string) bool
}

// Workflow drives the reaction-based tier selection: one outgoing prompt
// per create command, resolved by the first matching reaction, with no
// timeout. All pending prompts share one Registry consulted by the
// incoming-reaction dispatcher.
type Workflow struct {
	logger    *zap.Logger
	chat      discord.ClientInterface
	directory MemberDirectory
	ledger    Ledger
	registry  *Registry
}

// NewWorkflow creates a selection workflow.
func NewWorkflow(logger *zap.Logger, chat discord.ClientInterface, directory MemberDirectory, ledger Ledger, registry *Registry) *Workflow {
	return &Workflow{
		logger:    logger,
		chat:      chat,
		directory: directory,
		ledger:    ledger,
		registry:  registry,
	}
}

// Pending returns the number of outstanding prompts.
func (w *Workflow) Pending() int {
	return w.registry.Len()
}

// Begin checks the preconditions, sends the tier prompt and registers the
// pending selection. Failing a precondition rejects the command without
// ever sending a prompt.
func (w *Workflow) Begin(ev discord.MessageEvent) {
	if !w.directory.Exists(ev.AuthorID) {
		w.notify(ev.ChannelID, render.ErrorEmbed("Wallet creation failed",
			ev.AuthorName+" is not registered yet! Please join first with the \"join\" command."))
		return
	}
	if ev.GuildID == "" {
		w.notify(ev.ChannelID, render.ErrorEmbed("Wallet creation failed",
			"Please use this in a server channel, not in a DM."))
		return
	}

	icons := w.iconLookup(ev.GuildID)
	promptID, err := w.chat.SendEmbed(ev.ChannelID, render.TierPrompt(icons))
	if err != nil {
		w.logger.Error("Failed to send tier prompt", zap.Error(err))
		return
	}

	for _, tier := range models.AllTiers {
		emoji, ok, err := w.chat.EmojiByName(ev.GuildID, tier.IconKey())
		if err != nil || !ok {
			w.logger.Warn("No selection emoji for tier",
				zap.String("tier", tier.String()), zap.Error(err))
			continue
		}
		if err := w.chat.AddReaction(ev.ChannelID, promptID, emoji); err != nil {
			w.logger.Warn("Failed to seed reaction", zap.String("tier", tier.String()), zap.Error(err))
		}
	}

	w.registry.Add(Key{MessageID: promptID, UserID: ev.AuthorID}, Pending{
		ChannelID: ev.ChannelID,
		GuildID:   ev.GuildID,
		MemberID:  ev.AuthorID,
		CreatedAt: time.Now(),
	})

	w.logger.Info("Tier prompt sent",
		zap.String("prompt_id", promptID),
		zap.String("member_id", ev.AuthorID),
	)
}

// HandleReaction resolves a pending selection if the reaction matches its
// bound message/user pair. Any other reaction is ignored. A hit removes
// the entry before anything else happens, so every outcome is one-shot.
func (w *Workflow) HandleReaction(ev discord.ReactionEvent) {
	p, ok := w.registry.Take(Key{MessageID: ev.MessageID, UserID: ev.UserID})
	if !ok {
		return
	}

	tier, err := models.TierFromEmoji(ev.EmojiName)
	if err != nil {
		w.notify(p.ChannelID, render.ErrorEmbed("Wallet creation failed",
			"\""+ev.EmojiName+"\" is not one of the wallet tiers."))
		return
	}

	handle, err := w.ledger.CreateWallet(p.MemberID, tier)
	if err != nil {
		w.reportCreateFailure(p.ChannelID, err)
		return
	}

	icons := w.iconLookup(p.GuildID)
	if err := w.chat.EditEmbed(p.ChannelID, ev.MessageID, render.WalletCreated(handle, icons)); err != nil {
		w.logger.Error("Failed to edit prompt into confirmation", zap.Error(err))
	}
	if err := w.chat.ClearReactions(p.ChannelID, ev.MessageID); err != nil {
		w.logger.Warn("Failed to clear prompt reactions", zap.Error(err))
	}

	w.logger.Info("Tier selection resolved",
		zap.String("prompt_id", ev.MessageID),
		zap.String("member_id", p.MemberID),
		zap.String("wallet_id", handle.ID),
	)
}

func (w *Workflow) reportCreateFailure(channelID string, err error) {
	switch {
	case errors.Is(err, models.ErrMemberNotFound):
		w.notify(channelID, render.ErrorEmbed("Wallet creation failed",
			"You are not registered. Please join first with the \"join\" command."))
	default:
		w.logger.Error("Wallet creation failed", zap.Error(err))
		w.notify(channelID, render.ErrorEmbed("Wallet creation failed for an unknown reason",
			"An unknown problem left only this note behind.\n"+err.Error()))
	}
}

func (w *Workflow) notify(channelID string, embed discord.Embed) {
	if _, err := w.chat.SendEmbed(channelID, embed); err != nil {
		w.logger.Error("Failed to send notice", zap.Error(err))
	}
}

// iconLookup adapts the guild emoji lookup into the renderer's contract:
// missing assets render as an empty string.
func (w *Workflow) iconLookup(guildID string) render.IconLookup {
	return func(name string) string {
		emoji, ok, err := w.chat.EmojiByName(guildID, name)
		if err != nil || !ok {
			return ""
		}
		return emoji.Formatted()
	}
}
