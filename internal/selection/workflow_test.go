package selection

import (
	"testing"

	"discord-wallet-bot-go/internal/config"
	"discord-wallet-bot-go/internal/discord"
	"discord-wallet-bot-go/internal/ledger"
	"discord-wallet-bot-go/internal/member"
	"discord-wallet-bot-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MockChatClient is a mock implementation of discord.ClientInterface.
type MockChatClient struct {
	mock.Mock
}

func (m *MockChatClient) Me() (*discord.User, error) {
	args := m.Called()
	return args.Get(0).(*discord.User), args.Error(1)
}

func (m *MockChatClient) SendEmbed(channelID string, embed discord.Embed) (string, error) {
	args := m.Called(channelID, embed)
	return args.String(0), args.Error(1)
}

func (m *MockChatClient) EditEmbed(channelID, messageID string, embed discord.Embed) error {
	args := m.Called(channelID, messageID, embed)
	return args.Error(0)
}

func (m *MockChatClient) AddReaction(channelID, messageID string, emoji discord.Emoji) error {
	args := m.Called(channelID, messageID, emoji)
	return args.Error(0)
}

func (m *MockChatClient) ClearReactions(channelID, messageID string) error {
	args := m.Called(channelID, messageID)
	return args.Error(0)
}

func (m *MockChatClient) EmojiByName(guildID, name string) (discord.Emoji, bool, error) {
	args := m.Called(guildID, name)
	return args.Get(0).(discord.Emoji), args.Bool(1), args.Error(2)
}

// setupTest creates a workflow over an in-memory database and a mock chat
// client, with one registered member and the reference coin in place.
func setupTest(t *testing.T) (*MockChatClient, *Workflow, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	assert.NoError(t, err)
	err = db.AutoMigrate(&models.Member{}, &models.Coin{}, &models.Wallet{}, &models.Trade{})
	assert.NoError(t, err)

	db.Create(&models.Coin{Symbol: "BTC", Name: "Bitcoin", Price: 60000, MaxDecimal: 8})

	directory := member.NewDirectory(db)
	_, err = directory.Register("m1", "alice")
	assert.NoError(t, err)

	svc := ledger.NewService(db, directory, zap.NewNop(), &config.Economy{SeedCoin: "BTC", SeedQuantity: 1.0})

	chat := new(MockChatClient)
	wf := NewWorkflow(zap.NewNop(), chat, directory, svc, NewRegistry())

	return chat, wf, db
}

func expectTierEmojis(chat *MockChatClient, guildID string) {
	for _, tier := range models.AllTiers {
		key := tier.IconKey()
		chat.On("EmojiByName", guildID, key).Return(discord.Emoji{ID: "1", Name: key}, true, nil)
	}
}

// beginPrompt runs Begin for the registered member and returns the prompt id.
func beginPrompt(t *testing.T, chat *MockChatClient, wf *Workflow, promptID string) {
	expectTierEmojis(chat, "g1")
	chat.On("SendEmbed", "c1", mock.AnythingOfType("discord.Embed")).Return(promptID, nil).Once()
	chat.On("AddReaction", "c1", promptID, mock.AnythingOfType("discord.Emoji")).Return(nil)

	wf.Begin(discord.MessageEvent{
		ChannelID:  "c1",
		GuildID:    "g1",
		AuthorID:   "m1",
		AuthorName: "alice",
	})
	assert.Equal(t, 1, wf.Pending())
}

func walletCount(db *gorm.DB) int64 {
	var count int64
	db.Model(&models.Wallet{}).Count(&count)
	return count
}

func TestBegin_UnregisteredMember(t *testing.T) {
	chat, wf, _ := setupTest(t)

	chat.On("SendEmbed", "c1", mock.AnythingOfType("discord.Embed")).Return("n1", nil).Once()

	wf.Begin(discord.MessageEvent{ChannelID: "c1", GuildID: "g1", AuthorID: "nobody", AuthorName: "bob"})

	// The rejection notice is the only message; no prompt is registered.
	assert.Equal(t, 0, wf.Pending())
	chat.AssertExpectations(t)
	chat.AssertNotCalled(t, "AddReaction", mock.Anything, mock.Anything, mock.Anything)
}

func TestBegin_DirectMessage(t *testing.T) {
	chat, wf, _ := setupTest(t)

	chat.On("SendEmbed", "c1", mock.AnythingOfType("discord.Embed")).Return("n1", nil).Once()

	wf.Begin(discord.MessageEvent{ChannelID: "c1", GuildID: "", AuthorID: "m1", AuthorName: "alice"})

	assert.Equal(t, 0, wf.Pending())
	chat.AssertExpectations(t)
	chat.AssertNotCalled(t, "AddReaction", mock.Anything, mock.Anything, mock.Anything)
}

func TestBegin_SendsPromptAndRegisters(t *testing.T) {
	chat, wf, _ := setupTest(t)

	beginPrompt(t, chat, wf, "p1")

	chat.AssertExpectations(t)
	chat.AssertNumberOfCalls(t, "AddReaction", len(models.AllTiers))
}

func TestHandleReaction_MismatchIsIgnored(t *testing.T) {
	chat, wf, db := setupTest(t)
	beginPrompt(t, chat, wf, "p1")

	// Wrong message id.
	wf.HandleReaction(discord.ReactionEvent{MessageID: "other", ChannelID: "c1", GuildID: "g1", UserID: "m1", EmojiName: "copper"})
	// Wrong user id (the bot's own seeded reactions look like this too).
	wf.HandleReaction(discord.ReactionEvent{MessageID: "p1", ChannelID: "c1", GuildID: "g1", UserID: "bot", EmojiName: "copper"})

	assert.Equal(t, 1, wf.Pending())
	assert.Equal(t, int64(0), walletCount(db))
}

func TestHandleReaction_ResolvesOnce(t *testing.T) {
	chat, wf, db := setupTest(t)
	beginPrompt(t, chat, wf, "p1")

	chat.On("EditEmbed", "c1", "p1", mock.AnythingOfType("discord.Embed")).Return(nil).Once()
	chat.On("ClearReactions", "c1", "p1").Return(nil).Once()

	match := discord.ReactionEvent{MessageID: "p1", ChannelID: "c1", GuildID: "g1", UserID: "m1", EmojiName: "bauxite"}
	wf.HandleReaction(match)

	assert.Equal(t, 0, wf.Pending())
	assert.Equal(t, int64(1), walletCount(db))

	var wallet models.Wallet
	db.First(&wallet)
	assert.Equal(t, "m1", wallet.MemberID)
	assert.Equal(t, models.TierBauxite, wallet.Tier)

	// A second matching reaction has no ledger effect.
	wf.HandleReaction(match)
	assert.Equal(t, int64(1), walletCount(db))
	chat.AssertExpectations(t)
}

func TestHandleReaction_InvalidEmojiDeregisters(t *testing.T) {
	chat, wf, db := setupTest(t)
	beginPrompt(t, chat, wf, "p1")

	// The failure notice goes to the originating channel.
	chat.On("SendEmbed", "c1", mock.AnythingOfType("discord.Embed")).Return("n1", nil).Once()

	wf.HandleReaction(discord.ReactionEvent{MessageID: "p1", ChannelID: "c1", GuildID: "g1", UserID: "m1", EmojiName: "pizza"})

	assert.Equal(t, 0, wf.Pending())
	assert.Equal(t, int64(0), walletCount(db))

	// Even a valid follow-up reaction is too late now.
	wf.HandleReaction(discord.ReactionEvent{MessageID: "p1", ChannelID: "c1", GuildID: "g1", UserID: "m1", EmojiName: "copper"})
	assert.Equal(t, int64(0), walletCount(db))
	chat.AssertExpectations(t)
}

func TestHandleReaction_CreateFailureNotifiesChannel(t *testing.T) {
	chat, wf, db := setupTest(t)
	beginPrompt(t, chat, wf, "p1")

	// Losing the seed coin makes wallet creation fail after the prompt.
	db.Delete(&models.Coin{}, "symbol = ?", "BTC")

	chat.On("SendEmbed", "c1", mock.AnythingOfType("discord.Embed")).Return("n1", nil).Once()

	wf.HandleReaction(discord.ReactionEvent{MessageID: "p1", ChannelID: "c1", GuildID: "g1", UserID: "m1", EmojiName: "uranium"})

	assert.Equal(t, 0, wf.Pending())
	assert.Equal(t, int64(0), walletCount(db))
	chat.AssertExpectations(t)
}

func TestConcurrentPrompts_DoNotCrossTrigger(t *testing.T) {
	chat, wf, db := setupTest(t)

	db.Create(&models.Member{ID: "m2", Name: "bob"})

	expectTierEmojis(chat, "g1")
	chat.On("SendEmbed", "c1", mock.AnythingOfType("discord.Embed")).Return("p1", nil).Once()
	chat.On("AddReaction", "c1", "p1", mock.AnythingOfType("discord.Emoji")).Return(nil)
	wf.Begin(discord.MessageEvent{ChannelID: "c1", GuildID: "g1", AuthorID: "m1", AuthorName: "alice"})

	chat.On("SendEmbed", "c2", mock.AnythingOfType("discord.Embed")).Return("p2", nil).Once()
	chat.On("AddReaction", "c2", "p2", mock.AnythingOfType("discord.Emoji")).Return(nil)
	wf.Begin(discord.MessageEvent{ChannelID: "c2", GuildID: "g1", AuthorID: "m2", AuthorName: "bob"})

	assert.Equal(t, 2, wf.Pending())

	// m2 reacting on m1's prompt must not resolve anything.
	wf.HandleReaction(discord.ReactionEvent{MessageID: "p1", ChannelID: "c1", GuildID: "g1", UserID: "m2", EmojiName: "copper"})
	assert.Equal(t, 2, wf.Pending())
	assert.Equal(t, int64(0), walletCount(db))

	// Each pair resolves only its own prompt.
	chat.On("EditEmbed", "c2", "p2", mock.AnythingOfType("discord.Embed")).Return(nil).Once()
	chat.On("ClearReactions", "c2", "p2").Return(nil).Once()
	wf.HandleReaction(discord.ReactionEvent{MessageID: "p2", ChannelID: "c2", GuildID: "g1", UserID: "m2", EmojiName: "copper"})

	assert.Equal(t, 1, wf.Pending())
	assert.Equal(t, int64(1), walletCount(db))

	var wallet models.Wallet
	db.First(&wallet)
	assert.Equal(t, "m2", wallet.MemberID)
	chat.AssertExpectations(t)
}
