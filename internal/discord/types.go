package discord

// Embed is the subset of a Discord message embed the bot renders.
type Embed struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Color       int    `json:"color,omitempty"`
}

// Emoji is a guild custom emoji.
type Emoji struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Formatted returns the mention form used inside message text.
func (e Emoji) Formatted() string {
	if e.ID == "" {
		return e.Name
	}
	return "<:" + e.Name + ":" + e.ID + ">"
}

// ReactionCode returns the form used in reaction endpoints.
func (e Emoji) ReactionCode() string {
	if e.ID == "" {
		return e.Name
	}
	return e.Name + ":" + e.ID
}

// Message is the subset of a message resource the bot reads back.
type Message struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
}

// User is the subset of a user resource the bot reads back.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Bot      bool   `json:"bot"`
}

// MessageEvent is a MESSAGE_CREATE dispatch reduced to what the command
// layer consumes. GuildID is empty for direct messages.
type MessageEvent struct {
	MessageID  string
	ChannelID  string
	GuildID    string
	AuthorID   string
	AuthorName string
	Content    string
	Bot        bool
}

// ReactionEvent is a MESSAGE_REACTION_ADD dispatch reduced to the
// message/user/emoji triple the selection workflow keys on.
type ReactionEvent struct {
	MessageID string
	ChannelID string
	GuildID   string
	UserID    string
	EmojiName string
}
