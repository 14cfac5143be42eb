package discord

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bitly/go-simplejson"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const gatewayURL = "wss://gateway.discord.gg/?v=10&encoding=json"

// Gateway opcodes used by the bot.
const (
	opDispatch     = 0
	opHeartbeat    = 1
	opIdentify     = 2
	opHello        = 10
	opHeartbeatAck = 11
)

// Gateway intents: guilds, guild messages, guild message reactions,
// message content.
const gatewayIntents = (1 << 0) | (1 << 9) | (1 << 10) | (1 << 15)

const reconnectDelay = 5 * time.Second

// MessageHandler receives MESSAGE_CREATE dispatches.
type MessageHandler func(MessageEvent)

// ReactionHandler receives MESSAGE_REACTION_ADD dispatches.
type ReactionHandler func(ReactionEvent)

// Gateway maintains the Discord gateway connection and fans incoming
// dispatches out to the registered handlers.
type Gateway struct {
	logger     *zap.Logger
	token      string
	url        string
	onMessage  MessageHandler
	onReaction ReactionHandler

	writeMu sync.Mutex
	conn    *websocket.Conn
	seq     int64
	haveSeq bool
}

// NewGateway creates a gateway client. Handlers may be nil; matching
// dispatches are then dropped.
func NewGateway(token string, logger *zap.Logger, onMessage MessageHandler, onReaction ReactionHandler) *Gateway {
	return &Gateway{
		logger:     logger.Named("gateway"),
		token:      token,
		url:        gatewayURL,
		onMessage:  onMessage,
		onReaction: onReaction,
	}
}

// Run connects and serves the gateway until the context is cancelled,
// reconnecting after connection failures.
func (g *Gateway) Run(ctx context.Context) error {
	for {
		err := g.serve(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		g.logger.Warn("Gateway connection lost, reconnecting...", zap.Error(err))

		select {
		case <-time.After(reconnectDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// serve runs one connection lifetime: dial, hello/identify handshake,
// heartbeat loop and the read loop.
func (g *Gateway) serve(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, g.url, nil)
	if err != nil {
		return fmt.Errorf("failed to dial gateway: %w", err)
	}
	defer conn.Close()

	// Unblock the read loop when the context ends.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	g.writeMu.Lock()
	g.conn = conn
	g.haveSeq = false
	g.writeMu.Unlock()

	interval, err := g.readHello(conn)
	if err != nil {
		return err
	}

	if err := g.identify(); err != nil {
		return fmt.Errorf("failed to identify: %w", err)
	}
	g.logger.Info("Gateway connected", zap.Duration("heartbeat_interval", interval))

	stop := make(chan struct{})
	defer close(stop)
	go g.heartbeatLoop(interval, stop)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("failed to read gateway frame: %w", err)
		}
		if err := g.handleFrame(payload); err != nil {
			g.logger.Warn("Dropping unreadable gateway frame", zap.Error(err))
		}
	}
}

// readHello consumes the initial hello frame and returns the heartbeat
// interval it carries.
func (g *Gateway) readHello(conn *websocket.Conn) (time.Duration, error) {
	_, payload, err := conn.ReadMessage()
	if err != nil {
		return 0, fmt.Errorf("failed to read hello frame: %w", err)
	}
	j, err := simplejson.NewJson(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to parse hello frame: %w", err)
	}
	if op := j.Get("op").MustInt(); op != opHello {
		return 0, fmt.Errorf("expected hello opcode, got %d", op)
	}
	ms := j.Get("d").Get("heartbeat_interval").MustInt()
	if ms <= 0 {
		return 0, fmt.Errorf("hello frame carries no heartbeat interval")
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func (g *Gateway) identify() error {
	return g.write(map[string]interface{}{
		"op": opIdentify,
		"d": map[string]interface{}{
			"token":   g.token,
			"intents": gatewayIntents,
			"properties": map[string]string{
				"os":      "linux",
				"browser": "discord-wallet-bot-go",
				"device":  "discord-wallet-bot-go",
			},
		},
	})
}

func (g *Gateway) heartbeatLoop(interval time.Duration, stop chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := g.heartbeat(); err != nil {
				g.logger.Warn("Failed to send heartbeat", zap.Error(err))
				return
			}
		}
	}
}

func (g *Gateway) heartbeat() error {
	g.writeMu.Lock()
	defer g.writeMu.Unlock()
	if g.conn == nil {
		return fmt.Errorf("gateway not connected")
	}
	var d interface{}
	if g.haveSeq {
		d = g.seq
	}
	return g.conn.WriteJSON(map[string]interface{}{"op": opHeartbeat, "d": d})
}

func (g *Gateway) write(v interface{}) error {
	g.writeMu.Lock()
	defer g.writeMu.Unlock()
	if g.conn == nil {
		return fmt.Errorf("gateway not connected")
	}
	return g.conn.WriteJSON(v)
}

// handleFrame parses one gateway frame and dispatches it.
func (g *Gateway) handleFrame(payload []byte) error {
	j, err := simplejson.NewJson(payload)
	if err != nil {
		return fmt.Errorf("failed to parse frame: %w", err)
	}

	if s, err := j.Get("s").Int64(); err == nil {
		g.writeMu.Lock()
		g.seq = s
		g.haveSeq = true
		g.writeMu.Unlock()
	}

	switch j.Get("op").MustInt() {
	case opDispatch:
		g.dispatch(j.Get("t").MustString(), j.Get("d"))
	case opHeartbeat:
		// The server may ask for an immediate beat.
		if err := g.heartbeat(); err != nil {
			return err
		}
	case opHeartbeatAck:
		// Nothing to track; a dead connection surfaces as a read error.
	}
	return nil
}

func (g *Gateway) dispatch(event string, d *simplejson.Json) {
	switch event {
	case "MESSAGE_CREATE":
		if g.onMessage == nil {
			return
		}
		g.onMessage(MessageEvent{
			MessageID:  d.Get("id").MustString(),
			ChannelID:  d.Get("channel_id").MustString(),
			GuildID:    d.Get("guild_id").MustString(),
			AuthorID:   d.Get("author").Get("id").MustString(),
			AuthorName: d.Get("author").Get("username").MustString(),
			Content:    d.Get("content").MustString(),
			Bot:        d.Get("author").Get("bot").MustBool(),
		})
	case "MESSAGE_REACTION_ADD":
		if g.onReaction == nil {
			return
		}
		g.onReaction(ReactionEvent{
			MessageID: d.Get("message_id").MustString(),
			ChannelID: d.Get("channel_id").MustString(),
			GuildID:   d.Get("guild_id").MustString(),
			UserID:    d.Get("user_id").MustString(),
			EmojiName: d.Get("emoji").Get("name").MustString(),
		})
	}
}
