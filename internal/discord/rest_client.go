package discord

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"discord-wallet-bot-go/internal/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const baseURL = "https://discord.com/api/v10"

// ClientInterface defines the interface for the Discord REST API client.
type ClientInterface interface {
	Me() (*User, error)
	SendEmbed(channelID string, embed Embed) (string, error)
	EditEmbed(channelID, messageID string, embed Embed) error
	AddReaction(channelID, messageID string, emoji Emoji) error
	ClearReactions(channelID, messageID string) error
	EmojiByName(guildID, name string) (Emoji, bool, error)
}

// RestClient is a client for the Discord REST API.
// It implements the ClientInterface.
type RestClient struct {
	client  *resty.Client
	logger  *zap.Logger
	limiter *rate.Limiter

	mu     sync.Mutex
	emojis map[string][]Emoji // guild id -> cached emoji list
}

// ensure RestClient implements the interface
var _ ClientInterface = (*RestClient)(nil)

// NewRestClient creates a new Discord REST API client.
func NewRestClient(cfg *config.Discord, logger *zap.Logger) *RestClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Authorization", "Bot "+cfg.Token).
		SetHeader("Content-Type", "application/json")

	// Initialize the rate limiter
	// rate.Limit is requests per second.
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	return &RestClient{
		client:  client,
		logger:  logger,
		limiter: limiter,
		emojis:  make(map[string][]Emoji),
	}
}

// doRequest handles the actual request execution with rate limiting and retry logic.
func (c *RestClient) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error
	const maxRetries = 3

	for i := 0; i < maxRetries; i++ {
		// Wait for the rate limiter
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Executing request", zap.String("method", method), zap.String("url", c.client.BaseURL+url))
		resp, err = req.Execute(method, url)

		if err == nil && !resp.IsError() {
			return resp, nil // Success
		}

		// Analyze error and decide whether to retry
		shouldRetry := false
		var retryAfter time.Duration

		if resp != nil {
			statusCode := resp.StatusCode()
			if statusCode == http.StatusTooManyRequests {
				shouldRetry = true
				retryAfterHeader := resp.Header().Get("Retry-After")
				if seconds, err := strconv.Atoi(retryAfterHeader); err == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			} else if statusCode >= 500 { // Server errors
				shouldRetry = true
			}
		} else { // Network or other client-side errors
			shouldRetry = true
		}

		if !shouldRetry {
			return nil, fmt.Errorf("request failed with status %s: %s", resp.Status(), resp.String())
		}

		// If we should retry, calculate wait time
		if retryAfter == 0 {
			// Exponential backoff: 1s, 2s, 4s
			retryAfter = time.Duration(math.Pow(2, float64(i))) * time.Second
		}

		c.logger.Warn("Request failed, retrying...",
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
}

// Me fetches the bot's own user. This is a good endpoint to test
// connectivity and token validity.
func (c *RestClient) Me() (*User, error) {
	var user User
	req := c.client.R().SetResult(&user)

	_, err := c.doRequest(context.Background(), "GET", "/users/@me", req)
	if err != nil {
		c.logger.Error("Failed to fetch own user", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch own user: %w", err)
	}
	return &user, nil
}

// SendEmbed posts an embed message to a channel and returns the new
// message's id.
func (c *RestClient) SendEmbed(channelID string, embed Embed) (string, error) {
	var msg Message
	body := map[string]interface{}{"embeds": []Embed{embed}}
	req := c.client.R().SetBody(body).SetResult(&msg)

	_, err := c.doRequest(context.Background(), "POST", fmt.Sprintf("/channels/%s/messages", channelID), req)
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}
	return msg.ID, nil
}

// EditEmbed replaces the embed of a previously sent message.
func (c *RestClient) EditEmbed(channelID, messageID string, embed Embed) error {
	body := map[string]interface{}{"embeds": []Embed{embed}}
	req := c.client.R().SetBody(body)

	_, err := c.doRequest(context.Background(), "PATCH",
		fmt.Sprintf("/channels/%s/messages/%s", channelID, messageID), req)
	if err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// AddReaction adds the bot's own reaction to a message.
func (c *RestClient) AddReaction(channelID, messageID string, emoji Emoji) error {
	req := c.client.R()

	_, err := c.doRequest(context.Background(), "PUT",
		fmt.Sprintf("/channels/%s/messages/%s/reactions/%s/@me",
			channelID, messageID, url.PathEscape(emoji.ReactionCode())), req)
	if err != nil {
		return fmt.Errorf("failed to add reaction: %w", err)
	}
	return nil
}

// ClearReactions removes all reactions from a message.
func (c *RestClient) ClearReactions(channelID, messageID string) error {
	req := c.client.R()

	_, err := c.doRequest(context.Background(), "DELETE",
		fmt.Sprintf("/channels/%s/messages/%s/reactions", channelID, messageID), req)
	if err != nil {
		return fmt.Errorf("failed to clear reactions: %w", err)
	}
	return nil
}

// EmojiByName finds a guild custom emoji by name, case-insensitively.
// The guild's emoji list is fetched once and cached.
func (c *RestClient) EmojiByName(guildID, name string) (Emoji, bool, error) {
	c.mu.Lock()
	list, ok := c.emojis[guildID]
	c.mu.Unlock()

	if !ok {
		req := c.client.R().SetResult(&list)
		_, err := c.doRequest(context.Background(), "GET", fmt.Sprintf("/guilds/%s/emojis", guildID), req)
		if err != nil {
			return Emoji{}, false, fmt.Errorf("failed to list guild emojis: %w", err)
		}
		c.mu.Lock()
		c.emojis[guildID] = list
		c.mu.Unlock()
	}

	for _, e := range list {
		if strings.EqualFold(e.Name, name) {
			return e, true, nil
		}
	}
	return Emoji{}, false, nil
}
