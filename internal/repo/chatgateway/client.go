package chatgateway

import (
	"context"
	"fmt"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/go-resty/resty/v2"
	"github.com/tuannha-ct/merch-bot/pkg/util"
)

const requestTimeout = 30 * time.Second

// Client delivers bot replies back to the chat service.
type Client interface {
	SendMessage(ctx context.Context, channelID, text string) error
	SendTyping(ctx context.Context, channelID string) error
}

type Config struct {
	BaseURL   string
	Token     string
	BotUserID string
}

type client struct {
	http      *resty.Client
	botUserID string
}

// NewClient returns a REST gateway client, or a no-op client when no
// gateway URL is configured.
func NewClient(cfg Config) Client {
	if cfg.BaseURL == "" {
		return noopClient{}
	}

	http := util.NewRestyClient().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.Token)

	return &client{
		http:      http,
		botUserID: cfg.BotUserID,
	}
}

type sendMessageRequest struct {
	SenderID string `json:"sender_id"`
	Text     string `json:"text"`
}

func (c *client) SendMessage(ctx context.Context, channelID, text string) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.http.R().
		SetContext(timeoutCtx).
		SetBody(sendMessageRequest{SenderID: c.botUserID, Text: text}).
		Post(fmt.Sprintf("/api/v1/channels/%s/messages", channelID))
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("send message: gateway returned %s", resp.Status())
	}
	return nil
}

func (c *client) SendTyping(ctx context.Context, channelID string) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.http.R().
		SetContext(timeoutCtx).
		SetBody(map[string]string{"sender_id": c.botUserID}).
		Post(fmt.Sprintf("/api/v1/channels/%s/typing", channelID))
	if err != nil {
		return fmt.Errorf("send typing: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("send typing: gateway returned %s", resp.Status())
	}
	return nil
}

// noopClient keeps local runs working without a chat service.
type noopClient struct{}

func (noopClient) SendMessage(ctx context.Context, channelID, text string) error {
	log.Debugw(ctx, "Chat gateway disabled, dropping reply", "channel_id", channelID, "text", text)
	return nil
}

func (noopClient) SendTyping(ctx context.Context, channelID string) error {
	return nil
}
