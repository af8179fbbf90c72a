// Package rest is a minimal Discord REST client covering the endpoints the
// bot needs: interaction responses, webhook edits and follow-ups, DM
// creation, and application command registration.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
)

// DefaultBaseURL is the Discord API base used when none is configured.
const DefaultBaseURL = "https://discord.com/api/v10"

// OriginalMessage addresses the initial interaction reply in edit and
// delete calls.
const OriginalMessage = "@original"

// API is the surface the dispatcher and command modules respond through.
// It is an interface so handlers can be exercised against a recorder
// without a live Discord connection.
type API interface {
	// ReplyToInteraction sends an immediate channel-message response.
	ReplyToInteraction(ctx context.Context, id, token string, data *discordgo.InteractionResponseData) error

	// DeferInteraction acknowledges the interaction with a deferred
	// channel-message response.
	DeferInteraction(ctx context.Context, id, token string, data *discordgo.InteractionResponseData) error

	// UpdateInteractionMessage responds to a component interaction by
	// updating the message the component is attached to.
	UpdateInteractionMessage(ctx context.Context, id, token string, data *discordgo.InteractionResponseData) error

	// CreateAutocompleteResponse responds to an autocomplete interaction
	// with a choices payload.
	CreateAutocompleteResponse(ctx context.Context, id, token string, choices []*discordgo.ApplicationCommandOptionChoice) error

	// EditInteractionReply edits a previous reply. Pass OriginalMessage
	// as messageID to edit the initial response.
	EditInteractionReply(ctx context.Context, applicationID, token string, data *discordgo.WebhookEdit, messageID string) error

	// DeleteInteractionReply deletes a previous reply.
	DeleteInteractionReply(ctx context.Context, applicationID, token, messageID string) error

	// FollowUpInteraction creates a follow-up message on the interaction.
	FollowUpInteraction(ctx context.Context, applicationID, token string, data *discordgo.WebhookParams) error

	// CreateDM opens (or reuses) a DM channel with the user and returns
	// its channel ID.
	CreateDM(ctx context.Context, userID string) (string, error)

	// CreateMessage posts a message to a channel.
	CreateMessage(ctx context.Context, channelID string, data *discordgo.MessageSend) error

	// BulkOverwriteCommands replaces the application's global commands.
	BulkOverwriteCommands(ctx context.Context, applicationID string, commands []*discordgo.ApplicationCommand) error
}

// Client is the HTTP implementation of API.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// Ensure Client implements API.
var _ API = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (for testing).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient creates a Client authenticating with the given bot token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		token:      token,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ReplyToInteraction sends an immediate channel-message response.
func (c *Client) ReplyToInteraction(ctx context.Context, id, token string, data *discordgo.InteractionResponseData) error {
	return c.respond(ctx, id, token, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// DeferInteraction acknowledges the interaction, promising a later edit.
func (c *Client) DeferInteraction(ctx context.Context, id, token string, data *discordgo.InteractionResponseData) error {
	return c.respond(ctx, id, token, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	})
}

// UpdateInteractionMessage updates the message a component is attached to.
func (c *Client) UpdateInteractionMessage(ctx context.Context, id, token string, data *discordgo.InteractionResponseData) error {
	return c.respond(ctx, id, token, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: data,
	})
}

// CreateAutocompleteResponse answers an autocomplete interaction.
func (c *Client) CreateAutocompleteResponse(ctx context.Context, id, token string, choices []*discordgo.ApplicationCommandOptionChoice) error {
	return c.respond(ctx, id, token, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
}

func (c *Client) respond(ctx context.Context, id, token string, response *discordgo.InteractionResponse) error {
	route := fmt.Sprintf("/interactions/%s/%s/callback", id, token)
	return c.do(ctx, http.MethodPost, route, response)
}

// EditInteractionReply edits a previous interaction reply.
func (c *Client) EditInteractionReply(ctx context.Context, applicationID, token string, data *discordgo.WebhookEdit, messageID string) error {
	if messageID == "" {
		messageID = OriginalMessage
	}
	route := fmt.Sprintf("/webhooks/%s/%s/messages/%s", applicationID, token, messageID)
	return c.do(ctx, http.MethodPatch, route, data)
}

// DeleteInteractionReply deletes a previous interaction reply.
func (c *Client) DeleteInteractionReply(ctx context.Context, applicationID, token, messageID string) error {
	if messageID == "" {
		messageID = OriginalMessage
	}
	route := fmt.Sprintf("/webhooks/%s/%s/messages/%s", applicationID, token, messageID)
	return c.do(ctx, http.MethodDelete, route, nil)
}

// FollowUpInteraction creates a follow-up message on the interaction.
func (c *Client) FollowUpInteraction(ctx context.Context, applicationID, token string, data *discordgo.WebhookParams) error {
	route := fmt.Sprintf("/webhooks/%s/%s", applicationID, token)
	return c.do(ctx, http.MethodPost, route, data)
}

// CreateDM opens a DM channel with the user and returns its channel ID.
func (c *Client) CreateDM(ctx context.Context, userID string) (string, error) {
	body := map[string]string{"recipient_id": userID}

	var channel discordgo.Channel
	if err := c.doJSON(ctx, http.MethodPost, "/users/@me/channels", body, &channel); err != nil {
		return "", err
	}

	return channel.ID, nil
}

// CreateMessage posts a message to a channel.
func (c *Client) CreateMessage(ctx context.Context, channelID string, data *discordgo.MessageSend) error {
	route := fmt.Sprintf("/channels/%s/messages", channelID)
	return c.do(ctx, http.MethodPost, route, data)
}

// BulkOverwriteCommands replaces the application's global commands.
func (c *Client) BulkOverwriteCommands(ctx context.Context, applicationID string, commands []*discordgo.ApplicationCommand) error {
	route := fmt.Sprintf("/applications/%s/commands", applicationID)
	return c.do(ctx, http.MethodPut, route, commands)
}

// do performs a request and discards any response body.
func (c *Client) do(ctx context.Context, method, route string, body any) error {
	return c.doJSON(ctx, method, route, body, nil)
}

// doJSON performs a request, optionally decoding the response into out.
func (c *Client) doJSON(ctx context.Context, method, route string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+route, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bot "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", route, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("discord api returned %d for %s %s: %s", resp.StatusCode, method, route, payload)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", route, err)
		}
	}

	return nil
}
