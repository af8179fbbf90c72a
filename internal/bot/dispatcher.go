package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/averlyn/hookbot/internal/interactions"
)

// ErrUnknownInteractionType is returned for interaction types the
// dispatcher does not recognize; the transport surfaces it as HTTP 400.
var ErrUnknownInteractionType = errors.New("unknown interaction type")

// User-facing dispatch messages.
const (
	msgCommandNotFound   = "Command not found, something went wrong"
	msgOwnerOnly         = "This command is for owners only"
	msgNotYourComponent  = "This is not your interaction."
	msgInternalError     = "An error occurred while processing your command."
	msgNoAutocompleteCmd = "No command found! Something went wrong"
)

// HandleInteraction classifies a verified interaction and returns the
// response the transport writes back to Discord. Slash and context-menu
// commands are acknowledged with a deferred response and run on their own
// goroutine; component and modal interactions are published to the event
// bus for any active collector.
func (b *Bot) HandleInteraction(ctx context.Context, i *discordgo.Interaction) (*discordgo.InteractionResponse, error) {
	switch i.Type {
	case discordgo.InteractionPing:
		// Terminal: no bus publication, no registry lookup.
		return &discordgo.InteractionResponse{Type: discordgo.InteractionResponsePong}, nil

	case discordgo.InteractionApplicationCommand:
		b.bus.Publish(i)
		return b.handleApplicationCommand(ctx, i), nil

	case discordgo.InteractionApplicationCommandAutocomplete:
		b.bus.Publish(i)
		return b.handleAutocomplete(ctx, i), nil

	case discordgo.InteractionMessageComponent:
		return b.handleMessageComponent(i), nil

	case discordgo.InteractionModalSubmit:
		b.bus.Publish(i)
		return &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredMessageUpdate}, nil

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownInteractionType, i.Type)
	}
}

// handleApplicationCommand routes a slash or context-menu invocation.
func (b *Bot) handleApplicationCommand(ctx context.Context, i *discordgo.Interaction) *discordgo.InteractionResponse {
	data := i.ApplicationCommandData()

	var (
		run       RunFunc
		ownerOnly bool
		found     bool
	)

	switch data.CommandType {
	case discordgo.UserApplicationCommand, discordgo.MessageApplicationCommand:
		if cmd, ok := b.commands.Context(data.Name); ok {
			run, ownerOnly, found = cmd.Run, cmd.OwnerOnly, true
		}
	default:
		// Chat input; older payloads omit the command type entirely.
		if cmd, ok := b.commands.Slash(data.Name); ok {
			run, ownerOnly, found = cmd.Run, cmd.OwnerOnly, true
		}
	}

	if !found {
		slog.Warn("found no handler for command", "command", data.Name)
		return ephemeralMessage(msgCommandNotFound)
	}

	user := InvokingUser(i)
	if ownerOnly && (user == nil || !b.config.IsOwner(user.ID)) {
		// Expected and benign; not logged as an error.
		return ephemeralMessage(msgOwnerOnly)
	}

	opts := ResolveOptions(data)
	flags := b.HideFlags(opts)

	// The deferred acknowledgment is the HTTP response; the handler edits
	// it when the real work finishes. Detach from the request context so
	// the handler outlives the HTTP exchange.
	go b.runCommand(context.WithoutCancel(ctx), data.Name, run, i, opts)

	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: flags},
	}
}

// runCommand invokes a handler, converting both returned errors and panics
// into exactly one logged error and one generic internal-error reply.
func (b *Bot) runCommand(ctx context.Context, name string, run RunFunc, i *discordgo.Interaction, opts *Options) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("command handler panicked", "command", name, "panic", r)
			b.replyInternalError(ctx, i)
		}
	}()

	if err := run(ctx, b, i, opts); err != nil {
		slog.Error("failed to handle command", "command", name, "error", err)
		b.replyInternalError(ctx, i)
	}
}

// replyInternalError edits the deferred reply with a generic failure
// message; internal error text never reaches the requester.
func (b *Bot) replyInternalError(ctx context.Context, i *discordgo.Interaction) {
	content := msgInternalError
	err := b.EditReply(ctx, i, &discordgo.WebhookEdit{Content: &content})
	if err != nil {
		slog.Error("failed to send internal error reply", "error", err)
	}
}

// handleAutocomplete resolves choices for a focused option. Autocomplete
// consumers expect a choices payload, never an HTTP error, so every
// failure path degrades to a choice list.
func (b *Bot) handleAutocomplete(ctx context.Context, i *discordgo.Interaction) *discordgo.InteractionResponse {
	data := i.ApplicationCommandData()

	cmd, ok := b.commands.Slash(data.Name)
	if !ok {
		slog.Warn("autocomplete for unknown command", "command", data.Name)
		return autocompleteResult([]*discordgo.ApplicationCommandOptionChoice{
			{Name: msgNoAutocompleteCmd, Value: "null"},
		})
	}

	// Registration should guarantee an autocomplete handler exists, but a
	// missing one degrades to no results rather than a crash.
	if cmd.Autocomplete == nil {
		slog.Warn("command has no autocomplete handler", "command", data.Name)
		return autocompleteResult(nil)
	}

	choices, err := b.safeAutocomplete(ctx, cmd, i, ResolveOptions(data))
	if err != nil {
		slog.Error("autocomplete handler failed", "command", data.Name, "error", err)
		return autocompleteResult(nil)
	}

	return autocompleteResult(choices)
}

// safeAutocomplete invokes the handler, converting a panic into an error.
func (b *Bot) safeAutocomplete(ctx context.Context, cmd *SlashCommand, i *discordgo.Interaction, opts *Options) (choices []*discordgo.ApplicationCommandOptionChoice, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("autocomplete panicked: %v", r)
		}
	}()

	return cmd.Autocomplete(ctx, b, i, opts)
}

// handleMessageComponent gates a component interaction on the owner
// embedded in its custom_id and forwards it to collectors. A component
// that fails the ownership check is never published.
func (b *Bot) handleMessageComponent(i *discordgo.Interaction) *discordgo.InteractionResponse {
	data := i.MessageComponentData()

	if owner, restricted := interactions.CustomIDOwner(data.CustomID); restricted {
		user := InvokingUser(i)
		if user == nil || user.ID != owner {
			return ephemeralMessage(msgNotYourComponent)
		}
	}

	b.bus.Publish(i)

	// Neutral acknowledgment; a collector-driven handler edits the
	// message through the webhook if it wants to react.
	return &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredMessageUpdate}
}

func ephemeralMessage(content string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}
}

func autocompleteResult(choices []*discordgo.ApplicationCommandOptionChoice) *discordgo.InteractionResponse {
	if choices == nil {
		choices = []*discordgo.ApplicationCommandOptionChoice{}
	}
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	}
}
