// Package core provides the baseline commands every deployment carries:
// /ping, /fact, and the owner-only /ephemeral visibility toggle.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/averlyn/hookbot/internal/bot"
)

func init() {
	bot.Register(&CoreModule{facts: defaultFacts})
}

// CoreModule provides the baseline commands.
type CoreModule struct {
	facts FactSource
}

// Name returns the module name.
func (m *CoreModule) Name() string {
	return "core"
}

// SlashCommands returns the chat-input commands for this module.
func (m *CoreModule) SlashCommands() []*bot.SlashCommand {
	return []*bot.SlashCommand{
		{
			Data: &discordgo.ApplicationCommand{
				Name:        "ping",
				Description: "Replies with Pong and the observed latency",
				Options:     []*discordgo.ApplicationCommandOption{hideOption()},
			},
			Run: m.runPing,
		},
		{
			Data: &discordgo.ApplicationCommand{
				Name:        "fact",
				Description: "Replies with a random fact",
				Options:     []*discordgo.ApplicationCommandOption{hideOption()},
			},
			Run: m.runFact,
		},
		{
			Data: &discordgo.ApplicationCommand{
				Name:        "ephemeral",
				Description: "Toggles whether command replies are hidden by default",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "enabled",
						Description: "Explicit value instead of toggling",
					},
				},
			},
			OwnerOnly: true,
			Run:       m.runEphemeral,
		},
	}
}

// ContextCommands returns the context-menu commands for this module.
func (m *CoreModule) ContextCommands() []*bot.ContextCommand {
	return nil
}

// Init initializes the module.
func (m *CoreModule) Init(deps bot.ModuleDependencies) error {
	return nil
}

// Shutdown cleans up module resources.
func (m *CoreModule) Shutdown() error {
	return nil
}

// runPing derives latency from the interaction ID: Discord snowflakes
// embed their creation time.
func (m *CoreModule) runPing(ctx context.Context, b *bot.Bot, i *discordgo.Interaction, opts *bot.Options) error {
	content := "Pong!"
	if id, err := snowflake.Parse(i.ID); err == nil {
		latency := time.Since(id.Time()).Round(time.Millisecond)
		content = fmt.Sprintf("Pong! Took %s", latency)
	}

	return b.EditReply(ctx, i, &discordgo.WebhookEdit{Content: &content})
}

func (m *CoreModule) runFact(ctx context.Context, b *bot.Bot, i *discordgo.Interaction, opts *bot.Options) error {
	fact := m.facts.Fact()
	return b.EditReply(ctx, i, &discordgo.WebhookEdit{Content: &fact})
}

// runEphemeral flips the process-wide default reply visibility; an
// explicit enabled option sets it instead.
func (m *CoreModule) runEphemeral(ctx context.Context, b *bot.Bot, i *discordgo.Interaction, opts *bot.Options) error {
	next := !b.EphemeralDefault()
	if enabled, ok := opts.Bool("enabled"); ok {
		next = enabled
	}
	b.SetEphemeralDefault(next)

	content := "Command replies are now visible to everyone by default."
	if next {
		content = "Command replies are now hidden by default."
	}
	return b.EditReply(ctx, i, &discordgo.WebhookEdit{Content: &content})
}

func hideOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionBoolean,
		Name:        "hide",
		Description: "Hide the reply from other users",
	}
}
