// Package messageinfo dumps the raw payload of a message through a
// message context-menu command.
package messageinfo

import (
	"context"
	"encoding/json"

	"github.com/bwmarrin/discordgo"

	"github.com/averlyn/hookbot/internal/bot"
)

func init() {
	bot.Register(&MessageinfoModule{})
}

// Replies cap out at 2000 characters; leave room for the code fence.
const maxDump = 1980

// MessageinfoModule provides the Message Info context-menu command.
type MessageinfoModule struct{}

// Name returns the module name.
func (m *MessageinfoModule) Name() string {
	return "messageinfo"
}

// SlashCommands returns the chat-input commands for this module.
func (m *MessageinfoModule) SlashCommands() []*bot.SlashCommand {
	return nil
}

// ContextCommands returns the context-menu commands for this module.
func (m *MessageinfoModule) ContextCommands() []*bot.ContextCommand {
	return []*bot.ContextCommand{
		{
			Data: &discordgo.ApplicationCommand{
				Name: "Message Info",
				Type: discordgo.MessageApplicationCommand,
			},
			Run: m.runContext,
		},
	}
}

// Init initializes the module.
func (m *MessageinfoModule) Init(deps bot.ModuleDependencies) error {
	return nil
}

// Shutdown cleans up module resources.
func (m *MessageinfoModule) Shutdown() error {
	return nil
}

func (m *MessageinfoModule) runContext(ctx context.Context, b *bot.Bot, i *discordgo.Interaction, opts *bot.Options) error {
	msg, ok := opts.TargetMessage()
	if !ok {
		content := "Could not resolve that message."
		return b.EditReply(ctx, i, &discordgo.WebhookEdit{Content: &content})
	}

	content := "```json\n" + dump(msg) + "\n```"
	return b.EditReply(ctx, i, &discordgo.WebhookEdit{Content: &content})
}

// dump renders the message as indented JSON, truncated to fit a reply.
func dump(msg *discordgo.Message) string {
	raw, err := json.MarshalIndent(msg, "", "  ")
	if err != nil {
		return "could not render message"
	}
	if len(raw) > maxDump {
		raw = raw[:maxDump]
	}
	return string(raw)
}
