// Package userinfo reports account details for a user, reachable as
// /userinfo or through the user context menu.
package userinfo

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/averlyn/hookbot/internal/bot"
)

func init() {
	bot.Register(&UserinfoModule{})
}

// UserinfoModule provides the /userinfo command and its context-menu
// twin.
type UserinfoModule struct{}

// Name returns the module name.
func (m *UserinfoModule) Name() string {
	return "userinfo"
}

// SlashCommands returns the chat-input commands for this module.
func (m *UserinfoModule) SlashCommands() []*bot.SlashCommand {
	return []*bot.SlashCommand{
		{
			Data: &discordgo.ApplicationCommand{
				Name:        "userinfo",
				Description: "Show account details for a user",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "user",
						Description: "The user to inspect, yourself when omitted",
					},
				},
			},
			Run: m.runSlash,
		},
	}
}

// ContextCommands returns the context-menu commands for this module.
func (m *UserinfoModule) ContextCommands() []*bot.ContextCommand {
	return []*bot.ContextCommand{
		{
			Data: &discordgo.ApplicationCommand{
				Name: "User Info",
				Type: discordgo.UserApplicationCommand,
			},
			Run: m.runContext,
		},
	}
}

// Init initializes the module.
func (m *UserinfoModule) Init(deps bot.ModuleDependencies) error {
	return nil
}

// Shutdown cleans up module resources.
func (m *UserinfoModule) Shutdown() error {
	return nil
}

func (m *UserinfoModule) runSlash(ctx context.Context, b *bot.Bot, i *discordgo.Interaction, opts *bot.Options) error {
	target, ok := opts.User("user")
	if !ok {
		target = bot.InvokingUser(i)
	}
	return m.reply(ctx, b, i, target)
}

func (m *UserinfoModule) runContext(ctx context.Context, b *bot.Bot, i *discordgo.Interaction, opts *bot.Options) error {
	target, ok := opts.TargetUser()
	if !ok {
		content := "Could not resolve that user."
		return b.EditReply(ctx, i, &discordgo.WebhookEdit{Content: &content})
	}
	return m.reply(ctx, b, i, target)
}

func (m *UserinfoModule) reply(ctx context.Context, b *bot.Bot, i *discordgo.Interaction, user *discordgo.User) error {
	embed := &discordgo.MessageEmbed{
		Title: user.Username,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "ID", Value: user.ID, Inline: true},
		},
	}

	if id, err := snowflake.Parse(user.ID); err == nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Created",
			Value:  fmt.Sprintf("<t:%d:F>", id.Time().Unix()),
			Inline: true,
		})
		embed.Timestamp = id.Time().Format(time.RFC3339)
	}

	if user.Bot {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Bot", Value: "Yes", Inline: true,
		})
	}

	if avatar := user.AvatarURL("256"); avatar != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: avatar}
	}

	return b.EditReply(ctx, i, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	})
}
