// Package bookmarks lets users save messages through a context-menu
// command and browse them later.
package bookmarks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/averlyn/hookbot/internal/bot"
	"github.com/averlyn/hookbot/internal/interactions"
)

func init() {
	bot.Register(&BookmarksModule{confirmWindow: 60 * time.Second})
}

const (
	actionConfirmDelete = "bookmark-delete-confirm"
	actionCancelDelete  = "bookmark-delete-cancel"
)

// BookmarksModule provides the Bookmark context-menu command and the
// /bookmarks command group.
type BookmarksModule struct {
	repo *Repository

	// confirmWindow bounds how long a delete confirmation stays armed.
	confirmWindow time.Duration
}

// Name returns the module name.
func (m *BookmarksModule) Name() string {
	return "bookmarks"
}

// SlashCommands returns the chat-input commands for this module.
func (m *BookmarksModule) SlashCommands() []*bot.SlashCommand {
	return []*bot.SlashCommand{
		{
			Data: &discordgo.ApplicationCommand{
				Name:        "bookmarks",
				Description: "Browse your saved messages",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        "get",
						Description: "Show your bookmarks",
					},
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        "delete",
						Description: "Delete a bookmark",
						Options: []*discordgo.ApplicationCommandOption{
							{
								Type:         discordgo.ApplicationCommandOptionString,
								Name:         "bookmark",
								Description:  "The bookmark to delete",
								Required:     true,
								Autocomplete: true,
							},
						},
					},
				},
			},
			Run:          m.run,
			Autocomplete: m.autocomplete,
		},
	}
}

// ContextCommands returns the context-menu commands for this module.
func (m *BookmarksModule) ContextCommands() []*bot.ContextCommand {
	return []*bot.ContextCommand{
		{
			Data: &discordgo.ApplicationCommand{
				Name: "Bookmark",
				Type: discordgo.MessageApplicationCommand,
			},
			Run: m.runBookmark,
		},
	}
}

// Init initializes the module.
func (m *BookmarksModule) Init(deps bot.ModuleDependencies) error {
	if deps.Store == nil {
		return errors.New("bookmarks module requires a store")
	}
	m.repo = NewRepository(deps.Store)
	return nil
}

// Shutdown cleans up module resources.
func (m *BookmarksModule) Shutdown() error {
	return nil
}

// runBookmark handles the message context-menu command.
func (m *BookmarksModule) runBookmark(ctx context.Context, b *bot.Bot, i *discordgo.Interaction, opts *bot.Options) error {
	msg, ok := opts.TargetMessage()
	if !ok {
		content := "Could not resolve that message."
		return b.EditReply(ctx, i, &discordgo.WebhookEdit{Content: &content})
	}

	user := bot.InvokingUser(i)
	mark := Bookmark{
		MessageID: msg.ID,
		ChannelID: msg.ChannelID,
		GuildID:   i.GuildID,
		Preview:   preview(msg.Content),
	}
	if msg.Author != nil {
		mark.Author = msg.Author.Username
	}

	saved, err := m.repo.Add(ctx, user.ID, mark)
	if err != nil {
		return err
	}

	content := fmt.Sprintf("Bookmarked! %s", saved.Link())
	return b.EditReply(ctx, i, &discordgo.WebhookEdit{Content: &content})
}

func (m *BookmarksModule) run(ctx context.Context, b *bot.Bot, i *discordgo.Interaction, opts *bot.Options) error {
	switch opts.Subcommand() {
	case "get":
		return m.runGet(ctx, b, i)
	case "delete":
		return m.runDelete(ctx, b, i, opts)
	default:
		return fmt.Errorf("unknown bookmarks subcommand %q", opts.Subcommand())
	}
}

func (m *BookmarksModule) runGet(ctx context.Context, b *bot.Bot, i *discordgo.Interaction) error {
	user := bot.InvokingUser(i)
	marks, err := m.repo.List(ctx, user.ID)
	if err != nil {
		return err
	}

	if len(marks) == 0 {
		content := "You have no bookmarks."
		return b.EditReply(ctx, i, &discordgo.WebhookEdit{Content: &content})
	}

	embed := &discordgo.MessageEmbed{
		Title:  "Your bookmarks",
		Fields: make([]*discordgo.MessageEmbedField, 0, len(marks)),
	}
	for _, mark := range marks {
		name := mark.Author
		if name == "" {
			name = "unknown author"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  name,
			Value: fmt.Sprintf("%s\n%s", mark.Preview, mark.Link()),
		})
	}

	return b.EditReply(ctx, i, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	})
}

// runDelete asks for confirmation with buttons owned by the invoker and
// waits on a collector for the button press.
func (m *BookmarksModule) runDelete(ctx context.Context, b *bot.Bot, i *discordgo.Interaction, opts *bot.Options) error {
	user := bot.InvokingUser(i)

	id, _ := opts.String("bookmark")
	mark, found, err := m.repo.Find(ctx, user.ID, id)
	if err != nil {
		return err
	}
	if !found {
		content := "That bookmark does not exist."
		return b.EditReply(ctx, i, &discordgo.WebhookEdit{Content: &content})
	}

	confirmID := interactions.CustomID(actionConfirmDelete, user.ID)
	cancelID := interactions.CustomID(actionCancelDelete, user.ID)

	// Collect before the buttons become visible so an immediate press
	// cannot slip past the subscription.
	c := b.NewCollector(interactions.CollectorOptions{
		Filter: func(pressed *discordgo.Interaction) bool {
			customID := pressed.MessageComponentData().CustomID
			return customID == confirmID || customID == cancelID
		},
		Max:     1,
		Timeout: m.confirmWindow,
	})
	defer c.Stop("resolved")

	content := fmt.Sprintf("Delete this bookmark? %s", mark.Link())
	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Delete", Style: discordgo.DangerButton, CustomID: confirmID},
				discordgo.Button{Label: "Cancel", Style: discordgo.SecondaryButton, CustomID: cancelID},
			},
		},
	}
	err = b.EditReply(ctx, i, &discordgo.WebhookEdit{
		Content:    &content,
		Components: &components,
	})
	if err != nil {
		return err
	}

	end := <-c.Done()

	result := "Confirmation timed out, nothing was deleted."
	if len(end.Collected) > 0 {
		switch interactions.CustomIDAction(end.Collected[0].MessageComponentData().CustomID) {
		case actionConfirmDelete:
			removed, err := m.repo.Remove(ctx, user.ID, mark.ID)
			if err != nil {
				return err
			}
			result = "That bookmark no longer exists."
			if removed {
				result = "Bookmark deleted."
			}
		case actionCancelDelete:
			result = "Deletion cancelled."
		}
	}

	none := []discordgo.MessageComponent{}
	return b.EditReply(ctx, i, &discordgo.WebhookEdit{
		Content:    &result,
		Components: &none,
	})
}

func (m *BookmarksModule) autocomplete(ctx context.Context, b *bot.Bot, i *discordgo.Interaction, opts *bot.Options) ([]*discordgo.ApplicationCommandOptionChoice, error) {
	user := bot.InvokingUser(i)
	marks, err := m.repo.List(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	_, typed, _ := opts.Focused()
	typed = strings.ToLower(typed)

	var choices []*discordgo.ApplicationCommandOptionChoice
	for _, mark := range marks {
		label := mark.Preview
		if label == "" {
			label = mark.Link()
		}
		if typed != "" && !strings.Contains(strings.ToLower(label), typed) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  label,
			Value: mark.ID,
		})
		if len(choices) == 25 {
			break
		}
	}
	return choices, nil
}

// preview trims message content to a choice-sized excerpt.
func preview(content string) string {
	content = strings.TrimSpace(content)
	runes := []rune(content)
	if len(runes) > 80 {
		return string(runes[:79]) + "…"
	}
	return content
}
