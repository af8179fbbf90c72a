// Package todo provides per-user todo lists with a button-confirmed
// delete flow.
package todo

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
	bot.Register(&TodoModule{confirmWindow: 60 * time.Second})
}

const (
	actionConfirmDelete = "todo-delete-confirm"
	actionCancelDelete  = "todo-delete-cancel"
)

// TodoModule provides the /todo command group.
type TodoModule struct {
	repo *Repository

	// confirmWindow bounds how long a delete confirmation stays armed.
	confirmWindow time.Duration
}

// Name returns the module name.
func (m *TodoModule) Name() string {
	return "todo"
}

// SlashCommands returns the chat-input commands for this module.
func (m *TodoModule) SlashCommands() []*bot.SlashCommand {
	return []*bot.SlashCommand{
		{
			Data: &discordgo.ApplicationCommand{
				Name:        "todo",
				Description: "Manage your todo list",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        "get",
						Description: "Show your todo list",
					},
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        "create",
						Description: "Add an entry to your todo list",
						Options: []*discordgo.ApplicationCommandOption{
							{
								Type:        discordgo.ApplicationCommandOptionString,
								Name:        "text",
								Description: "The entry text",
								Required:    true,
							},
						},
					},
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        "delete",
						Description: "Delete an entry from your todo list",
						Options: []*discordgo.ApplicationCommandOption{
							{
								Type:         discordgo.ApplicationCommandOptionString,
								Name:         "entry",
								Description:  "The entry to delete",
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
func (m *TodoModule) ContextCommands() []*bot.ContextCommand {
	return nil
}

// Init initializes the module.
func (m *TodoModule) Init(deps bot.ModuleDependencies) error {
	if deps.Store == nil {
		return errors.New("todo module requires a store")
	}
	m.repo = NewRepository(deps.Store)
	return nil
}

// Shutdown cleans up module resources.
func (m *TodoModule) Shutdown() error {
	return nil
}

func (m *TodoModule) run(ctx context.Context, b *bot.Bot, i *discordgo.Interaction, opts *bot.Options) error {
	switch opts.Subcommand() {
	case "get":
		return m.runGet(ctx, b, i)
	case "create":
		return m.runCreate(ctx, b, i, opts)
	case "delete":
		return m.runDelete(ctx, b, i, opts)
	default:
		return fmt.Errorf("unknown todo subcommand %q", opts.Subcommand())
	}
}

func (m *TodoModule) runGet(ctx context.Context, b *bot.Bot, i *discordgo.Interaction) error {
	user := bot.InvokingUser(i)
	entries, err := m.repo.List(ctx, user.ID)
	if err != nil {
		return err
	}

	content := formatEntries(entries)
	return b.EditReply(ctx, i, &discordgo.WebhookEdit{Content: &content})
}

func (m *TodoModule) runCreate(ctx context.Context, b *bot.Bot, i *discordgo.Interaction, opts *bot.Options) error {
	text, ok := opts.String("text")
	if !ok || strings.TrimSpace(text) == "" {
		content := "The entry text cannot be empty."
		return b.EditReply(ctx, i, &discordgo.WebhookEdit{Content: &content})
	}

	user := bot.InvokingUser(i)
	entry, err := m.repo.Add(ctx, user.ID, strings.TrimSpace(text))
	if err != nil {
		return err
	}

	content := fmt.Sprintf("Added to your todo list: %s", entry.Text)
	return b.EditReply(ctx, i, &discordgo.WebhookEdit{Content: &content})
}

// runDelete asks for confirmation with buttons owned by the invoker and
// waits on a collector for the button press.
func (m *TodoModule) runDelete(ctx context.Context, b *bot.Bot, i *discordgo.Interaction, opts *bot.Options) error {
	user := bot.InvokingUser(i)

	id, _ := opts.String("entry")
	entry, found, err := m.repo.Find(ctx, user.ID, id)
	if err != nil {
		return err
	}
	if !found {
		content := "That entry does not exist."
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

	content := fmt.Sprintf("Delete this entry? %s", entry.Text)
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
			removed, err := m.repo.Remove(ctx, user.ID, entry.ID)
			if err != nil {
				return err
			}
			result = "That entry no longer exists."
			if removed {
				result = fmt.Sprintf("Deleted: %s", entry.Text)
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

// autocomplete offers the invoker's entries whose text contains the
// typed fragment.
func (m *TodoModule) autocomplete(ctx context.Context, b *bot.Bot, i *discordgo.Interaction, opts *bot.Options) ([]*discordgo.ApplicationCommandOptionChoice, error) {
	user := bot.InvokingUser(i)
	entries, err := m.repo.List(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	_, typed, _ := opts.Focused()
	typed = strings.ToLower(typed)

	var choices []*discordgo.ApplicationCommandOptionChoice
	for _, entry := range entries {
		if typed != "" && !strings.Contains(strings.ToLower(entry.Text), typed) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  truncate(entry.Text, 100),
			Value: entry.ID,
		})
		if len(choices) == 25 {
			break
		}
	}
	return choices, nil
}

func formatEntries(entries []Entry) string {
	if len(entries) == 0 {
		return "Your todo list is empty."
	}

	var sb strings.Builder
	sb.WriteString("Your todo list:\n")
	for idx, entry := range entries {
		fmt.Fprintf(&sb, "%d. %s\n", idx+1, entry.Text)
	}
	return sb.String()
}

// truncate shortens s to at most n runes. Discord caps choice names at
// 100 characters.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
