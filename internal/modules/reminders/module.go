// Package reminders schedules DM notifications. A periodic sweep claims
// due reminders and delivers them, so restarts never lose or duplicate a
// notification.
package reminders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/averlyn/hookbot/internal/bot"
	"github.com/averlyn/hookbot/internal/rest"
)

func init() {
	bot.Register(&RemindersModule{})
}

// A month here is flat 30 days, matching what users expect from
// "remind me in a month" more often than calendar arithmetic would.
const month = 30 * 24 * time.Hour

func minValue(v float64) *float64 {
	return &v
}

// RemindersModule provides the /remind command group and the delivery
// sweep.
type RemindersModule struct {
	repo     *Repository
	rest     rest.API
	schedule string
}

// Name returns the module name.
func (m *RemindersModule) Name() string {
	return "reminders"
}

// SlashCommands returns the chat-input commands for this module.
func (m *RemindersModule) SlashCommands() []*bot.SlashCommand {
	return []*bot.SlashCommand{
		{
			Data: &discordgo.ApplicationCommand{
				Name:        "remind",
				Description: "Schedule a reminder delivered by DM",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        "set",
						Description: "Schedule a reminder",
						Options: []*discordgo.ApplicationCommandOption{
							{
								Type:        discordgo.ApplicationCommandOptionString,
								Name:        "text",
								Description: "What to remind you about",
								Required:    true,
							},
							{
								Type:        discordgo.ApplicationCommandOptionInteger,
								Name:        "months",
								Description: "Months from now (a month counts as 30 days)",
								MinValue:    minValue(1),
								MaxValue:    6,
							},
							{
								Type:        discordgo.ApplicationCommandOptionInteger,
								Name:        "days",
								Description: "Days from now",
								MinValue:    minValue(1),
								MaxValue:    100,
							},
							{
								Type:        discordgo.ApplicationCommandOptionInteger,
								Name:        "hours",
								Description: "Hours from now",
								MinValue:    minValue(1),
								MaxValue:    500,
							},
							{
								Type:        discordgo.ApplicationCommandOptionInteger,
								Name:        "minutes",
								Description: "Minutes from now",
								MinValue:    minValue(1),
								MaxValue:    1000,
							},
							{
								Type:        discordgo.ApplicationCommandOptionInteger,
								Name:        "seconds",
								Description: "Seconds from now",
								MinValue:    minValue(5),
								MaxValue:    1000000,
							},
						},
					},
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        "list",
						Description: "Show your pending reminders",
					},
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        "delete",
						Description: "Delete a pending reminder",
						Options: []*discordgo.ApplicationCommandOption{
							{
								Type:         discordgo.ApplicationCommandOptionString,
								Name:         "reminder",
								Description:  "The reminder to delete",
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
func (m *RemindersModule) ContextCommands() []*bot.ContextCommand {
	return nil
}

// Init initializes the module.
func (m *RemindersModule) Init(deps bot.ModuleDependencies) error {
	if deps.Store == nil {
		return errors.New("reminders module requires a store")
	}
	m.repo = NewRepository(deps.Store)
	m.rest = deps.REST
	m.schedule = deps.Config.ReminderSchedule
	return nil
}

// Shutdown cleans up module resources.
func (m *RemindersModule) Shutdown() error {
	return nil
}

// Schedule returns the cron spec for the delivery sweep.
func (m *RemindersModule) Schedule() string {
	return m.schedule
}

// RunScheduled delivers every due reminder by DM. Delivery failures are
// logged and the remaining reminders still go out.
func (m *RemindersModule) RunScheduled(ctx context.Context) error {
	due, err := m.repo.ClaimDue(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("failed to claim due reminders: %w", err)
	}

	for _, reminder := range due {
		if err := m.deliver(ctx, reminder); err != nil {
			slog.Error("failed to deliver reminder",
				"reminder", reminder.ID, "user", reminder.UserID, "error", err)
		}
	}
	return nil
}

func (m *RemindersModule) deliver(ctx context.Context, reminder Reminder) error {
	channelID, err := m.rest.CreateDM(ctx, reminder.UserID)
	if err != nil {
		return err
	}

	return m.rest.CreateMessage(ctx, channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       "Reminder",
				Description: reminder.Message,
				Timestamp:   reminder.DueAt.Format(time.RFC3339),
			},
		},
	})
}

func (m *RemindersModule) run(ctx context.Context, b *bot.Bot, i *discordgo.Interaction, opts *bot.Options) error {
	switch opts.Subcommand() {
	case "set":
		return m.runSet(ctx, b, i, opts)
	case "list":
		return m.runList(ctx, b, i)
	case "delete":
		return m.runDelete(ctx, b, i, opts)
	default:
		return fmt.Errorf("unknown remind subcommand %q", opts.Subcommand())
	}
}

func (m *RemindersModule) runSet(ctx context.Context, b *bot.Bot, i *discordgo.Interaction, opts *bot.Options) error {
	text, _ := opts.String("text")

	var lead time.Duration
	if v, ok := opts.Int("months"); ok {
		lead += time.Duration(v) * month
	}
	if v, ok := opts.Int("days"); ok {
		lead += time.Duration(v) * 24 * time.Hour
	}
	if v, ok := opts.Int("hours"); ok {
		lead += time.Duration(v) * time.Hour
	}
	if v, ok := opts.Int("minutes"); ok {
		lead += time.Duration(v) * time.Minute
	}
	if v, ok := opts.Int("seconds"); ok {
		lead += time.Duration(v) * time.Second
	}

	if lead <= 0 {
		content := "You must provide at least one time option."
		return b.EditReply(ctx, i, &discordgo.WebhookEdit{Content: &content})
	}

	user := bot.InvokingUser(i)
	reminder, err := m.repo.Add(ctx, user.ID, strings.TrimSpace(text), time.Now().Add(lead))
	if err != nil {
		return err
	}

	content := fmt.Sprintf("I will remind you <t:%d:R>: %s", reminder.DueAt.Unix(), reminder.Message)
	return b.EditReply(ctx, i, &discordgo.WebhookEdit{Content: &content})
}

func (m *RemindersModule) runList(ctx context.Context, b *bot.Bot, i *discordgo.Interaction) error {
	user := bot.InvokingUser(i)
	reminders, err := m.repo.ListByUser(ctx, user.ID)
	if err != nil {
		return err
	}

	if len(reminders) == 0 {
		content := "You have no pending reminders."
		return b.EditReply(ctx, i, &discordgo.WebhookEdit{Content: &content})
	}

	var sb strings.Builder
	sb.WriteString("Your pending reminders:\n")
	for idx, reminder := range reminders {
		fmt.Fprintf(&sb, "%d. <t:%d:R> %s\n", idx+1, reminder.DueAt.Unix(), reminder.Message)
	}

	content := sb.String()
	return b.EditReply(ctx, i, &discordgo.WebhookEdit{Content: &content})
}

func (m *RemindersModule) runDelete(ctx context.Context, b *bot.Bot, i *discordgo.Interaction, opts *bot.Options) error {
	user := bot.InvokingUser(i)
	id, _ := opts.String("reminder")

	removed, err := m.repo.Remove(ctx, user.ID, id)
	if err != nil {
		return err
	}

	content := "That reminder does not exist."
	if removed {
		content = "Reminder deleted."
	}
	return b.EditReply(ctx, i, &discordgo.WebhookEdit{Content: &content})
}

func (m *RemindersModule) autocomplete(ctx context.Context, b *bot.Bot, i *discordgo.Interaction, opts *bot.Options) ([]*discordgo.ApplicationCommandOptionChoice, error) {
	user := bot.InvokingUser(i)
	reminders, err := m.repo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	_, typed, _ := opts.Focused()
	typed = strings.ToLower(typed)

	var choices []*discordgo.ApplicationCommandOptionChoice
	for _, reminder := range reminders {
		if typed != "" && !strings.Contains(strings.ToLower(reminder.Message), typed) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  reminder.Message,
			Value: reminder.ID,
		})
		if len(choices) == 25 {
			break
		}
	}
	return choices, nil
}
