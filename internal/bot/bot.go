// Package bot wires configuration, command modules, and the interaction
// dispatch pipeline into one facade that command handlers respond through.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"

	"github.com/averlyn/hookbot/internal/interactions"
	"github.com/averlyn/hookbot/internal/rest"
	"github.com/averlyn/hookbot/internal/storage"
)

// Bot manages module lifecycle and routes interactions to command
// handlers. It holds no mutable dispatch state of its own: the command
// registry is read-only after Init and the event bus is append-only
// fan-out.
type Bot struct {
	config   *Config
	rest     rest.API
	bus      *interactions.Bus
	store    storage.Store
	modules  []Module
	commands *Commands

	// ephemeral is the default visibility for replies when a command has
	// no explicit hide option. Toggled at runtime by /ephemeral.
	ephemeral atomic.Bool
}

// NewBot creates a new Bot instance with the given configuration and
// collaborators.
func NewBot(cfg *Config, api rest.API, bus *interactions.Bus) *Bot {
	b := &Bot{
		config:   cfg,
		rest:     api,
		bus:      bus,
		modules:  make([]Module, 0),
		commands: NewCommands(),
	}
	b.ephemeral.Store(true)

	return b
}

// LoadModules loads modules from the global registry.
func (b *Bot) LoadModules() {
	b.modules = Modules()
}

// Init initializes all loaded modules and builds the command registry.
// A duplicate command name within a namespace is a fatal startup error.
func (b *Bot) Init() error {
	deps := ModuleDependencies{
		Config: b.config,
		REST:   b.rest,
		Bus:    b.bus,
		Store:  b.store,
	}

	for _, mod := range b.modules {
		if err := mod.Init(deps); err != nil {
			return fmt.Errorf("failed to initialize %s module: %w", mod.Name(), err)
		}
		slog.Debug("initialized module", "module", mod.Name())
	}

	for _, mod := range b.modules {
		for _, cmd := range mod.SlashCommands() {
			if err := b.commands.AddSlash(cmd); err != nil {
				return fmt.Errorf("module %s: %w", mod.Name(), err)
			}
		}
		for _, cmd := range mod.ContextCommands() {
			if err := b.commands.AddContext(cmd); err != nil {
				return fmt.Errorf("module %s: %w", mod.Name(), err)
			}
		}
	}

	moduleNames := make([]string, len(b.modules))
	for i, mod := range b.modules {
		moduleNames[i] = mod.Name()
	}
	slog.Info("initialized modules", "modules", moduleNames)

	return nil
}

// Stop gracefully shuts down all modules.
func (b *Bot) Stop() error {
	for _, mod := range b.modules {
		if err := mod.Shutdown(); err != nil {
			slog.Warn("failed to shutdown module", "module", mod.Name(), "error", err)
		}
	}

	return nil
}

// Config returns the bot configuration.
func (b *Bot) Config() *Config {
	return b.config
}

// REST returns the Discord REST collaborator.
func (b *Bot) REST() rest.API {
	return b.rest
}

// SetStore attaches the record store modules persist through. It must be
// called before Init.
func (b *Bot) SetStore(store storage.Store) {
	b.store = store
}

// Store returns the attached record store, nil when none is configured.
func (b *Bot) Store() storage.Store {
	return b.store
}

// ScheduledModules returns the loaded modules that request periodic work.
func (b *Bot) ScheduledModules() []ScheduledModule {
	var out []ScheduledModule
	for _, mod := range b.modules {
		if s, ok := mod.(ScheduledModule); ok {
			out = append(out, s)
		}
	}
	return out
}

// ApplicationCommands returns the Discord definitions of every registered
// command.
func (b *Bot) ApplicationCommands() []*discordgo.ApplicationCommand {
	return b.commands.All()
}

// RegisterCommands replaces the application's global commands with the
// currently registered set.
func (b *Bot) RegisterCommands(ctx context.Context) error {
	commands := b.ApplicationCommands()
	if err := b.rest.BulkOverwriteCommands(ctx, b.config.ApplicationID, commands); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	slog.Info("registered application commands", "count", len(commands))
	return nil
}

// SetEphemeralDefault changes whether replies are ephemeral when a command
// has no explicit hide option.
func (b *Bot) SetEphemeralDefault(ephemeral bool) {
	b.ephemeral.Store(ephemeral)
}

// EphemeralDefault returns the current default reply visibility.
func (b *Bot) EphemeralDefault() bool {
	return b.ephemeral.Load()
}

// HideFlags resolves the reply visibility for a command invocation: an
// explicit hide option wins, otherwise the process-wide default applies.
func (b *Bot) HideFlags(opts *Options) discordgo.MessageFlags {
	if hide, ok := opts.Bool("hide"); ok {
		if hide {
			return discordgo.MessageFlagsEphemeral
		}
		return 0
	}

	if b.ephemeral.Load() {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}

// Reply sends an immediate channel-message response to the interaction.
func (b *Bot) Reply(ctx context.Context, i *discordgo.Interaction, data *discordgo.InteractionResponseData) error {
	return b.rest.ReplyToInteraction(ctx, i.ID, i.Token, data)
}

// EditReply edits the original reply to the interaction.
func (b *Bot) EditReply(ctx context.Context, i *discordgo.Interaction, data *discordgo.WebhookEdit) error {
	return b.rest.EditInteractionReply(ctx, i.AppID, i.Token, data, rest.OriginalMessage)
}

// FollowUp creates a follow-up message on the interaction.
func (b *Bot) FollowUp(ctx context.Context, i *discordgo.Interaction, data *discordgo.WebhookParams) error {
	return b.rest.FollowUpInteraction(ctx, i.AppID, i.Token, data)
}

// Update responds to a component interaction by updating its message.
func (b *Bot) Update(ctx context.Context, i *discordgo.Interaction, data *discordgo.InteractionResponseData) error {
	return b.rest.UpdateInteractionMessage(ctx, i.ID, i.Token, data)
}

// DeleteReply deletes the original reply to the interaction.
func (b *Bot) DeleteReply(ctx context.Context, i *discordgo.Interaction) error {
	return b.rest.DeleteInteractionReply(ctx, i.AppID, i.Token, rest.OriginalMessage)
}

// NewCollector creates a collector subscribed to the interaction bus.
func (b *Bot) NewCollector(opts interactions.CollectorOptions) *interactions.Collector {
	return interactions.NewCollector(b.bus, opts)
}
