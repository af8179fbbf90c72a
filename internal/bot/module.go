package bot

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/averlyn/hookbot/internal/interactions"
	"github.com/averlyn/hookbot/internal/rest"
	"github.com/averlyn/hookbot/internal/storage"
)

// RunFunc executes a command. It runs on its own goroutine after the
// dispatcher has acknowledged the interaction with a deferred response, so
// implementations respond by editing the reply through the bot facade.
type RunFunc func(ctx context.Context, b *Bot, i *discordgo.Interaction, opts *Options) error

// AutocompleteFunc produces choices for a focused autocomplete option. It
// runs synchronously; the returned choices become the HTTP response.
type AutocompleteFunc func(ctx context.Context, b *Bot, i *discordgo.Interaction, opts *Options) ([]*discordgo.ApplicationCommandOptionChoice, error)

// SlashCommand describes one chat-input command.
type SlashCommand struct {
	// Data is the definition registered with Discord. Data.Name is the
	// routing key.
	Data *discordgo.ApplicationCommand

	// OwnerOnly restricts the command to the configured owner allow-list.
	OwnerOnly bool

	Run RunFunc

	// Autocomplete must be set when any option has autocomplete enabled.
	Autocomplete AutocompleteFunc
}

// ContextCommand describes one user or message context-menu command.
// Data.Type distinguishes the two.
type ContextCommand struct {
	Data      *discordgo.ApplicationCommand
	OwnerOnly bool
	Run       RunFunc
}

// ModuleDependencies provides dependencies that modules may need during
// initialization.
type ModuleDependencies struct {
	Config *Config
	REST   rest.API
	Bus    *interactions.Bus
	Store  storage.Store
}

// Module defines the interface that all bot modules must implement.
type Module interface {
	// Name returns the unique identifier for this module.
	Name() string

	// SlashCommands returns the chat-input commands this module provides.
	SlashCommands() []*SlashCommand

	// ContextCommands returns the context-menu commands this module provides.
	ContextCommands() []*ContextCommand

	// Init initializes the module with the provided dependencies.
	Init(deps ModuleDependencies) error

	// Shutdown gracefully shuts down the module.
	Shutdown() error
}

// ScheduledModule is an optional interface for modules that need periodic
// work driven by the process scheduler.
type ScheduledModule interface {
	// Schedule returns the cron spec for RunScheduled.
	Schedule() string

	// RunScheduled performs one scheduled pass. It must not block
	// interaction handling; long work belongs on the module's own
	// goroutines.
	RunScheduled(ctx context.Context) error
}
