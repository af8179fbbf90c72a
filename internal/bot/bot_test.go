package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/averlyn/hookbot/internal/interactions"
	"github.com/averlyn/hookbot/internal/rest"
)

func TestNewBot(t *testing.T) {
	cfg := &Config{DiscordToken: "test-token"}
	b := NewBot(cfg, &rest.Recorder{}, interactions.NewBus())

	if b == nil {
		t.Fatal("expected bot to be created, got nil")
	}
	if b.config != cfg {
		t.Error("expected config to be stored")
	}
	if !b.EphemeralDefault() {
		t.Error("expected ephemeral default to start enabled")
	}
}

func TestBot_Init_InitializesModulesAndCommands(t *testing.T) {
	cfg := &Config{DiscordToken: "test-token"}
	b := NewBot(cfg, &rest.Recorder{}, interactions.NewBus())

	mod := &stubModule{
		name:  "stub",
		slash: []*SlashCommand{slashNamed("ping")},
	}
	b.modules = []Module{mod}

	if err := b.Init(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mod.initCalled {
		t.Error("expected module Init to be called")
	}
	if _, ok := b.commands.Slash("ping"); !ok {
		t.Error("expected module command to be registered")
	}
}

func TestBot_Init_ModuleInitFailure(t *testing.T) {
	cfg := &Config{DiscordToken: "test-token"}
	b := NewBot(cfg, &rest.Recorder{}, interactions.NewBus())

	b.modules = []Module{&stubModule{name: "broken", initErr: errors.New("boom")}}

	if err := b.Init(); err == nil {
		t.Error("expected init failure to propagate")
	}
}

func TestBot_Init_DuplicateCommandName(t *testing.T) {
	cfg := &Config{DiscordToken: "test-token"}
	b := NewBot(cfg, &rest.Recorder{}, interactions.NewBus())

	b.modules = []Module{
		&stubModule{name: "first", slash: []*SlashCommand{slashNamed("ping")}},
		&stubModule{name: "second", slash: []*SlashCommand{slashNamed("ping")}},
	}

	if err := b.Init(); err == nil {
		t.Error("expected duplicate command name to fail init")
	}
}

func TestBot_Stop_ShutsDownModules(t *testing.T) {
	cfg := &Config{DiscordToken: "test-token"}
	b := NewBot(cfg, &rest.Recorder{}, interactions.NewBus())

	mod := &stubModule{name: "stub"}
	b.modules = []Module{mod}

	if err := b.Stop(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mod.shutCalled {
		t.Error("expected module Shutdown to be called")
	}
}

func TestBot_HideFlags(t *testing.T) {
	cfg := &Config{DiscordToken: "test-token"}
	b := NewBot(cfg, &rest.Recorder{}, interactions.NewBus())

	hide := func(value bool) *Options {
		return ResolveOptions(discordgo.ApplicationCommandInteractionData{
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "hide", Type: discordgo.ApplicationCommandOptionBoolean, Value: value},
			},
		})
	}
	none := ResolveOptions(discordgo.ApplicationCommandInteractionData{})

	if b.HideFlags(none) != discordgo.MessageFlagsEphemeral {
		t.Error("expected the default to apply without a hide option")
	}
	if b.HideFlags(hide(false)) != 0 {
		t.Error("expected explicit hide=false to override the default")
	}

	b.SetEphemeralDefault(false)
	if b.HideFlags(none) != 0 {
		t.Error("expected the disabled default to apply")
	}
	if b.HideFlags(hide(true)) != discordgo.MessageFlagsEphemeral {
		t.Error("expected explicit hide=true to override the default")
	}
}

func TestBot_RegisterCommands(t *testing.T) {
	cfg := &Config{DiscordToken: "test-token", ApplicationID: "app-1"}
	recorder := &rest.Recorder{}
	b := NewBot(cfg, recorder, interactions.NewBus())

	b.modules = []Module{
		&stubModule{
			name:    "stub",
			slash:    []*SlashCommand{slashNamed("ping")},
			contexts: []*ContextCommand{contextNamed("User Info")},
		},
	}
	if err := b.Init(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := b.RegisterCommands(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := recorder.CallsTo("BulkOverwriteCommands")
	if len(calls) != 1 {
		t.Fatalf("expected 1 bulk overwrite, got %d", len(calls))
	}
	if calls[0].ApplicationID != "app-1" || len(calls[0].Commands) != 2 {
		t.Errorf("unexpected registration %+v", calls[0])
	}
}

func TestBot_ScheduledModules(t *testing.T) {
	cfg := &Config{DiscordToken: "test-token"}
	b := NewBot(cfg, &rest.Recorder{}, interactions.NewBus())

	b.modules = []Module{
		&stubModule{name: "plain"},
		&scheduledStubModule{stubModule: stubModule{name: "periodic"}},
	}

	scheduled := b.ScheduledModules()
	if len(scheduled) != 1 || scheduled[0].Schedule() != "@every 1m" {
		t.Errorf("unexpected scheduled modules %+v", scheduled)
	}
}

type scheduledStubModule struct {
	stubModule
}

func (m *scheduledStubModule) Schedule() string {
	return "@every 1m"
}

func (m *scheduledStubModule) RunScheduled(ctx context.Context) error {
	return nil
}
