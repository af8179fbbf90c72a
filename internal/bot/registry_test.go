package bot

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
)

// stubModule is a test double for Module
type stubModule struct {
	name     string
	slash    []*SlashCommand
	contexts []*ContextCommand
	initErr  error
	shutErr  error

	initCalled bool
	shutCalled bool
}

func (m *stubModule) Name() string { return m.name }

func (m *stubModule) SlashCommands() []*SlashCommand { return m.slash }

func (m *stubModule) ContextCommands() []*ContextCommand { return m.contexts }

func (m *stubModule) Init(deps ModuleDependencies) error {
	m.initCalled = true
	return m.initErr
}

func (m *stubModule) Shutdown() error {
	m.shutCalled = true
	return m.shutErr
}

func noopRun(ctx context.Context, b *Bot, i *discordgo.Interaction, opts *Options) error {
	return nil
}

func slashNamed(name string) *SlashCommand {
	return &SlashCommand{
		Data: &discordgo.ApplicationCommand{Name: name, Description: name},
		Run:  noopRun,
	}
}

func contextNamed(name string) *ContextCommand {
	return &ContextCommand{
		Data: &discordgo.ApplicationCommand{Name: name, Type: discordgo.UserApplicationCommand},
		Run:  noopRun,
	}
}

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()

	mod := &stubModule{name: "test-module"}
	reg.Register(mod)

	modules := reg.Modules()
	if len(modules) != 1 {
		t.Fatalf("expected 1 module, got %d", len(modules))
	}

	if modules[0].Name() != "test-module" {
		t.Errorf("expected module name %q, got %q", "test-module", modules[0].Name())
	}
}

func TestRegistry_ModulesReturnsSnapshot(t *testing.T) {
	reg := NewRegistry()

	reg.Register(&stubModule{name: "module-1"})
	modules := reg.Modules()
	reg.Register(&stubModule{name: "module-2"})

	if len(modules) != 1 {
		t.Errorf("expected snapshot to have 1 module, got %d", len(modules))
	}
}

func TestGlobalRegistry(t *testing.T) {
	ResetGlobalRegistry()
	t.Cleanup(ResetGlobalRegistry)

	mod := &stubModule{name: "global-test"}
	Register(mod)

	modules := Modules()
	if len(modules) != 1 {
		t.Fatalf("expected 1 module, got %d", len(modules))
	}
	if modules[0].Name() != "global-test" {
		t.Errorf("expected module name %q, got %q", "global-test", modules[0].Name())
	}
}

func TestCommands_DuplicateSlashNameFails(t *testing.T) {
	commands := NewCommands()

	if err := commands.AddSlash(slashNamed("ping")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := commands.AddSlash(slashNamed("ping")); err == nil {
		t.Error("expected duplicate slash registration to fail")
	}
}

func TestCommands_DuplicateContextNameFails(t *testing.T) {
	commands := NewCommands()

	if err := commands.AddContext(contextNamed("User Info")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := commands.AddContext(contextNamed("User Info")); err == nil {
		t.Error("expected duplicate context registration to fail")
	}
}

func TestCommands_SameNameAcrossNamespacesSucceeds(t *testing.T) {
	commands := NewCommands()

	if err := commands.AddSlash(slashNamed("bookmark")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := commands.AddContext(contextNamed("bookmark")); err != nil {
		t.Errorf("expected same name in separate namespace to succeed, got %v", err)
	}
}

func TestCommands_LookupMissReturnsFalse(t *testing.T) {
	commands := NewCommands()

	if _, ok := commands.Slash("nope"); ok {
		t.Error("expected lookup miss for slash namespace")
	}
	if _, ok := commands.Context("nope"); ok {
		t.Error("expected lookup miss for context namespace")
	}
}

func TestCommands_AllCollectsBothNamespaces(t *testing.T) {
	commands := NewCommands()

	if err := commands.AddSlash(slashNamed("ping")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := commands.AddContext(contextNamed("User Info")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := len(commands.All()); got != 2 {
		t.Errorf("expected 2 definitions, got %d", got)
	}
}
