package bot

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Registry collects the modules that make up the bot. Modules add
// themselves from init() through the package-level Register, so the
// registration order follows import order in cmd/hookbot.
type Registry struct {
	mu      sync.RWMutex
	modules []Module
}

// NewRegistry creates an empty module registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a module.
func (r *Registry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules = append(r.modules, m)
}

// Modules returns the registered modules. The slice is a copy; callers
// may reorder or filter it freely.
func (r *Registry) Modules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Module, len(r.modules))
	copy(out, r.modules)
	return out
}

var globalRegistry = NewRegistry()

// Register adds a module to the process-wide registry. Module packages
// call this from init().
func Register(m Module) {
	globalRegistry.Register(m)
}

// Modules returns every module added through Register.
func Modules() []Module {
	return globalRegistry.Modules()
}

// ResetGlobalRegistry discards all registered modules. Tests use it to
// isolate themselves from the init() side effects of imported modules.
func ResetGlobalRegistry() {
	globalRegistry = NewRegistry()
}

// Commands maps command names to descriptors. Slash and context-menu
// commands live in separate namespaces because Discord allows the same
// name for both.
type Commands struct {
	slash    map[string]*SlashCommand
	contexts map[string]*ContextCommand
}

// NewCommands creates an empty command registry.
func NewCommands() *Commands {
	return &Commands{
		slash:    make(map[string]*SlashCommand),
		contexts: make(map[string]*ContextCommand),
	}
}

// AddSlash registers a slash command. Registering a duplicate name is an
// error; callers treat it as fatal at startup.
func (c *Commands) AddSlash(cmd *SlashCommand) error {
	name := cmd.Data.Name
	if _, exists := c.slash[name]; exists {
		return fmt.Errorf("slash command %q is already registered", name)
	}

	c.slash[name] = cmd
	return nil
}

// AddContext registers a context-menu command. Registering a duplicate
// name is an error; callers treat it as fatal at startup.
func (c *Commands) AddContext(cmd *ContextCommand) error {
	name := cmd.Data.Name
	if _, exists := c.contexts[name]; exists {
		return fmt.Errorf("context command %q is already registered", name)
	}

	c.contexts[name] = cmd
	return nil
}

// Slash looks up a slash command by name. Absence is a normal, recoverable
// case: the caller may be acting on a stale client-side command cache.
func (c *Commands) Slash(name string) (*SlashCommand, bool) {
	cmd, ok := c.slash[name]
	return cmd, ok
}

// Context looks up a context-menu command by name.
func (c *Commands) Context(name string) (*ContextCommand, bool) {
	cmd, ok := c.contexts[name]
	return cmd, ok
}

// All returns the Discord definitions of every registered command, for
// registration with the API.
func (c *Commands) All() []*discordgo.ApplicationCommand {
	out := make([]*discordgo.ApplicationCommand, 0, len(c.slash)+len(c.contexts))
	for _, cmd := range c.slash {
		out = append(out, cmd.Data)
	}
	for _, cmd := range c.contexts {
		out = append(out, cmd.Data)
	}
	return out
}
