package bot

import (
	"github.com/bwmarrin/discordgo"
)

// Options resolves command option values, descending one subcommand level
// the way Discord nests them.
type Options struct {
	data       discordgo.ApplicationCommandInteractionData
	subcommand string
	values     map[string]*discordgo.ApplicationCommandInteractionDataOption
}

// ResolveOptions builds an Options view over interaction command data.
func ResolveOptions(data discordgo.ApplicationCommandInteractionData) *Options {
	o := &Options{
		data:   data,
		values: make(map[string]*discordgo.ApplicationCommandInteractionDataOption),
	}

	opts := data.Options
	if len(opts) == 1 && opts[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		o.subcommand = opts[0].Name
		opts = opts[0].Options
	}

	for _, opt := range opts {
		o.values[opt.Name] = opt
	}

	return o
}

// Subcommand returns the invoked subcommand name, or "" for a plain command.
func (o *Options) Subcommand() string {
	return o.subcommand
}

// String returns the named string option.
func (o *Options) String(name string) (string, bool) {
	opt, ok := o.values[name]
	if !ok {
		return "", false
	}
	return opt.StringValue(), true
}

// Int returns the named integer option.
func (o *Options) Int(name string) (int64, bool) {
	opt, ok := o.values[name]
	if !ok {
		return 0, false
	}
	return opt.IntValue(), true
}

// Float returns the named number option.
func (o *Options) Float(name string) (float64, bool) {
	opt, ok := o.values[name]
	if !ok {
		return 0, false
	}
	return opt.FloatValue(), true
}

// Bool returns the named boolean option. The second return distinguishes
// "not provided" from an explicit false.
func (o *Options) Bool(name string) (bool, bool) {
	opt, ok := o.values[name]
	if !ok {
		return false, false
	}
	return opt.BoolValue(), true
}

// UserID returns the named user option as an ID.
func (o *Options) UserID(name string) (string, bool) {
	opt, ok := o.values[name]
	if !ok {
		return "", false
	}
	id, ok := opt.Value.(string)
	return id, ok
}

// User returns the named user option resolved to a full user.
func (o *Options) User(name string) (*discordgo.User, bool) {
	id, ok := o.UserID(name)
	if !ok || o.data.Resolved == nil {
		return nil, false
	}
	user, ok := o.data.Resolved.Users[id]
	return user, ok
}

// Focused returns the name and current text of the focused autocomplete
// option.
func (o *Options) Focused() (string, string, bool) {
	for _, opt := range o.values {
		if opt.Focused {
			value, _ := opt.Value.(string)
			return opt.Name, value, true
		}
	}
	return "", "", false
}

// TargetUser returns the resolved user a user context-menu command was
// invoked on.
func (o *Options) TargetUser() (*discordgo.User, bool) {
	if o.data.Resolved == nil {
		return nil, false
	}
	user, ok := o.data.Resolved.Users[o.data.TargetID]
	return user, ok
}

// TargetMessage returns the resolved message a message context-menu
// command was invoked on.
func (o *Options) TargetMessage() (*discordgo.Message, bool) {
	if o.data.Resolved == nil {
		return nil, false
	}
	msg, ok := o.data.Resolved.Messages[o.data.TargetID]
	return msg, ok
}

// InvokingUser returns the user who triggered the interaction, whether it
// arrived from a guild (nested under Member) or a DM.
func InvokingUser(i *discordgo.Interaction) *discordgo.User {
	if i.User != nil {
		return i.User
	}
	if i.Member != nil {
		return i.Member.User
	}
	return nil
}
