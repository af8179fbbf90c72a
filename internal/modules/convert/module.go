// Package convert provides /convert for unit conversions.
package convert

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/averlyn/hookbot/internal/bot"
)

func init() {
	bot.Register(&ConvertModule{})
}

// ConvertModule provides the /convert command.
type ConvertModule struct{}

// Name returns the module name.
func (m *ConvertModule) Name() string {
	return "convert"
}

// SlashCommands returns the chat-input commands for this module.
func (m *ConvertModule) SlashCommands() []*bot.SlashCommand {
	unitChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(unitOrder))
	for _, name := range unitOrder {
		unitChoices = append(unitChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  units[name].label,
			Value: name,
		})
	}

	return []*bot.SlashCommand{
		{
			Data: &discordgo.ApplicationCommand{
				Name:        "convert",
				Description: "Convert a value between units",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionNumber,
						Name:        "value",
						Description: "The value to convert",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "from",
						Description: "The unit to convert from",
						Required:    true,
						Choices:     unitChoices,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "to",
						Description: "The unit to convert to",
						Required:    true,
						Choices:     unitChoices,
					},
				},
			},
			Run: m.run,
		},
	}
}

// ContextCommands returns the context-menu commands for this module.
func (m *ConvertModule) ContextCommands() []*bot.ContextCommand {
	return nil
}

// Init initializes the module.
func (m *ConvertModule) Init(deps bot.ModuleDependencies) error {
	return nil
}

// Shutdown cleans up module resources.
func (m *ConvertModule) Shutdown() error {
	return nil
}

func (m *ConvertModule) run(ctx context.Context, b *bot.Bot, i *discordgo.Interaction, opts *bot.Options) error {
	value, _ := opts.Float("value")
	from, _ := opts.String("from")
	to, _ := opts.String("to")

	result, err := Convert(value, from, to)
	if err != nil {
		content := err.Error()
		return b.EditReply(ctx, i, &discordgo.WebhookEdit{Content: &content})
	}

	content := fmt.Sprintf("%s = %s", formatQuantity(value, from), formatQuantity(result, to))
	return b.EditReply(ctx, i, &discordgo.WebhookEdit{Content: &content})
}

type dimension int

const (
	temperature dimension = iota
	length
	mass
)

// unit converts to and from a per-dimension base: celsius, meters, or
// kilograms. base = value*factor + offset.
type unit struct {
	label  string
	dim    dimension
	factor float64
	offset float64
}

var units = map[string]unit{
	"c":  {label: "Celsius", dim: temperature, factor: 1},
	"f":  {label: "Fahrenheit", dim: temperature, factor: 5.0 / 9.0, offset: -160.0 / 9.0},
	"k":  {label: "Kelvin", dim: temperature, factor: 1, offset: -273.15},
	"m":  {label: "Meters", dim: length, factor: 1},
	"km": {label: "Kilometers", dim: length, factor: 1000},
	"mi": {label: "Miles", dim: length, factor: 1609.344},
	"ft": {label: "Feet", dim: length, factor: 0.3048},
	"kg": {label: "Kilograms", dim: mass, factor: 1},
	"lb": {label: "Pounds", dim: mass, factor: 0.45359237},
}

var unitOrder = []string{"c", "f", "k", "m", "km", "mi", "ft", "kg", "lb"}

// Convert converts value from one unit to another. Units must share a
// dimension.
func Convert(value float64, from, to string) (float64, error) {
	src, ok := units[strings.ToLower(from)]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", from)
	}
	dst, ok := units[strings.ToLower(to)]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", to)
	}
	if src.dim != dst.dim {
		return 0, fmt.Errorf("cannot convert %s to %s", src.label, dst.label)
	}

	base := value*src.factor + src.offset
	return (base - dst.offset) / dst.factor, nil
}

func formatQuantity(value float64, name string) string {
	return fmt.Sprintf("%s %s", trimZeros(value), units[strings.ToLower(name)].label)
}

// trimZeros renders a float without trailing fractional zeros.
func trimZeros(value float64) string {
	s := fmt.Sprintf("%.4f", value)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
