package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestResolveOptions_TopLevel(t *testing.T) {
	data := discordgo.ApplicationCommandInteractionData{
		Name: "reminders",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "text", Type: discordgo.ApplicationCommandOptionString, Value: "water the plants"},
			{Name: "minutes", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(30)},
			{Name: "hide", Type: discordgo.ApplicationCommandOptionBoolean, Value: true},
		},
	}

	opts := ResolveOptions(data)

	if opts.Subcommand() != "" {
		t.Errorf("expected no subcommand, got %q", opts.Subcommand())
	}

	text, ok := opts.String("text")
	if !ok || text != "water the plants" {
		t.Errorf("expected text option, got %q (ok=%v)", text, ok)
	}

	minutes, ok := opts.Int("minutes")
	if !ok || minutes != 30 {
		t.Errorf("expected minutes 30, got %d (ok=%v)", minutes, ok)
	}

	hide, ok := opts.Bool("hide")
	if !ok || !hide {
		t.Errorf("expected hide true, got %v (ok=%v)", hide, ok)
	}

	if _, ok := opts.String("missing"); ok {
		t.Error("expected missing option to report absence")
	}
	if _, ok := opts.Bool("missing"); ok {
		t.Error("expected missing bool to report absence, not false")
	}
}

func TestResolveOptions_Subcommand(t *testing.T) {
	data := discordgo.ApplicationCommandInteractionData{
		Name: "todo",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{
				Name: "delete",
				Type: discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{Name: "keyword", Type: discordgo.ApplicationCommandOptionString, Value: "groceries"},
				},
			},
		},
	}

	opts := ResolveOptions(data)

	if opts.Subcommand() != "delete" {
		t.Errorf("expected subcommand delete, got %q", opts.Subcommand())
	}

	keyword, ok := opts.String("keyword")
	if !ok || keyword != "groceries" {
		t.Errorf("expected keyword groceries, got %q (ok=%v)", keyword, ok)
	}
}

func TestResolveOptions_Focused(t *testing.T) {
	data := discordgo.ApplicationCommandInteractionData{
		Name: "bookmarks",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{
				Name: "get",
				Type: discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{Name: "keyword", Type: discordgo.ApplicationCommandOptionString, Value: "gro", Focused: true},
				},
			},
		},
	}

	opts := ResolveOptions(data)

	name, value, ok := opts.Focused()
	if !ok {
		t.Fatal("expected a focused option")
	}
	if name != "keyword" || value != "gro" {
		t.Errorf("expected keyword/gro, got %s/%s", name, value)
	}
}

func TestResolveOptions_TargetMessage(t *testing.T) {
	data := discordgo.ApplicationCommandInteractionData{
		Name:     "Bookmark",
		TargetID: "msg-1",
		Resolved: &discordgo.ApplicationCommandInteractionDataResolved{
			Messages: map[string]*discordgo.Message{
				"msg-1": {ID: "msg-1", Content: "remember this"},
			},
		},
	}

	opts := ResolveOptions(data)

	msg, ok := opts.TargetMessage()
	if !ok {
		t.Fatal("expected resolved target message")
	}
	if msg.Content != "remember this" {
		t.Errorf("unexpected message content %q", msg.Content)
	}
}

func TestInvokingUser(t *testing.T) {
	dmUser := &discordgo.User{ID: "dm-user"}
	guildUser := &discordgo.User{ID: "guild-user"}

	tests := []struct {
		name string
		i    *discordgo.Interaction
		want string
	}{
		{name: "dm interaction", i: &discordgo.Interaction{User: dmUser}, want: "dm-user"},
		{name: "guild interaction", i: &discordgo.Interaction{Member: &discordgo.Member{User: guildUser}}, want: "guild-user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := InvokingUser(tt.i)
			if user == nil || user.ID != tt.want {
				t.Errorf("expected user %q, got %+v", tt.want, user)
			}
		})
	}

	if InvokingUser(&discordgo.Interaction{}) != nil {
		t.Error("expected nil for interaction without user")
	}
}
