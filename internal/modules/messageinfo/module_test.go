package messageinfo

import (
	"context"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/averlyn/hookbot/internal/bot"
	"github.com/averlyn/hookbot/internal/interactions"
	"github.com/averlyn/hookbot/internal/rest"
)

func newTestBot() (*bot.Bot, *rest.Recorder) {
	cfg := &bot.Config{DiscordToken: "token", ApplicationID: "app-1"}
	recorder := &rest.Recorder{}
	return bot.NewBot(cfg, recorder, interactions.NewBus()), recorder
}

func lastContent(t *testing.T, recorder *rest.Recorder) string {
	t.Helper()

	edits := recorder.CallsTo("EditInteractionReply")
	if len(edits) == 0 {
		t.Fatal("expected an edited reply")
	}
	return *edits[len(edits)-1].Edit.Content
}

func contextInteraction(msg *discordgo.Message) (*discordgo.Interaction, *bot.Options) {
	data := discordgo.ApplicationCommandInteractionData{
		Name:        "Message Info",
		CommandType: discordgo.MessageApplicationCommand,
		TargetID:    msg.ID,
		Resolved: &discordgo.ApplicationCommandInteractionDataResolved{
			Messages: map[string]*discordgo.Message{msg.ID: msg},
		},
	}
	i := &discordgo.Interaction{
		ID: "int-1", AppID: "app-1", Token: "tok-1",
		User: &discordgo.User{ID: "user-1"},
		Data: data,
	}
	return i, bot.ResolveOptions(data)
}

func TestContextMenuDumpsMessage(t *testing.T) {
	b, recorder := newTestBot()
	m := &MessageinfoModule{}

	i, opts := contextInteraction(&discordgo.Message{
		ID:        "msg-1",
		ChannelID: "chan-1",
		Content:   "hello there",
		Author:    &discordgo.User{ID: "author-1", Username: "alice"},
	})
	if err := m.runContext(context.Background(), b, i, opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content := lastContent(t, recorder)
	if !strings.HasPrefix(content, "```json\n") || !strings.HasSuffix(content, "\n```") {
		t.Errorf("expected a code block, got %q", content)
	}
	if !strings.Contains(content, `"hello there"`) || !strings.Contains(content, `"msg-1"`) {
		t.Errorf("expected the dump to carry the message fields, got %q", content)
	}
}

func TestContextMenuTruncatesLongMessages(t *testing.T) {
	b, recorder := newTestBot()
	m := &MessageinfoModule{}

	i, opts := contextInteraction(&discordgo.Message{
		ID:      "msg-1",
		Content: strings.Repeat("x", 4000),
	})
	if err := m.runContext(context.Background(), b, i, opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if content := lastContent(t, recorder); len(content) > 2000 {
		t.Errorf("reply exceeds the message cap: %d characters", len(content))
	}
}

func TestContextMenuUnresolvedTarget(t *testing.T) {
	b, recorder := newTestBot()
	m := &MessageinfoModule{}

	data := discordgo.ApplicationCommandInteractionData{
		Name:        "Message Info",
		CommandType: discordgo.MessageApplicationCommand,
		TargetID:    "missing",
	}
	i := &discordgo.Interaction{
		ID: "int-1", AppID: "app-1", Token: "tok-1",
		User: &discordgo.User{ID: "user-1"},
		Data: data,
	}

	if err := m.runContext(context.Background(), b, i, bot.ResolveOptions(data)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if content := lastContent(t, recorder); content != "Could not resolve that message." {
		t.Errorf("unexpected reply %q", content)
	}
}
