package rest

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Call records one API invocation made against a Recorder.
type Call struct {
	Method        string
	ID            string
	Token         string
	ApplicationID string
	MessageID     string
	UserID        string
	ChannelID     string
	ResponseData  *discordgo.InteractionResponseData
	Edit          *discordgo.WebhookEdit
	FollowUp      *discordgo.WebhookParams
	Choices       []*discordgo.ApplicationCommandOptionChoice
	Message       *discordgo.MessageSend
	Commands      []*discordgo.ApplicationCommand
}

// Recorder is a test double for API. It records every call and returns
// the configured error, enabling handler tests without a live Discord
// connection.
type Recorder struct {
	mu    sync.Mutex
	calls []Call

	// Err is returned by every method when set.
	Err error

	// DMChannelID is returned by CreateDM.
	DMChannelID string
}

// Ensure Recorder implements API.
var _ API = (*Recorder)(nil)

// Calls returns a snapshot of all recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// CallsTo returns the recorded calls for one method name.
func (r *Recorder) CallsTo(method string) []Call {
	var out []Call
	for _, c := range r.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (r *Recorder) record(c Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, c)
	return r.Err
}

func (r *Recorder) ReplyToInteraction(_ context.Context, id, token string, data *discordgo.InteractionResponseData) error {
	return r.record(Call{Method: "ReplyToInteraction", ID: id, Token: token, ResponseData: data})
}

func (r *Recorder) DeferInteraction(_ context.Context, id, token string, data *discordgo.InteractionResponseData) error {
	return r.record(Call{Method: "DeferInteraction", ID: id, Token: token, ResponseData: data})
}

func (r *Recorder) UpdateInteractionMessage(_ context.Context, id, token string, data *discordgo.InteractionResponseData) error {
	return r.record(Call{Method: "UpdateInteractionMessage", ID: id, Token: token, ResponseData: data})
}

func (r *Recorder) CreateAutocompleteResponse(_ context.Context, id, token string, choices []*discordgo.ApplicationCommandOptionChoice) error {
	return r.record(Call{Method: "CreateAutocompleteResponse", ID: id, Token: token, Choices: choices})
}

func (r *Recorder) EditInteractionReply(_ context.Context, applicationID, token string, data *discordgo.WebhookEdit, messageID string) error {
	return r.record(Call{Method: "EditInteractionReply", ApplicationID: applicationID, Token: token, Edit: data, MessageID: messageID})
}

func (r *Recorder) DeleteInteractionReply(_ context.Context, applicationID, token, messageID string) error {
	return r.record(Call{Method: "DeleteInteractionReply", ApplicationID: applicationID, Token: token, MessageID: messageID})
}

func (r *Recorder) FollowUpInteraction(_ context.Context, applicationID, token string, data *discordgo.WebhookParams) error {
	return r.record(Call{Method: "FollowUpInteraction", ApplicationID: applicationID, Token: token, FollowUp: data})
}

func (r *Recorder) CreateDM(_ context.Context, userID string) (string, error) {
	err := r.record(Call{Method: "CreateDM", UserID: userID})
	if err != nil {
		return "", err
	}

	channelID := r.DMChannelID
	if channelID == "" {
		channelID = "dm-" + userID
	}
	return channelID, nil
}

func (r *Recorder) CreateMessage(_ context.Context, channelID string, data *discordgo.MessageSend) error {
	return r.record(Call{Method: "CreateMessage", ChannelID: channelID, Message: data})
}

func (r *Recorder) BulkOverwriteCommands(_ context.Context, applicationID string, commands []*discordgo.ApplicationCommand) error {
	return r.record(Call{Method: "BulkOverwriteCommands", ApplicationID: applicationID, Commands: commands})
}
