package llm

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/rcliao/grimoire/internal/model"
)

// Temperature is the sampling temperature of chat turns.
const Temperature float32 = 0.8

// Placeholder is returned for empty replies and sent as the user turn
// when the history would otherwise not end on the user.
const Placeholder = "..."

const silentError = "The spirits are silent."

// ChatRequest is one chat turn.
type ChatRequest struct {
	History     []model.Message
	Current     string // optional new user message not yet in History
	Instruction string
}

// Reply is the outcome of a chat turn: generated text or the error that
// replaced it. Both render as transcript content.
type Reply struct {
	Text string
	Err  error
}

// String renders the reply for the transcript. Failures become
// "[Error: <message>]".
func (r Reply) String() string {
	if r.Err != nil {
		msg := r.Err.Error()
		if msg == "" {
			msg = silentError
		}
		return "[Error: " + msg + "]"
	}
	return r.Text
}

// Turns converts a history to request contents. A non-empty current
// message is appended as a user turn; otherwise a placeholder user turn is
// appended when the history is empty or ends on the model.
func Turns(history []model.Message, current string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		contents = append(contents, textContent(m.Role, m.Content))
	}

	switch {
	case current != "":
		contents = append(contents, textContent(model.RoleUser, current))
	case len(contents) == 0 || contents[len(contents)-1].Role == model.RoleModel:
		contents = append(contents, textContent(model.RoleUser, Placeholder))
	}
	return contents
}

// Chat generates the next model turn. It never fails: transport and API
// errors are carried in the returned Reply.
func (c *Client) Chat(ctx context.Context, req ChatRequest) Reply {
	temp := Temperature
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: textContent("", req.Instruction),
		Temperature:       &temp,
	}

	resp, err := c.models.GenerateContent(ctx, c.model, Turns(req.History, req.Current), cfg)
	if err != nil {
		c.logger.Warn("chat generation failed", zap.String("model", c.model), zap.Error(err))
		return Reply{Err: err}
	}

	text := responseText(resp)
	if text == "" {
		text = Placeholder
	}
	return Reply{Text: text}
}
