package app

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/rcliao/grimoire/internal/chunker"
	"github.com/rcliao/grimoire/internal/llm"
	"github.com/rcliao/grimoire/internal/lore"
	"github.com/rcliao/grimoire/internal/model"
	"github.com/rcliao/grimoire/internal/prompt"
)

// IsTyping reports whether a reply for the contact is being generated.
func (a *App) IsTyping(contactID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.typing[contactID]
}

// SendMessage appends text as a user message, asks the model for the next
// turn and appends the reply. Blank text sends no user message and asks
// the model to continue. Generation failures are not returned as errors:
// they become the content of the model message.
func (a *App) SendMessage(ctx context.Context, contactID, text string) (model.Message, error) {
	a.mu.Lock()
	ci := a.contactIndexLocked(contactID)
	if ci < 0 {
		a.mu.Unlock()
		return model.Message{}, notFound("contact", contactID)
	}
	settings, err := a.keyedSettingsLocked()
	if err != nil {
		a.mu.Unlock()
		return model.Message{}, err
	}
	if a.typing[contactID] {
		a.mu.Unlock()
		return model.Message{}, ErrBusy
	}

	c := &a.snap.Contacts[ci]
	if strings.TrimSpace(text) != "" {
		c.History = append(c.History, model.Message{
			ID:        a.newID(),
			Role:      model.RoleUser,
			Content:   text,
			Timestamp: a.nowMillis(),
		})
		if err := a.saveLocked(ctx); err != nil {
			a.mu.Unlock()
			return model.Message{}, err
		}
	}

	profile := a.snap.UserProfile
	params := prompt.Params{
		AIPersona:       c.AIPersona,
		UserPersona:     firstNonEmpty(c.UserPersona, profile.Persona),
		UserName:        firstNonEmpty(c.UserName, profile.Name),
		Lore:            lore.Format(lore.Select(a.snap.WorldEntries, c.LinkedLoreIDs)),
		Offline:         c.IsOfflineMode,
		TargetWordCount: c.TargetWordCount,
	}
	req := llm.ChatRequest{
		History:     append([]model.Message(nil), c.History...),
		Instruction: prompt.Build(params),
	}
	a.typing[contactID] = true
	a.mu.Unlock()

	reply := a.chat(ctx, settings, req)

	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.typing, contactID)

	msg := model.Message{
		ID:        a.newID(),
		Role:      model.RoleModel,
		Content:   reply.String(),
		Timestamp: a.nowMillis(),
	}

	ci = a.contactIndexLocked(contactID)
	if ci < 0 {
		a.logger.Info("contact removed during generation, reply dropped", zap.String("contact", contactID))
		return msg, nil
	}
	c = &a.snap.Contacts[ci]
	c.History = append(c.History, msg)
	c.ResponseQueue = chunker.Split(msg.Content, c.IsOfflineMode)
	return msg, a.saveDetachedLocked(ctx)
}

func (a *App) chat(ctx context.Context, settings model.AppSettings, req llm.ChatRequest) llm.Reply {
	gen, err := a.dial(ctx, settings)
	if err != nil {
		a.logger.Warn("dial generator failed", zap.Error(err))
		return llm.Reply{Err: err}
	}
	return gen.Chat(ctx, req)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
