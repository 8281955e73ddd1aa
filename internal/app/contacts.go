package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rcliao/grimoire/internal/model"
)

// Defaults of a newly created contact.
const (
	DefaultContactName    = "New Soul"
	DefaultContactPersona = "You are a mysterious stranger."
)

// Permission names a forum permission of a contact.
type Permission string

const (
	PermAutoPost  Permission = "autoPost"
	PermAutoReply Permission = "autoReply"
)

// ParsePermission accepts the permission names used on the command line.
func ParsePermission(s string) (Permission, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "autopost", "auto-post", "post", "canautopost":
		return PermAutoPost, nil
	case "autoreply", "auto-reply", "reply", "canautoreply":
		return PermAutoReply, nil
	}
	return "", fmt.Errorf("%w: unknown permission %q", ErrInvalidInput, s)
}

// AddContact creates a contact. A blank name becomes DefaultContactName.
func (a *App) AddContact(ctx context.Context, name string) (model.Contact, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultContactName
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	c := model.Contact{
		ID:            a.newID(),
		Name:          name,
		AIPersona:     DefaultContactPersona,
		History:       []model.Message{},
		ResponseQueue: []string{},
	}
	a.snap.Contacts = append(a.snap.Contacts, c)
	a.logger.Debug("contact added", zap.String("id", c.ID), zap.String("name", name))
	return c.Clone(), a.saveLocked(ctx)
}

// Contact returns one contact by id.
func (a *App) Contact(id string) (model.Contact, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.contactIndexLocked(id)
	if i < 0 {
		return model.Contact{}, notFound("contact", id)
	}
	return a.snap.Contacts[i].Clone(), nil
}

// Contacts returns every contact in creation order.
func (a *App) Contacts() []model.Contact {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]model.Contact, 0, len(a.snap.Contacts))
	for _, c := range a.snap.Contacts {
		out = append(out, c.Clone())
	}
	return out
}

// UpdateContact replaces the editable fields of the contact with c.ID.
// History and the response queue are owned by the chat loop and kept.
func (a *App) UpdateContact(ctx context.Context, c model.Contact) (model.Contact, error) {
	if c.TargetWordCount < 0 {
		return model.Contact{}, fmt.Errorf("%w: target word count must not be negative", ErrInvalidInput)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.contactIndexLocked(c.ID)
	if i < 0 {
		return model.Contact{}, notFound("contact", c.ID)
	}

	cur := &a.snap.Contacts[i]
	updated := c.Clone()
	updated.History = cur.History
	updated.ResponseQueue = cur.ResponseQueue
	*cur = updated
	return cur.Clone(), a.saveLocked(ctx)
}

// DeleteContact removes a contact and its history. Forum content it
// authored is kept.
func (a *App) DeleteContact(ctx context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.contactIndexLocked(id)
	if i < 0 {
		return notFound("contact", id)
	}
	a.snap.Contacts = append(a.snap.Contacts[:i], a.snap.Contacts[i+1:]...)
	delete(a.typing, id)
	return a.saveLocked(ctx)
}

// TogglePermission flips a forum permission and returns its new value.
func (a *App) TogglePermission(ctx context.Context, id string, perm Permission) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.contactIndexLocked(id)
	if i < 0 {
		return false, notFound("contact", id)
	}

	c := &a.snap.Contacts[i]
	var v bool
	switch perm {
	case PermAutoPost:
		c.CanAutoPost = !c.CanAutoPost
		v = c.CanAutoPost
	case PermAutoReply:
		c.CanAutoReply = !c.CanAutoReply
		v = c.CanAutoReply
	default:
		return false, fmt.Errorf("%w: unknown permission %q", ErrInvalidInput, perm)
	}
	return v, a.saveLocked(ctx)
}
