package app

import (
	"context"
	"strings"

	"github.com/rcliao/grimoire/internal/lore"
	"github.com/rcliao/grimoire/internal/model"
)

// DefaultEntryTitle is the title of an entry created without one.
const DefaultEntryTitle = "New Entry"

// WorldEntries returns the whole world book.
func (a *App) WorldEntries() []model.WorldEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]model.WorldEntry{}, a.snap.WorldEntries...)
}

// WorldEntry returns one entry by id.
func (a *App) WorldEntry(id string) (model.WorldEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.entryIndexLocked(id)
	if i < 0 {
		return model.WorldEntry{}, notFound("world entry", id)
	}
	return a.snap.WorldEntries[i], nil
}

// AddWorldEntry creates an active, local entry.
func (a *App) AddWorldEntry(ctx context.Context, title, content string) (model.WorldEntry, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultEntryTitle
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	e := model.WorldEntry{
		ID:      a.newID(),
		Title:   title,
		Content: content,
		Active:  true,
	}
	a.snap.WorldEntries = append(a.snap.WorldEntries, e)
	return e, a.saveLocked(ctx)
}

// UpdateWorldEntry replaces title and content of an entry.
func (a *App) UpdateWorldEntry(ctx context.Context, id, title, content string) (model.WorldEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.entryIndexLocked(id)
	if i < 0 {
		return model.WorldEntry{}, notFound("world entry", id)
	}
	e := &a.snap.WorldEntries[i]
	e.Title = title
	e.Content = content
	return *e, a.saveLocked(ctx)
}

// ToggleWorldEntryActive flips the master switch of an entry.
func (a *App) ToggleWorldEntryActive(ctx context.Context, id string) (model.WorldEntry, error) {
	return a.mutateEntry(ctx, id, func(e *model.WorldEntry) { e.Active = !e.Active })
}

// ToggleWorldEntryGlobal flips whether an entry applies to every contact.
func (a *App) ToggleWorldEntryGlobal(ctx context.Context, id string) (model.WorldEntry, error) {
	return a.mutateEntry(ctx, id, func(e *model.WorldEntry) { e.IsGlobal = !e.IsGlobal })
}

func (a *App) mutateEntry(ctx context.Context, id string, fn func(*model.WorldEntry)) (model.WorldEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.entryIndexLocked(id)
	if i < 0 {
		return model.WorldEntry{}, notFound("world entry", id)
	}
	fn(&a.snap.WorldEntries[i])
	return a.snap.WorldEntries[i], a.saveLocked(ctx)
}

// DeleteWorldEntry removes an entry and unlinks it from every contact.
func (a *App) DeleteWorldEntry(ctx context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.entryIndexLocked(id)
	if i < 0 {
		return notFound("world entry", id)
	}
	a.snap.WorldEntries = append(a.snap.WorldEntries[:i], a.snap.WorldEntries[i+1:]...)

	for ci := range a.snap.Contacts {
		c := &a.snap.Contacts[ci]
		if c.IsLinked(id) {
			c.LinkedLoreIDs = without(c.LinkedLoreIDs, id)
		}
	}
	return a.saveLocked(ctx)
}

// ToggleLoreLink links or unlinks an entry for a contact and reports
// whether it is linked afterwards.
func (a *App) ToggleLoreLink(ctx context.Context, entryID, contactID string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.entryIndexLocked(entryID) < 0 {
		return false, notFound("world entry", entryID)
	}
	ci := a.contactIndexLocked(contactID)
	if ci < 0 {
		return false, notFound("contact", contactID)
	}

	c := &a.snap.Contacts[ci]
	linked := !c.IsLinked(entryID)
	if linked {
		c.LinkedLoreIDs = append(c.LinkedLoreIDs, entryID)
	} else {
		c.LinkedLoreIDs = without(c.LinkedLoreIDs, entryID)
	}
	return linked, a.saveLocked(ctx)
}

// ActiveLore returns the entries injected into the contact's prompts.
func (a *App) ActiveLore(contactID string) ([]model.WorldEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	ci := a.contactIndexLocked(contactID)
	if ci < 0 {
		return nil, notFound("contact", contactID)
	}
	return lore.Select(a.snap.WorldEntries, a.snap.Contacts[ci].LinkedLoreIDs), nil
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
