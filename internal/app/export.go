package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rcliao/grimoire/internal/model"
)

// ExportHistory returns a contact's conversation for download.
func (a *App) ExportHistory(contactID string) (model.HistoryExport, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	ci := a.contactIndexLocked(contactID)
	if ci < 0 {
		return model.HistoryExport{}, notFound("contact", contactID)
	}
	c := a.snap.Contacts[ci]
	return model.HistoryExport{
		Filename: model.HistoryFilename(c.Name, a.now()),
		Messages: append([]model.Message{}, c.History...),
	}, nil
}

// Backup bundles settings, contacts and the world book.
func (a *App) Backup() model.Backup {
	a.mu.Lock()
	defer a.mu.Unlock()
	contacts := make([]model.Contact, 0, len(a.snap.Contacts))
	for _, c := range a.snap.Contacts {
		contacts = append(contacts, c.Clone())
	}
	return model.Backup{
		Version:      model.BackupVersion,
		Date:         a.now().UTC().Format(time.RFC3339),
		Settings:     a.snap.Settings,
		Contacts:     contacts,
		WorldEntries: append([]model.WorldEntry{}, a.snap.WorldEntries...),
	}
}

// RestoreBackup replaces settings, contacts and the world book with the
// backup's. The profile and the forum are kept.
func (a *App) RestoreBackup(ctx context.Context, b model.Backup) error {
	if b.Version < 1 || b.Version > model.BackupVersion {
		return fmt.Errorf("%w: unsupported backup version %d", ErrInvalidInput, b.Version)
	}

	contacts := make([]model.Contact, 0, len(b.Contacts))
	for _, c := range b.Contacts {
		if c.ID == "" {
			return fmt.Errorf("%w: contact %q has no id", ErrInvalidInput, c.Name)
		}
		c = c.Clone()
		if c.History == nil {
			c.History = []model.Message{}
		}
		contacts = append(contacts, c)
	}
	settings := b.Settings
	if settings.ModelName == "" {
		settings.ModelName = model.DefaultModelName
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.snap.Settings = settings
	a.snap.Contacts = contacts
	a.snap.WorldEntries = append([]model.WorldEntry{}, b.WorldEntries...)
	a.typing = make(map[string]bool)
	return a.saveLocked(ctx)
}
