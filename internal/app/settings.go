package app

import (
	"context"
	"strings"

	"github.com/rcliao/grimoire/internal/model"
)

// Settings returns the current API settings.
func (a *App) Settings() model.AppSettings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snap.Settings
}

// HasAPIKey reports whether a key is available from settings or the
// fallback environment key.
func (a *App) HasAPIKey() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, err := a.keyedSettingsLocked()
	return err == nil
}

// UpdateSettings replaces the settings. An empty model name resets to the
// default model.
func (a *App) UpdateSettings(ctx context.Context, s model.AppSettings) (model.AppSettings, error) {
	s.APIKey = strings.TrimSpace(s.APIKey)
	s.BaseURL = strings.TrimSpace(s.BaseURL)
	s.ModelName = strings.TrimSpace(s.ModelName)
	if s.ModelName == "" {
		s.ModelName = model.DefaultModelName
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.snap.Settings = s
	return s, a.saveLocked(ctx)
}

// Profile returns the user profile.
func (a *App) Profile() model.UserProfile {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snap.UserProfile
}

// UpdateProfile replaces the user profile.
func (a *App) UpdateProfile(ctx context.Context, p model.UserProfile) (model.UserProfile, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.snap.UserProfile = p
	return p, a.saveLocked(ctx)
}

// ListModels fetches the model catalog for the configured key.
func (a *App) ListModels(ctx context.Context) ([]string, error) {
	gen, err := a.generator(ctx)
	if err != nil {
		return nil, err
	}
	return gen.ListModels(ctx)
}
