// Package app owns the in-memory application state: settings, profile,
// contacts, the world book and the forum. Every mutation is saved through
// a store.Store before it returns.
package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/rcliao/grimoire/internal/llm"
	"github.com/rcliao/grimoire/internal/model"
	"github.com/rcliao/grimoire/internal/store"
)

var (
	// ErrMissingAPIKey is returned before any mutation or network call
	// that needs a key when none is configured.
	ErrMissingAPIKey = llm.ErrMissingAPIKey

	ErrNotFound         = errors.New("not found")
	ErrBusy             = errors.New("a generation is already in progress")
	ErrNothingGenerated = errors.New("nothing was generated")
	ErrNotPermitted     = errors.New("contact is not permitted to do that")
	ErrInvalidInput     = errors.New("invalid input")
)

// Generator is the remote generation surface the app drives.
// *llm.Client implements it.
type Generator interface {
	Chat(ctx context.Context, req llm.ChatRequest) llm.Reply
	GenerateThread(ctx context.Context, req llm.ThreadRequest) (*llm.ThreadDraft, error)
	GenerateBatchThreads(ctx context.Context, req llm.BatchRequest) []llm.ThreadDraft
	GenerateReplies(ctx context.Context, req llm.RepliesRequest) ([]llm.ReplyDraft, error)
	ListModels(ctx context.Context) ([]string, error)
}

// DialFunc builds a Generator for the given settings. The settings always
// carry a non-empty API key.
type DialFunc func(ctx context.Context, settings model.AppSettings) (Generator, error)

// Options configure an App.
type Options struct {
	Store           store.Store
	Logger          *zap.Logger
	FallbackAPIKey  string // used when the saved settings carry no key
	FallbackBaseURL string // used when the saved settings carry no base URL
	Dial            DialFunc
	Now             func() time.Time
}

// App is the application state store.
type App struct {
	mu         sync.Mutex
	snap       *model.Snapshot
	typing     map[string]bool
	generating bool

	store        store.Store
	logger       *zap.Logger
	fallbackKey  string
	fallbackBase string
	dial         DialFunc
	now          func() time.Time
	rng          *rand.Rand
}

// Open loads the saved snapshot from opts.Store, falling back to the
// defaults of a fresh install when nothing is saved or the blob is corrupt.
func Open(ctx context.Context, opts Options) (*App, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("%w: a store is required", ErrInvalidInput)
	}

	a := &App{
		typing:       make(map[string]bool),
		store:        opts.Store,
		logger:       opts.Logger,
		fallbackKey:  strings.TrimSpace(opts.FallbackAPIKey),
		fallbackBase: strings.TrimSpace(opts.FallbackBaseURL),
		dial:         opts.Dial,
		now:          opts.Now,
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.dial == nil {
		a.dial = a.dialGemini
	}
	a.rng = rand.New(rand.NewSource(a.now().UnixNano()))

	snap, err := opts.Store.Load(ctx)
	switch {
	case errors.Is(err, store.ErrNoState):
		snap = model.DefaultSnapshot(a.now())
	case errors.Is(err, store.ErrCorruptState):
		a.logger.Warn("saved state unreadable, starting fresh", zap.Error(err))
		snap = model.DefaultSnapshot(a.now())
	case err != nil:
		return nil, fmt.Errorf("load state: %w", err)
	}
	if snap.Settings.ModelName == "" {
		snap.Settings.ModelName = model.DefaultModelName
	}
	a.snap = snap

	a.logger.Debug("state loaded",
		zap.Int("contacts", len(snap.Contacts)),
		zap.Int("world_entries", len(snap.WorldEntries)),
		zap.Int("forum_posts", len(snap.ForumPosts)))
	return a, nil
}

// Close closes the underlying store.
func (a *App) Close() error {
	return a.store.Close()
}

func (a *App) dialGemini(ctx context.Context, s model.AppSettings) (Generator, error) {
	c, err := llm.New(ctx, llm.Config{
		APIKey:  s.APIKey,
		BaseURL: s.BaseURL,
		Model:   s.ModelName,
		Logger:  a.logger,
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// generator resolves the API key and dials a Generator. Must not be
// called with a.mu held.
func (a *App) generator(ctx context.Context) (Generator, error) {
	a.mu.Lock()
	s, err := a.keyedSettingsLocked()
	a.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return a.dial(ctx, s)
}

func (a *App) keyedSettingsLocked() (model.AppSettings, error) {
	s := a.snap.Settings
	if strings.TrimSpace(s.APIKey) == "" {
		s.APIKey = a.fallbackKey
	}
	if strings.TrimSpace(s.BaseURL) == "" {
		s.BaseURL = a.fallbackBase
	}
	if s.APIKey == "" {
		return s, ErrMissingAPIKey
	}
	return s, nil
}

// saveLocked persists the current snapshot. Callers hold a.mu.
func (a *App) saveLocked(ctx context.Context) error {
	if err := a.store.Save(ctx, a.snap); err != nil {
		a.logger.Error("save state failed", zap.Error(err))
		return err
	}
	return nil
}

// saveDetachedLocked persists results of a generation call. The caller's
// ctx may have expired while the model ran; the result is still saved.
func (a *App) saveDetachedLocked(ctx context.Context) error {
	return a.saveLocked(context.WithoutCancel(ctx))
}

func (a *App) newID() string {
	return ulid.MustNew(ulid.Timestamp(a.now()), a.rng).String()
}

func (a *App) nowMillis() int64 {
	return a.now().UnixMilli()
}

func (a *App) contactIndexLocked(id string) int {
	for i := range a.snap.Contacts {
		if a.snap.Contacts[i].ID == id {
			return i
		}
	}
	return -1
}

func (a *App) contactByNameLocked(name string) *model.Contact {
	for i := range a.snap.Contacts {
		if a.snap.Contacts[i].Name == name {
			return &a.snap.Contacts[i]
		}
	}
	return nil
}

func (a *App) entryIndexLocked(id string) int {
	for i := range a.snap.WorldEntries {
		if a.snap.WorldEntries[i].ID == id {
			return i
		}
	}
	return -1
}

func (a *App) postIndexLocked(id string) int {
	for i := range a.snap.ForumPosts {
		if a.snap.ForumPosts[i].ID == id {
			return i
		}
	}
	return -1
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}
