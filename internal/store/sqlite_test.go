package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rcliao/grimoire/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadEmpty(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Load(context.Background())
	if !errors.Is(err, ErrNoState) {
		t.Fatalf("expected ErrNoState, got %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	snap := model.DefaultSnapshot(time.Now())
	snap.Contacts = []model.Contact{{
		ID:            "c1",
		Name:          "Vlad",
		History:       []model.Message{{ID: "m1", Role: model.RoleUser, Content: "hi", Timestamp: 1}},
		LinkedLoreIDs: []string{"w1"},
		IsOfflineMode: true,
	}}
	snap.WorldEntries = []model.WorldEntry{{ID: "w1", Title: "Castle", Content: "cold", Active: true}}

	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Contacts) != 1 || got.Contacts[0].Name != "Vlad" {
		t.Fatalf("unexpected contacts: %+v", got.Contacts)
	}
	if !got.Contacts[0].IsOfflineMode || got.Contacts[0].LinkedLoreIDs[0] != "w1" {
		t.Errorf("contact settings lost: %+v", got.Contacts[0])
	}
	if got.Contacts[0].History[0].Content != "hi" {
		t.Errorf("history lost: %+v", got.Contacts[0].History)
	}
	if len(got.WorldEntries) != 1 || !got.WorldEntries[0].Active {
		t.Errorf("unexpected world entries: %+v", got.WorldEntries)
	}
}

func TestSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first := model.DefaultSnapshot(time.Now())
	first.UserProfile.Name = "first"
	second := model.DefaultSnapshot(time.Now())
	second.UserProfile.Name = "second"

	if err := s.Save(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, second); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, _ := s.Load(ctx)
	if got.UserProfile.Name != "second" {
		t.Errorf("expected latest save to win, got %q", got.UserProfile.Name)
	}

	var rows int
	s.db.QueryRow(`SELECT COUNT(*) FROM state`).Scan(&rows)
	if rows != 1 {
		t.Errorf("expected a single state row, got %d", rows)
	}
}

func TestLoadKeepsDefaultsForMissingSections(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.db.Exec(`INSERT INTO state (key, data, updated_at) VALUES (?, ?, ?)`,
		StateKey, `{"userProfile":{"name":"Mina"}}`, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.UserProfile.Name != "Mina" {
		t.Errorf("expected saved profile, got %+v", got.UserProfile)
	}
	if got.Settings.ModelName != model.DefaultModelName {
		t.Errorf("expected default settings, got %+v", got.Settings)
	}
	if len(got.ForumPosts) != 2 {
		t.Errorf("expected seeded posts, got %d", len(got.ForumPosts))
	}
}

func TestLoadCorruptBlob(t *testing.T) {
	s := newTestStore(t)
	s.db.Exec(`INSERT INTO state (key, data, updated_at) VALUES (?, 'not json', 'x')`, StateKey)

	_, err := s.Load(context.Background())
	if !errors.Is(err, ErrCorruptState) {
		t.Fatalf("expected ErrCorruptState, got %v", err)
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	st, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Backend != "sqlite" || st.BlobBytes != 0 {
		t.Errorf("unexpected empty stats: %+v", st)
	}

	s.Save(ctx, model.DefaultSnapshot(time.Now()))
	st, err = s.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.BlobBytes == 0 || st.UpdatedAt == "" {
		t.Errorf("expected blob stats after save: %+v", st)
	}
}

func TestOpenSQLiteDSN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	st, err := Open(context.Background(), "sqlite://"+path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close()

	if _, ok := st.(*SQLiteStore); !ok {
		t.Fatalf("expected SQLiteStore, got %T", st)
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("expected db dir to be created: %v", err)
	}
}

func TestStatsCountsBytes(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	data := `{"userProfile":{"name":"吸血鬼 🦇"}}`
	_, err := s.db.Exec(`INSERT INTO state (key, data, updated_at) VALUES (?, ?, ?)`,
		StateKey, data, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	st, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.BlobBytes != len(data) {
		t.Errorf("expected %d blob bytes, got %d", len(data), st.BlobBytes)
	}
}
