package app

import (
	"context"

	"github.com/rcliao/grimoire/internal/store"
)

// Stats summarizes the application state.
type Stats struct {
	Contacts      int          `json:"contacts"`
	Messages      int          `json:"messages"`
	WorldEntries  int          `json:"world_entries"`
	ActiveEntries int          `json:"active_entries"`
	GlobalEntries int          `json:"global_entries"`
	Posts         int          `json:"posts"`
	Comments      int          `json:"comments"`
	Storage       *store.Stats `json:"storage,omitempty"`
}

// Stats counts the collections and reports storage statistics.
func (a *App) Stats(ctx context.Context) (*Stats, error) {
	a.mu.Lock()
	st := &Stats{
		Contacts:     len(a.snap.Contacts),
		WorldEntries: len(a.snap.WorldEntries),
		Posts:        len(a.snap.ForumPosts),
	}
	for _, c := range a.snap.Contacts {
		st.Messages += len(c.History)
	}
	for _, e := range a.snap.WorldEntries {
		if e.Active {
			st.ActiveEntries++
		}
		if e.IsGlobal {
			st.GlobalEntries++
		}
	}
	for _, p := range a.snap.ForumPosts {
		st.Comments += len(p.Comments)
	}
	a.mu.Unlock()

	storage, err := a.store.Stats(ctx)
	if err != nil {
		return st, err
	}
	st.Storage = storage
	return st, nil
}
