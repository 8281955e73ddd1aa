package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Snapshot is the whole persisted application state. It is rewritten
// wholesale on every change.
type Snapshot struct {
	Settings     AppSettings  `json:"settings"`
	UserProfile  UserProfile  `json:"userProfile"`
	Contacts     []Contact    `json:"contacts"`
	WorldEntries []WorldEntry `json:"worldEntries"`
	ForumPosts   []ForumPost  `json:"forumPosts"`
}

// DefaultSnapshot returns the state of a fresh install, including the
// seeded forum threads.
func DefaultSnapshot(now time.Time) *Snapshot {
	ms := now.UnixMilli()
	return &Snapshot{
		Settings:     DefaultSettings(),
		UserProfile:  DefaultProfile(),
		Contacts:     []Contact{},
		WorldEntries: []WorldEntry{},
		ForumPosts: []ForumPost{
			{
				ID:         "1",
				AuthorID:   AuthorRandom,
				AuthorName: "MidnightWhisper",
				Title:      "Has anyone noticed the fog getting thicker lately?",
				Content:    "I swear it lingers longer every morning. It feels heavy, like something is watching us.",
				Tags:       []string{"uncanny", "weather", "horror"},
				Likes:      42,
				Forwards:   5,
				Timestamp:  ms - 1000000,
				Comments: []ForumComment{
					{ID: "c1", AuthorID: AuthorRandom, AuthorName: "Skeptic101", Content: "Just the season turning. Relax.", Timestamp: ms - 900000},
				},
			},
			{
				ID:         "2",
				AuthorID:   AuthorRandom,
				AuthorName: "CafeLover",
				Title:      "The new latte at Dark Roast is unreal!",
				Content:    "A hint of spiced pumpkin and something... metallic? Surprisingly good.",
				Tags:       []string{"food", "life", "recommend"},
				Likes:      128,
				Forwards:   12,
				Timestamp:  ms - 500000,
				Comments:   []ForumComment{},
			},
		},
	}
}

// BackupVersion is the current backup format version.
const BackupVersion = 1

// Backup is the user-triggered full export bundle.
type Backup struct {
	Version      int          `json:"version"`
	Date         string       `json:"date"`
	Settings     AppSettings  `json:"settings"`
	Contacts     []Contact    `json:"contacts"`
	WorldEntries []WorldEntry `json:"worldEntries"`
}

// HistoryExport is one contact's conversation as exported to a file. The
// file body is the bare message array.
type HistoryExport struct {
	Filename string
	Messages []Message
}

// MarshalJSON writes only the messages.
func (h HistoryExport) MarshalJSON() ([]byte, error) {
	msgs := h.Messages
	if msgs == nil {
		msgs = []Message{}
	}
	return json.Marshal(msgs)
}

// HistoryFilename builds the download name for a contact's history export.
func HistoryFilename(contactName string, at time.Time) string {
	name := strings.Join(strings.Fields(contactName), "_")
	return "chat_" + name + "_" + at.UTC().Format("2006-01-02") + ".json"
}
