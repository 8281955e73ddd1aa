// Package lore selects the world book entries that apply to a contact.
package lore

import (
	"strings"

	"github.com/rcliao/grimoire/internal/model"
)

// Select returns the entries visible to a contact that links linkedIDs:
// every active global entry plus every active local entry whose id is
// linked. Source order is kept and no entry appears twice.
func Select(entries []model.WorldEntry, linkedIDs []string) []model.WorldEntry {
	linked := make(map[string]struct{}, len(linkedIDs))
	for _, id := range linkedIDs {
		linked[id] = struct{}{}
	}

	out := []model.WorldEntry{}
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if !e.Active {
			continue
		}
		if _, ok := linked[e.ID]; !e.IsGlobal && !ok {
			continue
		}
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}

// Format renders entries as "[title]: content" blocks separated by a blank line.
func Format(entries []model.WorldEntry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, "["+e.Title+"]: "+e.Content)
	}
	return strings.Join(parts, "\n\n")
}

// GlobalContext joins the content of active global entries, one per line.
// Forum generation is not tied to a contact, so local entries never apply.
func GlobalContext(entries []model.WorldEntry) string {
	var parts []string
	for _, e := range entries {
		if e.Active && e.IsGlobal {
			parts = append(parts, e.Content)
		}
	}
	return strings.Join(parts, "\n")
}
