package lore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rcliao/grimoire/internal/model"
)

func entries() []model.WorldEntry {
	return []model.WorldEntry{
		{ID: "g1", Title: "Moon", Content: "The moon is red.", Active: true, IsGlobal: true},
		{ID: "g-off", Title: "Sun", Content: "There is no sun.", Active: false, IsGlobal: true},
		{ID: "x", Title: "Tower", Content: "A tower stands north.", Active: true},
		{ID: "y", Title: "Well", Content: "The well is cursed.", Active: true},
		{ID: "x-off", Title: "Crypt", Content: "Sealed.", Active: false},
	}
}

func ids(es []model.WorldEntry) []string {
	out := []string{}
	for _, e := range es {
		out = append(out, e.ID)
	}
	return out
}

func TestSelect_InactiveNeverIncluded(t *testing.T) {
	got := Select(entries(), []string{"g-off", "x-off"})
	assert.Equal(t, []string{"g1"}, ids(got))
}

func TestSelect_GlobalAppliesToEveryContact(t *testing.T) {
	assert.Equal(t, []string{"g1"}, ids(Select(entries(), nil)))
	assert.Equal(t, []string{"g1", "y"}, ids(Select(entries(), []string{"y"})))
}

func TestSelect_LocalRequiresLink(t *testing.T) {
	got := ids(Select(entries(), []string{"x"}))
	assert.Contains(t, got, "x")
	assert.NotContains(t, got, "y")
}

func TestSelect_KeepsSourceOrderWithoutDuplicates(t *testing.T) {
	es := append(entries(), model.WorldEntry{ID: "g1", Title: "Moon again", Active: true, IsGlobal: true})
	got := Select(es, []string{"y", "x", "g1", "x"})
	assert.Equal(t, []string{"g1", "x", "y"}, ids(got))
}

func TestSelect_Empty(t *testing.T) {
	assert.Empty(t, Select(nil, []string{"x"}))
}

func TestFormat(t *testing.T) {
	got := Format(Select(entries(), []string{"x"}))
	assert.Equal(t, "[Moon]: The moon is red.\n\n[Tower]: A tower stands north.", got)
	assert.Equal(t, "", Format(nil))
}

func TestGlobalContext(t *testing.T) {
	es := entries()
	es = append(es, model.WorldEntry{ID: "g2", Content: "Bells ring at dusk.", Active: true, IsGlobal: true})
	assert.Equal(t, "The moon is red.\nBells ring at dusk.", GlobalContext(es))
}
