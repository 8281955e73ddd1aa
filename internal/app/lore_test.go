package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddWorldEntryDefaults(t *testing.T) {
	a, _ := newTestApp(t, &fakeGen{}, "")

	e, err := a.AddWorldEntry(context.Background(), "", "the castle")
	require.NoError(t, err)
	assert.Equal(t, DefaultEntryTitle, e.Title)
	assert.True(t, e.Active)
	assert.False(t, e.IsGlobal)
}

func TestWorldEntryToggles(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t, &fakeGen{}, "")
	e, _ := a.AddWorldEntry(ctx, "Castle", "cold")

	got, err := a.ToggleWorldEntryActive(ctx, e.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	got, err = a.ToggleWorldEntryGlobal(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, got.IsGlobal)

	got, err = a.UpdateWorldEntry(ctx, e.ID, "Keep", "colder")
	require.NoError(t, err)
	assert.Equal(t, "Keep", got.Title)
	assert.False(t, got.Active)

	_, err = a.ToggleWorldEntryActive(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestActiveLore(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t, &fakeGen{}, "")
	vlad, _ := a.AddContact(ctx, "Vlad")
	mina, _ := a.AddContact(ctx, "Mina")

	global, _ := a.AddWorldEntry(ctx, "Sun", "burns")
	a.ToggleWorldEntryGlobal(ctx, global.ID)
	local, _ := a.AddWorldEntry(ctx, "Castle", "cold")
	off, _ := a.AddWorldEntry(ctx, "Garlic", "smelly")
	a.ToggleWorldEntryActive(ctx, off.ID)

	linked, err := a.ToggleLoreLink(ctx, local.ID, vlad.ID)
	require.NoError(t, err)
	assert.True(t, linked)
	a.ToggleLoreLink(ctx, off.ID, vlad.ID)

	got, err := a.ActiveLore(vlad.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, global.ID, got[0].ID)
	assert.Equal(t, local.ID, got[1].ID)

	got, _ = a.ActiveLore(mina.ID)
	require.Len(t, got, 1)
	assert.Equal(t, global.ID, got[0].ID)

	linked, _ = a.ToggleLoreLink(ctx, local.ID, vlad.ID)
	assert.False(t, linked)
	got, _ = a.ActiveLore(vlad.ID)
	assert.Len(t, got, 1)
}

func TestToggleLoreLinkNotFound(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t, &fakeGen{}, "")
	c, _ := a.AddContact(ctx, "Vlad")
	e, _ := a.AddWorldEntry(ctx, "Castle", "")

	_, err := a.ToggleLoreLink(ctx, "missing", c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = a.ToggleLoreLink(ctx, e.ID, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteWorldEntryPrunesLinks(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t, &fakeGen{}, "")
	c, _ := a.AddContact(ctx, "Vlad")
	keep, _ := a.AddWorldEntry(ctx, "Castle", "")
	gone, _ := a.AddWorldEntry(ctx, "Moat", "")
	a.ToggleLoreLink(ctx, keep.ID, c.ID)
	a.ToggleLoreLink(ctx, gone.ID, c.ID)

	require.NoError(t, a.DeleteWorldEntry(ctx, gone.ID))

	got, _ := a.Contact(c.ID)
	assert.Equal(t, []string{keep.ID}, got.LinkedLoreIDs)
	assert.Len(t, a.WorldEntries(), 1)
	assert.ErrorIs(t, a.DeleteWorldEntry(ctx, gone.ID), ErrNotFound)
}
