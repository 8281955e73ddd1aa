package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/grimoire/internal/model"
)

func TestAddContactDefaults(t *testing.T) {
	a, _ := newTestApp(t, &fakeGen{}, "")

	c, err := a.AddContact(context.Background(), "  ")
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, DefaultContactName, c.Name)
	assert.Equal(t, DefaultContactPersona, c.AIPersona)
	assert.Empty(t, c.History)
	assert.False(t, c.IsOfflineMode)

	all := a.Contacts()
	require.Len(t, all, 1)
	assert.Equal(t, c.ID, all[0].ID)
}

func TestContactsAreCopies(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t, &fakeGen{}, "")
	c, _ := a.AddContact(ctx, "Vlad")

	got, _ := a.Contact(c.ID)
	got.LinkedLoreIDs = append(got.LinkedLoreIDs, "w1")
	got.Name = "mutated"

	again, _ := a.Contact(c.ID)
	assert.Equal(t, "Vlad", again.Name)
	assert.Empty(t, again.LinkedLoreIDs)
}

func TestUpdateContactKeepsHistory(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t, &fakeGen{reply: llmReply("hello")}, "key")
	c, _ := a.AddContact(ctx, "Vlad")
	_, err := a.SendMessage(ctx, c.ID, "hi")
	require.NoError(t, err)

	edit := model.Contact{ID: c.ID, Name: "Count Vlad", AIPersona: "A vampire.", IsOfflineMode: true, TargetWordCount: 300}
	updated, err := a.UpdateContact(ctx, edit)
	require.NoError(t, err)
	assert.Equal(t, "Count Vlad", updated.Name)
	assert.True(t, updated.IsOfflineMode)
	assert.Len(t, updated.History, 2)

	_, err = a.UpdateContact(ctx, model.Contact{ID: c.ID, TargetWordCount: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = a.UpdateContact(ctx, model.Contact{ID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteContact(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t, &fakeGen{}, "")
	c, _ := a.AddContact(ctx, "Vlad")

	require.NoError(t, a.DeleteContact(ctx, c.ID))
	_, err := a.Contact(c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, a.DeleteContact(ctx, c.ID), ErrNotFound)
}

func TestTogglePermission(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t, &fakeGen{}, "")
	c, _ := a.AddContact(ctx, "Vlad")

	v, err := a.TogglePermission(ctx, c.ID, PermAutoPost)
	require.NoError(t, err)
	assert.True(t, v)

	v, err = a.TogglePermission(ctx, c.ID, PermAutoReply)
	require.NoError(t, err)
	assert.True(t, v)

	v, _ = a.TogglePermission(ctx, c.ID, PermAutoPost)
	assert.False(t, v)

	got, _ := a.Contact(c.ID)
	assert.False(t, got.CanAutoPost)
	assert.True(t, got.CanAutoReply)

	_, err = a.TogglePermission(ctx, c.ID, Permission("fly"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParsePermission(t *testing.T) {
	p, err := ParsePermission("auto-post")
	require.NoError(t, err)
	assert.Equal(t, PermAutoPost, p)

	p, err = ParsePermission("Reply")
	require.NoError(t, err)
	assert.Equal(t, PermAutoReply, p)

	_, err = ParsePermission("delete")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
