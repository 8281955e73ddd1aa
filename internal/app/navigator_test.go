package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/grimoire/internal/model"
)

func TestNavigator(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t, &fakeGen{}, "")
	c, _ := a.AddContact(ctx, "Vlad")
	n := NewNavigator(a)
	assert.Equal(t, model.ViewHome, n.View())

	n.Navigate(model.ViewContactList)
	require.NoError(t, n.OpenContact(c.ID))
	assert.Equal(t, model.ViewChat, n.View())
	assert.Equal(t, c.ID, n.ActiveContact())

	require.NoError(t, n.OpenContactSettings())
	assert.Equal(t, model.ViewChatSettings, n.View())
	assert.Equal(t, model.ViewContactList, n.Back())
	assert.Empty(t, n.ActiveContact())
	assert.Error(t, n.OpenContactSettings())

	assert.ErrorIs(t, n.OpenContact("missing"), ErrNotFound)
	assert.Equal(t, model.ViewContactList, n.View())

	n.Navigate(model.ViewForumList)
	require.NoError(t, n.OpenPost("1"))
	assert.Equal(t, model.ViewForumThread, n.View())
	assert.Equal(t, model.ViewForumList, n.Back())
	assert.Empty(t, n.ActivePost())
	assert.Equal(t, model.ViewHome, n.Back())

	n.Navigate(model.ViewUserProfileSettings)
	assert.Equal(t, model.ViewContactList, n.Back())
}
