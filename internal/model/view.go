package model

// View is one screen of the client.
type View string

const (
	ViewHome                View = "HOME"
	ViewContactList         View = "CONTACT_LIST"
	ViewUserProfileSettings View = "USER_PROFILE_SETTINGS"
	ViewChat                View = "CHAT"
	ViewChatSettings        View = "CHAT_SETTINGS"
	ViewWorldBook           View = "WORLD_BOOK"
	ViewSettings            View = "SETTINGS"
	ViewForumList           View = "FORUM_LIST"
	ViewForumThread         View = "FORUM_THREAD"
)

// Back returns the logical parent of v.
func (v View) Back() View {
	switch v {
	case ViewChat, ViewChatSettings, ViewUserProfileSettings:
		return ViewContactList
	case ViewForumThread:
		return ViewForumList
	default:
		return ViewHome
	}
}
