package app

import "github.com/rcliao/grimoire/internal/model"

// Navigator tracks the current screen and the contact or thread it is
// showing.
type Navigator struct {
	app     *App
	view    model.View
	contact string
	post    string
}

// NewNavigator starts at the home screen.
func NewNavigator(a *App) *Navigator {
	return &Navigator{app: a, view: model.ViewHome}
}

func (n *Navigator) View() model.View      { return n.view }
func (n *Navigator) ActiveContact() string { return n.contact }
func (n *Navigator) ActivePost() string    { return n.post }

// Navigate switches to a top-level screen.
func (n *Navigator) Navigate(v model.View) {
	n.view = v
}

// OpenContact shows the chat with a contact.
func (n *Navigator) OpenContact(id string) error {
	if _, err := n.app.Contact(id); err != nil {
		return err
	}
	n.contact = id
	n.view = model.ViewChat
	return nil
}

// OpenContactSettings shows the settings of the active contact.
func (n *Navigator) OpenContactSettings() error {
	if n.contact == "" {
		return notFound("contact", "")
	}
	n.view = model.ViewChatSettings
	return nil
}

// OpenPost shows a forum thread.
func (n *Navigator) OpenPost(id string) error {
	if _, err := n.app.Post(id); err != nil {
		return err
	}
	n.post = id
	n.view = model.ViewForumThread
	return nil
}

// Back returns to the parent screen, leaving the chat or thread it was
// showing.
func (n *Navigator) Back() model.View {
	switch n.view {
	case model.ViewChat, model.ViewChatSettings:
		n.contact = ""
	case model.ViewForumThread:
		n.post = ""
	}
	n.view = n.view.Back()
	return n.view
}
