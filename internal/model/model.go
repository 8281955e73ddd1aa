// Package model defines the core grimoire data types.
package model

// Message roles.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Author ids that do not refer to a contact.
const (
	AuthorUser   = "user"
	AuthorRandom = "random"
)

// DefaultModelName is used when settings carry no model id.
const DefaultModelName = "gemini-3-flash-preview"

// Message is one turn of a contact's conversation.
type Message struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"` // unix millis
}

// Contact is a persona-bound conversational partner.
type Contact struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	AvatarURL       string    `json:"avatarUrl"`
	UserName        string    `json:"userName"`
	AIPersona       string    `json:"aiPersona"`
	UserPersona     string    `json:"userPersona"`
	BackgroundURL   string    `json:"backgroundUrl"`
	BubbleCSS       string    `json:"bubbleCss"`
	History         []Message `json:"history"`
	ResponseQueue   []string  `json:"responseQueue"`
	IsOfflineMode   bool      `json:"isOfflineMode,omitempty"`
	TargetWordCount int       `json:"targetWordCount,omitempty"`
	LinkedLoreIDs   []string  `json:"linkedLoreIds,omitempty"`
	CanAutoPost     bool      `json:"canAutoPost,omitempty"`
	CanAutoReply    bool      `json:"canAutoReply,omitempty"`
}

// Clone returns a deep copy so callers never share slices with the store.
func (c Contact) Clone() Contact {
	c.History = append([]Message(nil), c.History...)
	c.ResponseQueue = append([]string(nil), c.ResponseQueue...)
	c.LinkedLoreIDs = append([]string(nil), c.LinkedLoreIDs...)
	return c
}

// IsLinked reports whether the contact links the given lore entry.
func (c Contact) IsLinked(entryID string) bool {
	for _, id := range c.LinkedLoreIDs {
		if id == entryID {
			return true
		}
	}
	return false
}

// WorldEntry is a titled lore fragment that may be injected into prompts.
// Active is a master switch; IsGlobal entries apply to every contact,
// local ones only to contacts that link them.
type WorldEntry struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Active   bool   `json:"active"`
	IsGlobal bool   `json:"isGlobal,omitempty"`
}

// ForumComment is a reply inside a forum thread.
type ForumComment struct {
	ID         string `json:"id"`
	AuthorID   string `json:"authorId"`
	AuthorName string `json:"authorName"`
	AvatarURL  string `json:"avatarUrl,omitempty"`
	Content    string `json:"content"`
	Timestamp  int64  `json:"timestamp"`
}

// ForumPost is a forum thread. Comments are kept oldest first.
type ForumPost struct {
	ID         string         `json:"id"`
	AuthorID   string         `json:"authorId"`
	AuthorName string         `json:"authorName"`
	AvatarURL  string         `json:"avatarUrl,omitempty"`
	Title      string         `json:"title"`
	Content    string         `json:"content"`
	Tags       []string       `json:"tags"`
	Likes      int            `json:"likes"`
	Forwards   int            `json:"forwards"`
	Timestamp  int64          `json:"timestamp"`
	Comments   []ForumComment `json:"comments"`
}

// Clone returns a deep copy of the post.
func (p ForumPost) Clone() ForumPost {
	p.Tags = append([]string(nil), p.Tags...)
	p.Comments = append([]ForumComment(nil), p.Comments...)
	return p
}

// HasTag reports whether the post carries tag.
func (p ForumPost) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// UserProfile holds the global persona defaults of the user.
type UserProfile struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	Persona   string `json:"persona"`
}

// AppSettings holds the API connection configuration.
type AppSettings struct {
	APIKey        string `json:"apiKey"`
	BaseURL       string `json:"baseUrl"`
	ModelName     string `json:"modelName"`
	ShowStatusBar bool   `json:"showStatusBar"`
	GlobalCSS     string `json:"globalCss,omitempty"`
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() AppSettings {
	return AppSettings{
		ModelName:     DefaultModelName,
		ShowStatusBar: true,
	}
}

// DefaultProfile returns the profile of a fresh install.
func DefaultProfile() UserProfile {
	return UserProfile{
		Name:    "Traveler",
		Persona: "A mysterious traveler exploring this world.",
	}
}
