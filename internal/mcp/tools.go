package mcp

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/rcliao/grimoire/internal/lore"
	"github.com/rcliao/grimoire/internal/model"
)

type ListContactsInput struct{}

type SendMessageInput struct {
	ContactID string `json:"contact_id" jsonschema:"id of the contact to talk to"`
	Text      string `json:"text,omitempty" jsonschema:"message to send; empty asks the contact to continue"`
}

type ListLoreInput struct{}

type ActiveLoreInput struct {
	ContactID string `json:"contact_id" jsonschema:"id of the contact"`
}

type AddLoreInput struct {
	Title     string `json:"title" jsonschema:"entry title"`
	Content   string `json:"content" jsonschema:"entry text"`
	Global    bool   `json:"global,omitempty" jsonschema:"apply to every contact"`
	ContactID string `json:"contact_id,omitempty" jsonschema:"link the entry to this contact"`
}

type ListPostsInput struct {
	Tag string `json:"tag,omitempty" jsonschema:"tag filter"`
}

type SimulateThreadsInput struct {
	Tag string `json:"tag,omitempty" jsonschema:"topic for the generated threads"`
}

type GenerateRepliesInput struct {
	PostID string `json:"post_id" jsonschema:"id of the thread to reply to"`
}

type ContactOutput struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Persona      string `json:"persona"`
	Messages     int    `json:"messages"`
	Narrative    bool   `json:"narrative"`
	CanAutoPost  bool   `json:"can_auto_post"`
	CanAutoReply bool   `json:"can_auto_reply"`
}

type ListContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
}

type SendMessageOutput struct {
	MessageID string   `json:"message_id"`
	Reply     string   `json:"reply"`
	Chunks    []string `json:"chunks"`
}

type LoreOutput struct {
	Entries []model.WorldEntry `json:"entries"`
}

type ActiveLoreOutput struct {
	Entries   []model.WorldEntry `json:"entries"`
	Formatted string             `json:"formatted"`
}

type PostSummaryOutput struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Tags     []string `json:"tags"`
	Likes    int      `json:"likes"`
	Comments int      `json:"comments"`
}

type ListPostsOutput struct {
	Posts []PostSummaryOutput `json:"posts"`
	Tags  []string            `json:"tags"`
}

type PostsOutput struct {
	Posts []model.ForumPost `json:"posts"`
}

type CommentsOutput struct {
	Comments []model.ForumComment `json:"comments"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_contacts",
		Description: "List the contacts available to chat with",
	}, s.handleListContacts)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "send_message",
		Description: "Send a message to a contact and return the in-character reply",
	}, s.handleSendMessage)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_lore",
		Description: "List every world book entry",
	}, s.handleListLore)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "active_lore",
		Description: "Return the lore injected into a contact's prompts",
	}, s.handleActiveLore)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "add_lore",
		Description: "Add a world book entry, optionally global or linked to a contact",
	}, s.handleAddLore)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_posts",
		Description: "List forum threads, newest first",
	}, s.handleListPosts)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "simulate_threads",
		Description: "Generate a batch of forum threads with seed comments",
	}, s.handleSimulateThreads)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "generate_replies",
		Description: "Generate new replies on a forum thread",
	}, s.handleGenerateReplies)
}

func (s *Server) handleListContacts(ctx context.Context, req *sdk.CallToolRequest, input ListContactsInput) (*sdk.CallToolResult, ListContactsOutput, error) {
	contacts := s.app.Contacts()
	output := make([]ContactOutput, 0, len(contacts))
	for _, c := range contacts {
		output = append(output, ContactOutput{
			ID:           c.ID,
			Name:         c.Name,
			Persona:      c.AIPersona,
			Messages:     len(c.History),
			Narrative:    c.IsOfflineMode,
			CanAutoPost:  c.CanAutoPost,
			CanAutoReply: c.CanAutoReply,
		})
	}
	return nil, ListContactsOutput{Contacts: output}, nil
}

func (s *Server) handleSendMessage(ctx context.Context, req *sdk.CallToolRequest, input SendMessageInput) (*sdk.CallToolResult, SendMessageOutput, error) {
	if input.ContactID == "" {
		return nil, SendMessageOutput{}, fmt.Errorf("contact_id is required")
	}
	msg, err := s.app.SendMessage(ctx, input.ContactID, input.Text)
	if err != nil {
		return nil, SendMessageOutput{}, err
	}

	out := SendMessageOutput{MessageID: msg.ID, Reply: msg.Content, Chunks: []string{}}
	if c, err := s.app.Contact(input.ContactID); err == nil {
		out.Chunks = c.ResponseQueue
	}
	return nil, out, nil
}

func (s *Server) handleListLore(ctx context.Context, req *sdk.CallToolRequest, input ListLoreInput) (*sdk.CallToolResult, LoreOutput, error) {
	return nil, LoreOutput{Entries: s.app.WorldEntries()}, nil
}

func (s *Server) handleActiveLore(ctx context.Context, req *sdk.CallToolRequest, input ActiveLoreInput) (*sdk.CallToolResult, ActiveLoreOutput, error) {
	if input.ContactID == "" {
		return nil, ActiveLoreOutput{}, fmt.Errorf("contact_id is required")
	}
	entries, err := s.app.ActiveLore(input.ContactID)
	if err != nil {
		return nil, ActiveLoreOutput{}, err
	}
	return nil, ActiveLoreOutput{Entries: entries, Formatted: lore.Format(entries)}, nil
}

func (s *Server) handleAddLore(ctx context.Context, req *sdk.CallToolRequest, input AddLoreInput) (*sdk.CallToolResult, model.WorldEntry, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, model.WorldEntry{}, fmt.Errorf("content is required")
	}
	if input.ContactID != "" {
		if _, err := s.app.Contact(input.ContactID); err != nil {
			return nil, model.WorldEntry{}, err
		}
	}

	entry, err := s.app.AddWorldEntry(ctx, input.Title, input.Content)
	if err != nil {
		return nil, model.WorldEntry{}, err
	}
	if input.Global {
		if entry, err = s.app.ToggleWorldEntryGlobal(ctx, entry.ID); err != nil {
			return nil, model.WorldEntry{}, err
		}
	}
	if input.ContactID != "" {
		if _, err := s.app.ToggleLoreLink(ctx, entry.ID, input.ContactID); err != nil {
			return nil, model.WorldEntry{}, err
		}
	}
	s.logger.Debug("lore added", zap.String("id", entry.ID), zap.Bool("global", entry.IsGlobal))
	return nil, entry, nil
}

func (s *Server) handleListPosts(ctx context.Context, req *sdk.CallToolRequest, input ListPostsInput) (*sdk.CallToolResult, ListPostsOutput, error) {
	posts := s.app.Posts(input.Tag)
	output := make([]PostSummaryOutput, 0, len(posts))
	for _, p := range posts {
		output = append(output, PostSummaryOutput{
			ID:       p.ID,
			Title:    p.Title,
			Author:   p.AuthorName,
			Tags:     p.Tags,
			Likes:    p.Likes,
			Comments: len(p.Comments),
		})
	}
	return nil, ListPostsOutput{Posts: output, Tags: s.app.Tags()}, nil
}

func (s *Server) handleSimulateThreads(ctx context.Context, req *sdk.CallToolRequest, input SimulateThreadsInput) (*sdk.CallToolResult, PostsOutput, error) {
	posts, err := s.app.SimulateThreads(ctx, input.Tag)
	if err != nil {
		return nil, PostsOutput{}, err
	}
	return nil, PostsOutput{Posts: posts}, nil
}

func (s *Server) handleGenerateReplies(ctx context.Context, req *sdk.CallToolRequest, input GenerateRepliesInput) (*sdk.CallToolResult, CommentsOutput, error) {
	if input.PostID == "" {
		return nil, CommentsOutput{}, fmt.Errorf("post_id is required")
	}
	comments, err := s.app.GenerateReplies(ctx, input.PostID)
	if err != nil {
		return nil, CommentsOutput{}, err
	}
	return nil, CommentsOutput{Comments: comments}, nil
}
