package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/rcliao/grimoire/internal/model"
	"github.com/rcliao/grimoire/internal/prompt"
)

// CommentDraft is a generated comment before it becomes a ForumComment.
type CommentDraft struct {
	AuthorName string `json:"authorName"`
	Content    string `json:"content"`
}

// ThreadDraft is a generated thread before it becomes a ForumPost.
type ThreadDraft struct {
	Title      string         `json:"title"`
	Content    string         `json:"content"`
	Tags       []string       `json:"tags"`
	AuthorName string         `json:"authorName,omitempty"`
	Comments   []CommentDraft `json:"comments,omitempty"`
}

// ReplyDraft is a generated reply to an existing thread.
type ReplyDraft struct {
	AuthorName      string `json:"authorName"`
	Content         string `json:"content"`
	LinkedContactID string `json:"linkedContactId,omitempty"`
}

// ThreadRequest asks one contact to author a thread.
type ThreadRequest struct {
	AuthorName    string
	AuthorPersona string
	WorldContext  string
	Direction     string
}

// BatchRequest asks for several threads, optionally about one tag.
type BatchRequest struct {
	Roster       []prompt.RosterEntry
	WorldContext string
	Tag          string
}

// RepliesRequest asks for new comments on a thread.
type RepliesRequest struct {
	Title        string
	Content      string
	Previous     []prompt.Comment
	Roster       []prompt.RosterEntry
	WorldContext string
}

var stringSchema = &genai.Schema{Type: genai.TypeString}

var batchSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":      stringSchema,
			"content":    stringSchema,
			"authorName": stringSchema,
			"tags":       {Type: genai.TypeArray, Items: stringSchema},
			"comments": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"authorName": stringSchema,
						"content":    stringSchema,
					},
					Required: []string{"authorName", "content"},
				},
			},
		},
		Required: []string{"title", "content", "tags", "authorName", "comments"},
	},
}

// GenerateThread asks the model for one thread written as the author.
func (c *Client) GenerateThread(ctx context.Context, req ThreadRequest) (*ThreadDraft, error) {
	instruction := prompt.Thread(req.AuthorName, req.AuthorPersona, req.WorldContext, req.Direction)
	text, err := c.generateJSON(ctx, instruction, "Generate thread JSON", nil)
	if err != nil {
		return nil, err
	}
	if text == "" {
		text = "{}"
	}

	var draft ThreadDraft
	if err := json.Unmarshal([]byte(text), &draft); err != nil {
		return nil, fmt.Errorf("parse thread: %w", err)
	}
	return &draft, nil
}

// GenerateBatchThreads asks for several threads with seed comments in one
// call. Any failure, including malformed JSON, yields an empty list; the
// comment count requested in the prompt is not enforced here.
func (c *Client) GenerateBatchThreads(ctx context.Context, req BatchRequest) []ThreadDraft {
	instruction := prompt.BatchThreads(prompt.Roster(req.Roster), req.WorldContext, req.Tag)
	text, err := c.generateJSON(ctx, instruction, "Generate batch threads JSON", batchSchema)
	if err != nil {
		c.logger.Warn("batch generation failed", zap.Error(err))
		return []ThreadDraft{}
	}
	if text == "" {
		return []ThreadDraft{}
	}

	threads, err := parseThreads(text)
	if err != nil {
		c.logger.Warn("batch response is not a thread list", zap.Error(err), zap.Int("bytes", len(text)))
		return []ThreadDraft{}
	}
	return threads
}

// GenerateReplies asks for new comments on a thread.
func (c *Client) GenerateReplies(ctx context.Context, req RepliesRequest) ([]ReplyDraft, error) {
	instruction := prompt.Replies(req.Title, req.Content, req.Previous, prompt.Roster(req.Roster), req.WorldContext)
	text, err := c.generateJSON(ctx, instruction, "Generate replies JSON", nil)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return []ReplyDraft{}, nil
	}

	var replies []ReplyDraft
	if err := json.Unmarshal([]byte(text), &replies); err != nil {
		return nil, fmt.Errorf("parse replies: %w", err)
	}
	return replies, nil
}

func (c *Client) generateJSON(ctx context.Context, instruction, trigger string, schema *genai.Schema) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: textContent("", instruction),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    schema,
	}
	contents := []*genai.Content{textContent(model.RoleUser, trigger)}

	resp, err := c.models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return stripFences(responseText(resp)), nil
}

// parseThreads accepts a bare array or an object wrapping it under "threads".
func parseThreads(text string) ([]ThreadDraft, error) {
	var threads []ThreadDraft
	err := json.Unmarshal([]byte(text), &threads)
	if err == nil {
		if threads == nil {
			threads = []ThreadDraft{}
		}
		return threads, nil
	}

	var wrapped struct {
		Threads []ThreadDraft `json:"threads"`
	}
	if werr := json.Unmarshal([]byte(text), &wrapped); werr != nil || wrapped.Threads == nil {
		return nil, err
	}
	return wrapped.Threads, nil
}

// stripFences removes a markdown code fence some models wrap JSON in.
func stripFences(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if i := strings.IndexByte(t, '\n'); i >= 0 {
		t = t[i+1:]
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}
