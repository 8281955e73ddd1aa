package mcp

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rcliao/grimoire/internal/app"
	"github.com/rcliao/grimoire/internal/llm"
	"github.com/rcliao/grimoire/internal/model"
	"github.com/rcliao/grimoire/internal/store"
)

type mockGenerator struct {
	reply   string
	threads []llm.ThreadDraft
	replies []llm.ReplyDraft

	lastChat  llm.ChatRequest
	lastBatch llm.BatchRequest
}

func (m *mockGenerator) Chat(ctx context.Context, req llm.ChatRequest) llm.Reply {
	m.lastChat = req
	return llm.Reply{Text: m.reply}
}

func (m *mockGenerator) GenerateThread(ctx context.Context, req llm.ThreadRequest) (*llm.ThreadDraft, error) {
	return &llm.ThreadDraft{Title: "t", Content: "c"}, nil
}

func (m *mockGenerator) GenerateBatchThreads(ctx context.Context, req llm.BatchRequest) []llm.ThreadDraft {
	m.lastBatch = req
	return m.threads
}

func (m *mockGenerator) GenerateReplies(ctx context.Context, req llm.RepliesRequest) ([]llm.ReplyDraft, error) {
	return m.replies, nil
}

func (m *mockGenerator) ListModels(ctx context.Context) ([]string, error) {
	return nil, nil
}

func newTestServer(t *testing.T, gen *mockGenerator) (*Server, *app.App) {
	t.Helper()
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	a, err := app.Open(context.Background(), app.Options{
		Store:          st,
		FallbackAPIKey: "test-key",
		Dial: func(ctx context.Context, s model.AppSettings) (app.Generator, error) {
			return gen, nil
		},
	})
	if err != nil {
		t.Fatalf("open app: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return NewServer(a, nil, "test"), a
}

func TestListContacts(t *testing.T) {
	server, a := newTestServer(t, &mockGenerator{})
	c, _ := a.AddContact(context.Background(), "Vlad")

	_, output, err := server.handleListContacts(context.Background(), nil, ListContactsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Contacts) != 1 || output.Contacts[0].ID != c.ID {
		t.Fatalf("unexpected contacts: %+v", output.Contacts)
	}
	if output.Contacts[0].Persona != app.DefaultContactPersona {
		t.Fatalf("expected default persona, got %q", output.Contacts[0].Persona)
	}
}

func TestSendMessage(t *testing.T) {
	gen := &mockGenerator{reply: "Welcome. Come in!"}
	server, a := newTestServer(t, gen)
	c, _ := a.AddContact(context.Background(), "Vlad")

	_, output, err := server.handleSendMessage(context.Background(), nil, SendMessageInput{ContactID: c.ID, Text: "Hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Reply != "Welcome. Come in!" {
		t.Fatalf("unexpected reply: %q", output.Reply)
	}
	if len(output.Chunks) != 2 {
		t.Fatalf("expected two chunks, got %v", output.Chunks)
	}
	if len(gen.lastChat.History) != 1 || gen.lastChat.History[0].Content != "Hello" {
		t.Fatalf("unexpected history sent: %+v", gen.lastChat.History)
	}
}

func TestSendMessage_MissingContactID(t *testing.T) {
	server, _ := newTestServer(t, &mockGenerator{})
	if _, _, err := server.handleSendMessage(context.Background(), nil, SendMessageInput{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestAddLoreAndActiveLore(t *testing.T) {
	ctx := context.Background()
	server, a := newTestServer(t, &mockGenerator{})
	c, _ := a.AddContact(ctx, "Vlad")

	if _, _, err := server.handleAddLore(ctx, nil, AddLoreInput{Title: "Empty"}); err == nil {
		t.Fatalf("expected error for empty content")
	}
	if _, _, err := server.handleAddLore(ctx, nil, AddLoreInput{Content: "x", ContactID: "missing"}); err == nil {
		t.Fatalf("expected error for unknown contact")
	}

	_, global, err := server.handleAddLore(ctx, nil, AddLoreInput{Title: "Sun", Content: "It burns.", Global: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !global.IsGlobal || !global.Active {
		t.Fatalf("expected active global entry, got %+v", global)
	}
	if _, _, err := server.handleAddLore(ctx, nil, AddLoreInput{Title: "Castle", Content: "Cold.", ContactID: c.ID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, all, _ := server.handleListLore(ctx, nil, ListLoreInput{})
	if len(all.Entries) != 2 {
		t.Fatalf("expected two entries, got %d", len(all.Entries))
	}

	_, active, err := server.handleActiveLore(ctx, nil, ActiveLoreInput{ContactID: c.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "[Sun]: It burns.\n\n[Castle]: Cold."
	if active.Formatted != want {
		t.Fatalf("expected %q, got %q", want, active.Formatted)
	}
}

func TestListPosts(t *testing.T) {
	server, _ := newTestServer(t, &mockGenerator{})

	_, output, err := server.handleListPosts(context.Background(), nil, ListPostsInput{Tag: "food"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Posts) != 1 || output.Posts[0].ID != "2" {
		t.Fatalf("unexpected posts: %+v", output.Posts)
	}
	if len(output.Tags) != 6 {
		t.Fatalf("expected all tags, got %v", output.Tags)
	}
}

func TestSimulateThreads(t *testing.T) {
	gen := &mockGenerator{threads: []llm.ThreadDraft{{Title: "Fog", Content: "Again.", Tags: []string{"horror"}}}}
	server, _ := newTestServer(t, gen)

	_, output, err := server.handleSimulateThreads(context.Background(), nil, SimulateThreadsInput{Tag: "horror"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Posts) != 1 || output.Posts[0].Title != "Fog" {
		t.Fatalf("unexpected posts: %+v", output.Posts)
	}
	if gen.lastBatch.Tag != "horror" {
		t.Fatalf("expected tag to be passed, got %q", gen.lastBatch.Tag)
	}
}

func TestSimulateThreads_NothingGenerated(t *testing.T) {
	server, _ := newTestServer(t, &mockGenerator{})
	if _, _, err := server.handleSimulateThreads(context.Background(), nil, SimulateThreadsInput{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestGenerateReplies(t *testing.T) {
	gen := &mockGenerator{replies: []llm.ReplyDraft{{AuthorName: "Someone", Content: "Indeed."}}}
	server, a := newTestServer(t, gen)

	if _, _, err := server.handleGenerateReplies(context.Background(), nil, GenerateRepliesInput{}); err == nil {
		t.Fatalf("expected error for missing post id")
	}

	_, output, err := server.handleGenerateReplies(context.Background(), nil, GenerateRepliesInput{PostID: "2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Comments) != 1 || output.Comments[0].AuthorID != model.AuthorRandom {
		t.Fatalf("unexpected comments: %+v", output.Comments)
	}
	p, _ := a.Post("2")
	if len(p.Comments) != 1 {
		t.Fatalf("expected reply to be saved on the post, got %d", len(p.Comments))
	}
}
