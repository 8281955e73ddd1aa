package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rcliao/grimoire/internal/llm"
	"github.com/rcliao/grimoire/internal/lore"
	"github.com/rcliao/grimoire/internal/model"
	"github.com/rcliao/grimoire/internal/prompt"
)

// Fallbacks for fields a generated thread left empty.
const (
	anonymousAuthor = "Anonymous"
	untitledThread  = "Untitled"
	emptyContent    = "..."
)

// Posts returns the forum, newest first, optionally filtered by tag.
func (a *App) Posts(tag string) []model.ForumPost {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]model.ForumPost, 0, len(a.snap.ForumPosts))
	for _, p := range a.snap.ForumPosts {
		if tag == "" || p.HasTag(tag) {
			out = append(out, p.Clone())
		}
	}
	return out
}

// Tags returns every tag in use, in order of first appearance.
func (a *App) Tags() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	seen := make(map[string]bool)
	tags := []string{}
	for _, p := range a.snap.ForumPosts {
		for _, t := range p.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	return tags
}

// Post returns one thread by id.
func (a *App) Post(id string) (model.ForumPost, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.postIndexLocked(id)
	if i < 0 {
		return model.ForumPost{}, notFound("post", id)
	}
	return a.snap.ForumPosts[i].Clone(), nil
}

// AddUserPost publishes a thread as the user. tagsCSV is a comma separated
// tag list.
func (a *App) AddUserPost(ctx context.Context, title, content, tagsCSV string) (model.ForumPost, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return model.ForumPost{}, fmt.Errorf("%w: title and content required", ErrInvalidInput)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	profile := a.snap.UserProfile
	p := model.ForumPost{
		ID:         a.newID(),
		AuthorID:   model.AuthorUser,
		AuthorName: profile.Name,
		AvatarURL:  profile.AvatarURL,
		Title:      title,
		Content:    content,
		Tags:       SplitTags(tagsCSV),
		Timestamp:  a.nowMillis(),
		Comments:   []model.ForumComment{},
	}
	a.prependPostLocked(p)
	return p.Clone(), a.saveLocked(ctx)
}

// AddComment appends a user comment. Blank content is ignored and the
// post is returned unchanged.
func (a *App) AddComment(ctx context.Context, postID, content string) (model.ForumPost, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.postIndexLocked(postID)
	if i < 0 {
		return model.ForumPost{}, notFound("post", postID)
	}
	p := &a.snap.ForumPosts[i]
	if strings.TrimSpace(content) == "" {
		return p.Clone(), nil
	}

	profile := a.snap.UserProfile
	p.Comments = append(p.Comments, model.ForumComment{
		ID:         a.newID(),
		AuthorID:   model.AuthorUser,
		AuthorName: profile.Name,
		AvatarURL:  profile.AvatarURL,
		Content:    content,
		Timestamp:  a.nowMillis(),
	})
	return p.Clone(), a.saveLocked(ctx)
}

// SimulateThreads generates a batch of threads, each with seed comments,
// optionally about one tag. Every contact may appear as an author. The new
// posts are returned in generation order.
func (a *App) SimulateThreads(ctx context.Context, tag string) ([]model.ForumPost, error) {
	gen, err := a.generator(ctx)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	if a.generating {
		a.mu.Unlock()
		return nil, ErrBusy
	}
	a.generating = true
	roster := make([]prompt.RosterEntry, 0, len(a.snap.Contacts))
	for _, c := range a.snap.Contacts {
		roster = append(roster, prompt.RosterEntry{ID: c.ID, Name: c.Name, Persona: c.AIPersona})
	}
	world := lore.GlobalContext(a.snap.WorldEntries)
	a.mu.Unlock()

	drafts := gen.GenerateBatchThreads(ctx, llm.BatchRequest{Roster: roster, WorldContext: world, Tag: tag})

	a.mu.Lock()
	defer a.mu.Unlock()
	a.generating = false
	if len(drafts) == 0 {
		return nil, ErrNothingGenerated
	}

	base := a.nowMillis()
	posts := make([]model.ForumPost, 0, len(drafts))
	for i, d := range drafts {
		p := a.postFromDraftLocked(d, base+int64(i)*1000)
		a.prependPostLocked(p)
		posts = append(posts, p.Clone())
	}
	a.logger.Info("threads simulated", zap.Int("count", len(posts)), zap.String("tag", tag))
	return posts, a.saveDetachedLocked(ctx)
}

func (a *App) postFromDraftLocked(d llm.ThreadDraft, ts int64) model.ForumPost {
	p := model.ForumPost{
		ID:         a.newID(),
		AuthorID:   model.AuthorRandom,
		AuthorName: firstNonEmpty(d.AuthorName, anonymousAuthor),
		Title:      firstNonEmpty(d.Title, untitledThread),
		Content:    firstNonEmpty(d.Content, emptyContent),
		Tags:       append([]string{}, d.Tags...),
		Likes:      a.rng.Intn(50),
		Forwards:   a.rng.Intn(10),
		Timestamp:  ts,
		Comments:   []model.ForumComment{},
	}
	if c := a.contactByNameLocked(d.AuthorName); c != nil {
		p.AuthorID = c.ID
		p.AvatarURL = c.AvatarURL
	}

	for j, cd := range d.Comments {
		if strings.TrimSpace(cd.Content) == "" {
			continue
		}
		cm := model.ForumComment{
			ID:         a.newID(),
			AuthorID:   model.AuthorRandom,
			AuthorName: firstNonEmpty(cd.AuthorName, anonymousAuthor),
			Content:    cd.Content,
			Timestamp:  ts + int64(j)*500,
		}
		if c := a.contactByNameLocked(cd.AuthorName); c != nil {
			cm.AuthorID = c.ID
			cm.AvatarURL = c.AvatarURL
		}
		p.Comments = append(p.Comments, cm)
	}
	return p
}

// GenerateReplies asks contacts permitted to auto-reply, and random
// strangers, to comment on a thread. The new comments are returned.
func (a *App) GenerateReplies(ctx context.Context, postID string) ([]model.ForumComment, error) {
	gen, err := a.generator(ctx)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	i := a.postIndexLocked(postID)
	if i < 0 {
		a.mu.Unlock()
		return nil, notFound("post", postID)
	}
	if a.generating {
		a.mu.Unlock()
		return nil, ErrBusy
	}
	a.generating = true
	post := a.snap.ForumPosts[i]
	previous := make([]prompt.Comment, 0, len(post.Comments))
	for _, c := range post.Comments {
		previous = append(previous, prompt.Comment{AuthorName: c.AuthorName, Content: c.Content})
	}
	var roster []prompt.RosterEntry
	for _, c := range a.snap.Contacts {
		if c.CanAutoReply {
			roster = append(roster, prompt.RosterEntry{ID: c.ID, Name: c.Name, Persona: c.AIPersona})
		}
	}
	req := llm.RepliesRequest{
		Title:        post.Title,
		Content:      post.Content,
		Previous:     previous,
		Roster:       roster,
		WorldContext: lore.GlobalContext(a.snap.WorldEntries),
	}
	a.mu.Unlock()

	drafts, err := gen.GenerateReplies(ctx, req)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.generating = false
	if err != nil {
		return nil, fmt.Errorf("generate replies: %w", err)
	}
	if len(drafts) == 0 {
		return nil, ErrNothingGenerated
	}
	i = a.postIndexLocked(postID)
	if i < 0 {
		return nil, notFound("post", postID)
	}

	base := a.nowMillis()
	added := make([]model.ForumComment, 0, len(drafts))
	for idx, d := range drafts {
		cm := model.ForumComment{
			ID:         a.newID(),
			AuthorID:   model.AuthorRandom,
			AuthorName: firstNonEmpty(d.AuthorName, anonymousAuthor),
			Content:    d.Content,
			Timestamp:  base + int64(idx)*1000,
		}
		if d.LinkedContactID != "" {
			if ci := a.contactIndexLocked(d.LinkedContactID); ci >= 0 {
				cm.AuthorID = a.snap.Contacts[ci].ID
				cm.AvatarURL = a.snap.Contacts[ci].AvatarURL
			}
		}
		added = append(added, cm)
	}
	p := &a.snap.ForumPosts[i]
	p.Comments = append(p.Comments, added...)
	return added, a.saveDetachedLocked(ctx)
}

// PostAsContact has a contact permitted to auto-post write a thread,
// optionally following a direction.
func (a *App) PostAsContact(ctx context.Context, contactID, direction string) (model.ForumPost, error) {
	a.mu.Lock()
	ci := a.contactIndexLocked(contactID)
	if ci < 0 {
		a.mu.Unlock()
		return model.ForumPost{}, notFound("contact", contactID)
	}
	c := a.snap.Contacts[ci]
	if !c.CanAutoPost {
		a.mu.Unlock()
		return model.ForumPost{}, fmt.Errorf("%s may not post: %w", c.Name, ErrNotPermitted)
	}
	world := lore.GlobalContext(a.snap.WorldEntries)
	a.mu.Unlock()

	gen, err := a.generator(ctx)
	if err != nil {
		return model.ForumPost{}, err
	}
	draft, err := gen.GenerateThread(ctx, llm.ThreadRequest{
		AuthorName:    c.Name,
		AuthorPersona: c.AIPersona,
		WorldContext:  world,
		Direction:     direction,
	})
	if err != nil {
		return model.ForumPost{}, fmt.Errorf("generate thread: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	p := model.ForumPost{
		ID:         a.newID(),
		AuthorID:   c.ID,
		AuthorName: c.Name,
		AvatarURL:  c.AvatarURL,
		Title:      firstNonEmpty(draft.Title, untitledThread),
		Content:    firstNonEmpty(draft.Content, emptyContent),
		Tags:       append([]string{}, draft.Tags...),
		Timestamp:  a.nowMillis(),
		Comments:   []model.ForumComment{},
	}
	a.prependPostLocked(p)
	return p.Clone(), a.saveDetachedLocked(ctx)
}

func (a *App) prependPostLocked(p model.ForumPost) {
	a.snap.ForumPosts = append([]model.ForumPost{p}, a.snap.ForumPosts...)
}

// SplitTags parses a comma separated tag list, dropping blanks.
func SplitTags(csv string) []string {
	tags := []string{}
	for _, t := range strings.Split(csv, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
