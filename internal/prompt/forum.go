package prompt

import (
	"fmt"
	"strings"
)

// Exact number of seed comments requested per generated thread.
const BatchCommentCount = 5

// RosterEntry describes a contact that may author forum content.
type RosterEntry struct {
	ID      string
	Name    string
	Persona string
}

// Roster renders one line per available author.
func Roster(entries []RosterEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("ID: %s, Name: %s, Persona: %s", e.ID, e.Name, e.Persona))
	}
	return strings.Join(lines, "\n")
}

// Thread is the instruction for a single thread written by one contact.
func Thread(authorName, authorPersona, worldContext, direction string) string {
	return fmt.Sprintf(`
You are roleplaying as %s.
Persona: %s
World Context: %s

Task: Create a social media/forum thread.
Direction from User: %q

Output strictly valid JSON:
{
  "title": "Thread Title",
  "content": "Body of the post",
  "tags": ["tag1", "tag2"]
}
`, authorName, authorPersona, worldContext, or(direction, "Something random and interesting about your day or the world."))
}

// BatchThreads is the instruction for generating several threads, each
// with seed comments, in one call. An empty tag asks for diverse topics.
func BatchThreads(roster, worldContext, tag string) string {
	direction := "Generate 3 to 8 diverse forum threads."
	if tag != "" {
		direction = fmt.Sprintf("Generate 3 to 8 forum threads specifically related to the topic/tag: %q.", tag)
	}
	return fmt.Sprintf(`
You are the engine for a simulated gothic/cyberpunk forum.
World Context: %s

Available Characters (Authors):
%s

Task: %s

Requirements:
1. Generate between 3 and 8 threads.
2. Each thread MUST have a title, content, tags.
3. Each thread MUST have EXACTLY %d initial comments.
4. Pick authors for threads and comments from the Available Characters list if possible, otherwise invent them.
5. Output strictly a valid JSON Array.

JSON Structure:
[
  {
    "title": "Title",
    "content": "Content",
    "tags": ["tag1", "tag2"],
    "authorName": "Name",
    "comments": [
      { "authorName": "Commenter Name", "content": "Comment content" }
    ]
  }
]
`, worldContext, or(roster, "No specific characters, invent fictional users."), direction, BatchCommentCount)
}

// Comment is a prior comment shown to the model for context.
type Comment struct {
	AuthorName string
	Content    string
}

// Replies is the instruction for new comments on an existing thread.
func Replies(title, content string, previous []Comment, roster, worldContext string) string {
	lines := make([]string, 0, len(previous))
	for _, c := range previous {
		lines = append(lines, c.AuthorName+": "+c.Content)
	}
	return fmt.Sprintf(`
You are simulating a forum comment section.
World Context: %s

Thread Title: %s
Thread Content: %s

Previous Comments:
%s

Available Characters:
%s

Task: Generate 3 to 5 NEW replies/comments.

Output strictly valid JSON array of objects:
[
  { "authorName": "Name", "content": "The comment", "linkedContactId": "ID_FROM_ROSTER_IF_MATCH" }
]
`, worldContext, title, content, strings.Join(lines, "\n"), roster)
}
