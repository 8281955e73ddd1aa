// Package chunker splits model replies into display chunks: chat bubbles
// for conversational replies, paragraphs for narrative ones.
package chunker

import (
	"regexp"
	"strings"
)

var (
	paragraphBreak = regexp.MustCompile(`\n\s*\n`)
	sentence       = regexp.MustCompile(`[^.!?。？！\n\r]+[.!?。？！\n\r]*`)
)

// Split breaks text into chunks. Narrative text splits on blank lines;
// conversational text splits into sentences, falling back to the whole
// text when no sentence matches.
func Split(text string, narrative bool) []string {
	if narrative {
		return compact(paragraphBreak.Split(text, -1))
	}

	segments := sentence.FindAllString(text, -1)
	if segments == nil {
		return []string{text}
	}
	return compact(segments)
}

// compact trims every chunk and drops the empty ones.
func compact(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
