// Package prompt assembles the system instructions sent to the model.
package prompt

import (
	"fmt"
	"strings"
)

const (
	fallbackPersona     = "You are a helpful AI assistant."
	fallbackUserPersona = "The user is a curious traveler."
	fallbackLore        = "No specific lore active."
)

const narrativeMode = `MODE: NARRATIVE / OFFLINE REALITY (IMPORTANT)
1. You are NOT chatting. You are narrating a story.
2. Output a SINGLE, LONG, CONTINUOUS text block (paragraphs separated by double newlines).
3. Do not be brief. BE VERBOSE. Describe the environment, sensory details, body language, actions, and inner thoughts in great detail.
4. Format:
   - Use *italics* for inner thoughts. DO NOT use parentheses ().
   - Use **bold** or regular text for actions (context dependent, usually just text).
   - Use "quotes" for dialogue.
   - Combine them fluidly in long paragraphs.`

const conversationalMode = "Your responses should be conversational bubbles."

const narrativeMinimum = "Write a substantial amount of text. At least 200-300 words unless context demands otherwise."

// Params are the inputs of a chat system instruction.
type Params struct {
	AIPersona       string
	UserPersona     string
	UserName        string
	Lore            string // already formatted active lore
	Offline         bool   // narrative mode
	TargetWordCount int
}

// Build assembles the chat system instruction: persona, user context,
// world knowledge, then the mode and length instructions.
func Build(p Params) string {
	var user strings.Builder
	if p.UserName != "" {
		fmt.Fprintf(&user, "User Name: %s\n", p.UserName)
	}
	fmt.Fprintf(&user, "User Description: %s", or(p.UserPersona, fallbackUserPersona))

	mode := conversationalMode
	if p.Offline {
		mode = narrativeMode
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(or(p.AIPersona, fallbackPersona))
	b.WriteString("\n\nUSER CONTEXT:\n")
	b.WriteString(user.String())
	b.WriteString("\n\nWORLD KNOWLEDGE (GRIMOIRE):\n")
	b.WriteString(or(p.Lore, fallbackLore))
	b.WriteString("\n\nINSTRUCTIONS:\n")
	b.WriteString(mode)
	b.WriteString("\n")
	b.WriteString(lengthInstruction(p.Offline, p.TargetWordCount))
	b.WriteString("\n\nStrictly adhere to the role defined above.\n")
	return b.String()
}

func lengthInstruction(offline bool, target int) string {
	switch {
	case target > 0:
		return fmt.Sprintf("STRICT LENGTH REQUIREMENT: You MUST generate content close to %d words. Provide enough detail to reach this length.", target)
	case offline:
		return narrativeMinimum
	default:
		return ""
	}
}

func or(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
