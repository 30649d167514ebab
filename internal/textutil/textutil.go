// Package textutil holds small text transforms shared by the chat
// services and adapters.
package textutil

import (
	"regexp"
	"strings"
)

// fenceRe matches a fenced code block with an optional language tag.
// The opening fence must end its line; inline triple backticks are not
// treated as fences.
var fenceRe = regexp.MustCompile("(?s)```[a-zA-Z0-9_+-]*[ \t]*\n(.*?)```")

// StripCodeFence extracts code from model output that may wrap it in
// markdown fences, possibly alongside explanatory prose. When several
// fenced blocks are present the largest one wins; with none, the
// trimmed raw text is returned as-is.
func StripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	var largest string
	for _, match := range fenceRe.FindAllStringSubmatch(trimmed, -1) {
		block := strings.TrimSpace(match[1])
		if len(block) > len(largest) {
			largest = block
		}
	}
	if largest != "" {
		return largest
	}
	return trimmed
}

// DeriveTitle makes a one-line title out of free text: whitespace runs
// collapse to single spaces and the result is cut at limit runes.
func DeriveTitle(text string, limit int) string {
	title := strings.Join(strings.Fields(text), " ")
	if limit <= 0 || len(title) <= limit {
		return title
	}

	runes := []rune(title)
	if len(runes) <= limit {
		return title
	}
	return strings.TrimSpace(string(runes[:limit]))
}
