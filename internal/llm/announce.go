package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNothingToAnnounce is returned when no candidate slots exist yet.
var ErrNothingToAnnounce = errors.New("no candidate times to announce")

const announceSystemPrompt = `You write short, friendly scheduling announcements.
Given an event name and the best candidate times, write a 2-3 sentence
message inviting participants to the leading time. Mention alternatives
only if there is more than one. Plain text, no markdown, no subject line.`

// DraftAnnouncement writes the message for the current best times. With
// a nil client it returns the plain template. When the provider fails it
// still returns the template, alongside the error, so the caller always
// has something to paste.
func DraftAnnouncement(ctx context.Context, c Client, eventName string, slots []string) (string, error) {
	if len(slots) == 0 {
		return "", ErrNothingToAnnounce
	}
	if c == nil {
		return templateAnnouncement(eventName, slots), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Event: %s\n", eventName)
	b.WriteString("Candidate times, best first:\n")
	for _, slot := range slots {
		fmt.Fprintf(&b, "- %s\n", slot)
	}

	out, err := c.Chat(ctx, []Message{
		{Role: "system", Content: announceSystemPrompt},
		{Role: "user", Content: b.String()},
	})
	if err != nil {
		return templateAnnouncement(eventName, slots), fmt.Errorf("drafting announcement: %w", err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return templateAnnouncement(eventName, slots), nil
	}
	return out, nil
}

func templateAnnouncement(eventName string, slots []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Best time for %q: %s.", eventName, slots[0])
	if len(slots) > 1 {
		b.WriteString(" Other options: ")
		b.WriteString(strings.Join(slots[1:], "; "))
		b.WriteString(".")
	}
	return b.String()
}
