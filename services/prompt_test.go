package services

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"ragagent/models"
)

func TestBuildQueryTextWithoutHistory(t *testing.T) {
	if got := buildQueryText("what is this?", nil); got != "what is this?" {
		t.Errorf("buildQueryText() = %q", got)
	}
}

func TestBuildQueryTextUsesLastFiveTurnsInOrder(t *testing.T) {
	var history []models.ChatMessage
	for i := 1; i <= 8; i++ {
		history = append(history, models.ChatMessage{
			Role:    "user",
			Content: fmt.Sprintf("turn %d", i),
		})
	}

	got := buildQueryText("current", history)

	for i := 1; i <= 3; i++ {
		if strings.Contains(got, fmt.Sprintf("turn %d", i)) {
			t.Errorf("turn %d should have been dropped from the window", i)
		}
	}
	idx := -1
	for i := 4; i <= 8; i++ {
		pos := strings.Index(got, fmt.Sprintf("turn %d", i))
		if pos < 0 {
			t.Fatalf("turn %d missing from prompt", i)
		}
		if pos < idx {
			t.Errorf("turn %d appears out of order", i)
		}
		idx = pos
	}
	if !strings.HasPrefix(got, "Previous conversation:\n") {
		t.Errorf("prompt missing conversation label: %q", got)
	}
	if !strings.Contains(got, "Current question: current") {
		t.Errorf("prompt missing current question: %q", got)
	}
	if !strings.Contains(got, "user: turn 8") {
		t.Errorf("turns should be formatted as role: content, got %q", got)
	}
}

func TestBuildGenerationPrompt(t *testing.T) {
	retrieved := []models.Retrieved{
		{Text: "first chunk", Source: "doc.pdf"},
		{Text: "second chunk"},
	}
	got := buildGenerationPrompt("why?", retrieved)

	if !strings.Contains(got, "[Source: doc.pdf]") {
		t.Error("prompt missing source label")
	}
	if !strings.Contains(got, "first chunk") || !strings.Contains(got, "second chunk") {
		t.Error("prompt missing retrieved context")
	}
	if !strings.Contains(got, "Question: why?") {
		t.Error("prompt missing question")
	}
	if !strings.HasSuffix(got, "Answer:") {
		t.Error("prompt should end with the answer cue")
	}
}

func TestTruncateSource(t *testing.T) {
	short := truncateSource("short text")
	if short != "short text..." {
		t.Errorf("marker must be appended even without truncation, got %q", short)
	}

	long := truncateSource(strings.Repeat("a", 1000))
	if utf8.RuneCountInString(long) != sourcePreviewLen+3 {
		t.Errorf("truncated length = %d runes, want %d", utf8.RuneCountInString(long), sourcePreviewLen+3)
	}
	if !strings.HasSuffix(long, "...") {
		t.Error("truncated source missing marker")
	}

	// Multi-byte runes must not be split.
	wide := truncateSource(strings.Repeat("é", 400))
	if utf8.RuneCountInString(wide) != sourcePreviewLen+3 {
		t.Errorf("wide rune length = %d, want %d", utf8.RuneCountInString(wide), sourcePreviewLen+3)
	}
	if !utf8.ValidString(wide) {
		t.Error("truncation produced invalid UTF-8")
	}
}
