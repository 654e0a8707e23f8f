package services

import (
	"fmt"
	"strings"

	"ragagent/models"
)

// historyWindow caps how many prior conversation turns are folded into the
// query; older turns are dropped.
const historyWindow = 5

const answerInstruction = `You are a helpful assistant answering questions about the user's uploaded documents. Answer the question using only the provided context. If the context does not contain the answer, say so instead of inventing information.`

// buildQueryText prepends a labeled block of recent conversation turns to
// the query, preserving original turn order.
func buildQueryText(query string, history []models.ChatMessage) string {
	if len(history) == 0 {
		return query
	}
	turns := history
	if len(turns) > historyWindow {
		turns = turns[len(turns)-historyWindow:]
	}
	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		lines = append(lines, fmt.Sprintf("%s: %s", turn.Role, turn.Content))
	}
	return fmt.Sprintf("Previous conversation:\n%s\n\nCurrent question: %s", strings.Join(lines, "\n"), query)
}

// buildGenerationPrompt stuffs all retrieved chunks into a single prompt so
// the whole synthesis costs one generation call.
func buildGenerationPrompt(queryText string, retrieved []models.Retrieved) string {
	var sb strings.Builder
	sb.WriteString(answerInstruction)
	sb.WriteString("\n\nContext:\n")
	for _, r := range retrieved {
		if r.Source != "" {
			sb.WriteString(fmt.Sprintf("[Source: %s]\n", r.Source))
		}
		sb.WriteString(r.Text)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Question: ")
	sb.WriteString(queryText)
	sb.WriteString("\n\nAnswer:")
	return sb.String()
}

// sourcePreviewLen is the excerpt length returned to clients, in runes.
const sourcePreviewLen = 300

// truncateSource cuts a chunk down to its preview and appends the marker.
// The marker is appended even when nothing was cut, matching the response
// contract.
func truncateSource(text string) string {
	runes := []rune(text)
	if len(runes) > sourcePreviewLen {
		runes = runes[:sourcePreviewLen]
	}
	return string(runes) + "..."
}
