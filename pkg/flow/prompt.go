package flow

import (
	"fmt"
	"strings"

	"expertree/pkg/domain"
)

// BuildPrompt assembles the full inference prompt for a free-text turn: the
// persona statement, a transcript of prior turns, the current question with
// its options, and the just-given response.
func BuildPrompt(expertType string, history []domain.HistoryEntry, node *domain.Node, userResponse string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an expert in %s. Provide knowledgeable and helpful responses about %s.\n\n",
		expertType, expertType)

	if len(history) > 0 {
		b.WriteString("Previous conversation:\n")
		for _, entry := range history {
			fmt.Fprintf(&b, "Question: %s\n", entry.Question)
			if len(entry.OptionsPresented) > 0 {
				fmt.Fprintf(&b, "Options: %s\n", strings.Join(entry.OptionsPresented, ", "))
			}
			fmt.Fprintf(&b, "User response: %s\n\n", entry.UserResponse)
		}
	}

	fmt.Fprintf(&b, "Current question: %s\n", node.Question)
	if len(node.Options) > 0 {
		fmt.Fprintf(&b, "Options: %s\n", strings.Join(node.Labels(), ", "))
	}
	if userResponse != "" {
		fmt.Fprintf(&b, "User response: %s\n", userResponse)
	}

	b.WriteString("\nProvide a thoughtful, helpful response to the user's input. " +
		"If the user asked a question, answer it thoroughly. " +
		"If the user selected an option, provide information relevant to that choice.")

	return b.String()
}
