package store

import (
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"expertree/pkg/domain"
)

// legacyTurn is one record of the old flat-history format: a plain role/content
// pair as written by the first generation of expert scripts.
type legacyTurn struct {
	Role    string `mapstructure:"role"`
	Content string `mapstructure:"content"`
}

// convertedGreeting is the question text of the synthetic root node every
// converted document gets.
const convertedGreeting = "Hello! What would you like to discuss?"

// IsLegacyShape reports whether parsed JSON is the legacy flat-history format:
// a top-level array of turns rather than a document mapping.
func IsLegacyShape(data any) bool {
	_, ok := data.([]any)
	return ok
}

// ConvertLegacy normalizes a legacy flat turn list into a canonical document:
// a single self-looping open root node, the expert type sniffed from the
// system message, and one history entry per user turn paired with the nearest
// following assistant reply.
func ConvertLegacy(turns []any) (*domain.Document, error) {
	decoded := make([]legacyTurn, 0, len(turns))
	for _, raw := range turns {
		var turn legacyTurn
		if err := mapstructure.Decode(raw, &turn); err != nil {
			return nil, &domain.ValidationError{Reason: "legacy entry is not a role/content mapping"}
		}
		decoded = append(decoded, turn)
	}

	rootID := domain.RootNodeID
	doc := &domain.Document{
		Metadata: domain.Metadata{
			Title:      "Converted Conversation",
			Version:    "1.0",
			CreatedAt:  time.Now().Format(time.RFC3339),
			ExpertType: extractExpertType(decoded),
		},
		ConversationFlow: []domain.Node{{
			NodeID:          rootID,
			Question:        convertedGreeting,
			QuestionType:    domain.QuestionOpen,
			DefaultNextNode: rootID,
		}},
		ConversationHistory: []domain.HistoryEntry{},
	}

	for i, turn := range decoded {
		if turn.Role != "user" {
			continue
		}
		next := rootID
		doc.ConversationHistory = append(doc.ConversationHistory, domain.HistoryEntry{
			Timestamp:         time.Now().Format(time.RFC3339),
			NodeID:            rootID,
			Question:          convertedGreeting,
			OptionsPresented:  []string{},
			UserResponse:      turn.Content,
			ResponseType:      domain.ResponseFreeText,
			NextNode:          &next,
			AssistantResponse: followingAssistant(decoded, i),
		})
	}

	return doc, nil
}

// extractExpertType sniffs the persona out of a system message, taking the
// text between "expert in" and the next period. Fragile by nature; kept for
// compatibility with existing legacy files.
func extractExpertType(turns []legacyTurn) string {
	for _, turn := range turns {
		if turn.Role != "system" {
			continue
		}
		_, after, found := strings.Cut(turn.Content, "expert in")
		if !found {
			continue
		}
		if dot := strings.Index(after, "."); dot >= 0 {
			after = after[:dot]
		}
		if expert := strings.TrimSpace(after); expert != "" {
			return expert
		}
	}
	return "unknown"
}

func followingAssistant(turns []legacyTurn, from int) string {
	for _, turn := range turns[from+1:] {
		if turn.Role == "assistant" {
			return turn.Content
		}
	}
	return ""
}
