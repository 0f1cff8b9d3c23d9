package author

import (
	"fmt"
	"strings"
	"time"

	"expertree/pkg/domain"
)

const templateVersion = "1.0"

// BuildExpertTemplate creates the simplest useful document: one open root
// node that loops on itself, so every free-text turn stays in conversation
// with the chosen expert.
func BuildExpertTemplate(expertType string, now time.Time) *domain.Document {
	return &domain.Document{
		Metadata: domain.Metadata{
			Title:       fmt.Sprintf("%s Expert Conversation", expertType),
			Version:     templateVersion,
			CreatedAt:   now.Format(time.RFC3339),
			ExpertType:  expertType,
			Description: Persona(expertType),
			Author:      "expertree",
		},
		ConversationFlow: []domain.Node{{
			NodeID:          domain.RootNodeID,
			Question:        fmt.Sprintf("You're now connected to the %s expert. What would you like to discuss?", expertType),
			QuestionType:    domain.QuestionOpen,
			DefaultNextNode: domain.RootNodeID,
		}},
		ConversationHistory: []domain.HistoryEntry{},
	}
}

// BuildCatalogTemplate creates the full two-level selection tree from the
// built-in catalog: a category menu at root, one expert menu per category,
// and a self-looping open leaf per expert. Menus carry no default edge, so
// stray input stalls at the menu instead of advancing somewhere surprising.
func BuildCatalogTemplate(now time.Time) *domain.Document {
	doc := buildSelectionTree(Catalog(), "Expert Selection", now)
	doc.Metadata.Description = "Walk the category and expert menus, then chat freely with the selected expert."
	return doc
}

func slug(name string) string {
	s := strings.ToLower(name)
	s = strings.NewReplacer(" ", "_", "&", "and", "/", "_").Replace(s)
	return strings.ReplaceAll(s, "__", "_")
}
