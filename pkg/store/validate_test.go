package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expertree/pkg/domain"
	"expertree/pkg/store"
)

func graphDoc(nodes ...domain.Node) *domain.Document {
	return &domain.Document{
		Metadata:         domain.Metadata{ExpertType: "Test"},
		ConversationFlow: nodes,
	}
}

func TestValidateTypedDocument(t *testing.T) {
	doc := graphDoc(domain.Node{NodeID: "root", QuestionType: domain.QuestionOpen})
	assert.NoError(t, store.Validate(doc))

	doc.Metadata.ExpertType = ""
	var vErr *domain.ValidationError
	require.ErrorAs(t, store.Validate(doc), &vErr)
	assert.Contains(t, vErr.Reason, "expert_type")
}

func TestValidateRequiresRoot(t *testing.T) {
	doc := graphDoc(domain.Node{NodeID: "start"})
	var vErr *domain.ValidationError
	require.ErrorAs(t, store.Validate(doc), &vErr)
	assert.Contains(t, vErr.Reason, "root")
}

func TestCheckGraphCleanDocument(t *testing.T) {
	doc := graphDoc(
		domain.Node{NodeID: "root", QuestionType: domain.QuestionMultipleChoice,
			Options: []domain.Option{{OptionID: "1", Text: "Go", NextNode: "leaf"}}},
		domain.Node{NodeID: "leaf", QuestionType: domain.QuestionOpen, DefaultNextNode: "leaf"},
	)
	assert.Empty(t, store.CheckGraph(doc))
}

func TestCheckGraphFindsDuplicates(t *testing.T) {
	doc := graphDoc(
		domain.Node{NodeID: "root"},
		domain.Node{NodeID: "root"},
	)
	problems := store.CheckGraph(doc)
	require.NotEmpty(t, problems)
	assert.Contains(t, problems[0], "duplicate")
}

func TestCheckGraphFindsDeadLinks(t *testing.T) {
	doc := graphDoc(
		domain.Node{NodeID: "root", DefaultNextNode: "ghost"},
	)
	problems := store.CheckGraph(doc)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], `missing node "ghost"`)
}

func TestCheckGraphFindsUnreachableNodes(t *testing.T) {
	doc := graphDoc(
		domain.Node{NodeID: "root", DefaultNextNode: "root"},
		domain.Node{NodeID: "island", DefaultNextNode: "island"},
	)
	problems := store.CheckGraph(doc)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "unreachable")
}
