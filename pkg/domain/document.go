package domain

// Question types understood by the flow engine.
const (
	// QuestionMultipleChoice presents a numbered option menu.
	QuestionMultipleChoice = "multiple_choice"
	// QuestionOpen accepts free text only.
	QuestionOpen = "open"
)

// Response types recorded per turn.
const (
	ResponseOption   = "option"
	ResponseFreeText = "free_text"
)

// RootNodeID is the entry point every document must define.
const RootNodeID = "root"

// Metadata describes the document as a whole.
// ExpertType is the persona key; it is required and drives the system prompt.
type Metadata struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	CreatedAt   string `json:"created_at"`
	ExpertType  string `json:"expert_type"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author,omitempty"`
}

// Option is one selectable edge of a multiple-choice node.
// Matching is by OptionID string equality, never by position.
type Option struct {
	OptionID string `json:"option_id"`
	Text     string `json:"text"`
	NextNode string `json:"next_node"`
}

// Node is one question point in the conversation graph.
type Node struct {
	NodeID       string   `json:"node_id"`
	Question     string   `json:"question"`
	QuestionType string   `json:"question_type"`
	Options      []Option `json:"options,omitempty"`

	// DefaultNextNode is the fallback edge taken when no option matches
	// (or always, for open nodes). Empty means no fallback: the turn stalls.
	DefaultNextNode string `json:"default_next_node,omitempty"`
}

// HistoryEntry is one recorded turn. Entries are append-only; back-navigation
// pops the most recent one.
type HistoryEntry struct {
	Timestamp        string   `json:"timestamp"`
	NodeID           string   `json:"node_id"`
	Question         string   `json:"question"`
	OptionsPresented []string `json:"options_presented"`
	UserResponse     string   `json:"user_response"`
	ResponseType     string   `json:"response_type"`

	// NextNode is the resolved target, or nil when the turn stalled.
	NextNode *string `json:"next_node"`

	// AssistantResponse is only populated for entries synthesized from the
	// legacy flat-history format.
	AssistantResponse string `json:"assistant_response,omitempty"`
}

// Document is the JSON-serializable aggregate: metadata, the node graph, and
// the turn history.
type Document struct {
	Metadata            Metadata       `json:"metadata"`
	ConversationFlow    []Node         `json:"conversation_flow"`
	ConversationHistory []HistoryEntry `json:"conversation_history"`
}

// FindNode does a linear scan for a node by id. Returns nil if absent.
func (d *Document) FindNode(id string) *Node {
	for i := range d.ConversationFlow {
		if d.ConversationFlow[i].NodeID == id {
			return &d.ConversationFlow[i]
		}
	}
	return nil
}

// Labels returns the display texts of the options, in menu order.
func (n *Node) Labels() []string {
	labels := make([]string, 0, len(n.Options))
	for _, opt := range n.Options {
		labels = append(labels, opt.Text)
	}
	return labels
}

// IsMultipleChoice reports whether the node presents an option menu.
func (n *Node) IsMultipleChoice() bool {
	return n.QuestionType == QuestionMultipleChoice && len(n.Options) > 0
}
