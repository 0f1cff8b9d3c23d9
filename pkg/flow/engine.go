package flow

import (
	"fmt"
	"time"

	"expertree/pkg/domain"
)

// OutcomeKind classifies the result of one engine operation.
type OutcomeKind string

const (
	// OutcomeAdvanced means the turn resolved a next node and the pointer moved.
	OutcomeAdvanced OutcomeKind = "advanced"
	// OutcomeStalled means no next node could be resolved. The turn is still
	// recorded (audit trail over strict validation); the pointer is unchanged.
	OutcomeStalled OutcomeKind = "stalled"
	// OutcomeCommand means the input was a reserved token; nothing was recorded.
	OutcomeCommand OutcomeKind = "command"
	// OutcomeMoved means back-navigation removed one entry.
	OutcomeMoved OutcomeKind = "moved"
	// OutcomeAtStart means back-navigation had nowhere to go.
	OutcomeAtStart OutcomeKind = "at_start"
)

// Outcome describes what one turn did.
type Outcome struct {
	Kind    OutcomeKind
	Command Command

	// Entry is the history record appended by this turn (nil for commands).
	Entry *domain.HistoryEntry

	// NeedsReply is set when the turn advanced on free text: the shell should
	// consult the inference client for an assistant reply.
	NeedsReply bool
}

// Engine drives conversational turns against one loaded document. It owns the
// current-node pointer and the in-memory history; both are single-session,
// single-goroutine state.
type Engine struct {
	doc           *domain.Document
	currentNodeID string
	history       []domain.HistoryEntry
	now           func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the timestamp source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine positioned by the document's history: fresh documents
// start at root; resumed documents continue at the last entry's resolved
// target (or at the entry's own node if that turn stalled).
func New(doc *domain.Document, opts ...Option) *Engine {
	e := &Engine{
		doc:           doc,
		currentNodeID: domain.RootNodeID,
		history:       append([]domain.HistoryEntry(nil), doc.ConversationHistory...),
		now:           time.Now,
	}
	if n := len(e.history); n > 0 {
		last := e.history[n-1]
		if last.NextNode != nil && *last.NextNode != "" {
			e.currentNodeID = *last.NextNode
		} else {
			e.currentNodeID = last.NodeID
		}
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CurrentNodeID returns the pointer as-is, without resolving it.
func (e *Engine) CurrentNodeID() string { return e.currentNodeID }

// Document exposes the loaded document for prompt assembly and saving.
func (e *Engine) Document() *domain.Document { return e.doc }

// History returns the in-memory turn log, oldest first.
func (e *Engine) History() []domain.HistoryEntry { return e.history }

// CurrentNode resolves the pointer against the conversation flow. A dangling
// pointer is fatal for the session; callers must stop the loop.
func (e *Engine) CurrentNode() (*domain.Node, error) {
	node := e.doc.FindNode(e.currentNodeID)
	if node == nil {
		return nil, fmt.Errorf("current node %q: %w", e.currentNodeID, domain.ErrNodeNotFound)
	}
	return node, nil
}

// ProcessTurn interprets one raw input against the current node.
//
// Reserved tokens short-circuit without touching history. Otherwise the input
// is matched against option ids (digits only, exact string equality), falling
// back to the node's default edge; open nodes always take the default edge.
// The turn is recorded either way, with a nil next node on a stall.
func (e *Engine) ProcessTurn(input string) (Outcome, error) {
	node, err := e.CurrentNode()
	if err != nil {
		return Outcome{}, err
	}

	if cmd, ok := ParseCommand(input); ok {
		return Outcome{Kind: OutcomeCommand, Command: cmd}, nil
	}

	var nextNodeID string
	responseType := domain.ResponseFreeText
	var optionsPresented []string

	if node.IsMultipleChoice() {
		optionsPresented = node.Labels()
		if isAllDigits(input) {
			for _, opt := range node.Options {
				if opt.OptionID == input {
					nextNodeID = opt.NextNode
					responseType = domain.ResponseOption
					break
				}
			}
		}
		if nextNodeID == "" && node.DefaultNextNode != "" {
			nextNodeID = node.DefaultNextNode
		}
	} else if node.DefaultNextNode != "" {
		nextNodeID = node.DefaultNextNode
	}

	entry := domain.HistoryEntry{
		Timestamp:        e.now().Format(time.RFC3339),
		NodeID:           node.NodeID,
		Question:         node.Question,
		OptionsPresented: append([]string{}, optionsPresented...),
		UserResponse:     input,
		ResponseType:     responseType,
	}
	if nextNodeID != "" {
		entry.NextNode = &nextNodeID
	}
	e.history = append(e.history, entry)
	appended := &e.history[len(e.history)-1]

	if nextNodeID == "" {
		return Outcome{Kind: OutcomeStalled, Entry: appended}, nil
	}

	e.currentNodeID = nextNodeID
	return Outcome{
		Kind:       OutcomeAdvanced,
		Entry:      appended,
		NeedsReply: responseType == domain.ResponseFreeText,
	}, nil
}

// GoBack pops the most recent turn and restores the pointer to the node the
// new last entry was asked from. A history of one entry (or none) is not
// rewindable; that boundary is a fixed contract.
func (e *Engine) GoBack() Outcome {
	if len(e.history) <= 1 {
		return Outcome{Kind: OutcomeAtStart}
	}
	e.history = e.history[:len(e.history)-1]
	e.currentNodeID = e.history[len(e.history)-1].NodeID
	return Outcome{Kind: OutcomeMoved}
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
