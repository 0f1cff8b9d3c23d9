package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"expertree/pkg/domain"
)

// Store reads and writes decision-tree documents as indented JSON files.
type Store struct{}

// New creates a Store.
func New() *Store { return &Store{} }

// Load parses a document from disk and normalizes it to the canonical shape.
// A top-level JSON array is treated as the legacy flat-history format and
// converted before validation. Errors follow the taxonomy in pkg/domain:
// ErrNotFound, ParseError, ValidationError. Never returns a partial document.
func (s *Store) Load(path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &domain.ParseError{Path: path, Err: err}
	}

	var doc *domain.Document
	if IsLegacyShape(raw) {
		doc, err = ConvertLegacy(raw.([]any))
		if err != nil {
			return nil, err
		}
	} else {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, &domain.ValidationError{Reason: "top-level value must be an object or a legacy array"}
		}
		// Shape-check the raw parse first so wrong-typed fields report as
		// validation failures, not decode errors.
		if err := validateRaw(m); err != nil {
			return nil, err
		}
		doc = &domain.Document{}
		if err := json.Unmarshal(data, doc); err != nil {
			return nil, &domain.ParseError{Path: path, Err: err}
		}
	}

	if err := Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadTemplate loads a document as a fresh starting point: any history the
// template file carries is discarded.
func (s *Store) LoadTemplate(path string) (*domain.Document, error) {
	doc, err := s.Load(path)
	if err != nil {
		return nil, err
	}
	doc.ConversationHistory = []domain.HistoryEntry{}
	return doc, nil
}

// Save writes the document with the caller-supplied history merged in. The
// filename is derived from the sanitized expert label and the run timestamp,
// so successive saves never overwrite each other. Returns the written path.
func (s *Store) Save(doc *domain.Document, history []domain.HistoryEntry, dir, expertLabel string, ts time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("ensure history directory: %w", err)
	}

	name := fmt.Sprintf("%s_decision_tree_%s.json", SanitizeLabel(expertLabel), ts.Format("20060102_150405"))
	path := filepath.Join(dir, name)

	// Shallow copy: the loaded document is never mutated beyond the history
	// merge, and only on the copy being written.
	out := *doc
	out.ConversationHistory = history
	if out.ConversationHistory == nil {
		out.ConversationHistory = []domain.HistoryEntry{}
	}

	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// WriteDocument writes a document verbatim under dir/name (".json" appended
// if missing). Used by the authoring and conversion commands, which pick
// their own filenames.
func (s *Store) WriteDocument(doc *domain.Document, dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("ensure directory: %w", err)
	}
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// ListCandidates returns the filenames in dir matching the extension, sorted
// by os.ReadDir order. A missing directory is an empty result, not an error.
func (s *Store) ListCandidates(dir, ext string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []string{}
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ext) {
			names = append(names, entry.Name())
		}
	}
	return names
}

// SanitizeLabel makes an expert label safe for filenames: spaces and path
// separators become underscores.
func SanitizeLabel(label string) string {
	r := strings.NewReplacer(" ", "_", "/", "_", "\\", "_")
	return r.Replace(label)
}
