// Package store persists decision-tree documents as indented JSON, normalizes
// the legacy flat-history format into the canonical shape, and validates
// structural invariants before the flow engine ever sees a document.
package store
