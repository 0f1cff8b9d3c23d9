// Package domain defines the decision-tree document model: metadata, the node
// graph, per-turn history records, and the error taxonomy shared by the store
// and the flow engine.
package domain
