// Package rag answers questions by retrieving corpus chunks and passing them to a generator.
package rag

// Availability reports whether the question-answering pipeline can serve answers.
// It is decided once at startup and never changes afterwards.
type Availability int

const (
	// Unavailable means the index, the embedder or the generator is missing.
	Unavailable Availability = iota
	// Ready means every dependency was constructed.
	Ready
)

// String returns the lowercase state name.
func (a Availability) String() string {
	switch a {
	case Ready:
		return "ready"
	default:
		return "unavailable"
	}
}
