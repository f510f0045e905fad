// Package annotate is the interface boundary to the external linguistic
// annotation service. The whole contract is: one sentence in, zero or
// more relation tuples out. No language understanding happens in this
// repository.
package annotate

import "context"

// RelationType classifies an extracted tuple.
type RelationType string

const (
	// RelIS is a denotation: subject is object.
	RelIS RelationType = "IS"
	// RelHAS is an attribution: subject has anchor object.
	RelHAS RelationType = "HAS"
	// RelTO is a dative: subject verb-to indirect object.
	RelTO RelationType = "TO"
	// RelACTION is any other verb connecting subject and object.
	RelACTION RelationType = "ACTION"
)

// Relation is one tuple produced by the annotation service for a
// sentence. Which fields are required depends on Type; see Valid.
type Relation struct {
	Type           RelationType `json:"type"`
	Subject        string       `json:"subject"`
	Object         string       `json:"object,omitempty"`
	Anchor         string       `json:"anchor,omitempty"`
	IndirectObject string       `json:"indirect_object,omitempty"`
	Verb           string       `json:"verb,omitempty"`
}

// Valid reports whether the tuple carries every field its type
// requires. Callers drop invalid tuples before they reach the relation
// vocabulary.
func (r Relation) Valid() bool {
	if r.Subject == "" {
		return false
	}
	switch r.Type {
	case RelIS:
		return r.Object != ""
	case RelHAS:
		return r.Anchor != "" && r.Object != ""
	case RelTO:
		return r.IndirectObject != ""
	case RelACTION:
		return r.Verb != "" && r.Object != ""
	}
	return false
}

// Annotator produces relation tuples for a sentence.
type Annotator interface {
	Annotate(ctx context.Context, sentence string) ([]Relation, error)
}
