// Package language is the fixed semantic-verb surface of the knowledge
// store. Each verb resolves its argument concepts by name, creating them
// when absent, and records the fact as a single arc.
package language

import (
	"context"
	"fmt"

	"github.com/MelihAkdag/language-atomics-metagraph/store"
)

// Atomic identifies one of the semantic relations. The numeric value
// doubles as the arc weight, as in the original vocabulary.
type Atomic int

const (
	OF Atomic = iota + 1
	HAS
	IsA
	IN
	FROM
	TO
	RELATES
	CONTAINS
	IS
)

func (a Atomic) String() string {
	switch a {
	case OF:
		return "OF"
	case HAS:
		return "HAS"
	case IsA:
		return "IS_A"
	case IN:
		return "IN"
	case FROM:
		return "FROM"
	case TO:
		return "TO"
	case RELATES:
		return "RELATES"
	case CONTAINS:
		return "CONTAINS"
	case IS:
		return "IS"
	}
	return fmt.Sprintf("Atomic(%d)", int(a))
}

// ProgramProperty is the arc property key carrying the FROM/TO program
// qualifier.
const ProgramProperty = "program"

// Speaker asserts facts into one store. Every assertion is a single unit
// of work: the arc, its endpoint vertices and its anchor are committed
// together or not at all.
type Speaker struct {
	store *store.Store
}

// NewSpeaker binds a speaker to a store.
func NewSpeaker(s *store.Store) *Speaker {
	return &Speaker{store: s}
}

// IS records "a is b": one arc a -> b labelled IS.
func (sp *Speaker) IS(ctx context.Context, a, b string) error {
	_, err := sp.link(ctx, a, b, IS, "")
	return err
}

// HAS records the ternary fact "subject has anchor object" as one arc
// subject -> object. The label encodes the anchor's name
// ("HAS.<anchor>") and the anchor vertex is attached to the arc.
func (sp *Speaker) HAS(ctx context.Context, subject, anchor, object string) error {
	_, err := sp.link(ctx, subject, object, HAS, anchor)
	return err
}

// OF is the dual of HAS: "object of-anchor subject" is stored as
// HAS(subject, anchor, object).
func (sp *Speaker) OF(ctx context.Context, anchor, subject, object string) error {
	_, err := sp.link(ctx, subject, object, HAS, anchor)
	return err
}

// IsA records "b is a kind of a": one arc b -> a labelled IS_A.
func (sp *Speaker) IsA(ctx context.Context, b, a string) error {
	_, err := sp.link(ctx, b, a, IsA, "")
	return err
}

// IN is the dual of IsA: IN(a, b) is encoded as IsA(b, a).
func (sp *Speaker) IN(ctx context.Context, a, b string) error {
	_, err := sp.link(ctx, b, a, IsA, "")
	return err
}

// FROM records "a from b" with the given program qualifier stored as an
// arc property.
func (sp *Speaker) FROM(ctx context.Context, a, b, program string) error {
	return sp.linkWithProgram(ctx, a, b, FROM, program)
}

// TO records "b to a" with the given program qualifier; the dual of
// FROM.
func (sp *Speaker) TO(ctx context.Context, b, a, program string) error {
	return sp.linkWithProgram(ctx, b, a, TO, program)
}

// RELATES records a generic relation between a and b. The relatum and
// by qualifiers are accepted for call-site compatibility and currently
// unrecorded.
func (sp *Speaker) RELATES(ctx context.Context, a, b, relatum, by string) error {
	_, err := sp.link(ctx, a, b, RELATES, "")
	return err
}

// CONTAINS records "a contains b".
func (sp *Speaker) CONTAINS(ctx context.Context, a, b string) error {
	_, err := sp.link(ctx, a, b, CONTAINS, "")
	return err
}

func (sp *Speaker) linkWithProgram(ctx context.Context, a, b string, rel Atomic, program string) error {
	return sp.store.Transact(ctx, func(tx *store.Store) error {
		arc, err := link(ctx, tx, a, b, rel, "")
		if err != nil {
			return err
		}
		if program == "" {
			return nil
		}
		return tx.SetArcProperty(ctx, arc.ID, ProgramProperty, program)
	})
}

// link resolves or creates both concepts, builds the arc label
// ("<REL>" or "<REL>.<metadata>") and creates the arc, attaching the
// metadata concept as the arc's anchor when present.
func (sp *Speaker) link(ctx context.Context, a, b string, rel Atomic, metadata string) (arc *store.Arc, err error) {
	err = sp.store.Transact(ctx, func(tx *store.Store) error {
		arc, err = link(ctx, tx, a, b, rel, metadata)
		return err
	})
	return arc, err
}

func link(ctx context.Context, tx *store.Store, a, b string, rel Atomic, metadata string) (*store.Arc, error) {
	an, err := tx.GetVertexByName(ctx, a, true)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", a, err)
	}
	bn, err := tx.GetVertexByName(ctx, b, true)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", b, err)
	}

	name := rel.String()
	if metadata != "" {
		name += "." + metadata
	}

	arc, err := tx.Join(ctx, an.ID, bn.ID, float64(rel), name)
	if err != nil {
		return nil, fmt.Errorf("joining %q -> %q: %w", a, b, err)
	}

	if metadata != "" {
		mn, err := tx.GetVertexByName(ctx, metadata, true)
		if err != nil {
			return nil, fmt.Errorf("resolving anchor %q: %w", metadata, err)
		}
		if err := tx.SetArcAnchor(ctx, arc.ID, mn.ID); err != nil {
			return nil, err
		}
		arc.Anchor = mn.ID
	}
	return arc, nil
}
