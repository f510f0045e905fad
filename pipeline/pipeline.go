// Package pipeline drives end-to-end knowledge graph construction from
// documents: clean text, split it into sentences, hand each sentence to
// the external annotation service, and compile the returned relation
// tuples into graph facts through the relation vocabulary.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MelihAkdag/language-atomics-metagraph/annotate"
	"github.com/MelihAkdag/language-atomics-metagraph/language"
	"github.com/MelihAkdag/language-atomics-metagraph/parser"
	"github.com/MelihAkdag/language-atomics-metagraph/store"
)

// importanceScore is the salience value assigned to non-stopword
// participants of an asserted fact.
const importanceScore = "100"

// ImportanceProperty is the vertex property key carrying the salience
// score.
const ImportanceProperty = "importance"

// Stats summarises one pipeline run.
type Stats struct {
	Sentences int `json:"sentences"`
	Relations int `json:"relations"`
	Asserted  int `json:"asserted"`
	Dropped   int `json:"dropped"`
}

// Pipeline compiles annotated sentences into one knowledge store.
type Pipeline struct {
	annotator annotate.Annotator
	speaker   *language.Speaker
	store     *store.Store
}

// New creates a pipeline writing through the given speaker and store.
// annotator may be nil when only fact sheets are processed.
func New(annotator annotate.Annotator, speaker *language.Speaker, s *store.Store) *Pipeline {
	return &Pipeline{annotator: annotator, speaker: speaker, store: s}
}

// ProcessFile ingests one document: fact sheets are asserted row by
// row, anything else goes through text annotation.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*Stats, error) {
	if parser.IsFactSheet(path) {
		facts, err := parser.Facts(ctx, path)
		if err != nil {
			return nil, err
		}
		return p.ProcessFacts(ctx, facts)
	}

	text, err := parser.Text(ctx, path)
	if err != nil {
		return nil, err
	}
	return p.ProcessText(ctx, text)
}

// ProcessText cleans and splits the text, annotates each sentence and
// asserts the resulting tuples. Sentences whose annotation fails are
// logged and skipped; a fully failed run is an error.
func (p *Pipeline) ProcessText(ctx context.Context, text string) (*Stats, error) {
	if p.annotator == nil {
		return nil, fmt.Errorf("pipeline: no annotator configured")
	}

	sentences := SplitSentences(Clean(text))
	stats := &Stats{Sentences: len(sentences)}
	if len(sentences) == 0 {
		return stats, nil
	}

	failed := 0
	for _, sentence := range sentences {
		relations, err := p.annotator.Annotate(ctx, sentence)
		if err != nil {
			slog.Warn("pipeline: annotation failed, skipping sentence",
				"sentence", sentence, "error", err)
			failed++
			continue
		}

		for _, rel := range relations {
			stats.Relations++
			if !rel.Valid() {
				stats.Dropped++
				continue
			}
			if err := p.assert(ctx, rel); err != nil {
				slog.Warn("pipeline: assertion failed, skipping relation",
					"type", rel.Type, "subject", rel.Subject, "error", err)
				stats.Dropped++
				continue
			}
			stats.Asserted++
		}
	}

	if failed == len(sentences) {
		return stats, fmt.Errorf("pipeline: annotation failed for all %d sentences", failed)
	}
	return stats, nil
}

// ProcessFacts asserts structured fact rows directly, without the
// annotation service.
func (p *Pipeline) ProcessFacts(ctx context.Context, facts []parser.Fact) (*Stats, error) {
	stats := &Stats{}
	for _, f := range facts {
		stats.Relations++
		if err := p.assertFact(ctx, f); err != nil {
			slog.Warn("pipeline: fact assertion failed, skipping",
				"subject", f.Subject, "relation", f.Relation, "error", err)
			stats.Dropped++
			continue
		}
		stats.Asserted++
	}
	return stats, nil
}

// assert maps one annotation tuple onto the vocabulary verb it encodes.
func (p *Pipeline) assert(ctx context.Context, rel annotate.Relation) error {
	subject := strings.ToLower(rel.Subject)
	object := strings.ToLower(rel.Object)
	anchor := strings.ToLower(rel.Anchor)

	switch rel.Type {
	case annotate.RelIS:
		if err := p.speaker.IS(ctx, subject, object); err != nil {
			return err
		}
		return p.markImportant(ctx, subject, object)

	case annotate.RelHAS:
		if err := p.speaker.HAS(ctx, subject, anchor, object); err != nil {
			return err
		}
		return p.markImportant(ctx, subject, anchor, object)

	case annotate.RelTO:
		indirect := strings.ToLower(rel.IndirectObject)
		if err := p.speaker.TO(ctx, subject, indirect, rel.Verb); err != nil {
			return err
		}
		return p.markImportant(ctx, subject, indirect)

	case annotate.RelACTION:
		if err := p.speaker.RELATES(ctx, subject, object, "", rel.Verb); err != nil {
			return err
		}
		return p.markImportant(ctx, subject, object)
	}

	return fmt.Errorf("unknown relation type %q", rel.Type)
}

// assertFact maps a fact-sheet row onto a vocabulary verb by its
// relation column.
func (p *Pipeline) assertFact(ctx context.Context, f parser.Fact) error {
	subject := strings.ToLower(f.Subject)
	object := strings.ToLower(f.Object)
	anchor := strings.ToLower(f.Anchor)

	var err error
	switch f.Relation {
	case "IS":
		err = p.speaker.IS(ctx, subject, object)
	case "HAS":
		err = p.speaker.HAS(ctx, subject, anchor, object)
	case "IS_A":
		err = p.speaker.IsA(ctx, subject, object)
	case "IN":
		err = p.speaker.IN(ctx, subject, object)
	case "FROM":
		err = p.speaker.FROM(ctx, subject, object, anchor)
	case "TO":
		err = p.speaker.TO(ctx, subject, object, anchor)
	case "RELATES":
		err = p.speaker.RELATES(ctx, subject, object, anchor, "")
	case "CONTAINS":
		err = p.speaker.CONTAINS(ctx, subject, object)
	case "OF":
		err = p.speaker.OF(ctx, anchor, subject, object)
	default:
		return fmt.Errorf("unknown relation verb %q", f.Relation)
	}
	if err != nil {
		return err
	}

	names := []string{subject, object}
	if anchor != "" {
		names = append(names, anchor)
	}
	return p.markImportant(ctx, names...)
}

// markImportant bumps the importance property on every non-stopword
// participant that resolves to a vertex.
func (p *Pipeline) markImportant(ctx context.Context, names ...string) error {
	for _, name := range names {
		if name == "" || isStopword(name) {
			continue
		}
		v, err := p.store.GetVertexByName(ctx, name, false)
		if err != nil {
			continue
		}
		if err := p.store.SetVertexProperty(ctx, v.ID, ImportanceProperty, importanceScore); err != nil {
			return err
		}
	}
	return nil
}
