package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MelihAkdag/language-atomics-metagraph/annotate"
	"github.com/MelihAkdag/language-atomics-metagraph/language"
	"github.com/MelihAkdag/language-atomics-metagraph/parser"
	"github.com/MelihAkdag/language-atomics-metagraph/store"
)

// fakeAnnotator returns canned tuples per sentence and fails on
// sentences listed in errs.
type fakeAnnotator struct {
	tuples map[string][]annotate.Relation
	errs   map[string]error
}

func (f *fakeAnnotator) Annotate(ctx context.Context, sentence string) ([]annotate.Relation, error) {
	if err, ok := f.errs[sentence]; ok {
		return nil, err
	}
	return f.tuples[sentence], nil
}

func newTestPipeline(t *testing.T, a annotate.Annotator) (*Pipeline, *store.Store) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.s3db"), "concepts")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return New(a, language.NewSpeaker(s), s), s
}

func TestProcessTextAssertsTuples(t *testing.T) {
	ctx := context.Background()
	fake := &fakeAnnotator{tuples: map[string][]annotate.Relation{
		"The sky is blue.": {
			{Type: annotate.RelIS, Subject: "Sky", Object: "Blue"},
		},
		"Cars have four wheels.": {
			{Type: annotate.RelHAS, Subject: "Cars", Anchor: "Four", Object: "Wheels"},
		},
	}}
	p, s := newTestPipeline(t, fake)

	stats, err := p.ProcessText(ctx, "The sky is blue.  Cars have four wheels.")
	require.NoError(t, err)
	require.Equal(t, 2, stats.Sentences)
	require.Equal(t, 2, stats.Relations)
	require.Equal(t, 2, stats.Asserted)
	require.Equal(t, 0, stats.Dropped)

	// Participants are lowercased before assertion.
	v, err := s.GetVertexByName(ctx, "sky", false)
	require.NoError(t, err)

	// And marked as salient.
	imp, err := s.VertexProperty(ctx, v.ID, ImportanceProperty)
	require.NoError(t, err)
	require.Equal(t, importanceScore, imp)

	arcs, err := s.GetArcs(ctx)
	require.NoError(t, err)
	require.Len(t, arcs, 2)
}

func TestProcessTextDropsInvalidTuples(t *testing.T) {
	fake := &fakeAnnotator{tuples: map[string][]annotate.Relation{
		"Broken.": {
			{Type: annotate.RelIS, Subject: "sky"}, // no object
			{Type: annotate.RelIS, Subject: "sky", Object: "blue"},
		},
	}}
	p, _ := newTestPipeline(t, fake)

	stats, err := p.ProcessText(context.Background(), "Broken.")
	require.NoError(t, err)
	require.Equal(t, 2, stats.Relations)
	require.Equal(t, 1, stats.Asserted)
	require.Equal(t, 1, stats.Dropped)
}

func TestProcessTextSkipsFailedSentences(t *testing.T) {
	fake := &fakeAnnotator{
		tuples: map[string][]annotate.Relation{
			"Good.": {{Type: annotate.RelIS, Subject: "sky", Object: "blue"}},
		},
		errs: map[string]error{"Bad.": errors.New("service down")},
	}
	p, _ := newTestPipeline(t, fake)

	stats, err := p.ProcessText(context.Background(), "Bad. Good.")
	require.NoError(t, err)
	require.Equal(t, 1, stats.Asserted)
}

func TestProcessTextAllSentencesFailed(t *testing.T) {
	fake := &fakeAnnotator{errs: map[string]error{
		"Bad.": errors.New("down"), "Worse.": errors.New("down"),
	}}
	p, _ := newTestPipeline(t, fake)

	_, err := p.ProcessText(context.Background(), "Bad. Worse.")
	require.Error(t, err)
}

func TestProcessTextWithoutAnnotator(t *testing.T) {
	p, _ := newTestPipeline(t, nil)
	_, err := p.ProcessText(context.Background(), "Anything.")
	require.Error(t, err)
}

func TestProcessTextEmptyInput(t *testing.T) {
	p, _ := newTestPipeline(t, &fakeAnnotator{})
	stats, err := p.ProcessText(context.Background(), "   ")
	require.NoError(t, err)
	require.Equal(t, 0, stats.Sentences)
}

func TestStopwordsNotMarkedImportant(t *testing.T) {
	ctx := context.Background()
	fake := &fakeAnnotator{tuples: map[string][]annotate.Relation{
		"It is blue.": {{Type: annotate.RelIS, Subject: "it", Object: "blue"}},
	}}
	p, s := newTestPipeline(t, fake)

	_, err := p.ProcessText(ctx, "It is blue.")
	require.NoError(t, err)

	it, err := s.GetVertexByName(ctx, "it", false)
	require.NoError(t, err)
	_, err = s.VertexProperty(ctx, it.ID, ImportanceProperty)
	require.ErrorIs(t, err, store.ErrNotFound)

	blue, err := s.GetVertexByName(ctx, "blue", false)
	require.NoError(t, err)
	_, err = s.VertexProperty(ctx, blue.ID, ImportanceProperty)
	require.NoError(t, err)
}

func TestProcessFacts(t *testing.T) {
	ctx := context.Background()
	p, s := newTestPipeline(t, nil)

	stats, err := p.ProcessFacts(ctx, []parser.Fact{
		{Subject: "Car", Relation: "HAS", Anchor: "Four", Object: "Wheels"},
		{Subject: "Car", Relation: "IS_A", Object: "Vehicle"},
		{Subject: "Car", Relation: "NOPE", Object: "X"},
	})
	require.NoError(t, err)
	require.Equal(t, 3, stats.Relations)
	require.Equal(t, 2, stats.Asserted)
	require.Equal(t, 1, stats.Dropped)

	arcs, err := s.GetArcs(ctx)
	require.NoError(t, err)
	require.Len(t, arcs, 2)

	var names []string
	for _, id := range arcs {
		a, err := s.GetArc(ctx, id)
		require.NoError(t, err)
		names = append(names, a.Name)
	}
	require.ElementsMatch(t, []string{"HAS.four", "IS_A"}, names)
}

func TestProcessFactsTernaryAnchor(t *testing.T) {
	ctx := context.Background()
	p, s := newTestPipeline(t, nil)

	_, err := p.ProcessFacts(ctx, []parser.Fact{
		{Subject: "water", Relation: "FROM", Anchor: "fetch", Object: "well"},
	})
	require.NoError(t, err)

	arcs, err := s.GetArcs(ctx)
	require.NoError(t, err)
	require.Len(t, arcs, 1)
	prog, err := s.ArcProperty(ctx, arcs[0], language.ProgramProperty)
	require.NoError(t, err)
	require.Equal(t, "fetch", prog)
}
