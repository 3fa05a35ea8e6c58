package indexer

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	apperrors "github.com/akranga01/Little-Search-Engine/pkg/errors"
)

// fakeSource serves a corpus from memory. Documents are tokenized on
// whitespace the same way the file-backed source does.
type fakeSource struct {
	noiseWords []string
	manifest   []string
	docs       map[string]string
	failDoc    string
}

func (f *fakeSource) NoiseWords(ctx context.Context) ([]string, error) {
	return f.noiseWords, nil
}

func (f *fakeSource) Documents(ctx context.Context) ([]string, error) {
	return f.manifest, nil
}

func (f *fakeSource) Tokens(ctx context.Context, docID string) ([]string, error) {
	if docID == f.failDoc {
		return nil, apperrors.ErrResourceNotFound
	}
	text, ok := f.docs[docID]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return strings.Fields(text), nil
}

func newABCSource() *fakeSource {
	return &fakeSource{
		noiseWords: []string{"in"},
		manifest:   []string{"docA", "docB", "docC"},
		docs: map[string]string{
			"docA": "round round round small",
			"docB": "round round small small small",
			"docC": "round round in",
		},
	}
}

func TestBuildIndexesCorpus(t *testing.T) {
	engine := NewEngine()
	if err := engine.Build(context.Background(), newABCSource()); err != nil {
		t.Fatalf("Build: %v", err)
	}

	if !engine.Ready() {
		t.Fatal("engine not ready after successful build")
	}

	round, ok := engine.Lookup("round")
	if !ok {
		t.Fatal("round missing from index")
	}
	if len(round) != 3 {
		t.Fatalf("round has %d occurrences, want 3", len(round))
	}
	// docA leads with 3, docB and docC tie at 2 in manifest order.
	if round[0].Document != "docA" || round[0].Frequency != 3 {
		t.Errorf("round[0] = %+v, want {docA 3}", round[0])
	}
	if round[1].Document != "docB" || round[2].Document != "docC" {
		t.Errorf("round tie order = [%s %s], want [docB docC]", round[1].Document, round[2].Document)
	}

	small, ok := engine.Lookup("small")
	if !ok {
		t.Fatal("small missing from index")
	}
	if small[0].Document != "docB" || small[0].Frequency != 3 {
		t.Errorf("small[0] = %+v, want {docB 3}", small[0])
	}
	if small[1].Document != "docA" || small[1].Frequency != 1 {
		t.Errorf("small[1] = %+v, want {docA 1}", small[1])
	}

	// Noise words never reach the index.
	if _, ok := engine.Lookup("in"); ok {
		t.Error("noise word indexed")
	}
}

func TestBuildAbortsOnResourceError(t *testing.T) {
	source := newABCSource()
	source.failDoc = "docB"

	engine := NewEngine()
	err := engine.Build(context.Background(), source)
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("Build error = %v, want ErrResourceNotFound", err)
	}
	if engine.Ready() {
		t.Fatal("engine ready after failed build")
	}
	if _, err := engine.Stats(); err == nil {
		t.Fatal("Stats succeeded after failed build")
	}
}

func TestStats(t *testing.T) {
	engine := NewEngine()
	if err := engine.Build(context.Background(), newABCSource()); err != nil {
		t.Fatalf("Build: %v", err)
	}

	stats, err := engine.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Documents != 3 {
		t.Errorf("Documents = %d, want 3", stats.Documents)
	}
	if stats.Keywords != 2 {
		t.Errorf("Keywords = %d, want 2", stats.Keywords)
	}
	if stats.RawTokens != 12 {
		t.Errorf("RawTokens = %d, want 12", stats.RawTokens)
	}
	if stats.NoiseWords != 1 {
		t.Errorf("NoiseWords = %d, want 1", stats.NoiseWords)
	}
	if stats.BuiltAt.IsZero() {
		t.Error("BuiltAt is zero")
	}
}

func TestBuildIsRepeatable(t *testing.T) {
	first := NewEngine()
	second := NewEngine()
	if err := first.Build(context.Background(), newABCSource()); err != nil {
		t.Fatalf("first Build: %v", err)
	}
	if err := second.Build(context.Background(), newABCSource()); err != nil {
		t.Fatalf("second Build: %v", err)
	}

	kws := first.Keywords()
	if !reflect.DeepEqual(kws, second.Keywords()) {
		t.Fatalf("keyword sets differ: %v vs %v", kws, second.Keywords())
	}
	for _, kw := range kws {
		a, _ := first.Lookup(kw)
		b, _ := second.Lookup(kw)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("keyword %q: occurrence lists differ: %v vs %v", kw, a, b)
		}
	}
}

func TestNormalizePanicsBeforeBuild(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Normalize before Build did not panic")
		}
	}()
	NewEngine().Normalize("anything")
}
