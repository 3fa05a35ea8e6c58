package index

import (
	"fmt"
	"reflect"
	"testing"
)

// acceptAll is a pass-through normalize function for tests that exercise
// counting and merging without real token rules.
func acceptAll(tok string) (string, bool) {
	return tok, true
}

func frequencies(occs OccurrenceList) []int {
	freqs := make([]int, len(occs))
	for i, occ := range occs {
		freqs[i] = occ.Frequency
	}
	return freqs
}

func assertDescending(t *testing.T, kw string, occs OccurrenceList) {
	t.Helper()
	for i := 1; i < len(occs); i++ {
		if occs[i-1].Frequency < occs[i].Frequency {
			t.Fatalf("keyword %q: occurrence list not descending at %d: %v", kw, i, frequencies(occs))
		}
	}
}

func TestCountDocument(t *testing.T) {
	counts := CountDocument("doc1", []string{"round", "round", "small", "round"}, acceptAll)

	if len(counts) != 2 {
		t.Fatalf("got %d keywords, want 2", len(counts))
	}
	if occ := counts["round"]; occ.Document != "doc1" || occ.Frequency != 3 {
		t.Errorf("round = %+v, want {doc1 3}", occ)
	}
	if occ := counts["small"]; occ.Document != "doc1" || occ.Frequency != 1 {
		t.Errorf("small = %+v, want {doc1 1}", occ)
	}
}

func TestCountDocumentSkipsRejectedTokens(t *testing.T) {
	normalize := func(tok string) (string, bool) {
		if tok == "bad" {
			return "", false
		}
		return tok, true
	}
	counts := CountDocument("doc1", []string{"good", "bad", "good"}, normalize)
	if len(counts) != 1 || counts["good"].Frequency != 2 {
		t.Fatalf("counts = %v, want only good with frequency 2", counts)
	}
}

func TestMergeRepositionsIntoTies(t *testing.T) {
	g := New()
	for i, freq := range []int{8, 5, 3} {
		g.Merge(map[string]Occurrence{
			"deer": {Document: fmt.Sprintf("doc%d", i), Frequency: freq},
		})
	}
	// A tying arrival lands after the existing equal-frequency entry.
	g.Merge(map[string]Occurrence{"deer": {Document: "docX", Frequency: 5}})

	occs, ok := g.Lookup("deer")
	if !ok {
		t.Fatal("keyword deer missing after merge")
	}
	if got, want := frequencies(occs), []int{8, 5, 5, 3}; !reflect.DeepEqual(got, want) {
		t.Fatalf("frequencies = %v, want %v", got, want)
	}
	if occs[1].Document != "doc1" || occs[2].Document != "docX" {
		t.Fatalf("tie order wrong: got [%s %s], want [doc1 docX]", occs[1].Document, occs[2].Document)
	}
}

func TestMergeSortedAfterEveryCall(t *testing.T) {
	g := New()
	freqs := []int{3, 9, 1, 9, 4, 12, 2, 7, 7, 1}
	for i, freq := range freqs {
		g.Merge(map[string]Occurrence{
			"bridge": {Document: fmt.Sprintf("doc%d", i), Frequency: freq},
		})
		occs, _ := g.Lookup("bridge")
		assertDescending(t, "bridge", occs)
		if len(occs) != i+1 {
			t.Fatalf("after %d merges got %d occurrences", i+1, len(occs))
		}
	}
}

func TestMergeNewKeywordSingleton(t *testing.T) {
	g := New()
	g.Merge(map[string]Occurrence{"owl": {Document: "doc1", Frequency: 2}})

	occs, ok := g.Lookup("owl")
	if !ok || len(occs) != 1 {
		t.Fatalf("Lookup(owl) = %v, %v; want singleton list", occs, ok)
	}
	if occs[0] != (Occurrence{Document: "doc1", Frequency: 2}) {
		t.Fatalf("occs[0] = %+v", occs[0])
	}
}

func TestMergeLowestAndHighestExtremes(t *testing.T) {
	g := New()
	for i, freq := range []int{5, 3} {
		g.Merge(map[string]Occurrence{
			"fox": {Document: fmt.Sprintf("doc%d", i), Frequency: freq},
		})
	}
	g.Merge(map[string]Occurrence{"fox": {Document: "low", Frequency: 1}})
	g.Merge(map[string]Occurrence{"fox": {Document: "high", Frequency: 9}})

	occs, _ := g.Lookup("fox")
	if got, want := frequencies(occs), []int{9, 5, 3, 1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("frequencies = %v, want %v", got, want)
	}
	if occs[0].Document != "high" || occs[3].Document != "low" {
		t.Fatalf("extremes misplaced: %+v", occs)
	}
}

func TestKeywordsSortedAndLen(t *testing.T) {
	g := New()
	g.Merge(map[string]Occurrence{
		"zebra": {Document: "doc1", Frequency: 1},
		"ant":   {Document: "doc1", Frequency: 2},
		"moth":  {Document: "doc1", Frequency: 3},
	})

	if g.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", g.Len())
	}
	if got, want := g.Keywords(), []string{"ant", "moth", "zebra"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Keywords() = %v, want %v", got, want)
	}
}

func TestLookupMissing(t *testing.T) {
	g := New()
	if occs, ok := g.Lookup("ghost"); ok || occs != nil {
		t.Fatalf("Lookup(ghost) = %v, %v; want nil, false", occs, ok)
	}
}
