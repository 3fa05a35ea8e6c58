// Package index implements the global inverted index: a mapping from keyword
// to a frequency-descending list of per-document occurrences. Per-document
// counts are merged in one document at a time, and sort order is restored
// after every append with a binary-search reposition of the tail element
// rather than a full re-sort.
package index

import "sort"

// Occurrence records how many times one keyword appears in one document.
// Frequency is only mutated while the owning document is being counted; once
// merged into a GlobalIndex the record is never modified.
type Occurrence struct {
	Document  string `json:"document"`
	Frequency int    `json:"frequency"`
}

// OccurrenceList is kept sorted by strictly descending frequency. Equal
// frequencies keep document merge order: new arrivals land after existing
// ties.
type OccurrenceList []Occurrence

// GlobalIndex maps keywords to occurrence lists across all indexed documents.
// It is an owned value, not process-global state: callers build one with
// Merge and pass it by reference into the query path.
type GlobalIndex struct {
	keywords map[string]OccurrenceList
}

// New returns an empty GlobalIndex.
func New() *GlobalIndex {
	return &GlobalIndex{
		keywords: make(map[string]OccurrenceList),
	}
}

// CountDocument tallies keyword frequencies for a single document. Each raw
// token runs through normalize; rejected tokens are skipped. The result maps
// every distinct keyword in the document to one Occurrence whose frequency is
// the number of times the keyword appeared.
func CountDocument(docID string, tokens []string, normalize func(string) (string, bool)) map[string]Occurrence {
	counts := make(map[string]Occurrence)
	for _, tok := range tokens {
		kw, ok := normalize(tok)
		if !ok {
			continue
		}
		occ, seen := counts[kw]
		if !seen {
			counts[kw] = Occurrence{Document: docID, Frequency: 1}
			continue
		}
		occ.Frequency++
		counts[kw] = occ
	}
	return counts
}

// Merge folds one document's keyword counts into the index. New keywords get
// a singleton list; for existing keywords the occurrence is appended and then
// repositioned so the list stays frequency-descending. The per-keyword lists
// are sorted at every observable point, never only eventually.
func (g *GlobalIndex) Merge(perDoc map[string]Occurrence) {
	for kw, occ := range perDoc {
		existing, ok := g.keywords[kw]
		if !ok {
			g.keywords[kw] = OccurrenceList{occ}
			continue
		}
		g.keywords[kw] = insertLast(append(existing, occ))
	}
}

// Lookup returns the occurrence list for a keyword.
func (g *GlobalIndex) Lookup(kw string) (OccurrenceList, bool) {
	occs, ok := g.keywords[kw]
	return occs, ok
}

// Len returns the number of distinct keywords in the index.
func (g *GlobalIndex) Len() int {
	return len(g.keywords)
}

// Keywords returns all indexed keywords in lexicographic order.
func (g *GlobalIndex) Keywords() []string {
	kws := make([]string, 0, len(g.keywords))
	for kw := range g.keywords {
		kws = append(kws, kw)
	}
	sort.Strings(kws)
	return kws
}

// insertLast repositions the final element of occs so the list is sorted by
// descending frequency again. Elements 0..n-2 are already in order; the
// insertion point is found by binary search over that prefix. On an exact
// frequency tie the search continues right, so the new element ends up after
// every existing element with the same frequency.
func insertLast(occs OccurrenceList) OccurrenceList {
	n := len(occs)
	if n == 1 {
		return occs
	}
	last := occs[n-1]
	left, right := 0, n-2
	for left <= right {
		mid := (left + right) / 2
		switch {
		case occs[mid].Frequency > last.Frequency:
			left = mid + 1
		case occs[mid].Frequency < last.Frequency:
			right = mid - 1
		default:
			left = mid + 1
		}
	}
	copy(occs[left+1:], occs[left:n-1])
	occs[left] = last
	return occs
}
