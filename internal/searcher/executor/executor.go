// Package executor answers the two-keyword disjunctive query: a document
// matches when either keyword occurs in it, ranked by occurrence frequency.
package executor

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/akranga01/Little-Search-Engine/internal/indexer"
	"github.com/akranga01/Little-Search-Engine/internal/indexer/index"
	"github.com/akranga01/Little-Search-Engine/pkg/errors"
)

// Result is the outcome of one two-keyword query. Documents holds at most
// the configured result cap, highest-ranked first, and is empty (but never
// nil) when nothing matched.
type Result struct {
	First     string   `json:"first"`
	Second    string   `json:"second"`
	Documents []string `json:"documents"`
	Matched   int      `json:"matched"`
}

// Executor ranks documents against a frozen index.
type Executor struct {
	engine *indexer.Engine
	limit  int
	logger *slog.Logger
}

// New creates an Executor. limit caps the number of returned document names.
func New(engine *indexer.Engine, limit int) *Executor {
	if limit <= 0 {
		limit = 5
	}
	return &Executor{
		engine: engine,
		limit:  limit,
		logger: slog.Default().With("component", "query-executor"),
	}
}

// TopSearch normalises both raw terms, looks them up, and returns the ranked,
// deduplicated, size-capped document list. Both keywords must exist in the
// index; an absent or unnormalisable keyword yields ErrKeywordNotFound so
// callers can distinguish "never indexed" from an empty result.
func (e *Executor) TopSearch(ctx context.Context, first, second string) (*Result, error) {
	kw1, ok := e.engine.Normalize(first)
	if !ok {
		return nil, errors.Newf(errors.ErrInvalidInput, http.StatusBadRequest,
			"%q is not a valid keyword", first)
	}
	kw2, ok := e.engine.Normalize(second)
	if !ok {
		return nil, errors.Newf(errors.ErrInvalidInput, http.StatusBadRequest,
			"%q is not a valid keyword", second)
	}

	occs1, ok := e.engine.Lookup(kw1)
	if !ok {
		return nil, errors.Newf(errors.ErrKeywordNotFound, http.StatusNotFound,
			"keyword %q is not in the index", kw1)
	}
	occs2, ok := e.engine.Lookup(kw2)
	if !ok {
		return nil, errors.Newf(errors.ErrKeywordNotFound, http.StatusNotFound,
			"keyword %q is not in the index", kw2)
	}

	merged := mergeDescending(occs1, occs2)
	docs, matched := dedupeTop(merged, e.limit)

	e.logger.Debug("query executed",
		"first", kw1,
		"second", kw2,
		"matched", matched,
		"returned", len(docs),
	)

	return &Result{
		First:     kw1,
		Second:    kw2,
		Documents: docs,
		Matched:   matched,
	}, nil
}

// mergeDescending merges two frequency-descending occurrence lists into one
// descending stream with a linear two-pointer walk. On a frequency tie the
// first keyword's list wins, which is what breaks ranking ties in favour of
// the first keyword.
func mergeDescending(a, b index.OccurrenceList) index.OccurrenceList {
	merged := make(index.OccurrenceList, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i].Frequency >= b[j].Frequency {
			merged = append(merged, a[i])
			i++
		} else {
			merged = append(merged, b[j])
			j++
		}
	}
	merged = append(merged, a[i:]...)
	merged = append(merged, b[j:]...)
	return merged
}

// dedupeTop keeps the first occurrence of every document in the merged
// descending stream and truncates to limit. Because the stream is descending,
// keep-first also keeps the higher frequency for documents that occur under
// both keywords. Returns the capped names and the total distinct match count.
func dedupeTop(merged index.OccurrenceList, limit int) ([]string, int) {
	docs := make([]string, 0, limit)
	seen := make(map[string]struct{}, len(merged))
	for _, occ := range merged {
		if _, dup := seen[occ.Document]; dup {
			continue
		}
		seen[occ.Document] = struct{}{}
		if len(docs) < limit {
			docs = append(docs, occ.Document)
		}
	}
	return docs, len(seen)
}
