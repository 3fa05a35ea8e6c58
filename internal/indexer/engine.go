// Package indexer orchestrates the batch indexing phase: it configures the
// keyword normalizer from the noise-word list, counts keywords per document,
// and merges every document into the global index in manifest order. Once
// Build returns, the engine is frozen and serves reads only.
package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/akranga01/Little-Search-Engine/internal/corpus"
	"github.com/akranga01/Little-Search-Engine/internal/indexer/index"
	"github.com/akranga01/Little-Search-Engine/internal/indexer/keyword"
)

// Engine owns one GlobalIndex and the Normalizer it was built with.
type Engine struct {
	norm       *keyword.Normalizer
	idx        *index.GlobalIndex
	logger     *slog.Logger
	docCount   int
	tokenCount int
	built      bool
	builtAt    time.Time
}

// Stats summarises a completed build.
type Stats struct {
	Documents  int       `json:"documents"`
	Keywords   int       `json:"keywords"`
	RawTokens  int       `json:"raw_tokens"`
	NoiseWords int       `json:"noise_words"`
	BuiltAt    time.Time `json:"built_at"`
}

// NewEngine returns an empty, unbuilt Engine.
func NewEngine() *Engine {
	return &Engine{
		idx:    index.New(),
		logger: slog.Default().With("component", "indexer"),
	}
}

// Build indexes the whole corpus. Any resource error aborts the build and is
// propagated unmodified; a failed Build leaves no usable index behind.
func (e *Engine) Build(ctx context.Context, source corpus.Source) error {
	start := time.Now()

	noiseWords, err := source.NoiseWords(ctx)
	if err != nil {
		return err
	}
	e.norm = keyword.NewNormalizer(noiseWords)

	docs, err := source.Documents(ctx)
	if err != nil {
		return err
	}

	for _, docID := range docs {
		tokens, err := source.Tokens(ctx, docID)
		if err != nil {
			return err
		}
		perDoc := index.CountDocument(docID, tokens, e.norm.Normalize)
		e.idx.Merge(perDoc)
		e.docCount++
		e.tokenCount += len(tokens)
		e.logger.Debug("document indexed",
			"doc_id", docID,
			"raw_tokens", len(tokens),
			"keywords", len(perDoc),
		)
	}

	e.built = true
	e.builtAt = time.Now().UTC()
	e.logger.Info("index build complete",
		"documents", e.docCount,
		"keywords", e.idx.Len(),
		"noise_words", e.norm.NoiseWordCount(),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// Normalize canonicalises a raw query term with the same rules the index was
// built with. It panics if called before a successful Build.
func (e *Engine) Normalize(term string) (string, bool) {
	if e.norm == nil {
		panic("indexer: Normalize called before Build")
	}
	return e.norm.Normalize(term)
}

// Lookup returns the frequency-descending occurrence list for a keyword.
func (e *Engine) Lookup(kw string) (index.OccurrenceList, bool) {
	return e.idx.Lookup(kw)
}

// Keywords returns every indexed keyword in lexicographic order.
func (e *Engine) Keywords() []string {
	return e.idx.Keywords()
}

// Ready reports whether a build has completed.
func (e *Engine) Ready() bool {
	return e.built
}

// Stats returns build statistics, or an error if no build has completed.
func (e *Engine) Stats() (Stats, error) {
	if !e.built {
		return Stats{}, fmt.Errorf("index not built")
	}
	return Stats{
		Documents:  e.docCount,
		Keywords:   e.idx.Len(),
		RawTokens:  e.tokenCount,
		NoiseWords: e.norm.NoiseWordCount(),
		BuiltAt:    e.builtAt,
	}, nil
}
