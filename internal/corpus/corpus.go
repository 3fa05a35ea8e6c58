// Package corpus supplies the indexing engine with document names, noise
// words, and raw document tokens. The on-disk formats (manifest and noise
// words one entry per line, documents whitespace-delimited) are owned here,
// not by the index itself.
package corpus

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/akranga01/Little-Search-Engine/pkg/errors"
)

// Source abstracts where the corpus comes from. Implementations resolve a
// document identifier to its raw whitespace-delimited tokens.
type Source interface {
	NoiseWords(ctx context.Context) ([]string, error)
	Documents(ctx context.Context) ([]string, error)
	Tokens(ctx context.Context, docID string) ([]string, error)
}

// Dir is a filesystem-backed Source: a manifest file listing document names
// one per line, a noise-word file one word per line, and document files
// resolved against a root directory.
type Dir struct {
	root          string
	manifestPath  string
	noiseWordPath string
}

// NewDir creates a filesystem corpus source.
func NewDir(root, manifestPath, noiseWordPath string) *Dir {
	return &Dir{
		root:          root,
		manifestPath:  manifestPath,
		noiseWordPath: noiseWordPath,
	}
}

// NoiseWords reads the noise-word file, one word per line, verbatim.
func (d *Dir) NoiseWords(ctx context.Context) ([]string, error) {
	words, err := scanWords(d.noiseWordPath)
	if err != nil {
		return nil, fmt.Errorf("loading noise words from %s: %w", d.noiseWordPath, err)
	}
	return words, nil
}

// Documents reads the manifest file and returns the listed document names in
// manifest order.
func (d *Dir) Documents(ctx context.Context) ([]string, error) {
	docs, err := scanWords(d.manifestPath)
	if err != nil {
		return nil, fmt.Errorf("loading document manifest from %s: %w", d.manifestPath, err)
	}
	return docs, nil
}

// Tokens reads one document and splits it into whitespace-delimited raw
// tokens.
func (d *Dir) Tokens(ctx context.Context, docID string) ([]string, error) {
	tokens, err := scanWords(filepath.Join(d.root, docID))
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", docID, err)
	}
	return tokens, nil
}

// scanWords reads a file and returns its whitespace-delimited words. A
// missing file is reported as ErrResourceNotFound so callers can abort the
// build rather than accept a partial index.
func scanWords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", errors.ErrResourceNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Split(bufio.ScanWords)
	var words []string
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return words, nil
}
