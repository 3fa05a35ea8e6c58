// Command searchctl builds the keyword index from a corpus on disk and runs a
// single ranked two-keyword search from the command line, without starting
// any services.
//
// Usage:
//
//	searchctl [-docroot corpus] [-manifest corpus/docs.txt] [-noisewords corpus/noisewords.txt] [-dump] <keyword1> <keyword2>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/akranga01/Little-Search-Engine/internal/corpus"
	"github.com/akranga01/Little-Search-Engine/internal/indexer"
	"github.com/akranga01/Little-Search-Engine/internal/searcher/executor"
	apperrors "github.com/akranga01/Little-Search-Engine/pkg/errors"
	"github.com/akranga01/Little-Search-Engine/pkg/logger"
)

func main() {
	docRoot := flag.String("docroot", "corpus", "directory containing the corpus documents")
	manifest := flag.String("manifest", "corpus/docs.txt", "file listing one document name per line")
	noiseWords := flag.String("noisewords", "corpus/noisewords.txt", "file listing one noise word per line")
	dump := flag.Bool("dump", false, "print every indexed keyword with its occurrence list and exit")
	maxResults := flag.Int("n", 5, "maximum number of documents to return")
	logLevel := flag.String("log-level", "warn", "log level (debug, info, warn, error)")
	flag.Parse()

	logger.Setup(*logLevel, "text")

	engine := indexer.NewEngine()
	source := corpus.NewDir(*docRoot, *manifest, *noiseWords)
	if err := engine.Build(context.Background(), source); err != nil {
		fmt.Fprintf(os.Stderr, "index build failed: %v\n", err)
		os.Exit(1)
	}

	if *dump {
		for _, kw := range engine.Keywords() {
			occs, _ := engine.Lookup(kw)
			fmt.Printf("%s:", kw)
			for _, occ := range occs {
				fmt.Printf(" %s=%d", occ.Document, occ.Frequency)
			}
			fmt.Println()
		}
		if flag.NArg() == 0 {
			return
		}
	}

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: searchctl [flags] <keyword1> <keyword2>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	exec := executor.New(engine, *maxResults)
	result, err := exec.TopSearch(context.Background(), flag.Arg(0), flag.Arg(1))
	if err != nil {
		if errors.Is(err, apperrors.ErrKeywordNotFound) || errors.Is(err, apperrors.ErrInvalidInput) {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "search failed: %v\n", err)
		os.Exit(1)
	}

	if len(result.Documents) == 0 {
		fmt.Println("no matching documents")
		return
	}
	for _, doc := range result.Documents {
		fmt.Println(doc)
	}
}
