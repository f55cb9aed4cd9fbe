// Package main provides a CLI tool to build, query, and inspect an index.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/anthropics/indexer-go/pkg/indexer"
	"github.com/anthropics/indexer-go/pkg/types"
)

func main() {
	dir := flag.String("dir", ".", "Index directory")
	flag.StringVar(dir, "d", ".", "Index directory (shorthand)")

	// Commands
	addID := flag.String("add", "", "Add the document in -file under this id")
	removeID := flag.String("remove", "", "Remove the document in -file under this id")
	query := flag.String("search", "", "Search the index")
	dump := flag.Bool("dump", false, "Dump the dictionary with matching doc ids")
	stats := flag.Bool("stats", false, "Print index statistics")

	// Options
	file := flag.String("file", "", "Document file for -add / -remove, and excerpt source for -search")
	stopwordFile := flag.String("stopwords", "", "Stopword file installed before writing")
	implicitPlus := flag.Bool("plus", false, "Treat bare query terms as mandatory")
	field := flag.String("field", "fulltext", "Field name accepted in field-qualified queries")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Index tool - build, query, and inspect a full-text index

Usage: ixtool [OPTIONS] COMMAND

Commands:
  --add ID --file F       Index the contents of F under doc id ID
  --remove ID --file F    Unindex doc id ID (F must be the indexed buffer)
  --search "query"        Search; add --file F to print excerpts from F
  --dump                  List every term with its matching doc ids
  --stats                 Print index statistics

Options:
  -d, --dir DIR           Index directory (default: .)
  --stopwords F           Install the stopwords in F (write commands only)
  --plus                  Bare query terms are mandatory
  --field NAME            Accepted field qualifier (default: fulltext)

Examples:
  ixtool --dir ./ix --stopwords stop.txt --add 1 --file doc1.txt
  ixtool --dir ./ix --search "+brown -dogs"
  ixtool --dir ./ix --dump
`)
	}

	flag.Parse()

	if *addID == "" && *removeID == "" && *query == "" && !*dump && !*stats {
		flag.Usage()
		os.Exit(1)
	}

	writeMode := *addID != "" || *removeID != ""

	cfg := types.DefaultConfig()
	cfg.Storage.Dir = *dir
	cfg.Storage.WriteMode = writeMode
	cfg.Query.FieldName = *field
	if writeMode {
		cfg.Lexing.StopwordFile = *stopwordFile
	}

	x, err := indexer.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open index: %v", err)
	}
	defer x.Close()

	if *addID != "" {
		addDoc(x, *addID, *file)
	}
	if *removeID != "" {
		removeDoc(x, *removeID, *file)
	}
	if *query != "" {
		runSearch(x, *query, *implicitPlus, *file)
	}
	if *dump {
		if err := x.Dump(os.Stdout); err != nil {
			log.Fatalf("Dump failed: %v", err)
		}
	}
	if *stats {
		printStats(x)
	}
}

// parseDocID narrows untrusted input to a 32-bit doc id.
func parseDocID(s string) (types.DocID, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, types.Errorf("ixtool", types.ErrDocIDTooLarge, "doc id %s", s)
		}
		return 0, types.WrapError("ixtool", types.ErrInvalidArg, err)
	}
	return types.DocID(n), nil
}

func readDoc(path string) string {
	if path == "" {
		log.Fatal("--file is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read document: %v", err)
	}
	return string(data)
}

func addDoc(x *indexer.Indexer, id, path string) {
	doc, err := parseDocID(id)
	if err != nil {
		log.Fatalf("Bad doc id: %v", err)
	}
	if err := x.Add(doc, readDoc(path)); err != nil {
		log.Fatalf("Add failed: %v", err)
	}
	log.Printf("Indexed document %d", doc)
}

func removeDoc(x *indexer.Indexer, id, path string) {
	doc, err := parseDocID(id)
	if err != nil {
		log.Fatalf("Bad doc id: %v", err)
	}
	if err := x.Remove(doc, readDoc(path)); err != nil {
		log.Fatalf("Remove failed: %v", err)
	}
	log.Printf("Removed document %d", doc)
}

func runSearch(x *indexer.Indexer, query string, implicitPlus bool, excerptFile string) {
	res, err := x.Search(query, implicitPlus)
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}

	if len(res.KilledWords) > 0 {
		fmt.Printf("Ignored terms: %s\n", strings.Join(res.KilledWords, ", "))
	}

	if len(res.Scores) == 0 {
		fmt.Println("No matches")
		return
	}

	type hit struct {
		doc   types.DocID
		score int
	}
	hits := make([]hit, 0, len(res.Scores))
	for d, s := range res.Scores {
		hits = append(hits, hit{d, s})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].doc < hits[j].doc
	})

	for _, h := range hits {
		fmt.Printf("%8d  doc %d\n", h.score, h.doc)
	}

	if excerptFile != "" {
		for _, e := range x.Excerpts(readDoc(excerptFile), res.Regex) {
			fmt.Println(e)
		}
	}
}

func printStats(x *indexer.Indexer) {
	stats, err := x.Stats()
	if err != nil {
		log.Fatalf("Stats failed: %v", err)
	}
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s: %v\n", k, stats[k])
	}
}
