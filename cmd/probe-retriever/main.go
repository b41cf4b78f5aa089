// Probe program showing which Wikipedia facts are retrieved for claims.
// It prints detected entities, lookup candidates, and each candidate's
// lookup outcome against the live API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/factcheck/internal/extract"
	"github.com/ppiankov/factcheck/internal/knowledge"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/util"
	"github.com/ppiankov/factcheck/internal/worker"
)

func main() {
	lang := flag.String("lang", "en", "Wikipedia language edition")
	sentences := flag.Int("sentences", 2, "sentences per fact")
	flag.Parse()

	claims := flag.Args()
	if len(claims) == 0 {
		claims = []string{
			"The Eiffel Tower is located in Berlin.",
			"Marie Curie won the Nobel Prize in Physics.",
			"The Amazon River flows through Brazil.",
			"the weather was nice yesterday.",
		}
	}

	cfg := model.DefaultConfig()
	analyzer := extract.NewRuleAnalyzer()
	wiki := knowledge.NewWikipedia(knowledge.WikipediaOptions{
		Language:  *lang,
		Sentences: *sentences,
		UserAgent: cfg.HTTP.UserAgent,
		Timeout:   cfg.HTTP.Timeout,
		Transport: util.NewTransport("", "", ""),
		Limiter:   worker.NewLimiter(cfg.Knowledge.RequestsPerSecond, cfg.Knowledge.Burst),
	})
	retriever := knowledge.NewRetriever(analyzer, wiki)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	fmt.Printf("=== Retriever Probe (%s.wikipedia.org) ===\n\n", *lang)

	found := 0
	for _, claim := range claims {
		fmt.Printf("Claim: %s\n", claim)
		fmt.Println(strings.Repeat("-", 60))

		analysis, err := analyzer.Analyze(ctx, claim)
		if err != nil {
			fmt.Printf("  Analysis error: %v\n\n", err)
			continue
		}
		for _, e := range analysis.Entities {
			fmt.Printf("  Entity: %-30s %s\n", e.Text, e.Label)
		}
		if len(analysis.NounChunks) > 0 {
			fmt.Printf("  Noun chunks: %s\n", strings.Join(analysis.NounChunks, " | "))
		}

		candidates := retriever.Candidates(analysis)
		if len(candidates) == 0 {
			fmt.Println("  No lookup candidates")
		}
		for _, candidate := range candidates {
			fact, err := wiki.Lookup(ctx, candidate)
			switch {
			case err == nil:
				fmt.Printf("  ✓ %q -> %s\n", candidate, fact.Title)
			case knowledge.IsMiss(err):
				fmt.Printf("  · %q: %v\n", candidate, err)
			default:
				fmt.Printf("  ✗ %q: %v\n", candidate, err)
			}
		}

		fact, err := retriever.Retrieve(ctx, claim)
		switch {
		case err != nil:
			fmt.Printf("\n  Retrieve error: %v\n", err)
		case fact == nil:
			fmt.Printf("\n  Fact: %s\n", model.NoFactNotice)
		default:
			found++
			fmt.Printf("\n  Fact (%s): %s\n", fact.URL, fact.Text)
		}
		fmt.Println()
	}

	fmt.Printf("=== %d/%d claims have a reference fact ===\n", found, len(claims))
	if found == 0 {
		os.Exit(1)
	}
}
