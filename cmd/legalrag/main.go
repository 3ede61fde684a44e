package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/direitofacil/legalrag/app"
	"github.com/direitofacil/legalrag/config"
	"github.com/direitofacil/legalrag/services/prompt"
	"github.com/direitofacil/legalrag/services/rag"
)

func main() {
	tierFlag := flag.String("tier", "simple", "answer complexity: simple, intermediate, detailed or technical")
	category := flag.String("category", "geral", "legal category for the disclaimer lookup")
	userContext := flag.String("context", "", "extra context about the user's situation")
	showStats := flag.Bool("cache-stats", false, "print embedding cache statistics after answering")
	flag.Parse()

	question := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if question == "" {
		fmt.Fprintln(os.Stderr, "usage: legalrag [flags] <question>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	tier, err := prompt.ParseTier(*tierFlag)
	if err != nil {
		log.Fatalf("invalid tier %q: %v", *tierFlag, err)
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	deps, err := app.NewDependencies(cfg)
	if err != nil {
		log.Fatalf("failed to initialize: %v", err)
	}
	defer deps.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := deps.Bootstrap(ctx); err != nil {
		log.Fatalf("failed to prepare vector index: %v", err)
	}

	answer, err := deps.RAG.Answer(ctx, rag.AskRequest{
		Question:    question,
		Tier:        tier,
		Category:    *category,
		UserContext: *userContext,
	})
	if err != nil {
		log.Fatalf("pipeline failed: %v", err)
	}

	printAnswer(answer)

	if *showStats {
		stats := deps.RAG.CacheStats()
		fmt.Printf("\ncache: size=%d capacity=%d hit_ratio=%.2f\n",
			stats.Size, stats.Capacity, stats.HitRatio)
	}
}

func printAnswer(answer *rag.LegalAnswer) {
	fmt.Println(answer.Answer)
	fmt.Println()

	if len(answer.Sources) > 0 {
		fmt.Println("Fontes:")
		for _, s := range answer.Sources {
			fmt.Printf("  - %s (%s) relevância %.2f\n", s.Title, s.Source, s.Relevance)
		}
		fmt.Println()
	}

	fmt.Printf("Confiança: %.1f%% (%s)\n", answer.Confidence, answer.Validation.Verdict)
	fmt.Println()
	fmt.Println(answer.Disclaimer)
}
