package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/righthome/righthome/internal/application"
	"github.com/righthome/righthome/internal/config"
	"github.com/righthome/righthome/internal/domain"
	"github.com/righthome/righthome/internal/narrative"
	"github.com/righthome/righthome/internal/scoring"
)

// readInput loads JSON from the --input file or stdin.
func readInput(cmd *cobra.Command) ([]byte, error) {
	path, _ := cmd.Flags().GetString("input")
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// newCalculator builds a calculator from the loaded config.
func newCalculator(cfg *config.Config) *scoring.Calculator {
	return scoring.NewCalculator(cfg.Scoring.Weights, cfg.Scoring.Tiers)
}

func newGenerator(cfg *config.Config) narrative.Generator {
	if !cfg.Narrative.Enabled {
		return narrative.Disabled{}
	}
	return narrative.NewHTTPGenerator(narrative.Options{
		Endpoint:          cfg.Narrative.Endpoint,
		Token:             cfg.Narrative.Token,
		Model:             cfg.Narrative.Model,
		Timeout:           cfg.Narrative.Timeout.Duration,
		MaxRetries:        cfg.Narrative.MaxRetries,
		RequestsPerMinute: cfg.Narrative.RequestsPerMinute,
		MaxLength:         cfg.Narrative.MaxLength,
		Temperature:       cfg.Narrative.Temperature,
	})
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	raw, err := readInput(cmd)
	if err != nil {
		return fmt.Errorf("read property input: %w", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("parse property JSON: %w", err)
	}
	record := domain.RecordFromMap(payload)

	wantNarrative, _ := cmd.Flags().GetBool("narrative")
	preferences, _ := cmd.Flags().GetString("preferences")

	gen := narrative.Generator(narrative.Disabled{})
	if wantNarrative {
		gen = newGenerator(cfg)
	}

	rec := application.NewRecommender(newCalculator(cfg), gen)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result := rec.GetRecommendation(ctx, record, preferences)

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		return printJSON(result)
	}

	printScore(result.Result)
	if result.Analysis != "" {
		fmt.Printf("\nAnalysis:\n%s\n", result.Analysis)
	}
	return nil
}

func printScore(result scoring.ScoreResult) {
	fmt.Printf("Property: %s\n", orUnknown(result.Meta.PropertyID))
	fmt.Printf("Score:    %.2f\n", result.Score)
	fmt.Printf("Tier:     %s\n\n", result.Tier)

	fmt.Println("Category breakdown:")
	for _, key := range scoring.CategoryKeys() {
		fmt.Printf("  %-14s %6.2f\n", key, result.Categories[key])
	}
}

func printJSON(payload any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func orUnknown(s string) string {
	if s == "" {
		return "(unnamed)"
	}
	return s
}
