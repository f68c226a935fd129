package main

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/righthome/righthome/internal/application"
	"github.com/righthome/righthome/internal/domain"
	"github.com/righthome/righthome/internal/narrative"
)

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	raw, err := readInput(cmd)
	if err != nil {
		return fmt.Errorf("read properties input: %w", err)
	}

	var payloads []map[string]any
	if err := json.Unmarshal(raw, &payloads); err != nil {
		return fmt.Errorf("parse properties JSON: %w", err)
	}

	records := make([]domain.PropertyRecord, len(payloads))
	for i, p := range payloads {
		records[i] = domain.RecordFromMap(p)
	}

	rec := application.NewRecommender(newCalculator(cfg), narrative.Disabled{})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result := rec.Compare(ctx, records)

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		return printJSON(result)
	}

	fmt.Printf("%s\n\n", result.Summary)
	fmt.Printf("%-4s %-20s %-20s %8s  %s\n", "#", "Property", "Neighborhood", "Score", "Tier")
	for i, entry := range result.Entries {
		fmt.Printf("%-4d %-20s %-20s %8.2f  %s\n",
			i+1,
			orUnknown(entry.PropertyID),
			entry.Neighborhood,
			entry.Result.Score,
			entry.Result.Tier,
		)
	}

	if result.BestMatch != nil {
		fmt.Printf("\nBest match:   %s (%.2f)\n", orUnknown(result.BestMatch.PropertyID), result.BestMatch.Result.Score)
		fmt.Printf("Score spread: %.2f\n", result.ScoreSpread)
	}

	return nil
}
