// Package narrative talks to an external language model to produce the prose
// analysis that accompanies a property score. The generator is a collaborator
// of the scoring core, never a dependency: its failures degrade to an empty
// narrative and must not block or corrupt score computation.
package narrative

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/righthome/righthome/internal/domain"
)

// ErrDisabled is returned by the no-op generator.
var ErrDisabled = errors.New("narrative generation disabled")

// Generator produces a free-text analysis for a property and a user
// preference description. The returned text is opaque to the scoring core.
type Generator interface {
	GenerateAnalysis(ctx context.Context, record domain.PropertyRecord, preferences string) (string, error)
}

// Disabled is a Generator that always reports ErrDisabled.
type Disabled struct{}

// GenerateAnalysis implements Generator.
func (Disabled) GenerateAnalysis(context.Context, domain.PropertyRecord, string) (string, error) {
	return "", ErrDisabled
}

// analysisSections are the ten areas the model is asked to cover, matching
// the scoring categories.
var analysisSections = []string{
	"Location & accessibility",
	"Market dynamics",
	"Property features",
	"Amenities & facilities",
	"Environmental factors",
	"Financial aspects",
	"Developer reputation",
	"Technology features",
	"Risk factors",
	"Economic indicators",
}

// buildPrompt renders the analysis instruction for one property. The record
// is embedded as JSON so the model sees the same field names the API exposes.
func buildPrompt(record domain.PropertyRecord, preferences string) (string, error) {
	details, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("marshal property details: %w", err)
	}

	var b strings.Builder
	b.WriteString("Task: Analyze a property based on user preferences and provide a detailed recommendation.\n\n")
	fmt.Fprintf(&b, "Property Details: %s\n", details)
	fmt.Fprintf(&b, "User Preferences: %s\n\n", preferences)
	b.WriteString("Please provide a comprehensive analysis covering:\n")
	for i, section := range analysisSections {
		fmt.Fprintf(&b, "%d. %s\n", i+1, section)
	}
	b.WriteString("\nEnd with a clear recommendation and an overall score out of 100.\n")
	b.WriteString("Keep the response concise but informative.\n")
	return b.String(), nil
}
