package narrative

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/righthome/righthome/internal/domain"
)

// Options configures the HTTP generator.
type Options struct {
	Endpoint          string
	Token             string
	Model             string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerMinute int
	MaxLength         int
	Temperature       float64
}

// HTTPGenerator calls a hosted text-generation endpoint (HuggingFace
// inference API shape). Requests run through a rate limiter and a circuit
// breaker so a degraded model service cannot pile up work.
type HTTPGenerator struct {
	opts    Options
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewHTTPGenerator creates a generator for the given endpoint.
func NewHTTPGenerator(opts Options) *HTTPGenerator {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = 30
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "narrative",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("narrative circuit breaker state change")
		},
	})

	return &HTTPGenerator{
		opts:    opts,
		client:  &http.Client{Timeout: opts.Timeout},
		limiter: rate.NewLimiter(rate.Limit(float64(opts.RequestsPerMinute)/60.0), 1),
		breaker: breaker,
	}
}

// BreakerState reports the circuit breaker state for health surfaces.
func (g *HTTPGenerator) BreakerState() string {
	return g.breaker.State().String()
}

type generateRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters generateParameters `json:"parameters"`
}

type generateParameters struct {
	Temperature float64 `json:"temperature,omitempty"`
	MaxLength   int     `json:"max_length,omitempty"`
}

type generateResponse struct {
	GeneratedText string `json:"generated_text"`
}

// GenerateAnalysis implements Generator.
func (g *HTTPGenerator) GenerateAnalysis(ctx context.Context, record domain.PropertyRecord, preferences string) (string, error) {
	prompt, err := buildPrompt(record, preferences)
	if err != nil {
		return "", err
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("narrative rate limit: %w", err)
	}

	result, err := g.breaker.Execute(func() (interface{}, error) {
		return g.generateWithRetries(ctx, prompt)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (g *HTTPGenerator) generateWithRetries(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= g.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 500 * time.Millisecond
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			log.Debug().Int("attempt", attempt).Msg("retrying narrative generation")
		}

		text, err := g.generate(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("narrative generation failed after %d attempts: %w", g.opts.MaxRetries+1, lastErr)
}

func (g *HTTPGenerator) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Inputs: prompt,
		Parameters: generateParameters{
			Temperature: g.opts.Temperature,
			MaxLength:   g.opts.MaxLength,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.opts.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+g.opts.Token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("narrative endpoint request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read generation response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("narrative endpoint returned %d: %s", resp.StatusCode, truncate(payload, 200))
	}

	var results []generateResponse
	if err := json.Unmarshal(payload, &results); err != nil {
		return "", fmt.Errorf("decode generation response: %w", err)
	}
	if len(results) == 0 || results[0].GeneratedText == "" {
		return "", fmt.Errorf("narrative endpoint returned no text")
	}
	return results[0].GeneratedText, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
