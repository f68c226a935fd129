package charts

import (
	"math"
	"strings"

	"github.com/goccy/go-json"

	"github.com/righthome/righthome/internal/domain"
)

// ResolveMetricPath walks a dot-separated path through nested maps and
// returns the numeric value at the leaf. Any missing segment,
// non-numeric leaf, or non-finite value resolves to 0.
func ResolveMetricPath(data map[string]any, path string) float64 {
	var current any = data
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return 0
		}
		current = m[part]
	}

	switch v := current.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return v
	case float32:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// recordMap converts a property record into the nested map form the
// metric paths address, using the record's wire field names.
func recordMap(record domain.PropertyRecord) map[string]any {
	payload, err := json.Marshal(record)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(payload, &m); err != nil {
		return map[string]any{}
	}
	return m
}

// metricLabel turns a metric path into a human-readable title, so
// "financial.estimated_roi" becomes "Financial Estimated Roi".
func metricLabel(metric string) string {
	words := strings.FieldsFunc(metric, func(r rune) bool {
		return r == '.' || r == '_'
	})
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
