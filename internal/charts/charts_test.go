package charts

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/righthome/righthome/internal/domain"
	"github.com/righthome/righthome/internal/scoring"
)

func TestResolveMetricPath(t *testing.T) {
	data := map[string]any{
		"location": map[string]any{
			"walkability_score": 85.0,
			"city":              "San Francisco",
		},
		"price": 850000.0,
	}

	assert.Equal(t, 85.0, ResolveMetricPath(data, "location.walkability_score"))
	assert.Equal(t, 850000.0, ResolveMetricPath(data, "price"))

	t.Run("missing segment resolves to zero", func(t *testing.T) {
		assert.Equal(t, 0.0, ResolveMetricPath(data, "location.missing"))
		assert.Equal(t, 0.0, ResolveMetricPath(data, "nope.walkability_score"))
		assert.Equal(t, 0.0, ResolveMetricPath(data, "location.walkability_score.deeper"))
	})

	t.Run("non-numeric leaf resolves to zero", func(t *testing.T) {
		assert.Equal(t, 0.0, ResolveMetricPath(data, "location.city"))
		assert.Equal(t, 0.0, ResolveMetricPath(data, "location"))
	})

	t.Run("narrow numeric types widen", func(t *testing.T) {
		narrow := map[string]any{
			"f32": float32(42.5),
			"i":   42,
			"i64": int64(7),
			"nan": float32(math.NaN()),
			"inf": math.Inf(1),
		}
		assert.Equal(t, 42.5, ResolveMetricPath(narrow, "f32"))
		assert.Equal(t, 42.0, ResolveMetricPath(narrow, "i"))
		assert.Equal(t, 7.0, ResolveMetricPath(narrow, "i64"))
		assert.Equal(t, 0.0, ResolveMetricPath(narrow, "nan"))
		assert.Equal(t, 0.0, ResolveMetricPath(narrow, "inf"))
	})
}

func TestRadar(t *testing.T) {
	records := []domain.PropertyRecord{
		domain.SampleRecord("prop1", "Mission District"),
		domain.SampleRecord("prop2", "SoMa"),
		{},
	}
	metrics := []string{"location.walkability_score", "location.transit_score", "tech_features.tech_readiness_score"}

	chart := Radar(records, metrics)

	assert.Equal(t, "Property Comparison Radar Chart", chart.Title)
	assert.Equal(t, metrics, chart.Axes)
	assert.Equal(t, 0.0, chart.AxisMin)
	assert.Equal(t, 100.0, chart.AxisMax)
	assert.Equal(t, "%", chart.TickSuffix)

	require.Len(t, chart.Series, 3)
	assert.Equal(t, "Property prop1", chart.Series[0].Name)
	assert.Equal(t, []float64{85, 90, 90}, chart.Series[0].Values)

	// A record without an ID gets a positional name and all-zero values.
	assert.Equal(t, "Property 3", chart.Series[2].Name)
	assert.Equal(t, []float64{0, 0, 0}, chart.Series[2].Values)
}

func TestCategoryHeatmap(t *testing.T) {
	calc := scoring.NewDefaultCalculator()
	result := calc.Score(domain.SampleRecord("prop1", "Mission District"))

	chart := CategoryHeatmap(result)

	keys := scoring.CategoryKeys()
	require.Len(t, chart.Categories, len(keys))
	require.Len(t, chart.Values, len(keys))
	require.Len(t, chart.Labels, len(keys))

	assert.Equal(t, "Location", chart.Categories[0])
	assert.Equal(t, 87.5, chart.Values[0])
	assert.Equal(t, "87.5%", chart.Labels[0])
	assert.Equal(t, "RdYlGn", chart.Colorscale)
	assert.Equal(t, "Scores", chart.Row)
}

func TestMetricBar(t *testing.T) {
	records := []domain.PropertyRecord{
		domain.SampleRecord("prop1", "Mission District"),
		domain.SampleRecord("prop2", "SoMa"),
	}

	chart := MetricBar(records, "financial.estimated_roi", "")

	assert.Equal(t, "Financial Estimated Roi Comparison", chart.Title)
	assert.Equal(t, []string{"Property prop1", "Property prop2"}, chart.Labels)
	assert.Equal(t, []float64{6.5, 6.5}, chart.Values)
	assert.Equal(t, []string{"6.5", "6.5"}, chart.Text)

	t.Run("custom title wins", func(t *testing.T) {
		chart := MetricBar(records, "financial.estimated_roi", "ROI")
		assert.Equal(t, "ROI", chart.Title)
	})
}

func TestPropertyTimeline(t *testing.T) {
	record := domain.SampleRecord("prop1", "Mission District")
	timeline := PropertyTimeline(record)

	require.Len(t, timeline.Events, 2)
	assert.Equal(t, "Property Listed", timeline.Events[0].Description)
	assert.Equal(t, "Last Updated", timeline.Events[1].Description)
	assert.Equal(t, record.CreatedAt.Format("2006-01-02"), timeline.Events[0].Date)
}
