// Package charts builds renderer-agnostic chart payloads for property
// comparisons. Payloads carry everything a frontend needs to draw the
// figure; no drawing happens server side.
package charts

import (
	"fmt"

	"github.com/righthome/righthome/internal/domain"
	"github.com/righthome/righthome/internal/scoring"
)

// RadarSeries is one property's trace on a radar chart.
type RadarSeries struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// RadarChart compares properties across a shared set of metrics.
type RadarChart struct {
	Title      string        `json:"title"`
	Axes       []string      `json:"axes"`
	AxisMin    float64       `json:"axis_min"`
	AxisMax    float64       `json:"axis_max"`
	TickSuffix string        `json:"tick_suffix"`
	Series     []RadarSeries `json:"series"`
}

// Radar builds a radar chart for the given metric paths. Metrics that
// do not resolve on a property contribute 0 for that trace.
func Radar(records []domain.PropertyRecord, metrics []string) RadarChart {
	chart := RadarChart{
		Title:      "Property Comparison Radar Chart",
		Axes:       metrics,
		AxisMin:    0,
		AxisMax:    100,
		TickSuffix: "%",
	}

	for i, record := range records {
		data := recordMap(record)
		values := make([]float64, len(metrics))
		for j, metric := range metrics {
			values[j] = ResolveMetricPath(data, metric)
		}
		chart.Series = append(chart.Series, RadarSeries{
			Name:   seriesName(record, i),
			Values: values,
		})
	}

	return chart
}

// Heatmap shows one property's category scores as a single-row grid.
type Heatmap struct {
	Title      string    `json:"title"`
	Categories []string  `json:"categories"`
	Row        string    `json:"row"`
	Values     []float64 `json:"values"`
	Labels     []string  `json:"labels"`
	Colorscale string    `json:"colorscale"`
}

// CategoryHeatmap renders a scored property's category breakdown in
// the calculator's category order.
func CategoryHeatmap(result scoring.ScoreResult) Heatmap {
	keys := scoring.CategoryKeys()

	chart := Heatmap{
		Title:      "Property Score Heatmap",
		Categories: make([]string, len(keys)),
		Row:        "Scores",
		Values:     make([]float64, len(keys)),
		Labels:     make([]string, len(keys)),
		Colorscale: "RdYlGn",
	}

	for i, key := range keys {
		score := result.Categories[key]
		chart.Categories[i] = metricLabel(key)
		chart.Values[i] = score
		chart.Labels[i] = fmt.Sprintf("%.1f%%", score)
	}

	return chart
}

// BarChart compares a single metric across properties.
type BarChart struct {
	Title  string    `json:"title"`
	Metric string    `json:"metric"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Text   []string  `json:"text"`
}

// MetricBar builds a bar chart of one metric path over the batch. An
// empty title defaults to "<Metric Label> Comparison".
func MetricBar(records []domain.PropertyRecord, metric, title string) BarChart {
	if title == "" {
		title = metricLabel(metric) + " Comparison"
	}

	chart := BarChart{
		Title:  title,
		Metric: metric,
		Labels: make([]string, len(records)),
		Values: make([]float64, len(records)),
		Text:   make([]string, len(records)),
	}

	for i, record := range records {
		value := ResolveMetricPath(recordMap(record), metric)
		chart.Labels[i] = seriesName(record, i)
		chart.Values[i] = value
		chart.Text[i] = fmt.Sprintf("%.1f", value)
	}

	return chart
}

// TimelineEvent is a dated marker on a property timeline.
type TimelineEvent struct {
	Date        string `json:"date"`
	Description string `json:"description"`
}

// Timeline lists a property's listing history. Without recorded
// events it falls back to the created and updated timestamps.
type Timeline struct {
	Title  string          `json:"title"`
	Events []TimelineEvent `json:"events"`
}

// PropertyTimeline builds the default listing timeline for a record.
func PropertyTimeline(record domain.PropertyRecord) Timeline {
	return Timeline{
		Title: "Property Timeline",
		Events: []TimelineEvent{
			{Date: record.CreatedAt.Format("2006-01-02"), Description: "Property Listed"},
			{Date: record.UpdatedAt.Format("2006-01-02"), Description: "Last Updated"},
		},
	}
}

func seriesName(record domain.PropertyRecord, index int) string {
	if record.ID != "" {
		return "Property " + record.ID
	}
	return fmt.Sprintf("Property %d", index+1)
}
