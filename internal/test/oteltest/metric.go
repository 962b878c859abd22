package oteltest

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	metricsdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Metric is the summary of a data point. The name carries the attributes of the point, for example
// db.sql.client.calls{db.operation=go.sql.cursor.execute,db.sql.status=OK,db.system=postgresql}.
//
// Counters report their Sum, histograms their Count, and gauges their Last value.
type Metric struct {
	Name  string `json:"Name"`
	Last  any    `json:"Last,omitempty"`
	Sum   any    `json:"Sum,omitempty"`
	Count any    `json:"Count,omitempty"`
}

func collectMetrics(r metricsdk.Reader) []Metric {
	var rm metricdata.ResourceMetrics

	handleErr(r.Collect(context.Background(), &rm))

	metrics := make([]Metric, 0)

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Gauge[int64]:
				metrics = append(metrics, metricsFromGauge(m.Name, data)...)

			case metricdata.Gauge[float64]:
				metrics = append(metrics, metricsFromGauge(m.Name, data)...)

			case metricdata.Sum[int64]:
				metrics = append(metrics, metricsFromSum(m.Name, data)...)

			case metricdata.Sum[float64]:
				metrics = append(metrics, metricsFromSum(m.Name, data)...)

			case metricdata.Histogram[float64]:
				metrics = append(metrics, metricsFromHistogram(m.Name, data)...)

			case metricdata.Histogram[int64]:
				metrics = append(metrics, metricsFromHistogram(m.Name, data)...)
			}
		}
	}

	sort.Slice(metrics, func(i, j int) bool {
		return metrics[i].Name < metrics[j].Name
	})

	return metrics
}

func metricsFromGauge[N int64 | float64](name string, g metricdata.Gauge[N]) []Metric {
	result := make([]Metric, 0, len(g.DataPoints))

	for _, dp := range g.DataPoints {
		result = append(result, Metric{
			Name: metricName(name, dp.Attributes),
			Last: dp.Value,
		})
	}

	return result
}

func metricsFromSum[N int64 | float64](name string, s metricdata.Sum[N]) []Metric {
	result := make([]Metric, 0, len(s.DataPoints))

	for _, dp := range s.DataPoints {
		result = append(result, Metric{
			Name: metricName(name, dp.Attributes),
			Sum:  dp.Value,
		})
	}

	return result
}

func metricsFromHistogram[N int64 | float64](name string, h metricdata.Histogram[N]) []Metric {
	result := make([]Metric, 0, len(h.DataPoints))

	for _, dp := range h.DataPoints {
		result = append(result, Metric{
			Name:  metricName(name, dp.Attributes),
			Count: dp.Count,
		})
	}

	return result
}

func metricName(name string, attrs attribute.Set) string {
	labels := make([]string, 0, attrs.Len())

	for _, attr := range attrs.ToSlice() {
		labels = append(labels, fmt.Sprintf("%s=%s", attr.Key, attr.Value.Emit()))
	}

	return fmt.Sprintf("%s{%s}", name, strings.Join(labels, ","))
}

func encodeMetrics(metrics []Metric) string {
	if len(metrics) == 0 {
		return ""
	}

	data, err := json.MarshalIndent(metrics, "", "    ")
	handleErr(err)

	return string(data)
}
