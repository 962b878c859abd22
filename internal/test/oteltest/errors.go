package oteltest

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// NewMeterProviderWithError returns a [metric.MeterProvider] whose meters fail to create the instruments used by
// otelcursor, and to register callbacks, with the given error.
func NewMeterProviderWithError(err error) metric.MeterProvider {
	return errorMeterProvider{err: err}
}

type errorMeterProvider struct {
	noop.MeterProvider

	err error
}

func (p errorMeterProvider) Meter(string, ...metric.MeterOption) metric.Meter {
	return errorMeter{err: p.err}
}

type errorMeter struct {
	noop.Meter

	err error
}

func (m errorMeter) Int64Counter(string, ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	return nil, m.err
}

func (m errorMeter) Float64Histogram(string, ...metric.Float64HistogramOption) (metric.Float64Histogram, error) {
	return nil, m.err
}

func (m errorMeter) Int64ObservableGauge(string, ...metric.Int64ObservableGaugeOption) (metric.Int64ObservableGauge, error) {
	return nil, m.err
}

func (m errorMeter) Float64ObservableGauge(string, ...metric.Float64ObservableGaugeOption) (metric.Float64ObservableGauge, error) {
	return nil, m.err
}

func (m errorMeter) RegisterCallback(metric.Callback, ...metric.Observable) (metric.Registration, error) {
	return nil, m.err
}
