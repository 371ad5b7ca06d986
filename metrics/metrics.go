// Package metrics collects the calculator counters on a private prometheus
// registry.
package metrics

import (
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.uber.org/zap"
)

// Outcomes of an iteration.
const (
	OutcomeSuccess    = "success"
	OutcomeInputError = "input_error"
	OutcomeEvalError  = "evaluation_error"
)

type Metrics struct {
	iterations     *prometheus.CounterVec
	reduceDuration *prometheus.HistogramVec
	noiseBudget    prometheus.Gauge
}

func New(registerer prometheus.Registerer) *Metrics {
	m := Metrics{
		iterations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hecalc_iterations_total",
				Help: "Number of calculator iterations by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		reduceDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hecalc_reduce_duration_seconds",
				Help:    "Time spent encrypting and folding the inputs",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
			[]string{"op"},
		),
		noiseBudget: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "hecalc_noise_budget_bits",
				Help: "Remaining noise budget of the last result",
			},
		),
	}

	registerer.MustRegister(m.iterations)
	registerer.MustRegister(m.reduceDuration)
	registerer.MustRegister(m.noiseBudget)

	return &m
}

// ObserveIteration counts one iteration of op with the given outcome.
func (m *Metrics) ObserveIteration(op, outcome string) {
	m.iterations.WithLabelValues(op, outcome).Inc()
}

// ObserveReduce records the duration of a reduction of op.
func (m *Metrics) ObserveReduce(op string, d time.Duration) {
	m.reduceDuration.WithLabelValues(op).Observe(d.Seconds())
}

// SetNoiseBudget records the noise budget of the last result, in bits.
func (m *Metrics) SetNoiseBudget(bits float64) {
	m.noiseBudget.Set(bits)
}

// LogSummary gathers the registry and logs one line per sample.
func LogSummary(gatherer prometheus.Gatherer, logger *zap.Logger) error {

	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("cannot gather metrics: %w", err)
	}

	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			logger.Info("metric",
				zap.String("name", mf.GetName()),
				zap.String("labels", labels(metric.GetLabel())),
				zap.Float64("value", value(mf.GetType(), metric)),
			)
		}
	}

	return nil
}

func labels(pairs []*dto.LabelPair) string {
	s := make([]string, len(pairs))
	for i, p := range pairs {
		s[i] = p.GetName() + "=" + p.GetValue()
	}
	return strings.Join(s, ",")
}

// value returns the counter or gauge value, or the sample sum of a histogram.
func value(t dto.MetricType, m *dto.Metric) float64 {
	switch t {
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue()
	case dto.MetricType_HISTOGRAM:
		return m.GetHistogram().GetSampleSum()
	default:
		return 0
	}
}
