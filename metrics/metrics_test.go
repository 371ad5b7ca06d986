package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMetrics(t *testing.T) {

	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveIteration("add", OutcomeSuccess)
	m.ObserveIteration("add", OutcomeSuccess)
	m.ObserveIteration("multiply", OutcomeEvalError)
	m.ObserveReduce("add", 20*time.Millisecond)
	m.SetNoiseBudget(13.5)

	require.Equal(t, 2.0, testutil.ToFloat64(m.iterations.WithLabelValues("add", OutcomeSuccess)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.iterations.WithLabelValues("multiply", OutcomeEvalError)))
	require.Equal(t, 13.5, testutil.ToFloat64(m.noiseBudget))
	require.Equal(t, 1, testutil.CollectAndCount(m.reduceDuration))

	n, err := testutil.GatherAndCount(reg, "hecalc_iterations_total")
	require.NoError(t, err)
	require.Equal(t, 2, n)

	t.Run("LogSummary", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		require.NoError(t, LogSummary(reg, zap.New(core)))

		// two iteration series, one histogram series and the gauge
		require.Equal(t, 4, logs.FilterMessage("metric").Len())

		gauge := logs.FilterField(zap.String("name", "hecalc_noise_budget_bits")).All()
		require.Len(t, gauge, 1)
		require.Equal(t, 13.5, gauge[0].ContextMap()["value"])
	})

	t.Run("DoubleRegistration", func(t *testing.T) {
		require.Panics(t, func() { New(reg) })
	})
}
