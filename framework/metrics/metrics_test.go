package metrics_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-inject/framework/container"
	"github.com/km-arc/go-inject/framework/metrics"
)

func newObserved(t *testing.T) (*container.Container, *metrics.Collector, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	col, err := metrics.New(reg)
	require.NoError(t, err)
	return container.New(container.WithObserver(col)), col, reg
}

func TestCollector_CountsRegistrations(t *testing.T) {
	t.Parallel()
	c, _, reg := newObserved(t)

	_, err := c.Constant("port", 8080)
	require.NoError(t, err)
	_, err = c.Func("addr", func(p int) int { return p }, "port")
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(reg, "inject_entities_registered_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCollector_CountsInvocationsAndErrors(t *testing.T) {
	t.Parallel()
	c, _, reg := newObserved(t)

	boom := errors.New("boom")
	_, err := c.Module("ok", func(*container.Entity, ...any) (any, error) { return 1, nil })
	require.NoError(t, err)
	_, err = c.Module("bad", func(*container.Entity, ...any) (any, error) { return nil, boom })
	require.NoError(t, err)

	_, err = c.Make("ok")
	require.NoError(t, err)
	_, err = c.Make("ok")
	require.NoError(t, err)
	_, err = c.Make("bad")
	require.ErrorIs(t, err, boom)

	ok := `
# HELP inject_factory_invocations_total Number of factory invocations by entity.
# TYPE inject_factory_invocations_total counter
inject_factory_invocations_total{entity="bad"} 1
inject_factory_invocations_total{entity="ok"} 1
# HELP inject_factory_errors_total Number of failed factory invocations by entity.
# TYPE inject_factory_errors_total counter
inject_factory_errors_total{entity="bad"} 1
# HELP inject_factories_resolved Number of factories that have produced a value.
# TYPE inject_factories_resolved gauge
inject_factories_resolved 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(ok),
		"inject_factory_invocations_total",
		"inject_factory_errors_total",
		"inject_factories_resolved"))

	n, err := testutil.GatherAndCount(reg, "inject_factory_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCollector_CountsMissingDependencies(t *testing.T) {
	t.Parallel()
	c, _, reg := newObserved(t)

	_, err := c.Func("svc", func(a any) any { return a }, "ghost")
	require.NoError(t, err)
	_, err = c.Make("svc")
	require.NoError(t, err)

	want := `
# HELP inject_missing_dependencies_total Number of lookups of dependency names that are not registered.
# TYPE inject_missing_dependencies_total counter
inject_missing_dependencies_total{consumer="svc",dependency="ghost"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(want), "inject_missing_dependencies_total"))
}

func TestNew_DuplicateRegistrationFails(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	_, err := metrics.New(reg)
	require.NoError(t, err)

	_, err = metrics.New(reg)
	var already prometheus.AlreadyRegisteredError
	assert.ErrorAs(t, err, &already)
}
