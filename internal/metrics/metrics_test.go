package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestActionsCounter(t *testing.T) {
	c := Actions.WithLabelValues("buy_computer", ResultOK)
	before := counterValue(t, c)
	Actions.WithLabelValues("buy_computer", ResultOf(nil)).Inc()
	if got := counterValue(t, c); got != before+1 {
		t.Fatalf("counter = %v; want %v", got, before+1)
	}
	if ResultOf(errors.New("x")) != ResultError {
		t.Fatalf("ResultOf(err) != error")
	}
}

func TestCollectorsRegistered(t *testing.T) {
	Rebirths.Inc()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "cryptofarm_rebirths_total" {
			found = true
		}
	}
	if !found {
		t.Fatalf("cryptofarm_rebirths_total not registered")
	}
}
