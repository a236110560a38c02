package observe

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// newTestMetrics 返回基于 ManualReader 的 Metrics，便于断言
func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

// sumByAttr 返回计数器中属性 key=value 的数据点的值
func sumByAttr(t *testing.T, rm metricdata.ResourceMetrics, name, key, value string) int64 {
	t.Helper()
	met := findMetric(rm, name)
	if met == nil {
		t.Fatalf("metric %q not found", name)
	}
	sum, ok := met.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("metric %q is not a sum", name)
	}
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.Emit() == value {
			return dp.Value
		}
	}
	return 0
}

func TestNewMetrics_CreatesWithoutError(t *testing.T) {
	m, _ := newTestMetrics(t)
	if m == nil {
		t.Fatal("NewMetrics returned nil")
	}
}

func TestDefaultMetrics_Singleton(t *testing.T) {
	if DefaultMetrics() != DefaultMetrics() {
		t.Error("DefaultMetrics should return the same instance")
	}
}

func TestRecordSelection(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordSelection(ctx, SelectionSourceHotkey)
	m.RecordSelection(ctx, SelectionSourcePointer)
	m.RecordSelection(ctx, SelectionSourcePointer)

	rm := collect(t, reader)
	if got := sumByAttr(t, rm, "yarnview.selections", "source", "pointer"); got != 2 {
		t.Errorf("pointer selections = %d, want 2", got)
	}
	if got := sumByAttr(t, rm, "yarnview.selections", "source", "hotkey"); got != 1 {
		t.Errorf("hotkey selections = %d, want 1", got)
	}
}

func TestRecordTeardown(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordTeardown(ctx, TeardownReasonComplete)

	rm := collect(t, reader)
	if got := sumByAttr(t, rm, "yarnview.option_sets.teardowns", "reason", "complete"); got != 1 {
		t.Errorf("complete teardowns = %d, want 1", got)
	}
}

func TestRecordOptionSet(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordOptionSet(ctx, 2)
	m.RecordOptionSet(ctx, 3)

	rm := collect(t, reader)
	met := findMetric(rm, "yarnview.option_sets.size")
	if met == nil {
		t.Fatal("metric not found")
	}
	hist, ok := met.Data.(metricdata.Histogram[int64])
	if !ok {
		t.Fatal("metric is not a histogram")
	}
	if len(hist.DataPoints) == 0 || hist.DataPoints[0].Count != 2 {
		t.Fatalf("histogram data points = %+v, want count 2", hist.DataPoints)
	}
	if hist.DataPoints[0].Sum != 5 {
		t.Errorf("histogram sum = %d, want 5", hist.DataPoints[0].Sum)
	}
}

func TestRecordContinue(t *testing.T) {
	m, reader := newTestMetrics(t)
	m.RecordContinue(context.Background(), 2)

	rm := collect(t, reader)
	met := findMetric(rm, "yarnview.continues")
	if met == nil {
		t.Fatal("metric not found")
	}
	sum := met.Data.(metricdata.Sum[int64])
	if len(sum.DataPoints) != 1 || sum.DataPoints[0].Value != 2 {
		t.Errorf("continues = %+v, want 2", sum.DataPoints)
	}
}
