// Package observe 对话界面的运行指标（OpenTelemetry Metrics API）
//
// 默认使用全局 MeterProvider（未配置时为 no-op），
// 测试使用 NewMetrics 传入带 ManualReader 的 MeterProvider。
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName 所有指标的 instrumentation scope
const meterName = "github.com/decker502/yarnview"

// 选择来源
const (
	SelectionSourceHotkey  = "hotkey"
	SelectionSourcePointer = "pointer"
)

// 选项拆除原因
const (
	TeardownReasonSelected = "selected"
	TeardownReasonComplete = "complete"
)

// Metrics 对话界面的所有指标
type Metrics struct {
	// LinesPresented 写入日志的对话行数
	LinesPresented metric.Int64Counter

	// OptionSetsPresented 显示的选项组数，附带选项数量分布见 OptionSetSize
	OptionSetsPresented metric.Int64Counter

	// OptionSetSize 每组可用选项数量
	OptionSetSize metric.Int64Histogram

	// EmptyOptionSets 过滤后没有可用选项的选项组
	EmptyOptionSets metric.Int64Counter

	// Selections 玩家选择次数，属性 source = hotkey | pointer
	Selections metric.Int64Counter

	// Continues 转发给运行时的继续指令次数
	Continues metric.Int64Counter

	// Teardowns 选项组拆除次数，属性 reason = selected | complete
	Teardowns metric.Int64Counter

	// ScrollEvents 手动滚动次数
	ScrollEvents metric.Int64Counter
}

// NewMetrics 使用给定的 MeterProvider 创建所有指标
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.LinesPresented, err = m.Int64Counter("yarnview.lines.presented",
		metric.WithDescription("Dialogue lines appended to the log."),
	); err != nil {
		return nil, err
	}
	if met.OptionSetsPresented, err = m.Int64Counter("yarnview.option_sets.presented",
		metric.WithDescription("Option sets shown to the player."),
	); err != nil {
		return nil, err
	}
	if met.OptionSetSize, err = m.Int64Histogram("yarnview.option_sets.size",
		metric.WithDescription("Number of available options per option set."),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 4, 5, 6, 7, 8, 9),
	); err != nil {
		return nil, err
	}
	if met.EmptyOptionSets, err = m.Int64Counter("yarnview.option_sets.empty",
		metric.WithDescription("Option sets with no available option after filtering."),
	); err != nil {
		return nil, err
	}
	if met.Selections, err = m.Int64Counter("yarnview.selections",
		metric.WithDescription("Options selected by the player."),
	); err != nil {
		return nil, err
	}
	if met.Continues, err = m.Int64Counter("yarnview.continues",
		metric.WithDescription("Continue commands forwarded to the dialogue runners."),
	); err != nil {
		return nil, err
	}
	if met.Teardowns, err = m.Int64Counter("yarnview.option_sets.teardowns",
		metric.WithDescription("Option widget groups removed."),
	); err != nil {
		return nil, err
	}
	if met.ScrollEvents, err = m.Int64Counter("yarnview.scroll.events",
		metric.WithDescription("Manual scroll inputs applied to the log."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics 返回基于全局 MeterProvider 的共享实例
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordLine 记录一行对话
func (m *Metrics) RecordLine(ctx context.Context, hasSpeaker bool) {
	m.LinesPresented.Add(ctx, 1, metric.WithAttributes(attribute.Bool("speaker", hasSpeaker)))
}

// RecordOptionSet 记录一组显示的选项
func (m *Metrics) RecordOptionSet(ctx context.Context, available int) {
	m.OptionSetsPresented.Add(ctx, 1)
	m.OptionSetSize.Record(ctx, int64(available))
}

// RecordEmptyOptionSet 记录一组没有可用选项的选项
func (m *Metrics) RecordEmptyOptionSet(ctx context.Context, offered int) {
	m.EmptyOptionSets.Add(ctx, 1, metric.WithAttributes(attribute.Int("offered", offered)))
}

// RecordSelection 记录一次选择
func (m *Metrics) RecordSelection(ctx context.Context, source string) {
	m.Selections.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}

// RecordContinue 记录转发的继续指令数量
func (m *Metrics) RecordContinue(ctx context.Context, runners int) {
	m.Continues.Add(ctx, int64(runners))
}

// RecordTeardown 记录一次选项拆除
func (m *Metrics) RecordTeardown(ctx context.Context, reason string) {
	m.Teardowns.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordScroll 记录一次手动滚动
func (m *Metrics) RecordScroll(ctx context.Context, unit string) {
	m.ScrollEvents.Add(ctx, 1, metric.WithAttributes(attribute.String("unit", unit)))
}
