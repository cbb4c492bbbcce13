package network

import "sync/atomic"

type MetricsSnapshot struct {
	Components int64
	Delivered  int64
	Completed  int64
	Failed     int64
	Recycled   int64
}

type Metrics struct {
	components atomic.Int64
	delivered  atomic.Int64
	completed  atomic.Int64
	failed     atomic.Int64
	recycled   atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) RecordComponent(delta int) {
	m.components.Add(int64(delta))
}

func (m *Metrics) RecordDelivered(delta int) {
	m.delivered.Add(int64(delta))
}

func (m *Metrics) RecordCompleted(delta int) {
	m.completed.Add(int64(delta))
}

func (m *Metrics) RecordFailed(delta int) {
	m.failed.Add(int64(delta))
}

func (m *Metrics) RecordRecycled(delta int) {
	m.recycled.Add(int64(delta))
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Components: m.components.Load(),
		Delivered:  m.delivered.Load(),
		Completed:  m.completed.Load(),
		Failed:     m.failed.Load(),
		Recycled:   m.recycled.Load(),
	}
}
