package utils

import "time"

type RequestSample struct {
	Method  string
	Route   string
	Status  int
	Latency time.Duration
}

// MetricChans carries samples from request handlers to the metric
// collectors. Sends never block: when no collector is listening the sample
// is dropped.
type MetricChans struct {
	DatabaseRead  chan float64
	DatabaseWrite chan float64
	HTTPRequest   chan RequestSample
}

func NewMetricChans() *MetricChans {
	return &MetricChans{
		DatabaseRead:  make(chan float64),
		DatabaseWrite: make(chan float64),
		HTTPRequest:   make(chan RequestSample, 64),
	}
}

func (m *MetricChans) ObserveDatabaseRead(since time.Time) {
	if m == nil {
		return
	}
	select {
	case m.DatabaseRead <- float64(time.Since(since).Microseconds()):
	default:
	}
}

func (m *MetricChans) ObserveDatabaseWrite(since time.Time) {
	if m == nil {
		return
	}
	select {
	case m.DatabaseWrite <- float64(time.Since(since).Microseconds()):
	default:
	}
}

func (m *MetricChans) ObserveRequest(sample RequestSample) {
	if m == nil {
		return
	}
	select {
	case m.HTTPRequest <- sample:
	default:
	}
}
