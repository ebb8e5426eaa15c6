package metric

import (
	"log/slog"
	"strconv"
	"time"

	"calendar/src-server/utils"

	"github.com/prometheus/client_golang/prometheus"
)

// register tolerates a collector that is already registered, which happens
// when Init runs more than once in the same process.
func register[C prometheus.Collector](name string, collector C) C {
	if err := prometheus.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			slog.Debug("metric already registered", "metric", name)
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
			return collector
		}
		slog.Error("can't register metric", "metric", name, "error", err)
		return collector
	}
	slog.Debug("metric registered", "metric", name)
	return collector
}

func unregister(name string, collector prometheus.Collector) {
	switch prometheus.Unregister(collector) {
	case true:
		slog.Debug("metric unregistered", "metric", name)
	case false:
		slog.Warn("metric not registered", "metric", name)
	}
}

func databaseEmptyRead(as *utils.AppState, tickerInterval time.Duration) {
	const name = "calendar_database_empty_read_microsec"
	gauge := register(name, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: name,
		Help: "The latency of an empty database read in microseconds",
	}))
	gauge.Set(0)

	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	go func() {
		ticker := time.NewTicker(tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				unregister(name, gauge)
				return
			case <-ticker.C:
				latency, err := database(as)
				if err != nil {
					slog.Error("can't get database latency", "error", err)
					continue
				}
				gauge.Set(float64(latency.Microseconds()))
			}
		}
	}()
}

// latencyGauge mirrors the latest sample from ch and falls back to zero when
// nothing arrives for a while.
func latencyGauge(as *utils.AppState, name, help string, ch <-chan float64, clearTickerInterval time.Duration) {
	gauge := register(name, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	}))
	gauge.Set(0)

	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	go func() {
		clearTicker := time.NewTicker(clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				unregister(name, gauge)
				return
			case latency := <-ch:
				gauge.Set(latency)
				clearTicker.Reset(clearTickerInterval)
			case <-clearTicker.C:
				gauge.Set(0)
			}
		}
	}()
}

func httpRequests(as *utils.AppState) {
	const name = "calendar_http_requests_total"
	counter := register(name, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: "HTTP requests served, by method, route and status code",
	}, []string{"method", "route", "status"}))

	const durationName = "calendar_http_request_duration_seconds"
	duration := register(durationName, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    durationName,
		Help:    "HTTP request latency in seconds, by method and route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"}))

	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	go func() {
		for {
			select {
			case <-*gracefulShutdownCh:
				unregister(name, counter)
				unregister(durationName, duration)
				return
			case sample := <-as.MetricChans.HTTPRequest:
				counter.WithLabelValues(sample.Method, sample.Route, strconv.Itoa(sample.Status)).Inc()
				duration.WithLabelValues(sample.Method, sample.Route).Observe(sample.Latency.Seconds())
			}
		}
	}()
}

func Init(as *utils.AppState) {
	tickerInterval := as.Config.GetMetricCollectionInterval()
	clearTickerInterval := as.Config.GetMetricCollectionInterval() * 2

	databaseEmptyRead(as, tickerInterval)
	latencyGauge(as,
		"calendar_database_read_microsec",
		"The latency of a database read in microseconds",
		as.MetricChans.DatabaseRead, clearTickerInterval)
	latencyGauge(as,
		"calendar_database_write_microsec",
		"The latency of a database write in microseconds",
		as.MetricChans.DatabaseWrite, clearTickerInterval)
	httpRequests(as)
}
