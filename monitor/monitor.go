// monitor/monitor.go
package monitor

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wfunc/snake/logger"
)

type Metrics struct {
	OnlineSessions prometheus.Gauge
	ActiveRooms    prometheus.Gauge
	Ticks          prometheus.Counter
	FoodEaten      prometheus.Counter
	Collisions     *prometheus.CounterVec
	GamesFinished  *prometheus.CounterVec
	TickLatency    prometheus.Histogram
	Uptime         prometheus.GaugeFunc
}

// NewMetrics 创建并注册指标, reg 为 nil 时使用默认注册器
func NewMetrics(namespace string, reg prometheus.Registerer, startTime time.Time) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		OnlineSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "online_sessions",
			Help:      "Number of connected websocket sessions",
		}),
		ActiveRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_rooms",
			Help:      "Number of active rooms",
		}),
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Total number of engine ticks",
		}),
		FoodEaten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "food_eaten_total",
			Help:      "Total number of food items eaten",
		}),
		Collisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collisions_total",
			Help:      "Collisions by kind",
		}, []string{"kind"}),
		GamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Finished games by outcome",
		}, []string{"outcome"}),
		TickLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_latency_seconds",
			Help:      "Time spent advancing the engine by one tick",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 12),
		}),
		Uptime: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uptime_seconds",
			Help:      "Seconds since the monitor was created",
		}, func() float64 {
			return time.Since(startTime).Seconds()
		}),
	}

	reg.MustRegister(
		m.OnlineSessions,
		m.ActiveRooms,
		m.Ticks,
		m.FoodEaten,
		m.Collisions,
		m.GamesFinished,
		m.TickLatency,
		m.Uptime,
	)

	return m
}

type Monitor struct {
	metrics   *Metrics
	gatherer  prometheus.Gatherer
	startTime time.Time
	server    *http.Server
	mutex     sync.Mutex
}

// NewMonitor 使用默认注册器
func NewMonitor(namespace string) *Monitor {
	return NewMonitorWithRegistry(namespace, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

func NewMonitorWithRegistry(namespace string, reg prometheus.Registerer, gatherer prometheus.Gatherer) *Monitor {
	start := time.Now()
	return &Monitor{
		metrics:   NewMetrics(namespace, reg, start),
		gatherer:  gatherer,
		startTime: start,
	}
}

func (m *Monitor) Metrics() *Metrics {
	return m.metrics
}

func (m *Monitor) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// StartServer 在后台提供 /metrics
func (m *Monitor) StartServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}
	m.mutex.Lock()
	m.server = srv
	m.mutex.Unlock()

	go func() {
		logger.Log.Infof("Metrics server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Errorf("Metrics server error: %v", err)
		}
	}()
}

func (m *Monitor) Stop() {
	m.mutex.Lock()
	srv := m.server
	m.server = nil
	m.mutex.Unlock()
	if srv != nil {
		srv.Close()
	}
}

func (m *Monitor) IncOnlineSessions() {
	m.metrics.OnlineSessions.Inc()
}

func (m *Monitor) DecOnlineSessions() {
	m.metrics.OnlineSessions.Dec()
}

func (m *Monitor) SetActiveRooms(count int) {
	m.metrics.ActiveRooms.Set(float64(count))
}

func (m *Monitor) ObserveTick(duration time.Duration) {
	m.metrics.Ticks.Inc()
	m.metrics.TickLatency.Observe(duration.Seconds())
}

func (m *Monitor) IncFoodEaten() {
	m.metrics.FoodEaten.Inc()
}

func (m *Monitor) IncCollision(kind string) {
	m.metrics.Collisions.WithLabelValues(kind).Inc()
}

func (m *Monitor) IncGameFinished(outcome string) {
	m.metrics.GamesFinished.WithLabelValues(outcome).Inc()
}
