// Package metrics holds the Prometheus collectors of the water sort service.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vovakirdan/watersort/internal/games/watersort/core"
	"github.com/vovakirdan/watersort/internal/multiplayer"
)

const namespace = "watersort"

var (
	// poursTotal counts pour requests.
	// Labels: result (ok, illegal)
	poursTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "pours_total",
		Help:      "Total pour requests by result",
	}, []string{"result"})

	// unitsPoured counts colour units moved by legal pours.
	unitsPoured = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "units_poured_total",
		Help:      "Total colour units moved by legal pours",
	})

	// solvesTotal counts solver runs.
	// Labels: solved (true, false)
	solvesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "solver",
		Name:      "runs_total",
		Help:      "Total solver runs by outcome",
	}, []string{"solved"})

	// solveIterations tracks how many moves the solver applied per run.
	solveIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "solver",
		Name:      "iterations",
		Help:      "Moves applied per solver run",
		Buckets:   []float64{0, 5, 10, 20, 40, 80, 120, 160, 200},
	})

	// levelsGenerated counts generated levels.
	// Labels: verified (true, false)
	levelsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "generator",
		Name:      "levels_total",
		Help:      "Total generated levels by verification outcome",
	}, []string{"verified"})

	// generateDuration measures level generation time.
	generateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "generator",
		Name:      "duration_seconds",
		Help:      "Level generation time in seconds",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})

	// roomEvents counts room lifecycle transitions.
	// Labels: event (created, joined, finished, expired)
	roomEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "rooms",
		Name:      "events_total",
		Help:      "Room lifecycle events",
	}, []string{"event"})

	// httpRequests counts HTTP requests.
	// Labels: method, route, status
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests",
	}, []string{"method", "route", "status"})

	// httpDuration measures HTTP request latency.
	// Labels: route
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
)

// RecordPour records the outcome of a pour.
func RecordPour(moved int, err error) {
	if err != nil {
		poursTotal.WithLabelValues("illegal").Inc()
		return
	}
	poursTotal.WithLabelValues("ok").Inc()
	unitsPoured.Add(float64(moved))
}

// RecordSolve records a solver run.
func RecordSolve(res core.SolveResult) {
	solvesTotal.WithLabelValues(strconv.FormatBool(res.Solved)).Inc()
	solveIterations.Observe(float64(res.Iterations))
}

// RecordGenerate records a generated level and how long it took.
func RecordGenerate(l core.Level, elapsed time.Duration) {
	levelsGenerated.WithLabelValues(strconv.FormatBool(l.Verified)).Inc()
	generateDuration.Observe(elapsed.Seconds())
}

// ObserveRoom counts room lifecycle events. Register it with
// multiplayer.Manager.Observe.
func ObserveRoom(evt multiplayer.RoomEvent) {
	switch e := evt.(type) {
	case multiplayer.PlayerJoinedEvent:
		if len(e.View.Players) == 1 {
			roomEvents.WithLabelValues("created").Inc()
		} else {
			roomEvents.WithLabelValues("joined").Inc()
		}
	case multiplayer.WinnerEvent:
		roomEvents.WithLabelValues("finished").Inc()
	case multiplayer.RoomExpiredEvent:
		roomEvents.WithLabelValues("expired").Inc()
	}
}

// RecordRequest records a served HTTP request.
func RecordRequest(method, route string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

var roomGaugeOnce sync.Once

// RegisterRoomGauge exposes the number of live rooms. Only the first call
// registers; later calls are ignored.
func RegisterRoomGauge(count func() int) {
	roomGaugeOnce.Do(func() {
		promauto.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "rooms",
			Name:      "active",
			Help:      "Rooms currently held in the registry",
		}, func() float64 { return float64(count()) })
	})
}
