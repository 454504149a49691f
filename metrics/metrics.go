package metrics

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	mutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "occupancy",
			Name:      "mutations_total",
			Help:      "Count of room mutations by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	stateChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "occupancy",
			Name:      "state_changes_total",
			Help:      "Count of state revisions by source.",
		},
		[]string{"source"},
	)

	notificationsRaised = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "occupancy",
			Name:      "notifications_raised_total",
			Help:      "Count of stay alerts raised by kind.",
		},
		[]string{"kind"},
	)

	syncMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "occupancy",
			Name:      "sync_messages_total",
			Help:      "Count of sync messages by direction and outcome.",
		},
		[]string{"direction", "outcome"},
	)

	storeWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "occupancy",
			Name:      "store_writes_total",
			Help:      "Count of durable state writes by outcome.",
		},
		[]string{"outcome"},
	)

	roomsByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "occupancy",
			Name:      "rooms",
			Help:      "Current number of rooms by property and status.",
		},
		[]string{"property", "status"},
	)

	viewSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "occupancy",
			Name:      "view_sessions",
			Help:      "Connected websocket views.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(mutations, stateChanges, notificationsRaised, syncMessages, storeWrites, roomsByStatus, viewSessions)
	})
}

// Handler serves the default registry for gin.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func ObserveMutation(operation string, err error) {
	mutations.WithLabelValues(operation, outcome(err)).Inc()
}

func IncStateChange(source string) {
	stateChanges.WithLabelValues(source).Inc()
}

func AddNotifications(kind string, n int) {
	notificationsRaised.WithLabelValues(kind).Add(float64(n))
}

func ObserveSync(direction string, err error) {
	syncMessages.WithLabelValues(direction, outcome(err)).Inc()
}

func ObserveStoreWrite(err error) {
	storeWrites.WithLabelValues(outcome(err)).Inc()
}

func SetRooms(property, status string, n int) {
	roomsByStatus.WithLabelValues(property, status).Set(float64(n))
}

func SetViewSessions(n int) {
	viewSessions.Set(float64(n))
}
