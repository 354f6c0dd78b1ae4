package bridge

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

// Directions of relayed messages
const (
	directionToSlack = "irc_to_slack"
	directionToIRC   = "slack_to_irc"
)

var (
	messagesRelayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_messages_total",
		Help: "Number of messages relayed, by direction",
	}, []string{"direction"})

	messagesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_dropped_total",
		Help: "Number of messages not relayed, by reason",
	}, []string{"reason"})

	nickCacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relay_nick_cache_entries",
		Help: "Number of IRC nicknames with a known display name",
	})
)

func relayed(direction string) {
	messagesRelayed.WithLabelValues(direction).Inc()
}

func dropped(reason string, fields log.Fields) {
	messagesDropped.WithLabelValues(reason).Inc()
	log.WithFields(fields).WithField("reason", reason).Debugln("Dropping message")
}
