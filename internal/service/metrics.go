package service

import (
	"github.com/prometheus/client_golang/prometheus"

	"clicker_webapp/internal/domain"
)

var (
	economyOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "economy_operations_total",
			Help: "Economy operations by outcome (ok, a rule error kind, or error)",
		},
		[]string{"operation", "result"},
	)

	coinsGranted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "economy_coins_granted_total",
			Help: "Coins credited to players by source",
		},
		[]string{"source"},
	)
)

func init() {
	prometheus.MustRegister(economyOperations)
	prometheus.MustRegister(coinsGranted)
}

func observe(operation string, err error) {
	result := "ok"
	if err != nil {
		result = string(domain.KindOf(err))
		if result == "" {
			result = "error"
		}
	}
	economyOperations.WithLabelValues(operation, result).Inc()
}

func grant(source domain.TransactionType, amount int64) {
	if amount > 0 {
		coinsGranted.WithLabelValues(string(source)).Add(float64(amount))
	}
}
