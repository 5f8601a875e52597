package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	submissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aihem_submissions_total",
		Help: "Challenge submissions by outcome status.",
	}, []string{"status"})

	pointsAwardedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aihem_points_awarded_total",
		Help: "Total points awarded across all users.",
	})

	hintSpendsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aihem_hint_spends_total",
		Help: "Hints purchased against user score balances.",
	})
)
