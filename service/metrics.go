package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Business metrics, updated from OrderService
var (
	filesAdmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "printorder_files_admitted_total",
		Help: "Files admitted into session registries.",
	})

	// reason: capacity, format
	batchesRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "printorder_batches_rejected_total",
		Help: "Upload batches rejected as a whole.",
	}, []string{"reason"})

	// result: saved, stale, invalid_range, invalid_config, not_finite, no_page_count
	configSavesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "printorder_config_saves_total",
		Help: "Print configuration save attempts by result.",
	}, []string{"result"})

	// result: applied, stale, failed
	pageCountsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "printorder_page_counts_total",
		Help: "Page count results by outcome.",
	}, []string{"result"})

	checkoutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "printorder_checkouts_total",
		Help: "Checkout attempts by result.",
	}, []string{"result"})

	collagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "printorder_collages_total",
		Help: "Collage compositions by result.",
	}, []string{"result"})
)
