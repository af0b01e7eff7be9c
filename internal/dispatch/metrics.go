package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var itemsAdded = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "plybot_dispatch_items_added_total",
	Help: "Total number of work items added to the dispatcher",
}, []string{"ident"})

var itemsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "plybot_dispatch_items_processed_total",
	Help: "Total number of work items processed by the dispatcher",
}, []string{"ident"})

var itemsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "plybot_dispatch_items_failed_total",
	Help: "Total number of work items whose handler returned an error",
}, []string{"ident"})

var workersActive = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "plybot_dispatch_workers_active",
	Help: "Number of dispatcher workers currently running",
}, []string{"ident"})
