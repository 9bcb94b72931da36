package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecolorTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recolor_images_total",
		Help: "Total number of garment images recolored",
	}, []string{"outcome"})

	RecolorDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "recolor_duration_seconds",
		Help:    "Time spent recoloring a single garment image",
		Buckets: prometheus.DefBuckets,
	})

	RecolorStaleDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recolor_stale_results_dropped_total",
		Help: "Recolor results discarded because the selected color changed mid-flight",
	})

	QuotesComputedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pricing_quotes_computed_total",
		Help: "Total number of transfer price quotes computed",
	})

	ImageEndpointTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "image_endpoint_requests_total",
		Help: "Image processing endpoint requests by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	ImageEndpointDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "image_endpoint_duration_seconds",
		Help:    "Latency of image processing endpoints",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed orders",
	}, []string{"reason"})

	OrderStatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Order status transitions by target status",
	}, []string{"to"})

	PaymentAttemptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_attempts_total",
		Help: "Total number of simulated payment attempts",
	})

	PaymentSuccessTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_success_total",
		Help: "Total number of successful simulated payments",
	})

	PaymentFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_failed_total",
		Help: "Total number of failed simulated payments",
	})

	CartItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart store operations by type",
	}, []string{"op"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
