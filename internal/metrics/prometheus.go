package metrics

import "github.com/prometheus/client_golang/prometheus"

type Prometheus struct {
	Cells    *prometheus.CounterVec
	Fit      *prometheus.HistogramVec
	Requests *prometheus.CounterVec
	Classify *prometheus.CounterVec
}

func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Cells: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "opistocks",
				Subsystem: "sweep",
				Name:      "cells",
			}, []string{"kind", "status"}),
		Fit: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "opistocks",
				Subsystem: "sweep",
				Name:      "fit_seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
			}, []string{"kind"}),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "opistocks",
				Subsystem: "http",
				Name:      "requests",
			}, []string{"route", "code"}),
		Classify: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "opistocks",
				Subsystem: "sentiment",
				Name:      "classified",
			}, []string{"sentiment", "cache"}),
	}
}
