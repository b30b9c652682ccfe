// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics exposes Prometheus counters/histograms for the dispatch
// engine: verification outcomes, per-system latency, and registry size.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	VerificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "uzkv",
			Name:      "verifications_total",
			Help:      "Verifications processed, by proof system and outcome.",
		},
		[]string{"proof_system", "outcome"},
	)

	VerifyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "uzkv",
			Name:      "verify_duration_seconds",
			Help:      "Wall-clock time spent inside Engine.Verify, by proof system.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"proof_system"},
	)

	RegisteredVKs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "uzkv",
			Name:      "registered_vks",
			Help:      "Number of verification keys currently registered.",
		},
	)
)

// Register adds every collector above to reg. Call once at process start;
// tests that construct an Engine repeatedly should use a fresh
// prometheus.Registry rather than the global default.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{VerificationsTotal, VerifyDuration, RegisteredVKs} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
