// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics exposes Prometheus counters for the registration,
// verification, and voting flows.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	Registrations *prometheus.CounterVec
	Verifications *prometheus.CounterVec
	VotesCast     prometheus.Counter
	DeviceErrors  *prometheus.CounterVec
}

// New builds and registers the counter set. Pass prometheus.DefaultRegisterer
// in main; tests pass a fresh registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "biovote_registrations_total",
			Help: "Voter registration attempts by result.",
		}, []string{"result"}),
		Verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "biovote_verifications_total",
			Help: "Biometric verification attempts by result.",
		}, []string{"result"}),
		VotesCast: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "biovote_votes_cast_total",
			Help: "Ballots accepted and recorded.",
		}),
		DeviceErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "biovote_device_errors_total",
			Help: "Fingerprint device errors by vendor code.",
		}, []string{"code"}),
	}
	reg.MustRegister(m.Registrations, m.Verifications, m.VotesCast, m.DeviceErrors)
	return m
}

// ObserveRegistration records a registration attempt outcome.
func (m *Metrics) ObserveRegistration(result string) {
	m.Registrations.WithLabelValues(result).Inc()
}

// ObserveVerification records a verification attempt outcome.
func (m *Metrics) ObserveVerification(result string) {
	m.Verifications.WithLabelValues(result).Inc()
}

// ObserveVote records an accepted ballot.
func (m *Metrics) ObserveVote() {
	m.VotesCast.Inc()
}

// ObserveDeviceError records a vendor error code from a capture or match.
func (m *Metrics) ObserveDeviceError(code int) {
	m.DeviceErrors.WithLabelValues(strconv.Itoa(code)).Inc()
}
