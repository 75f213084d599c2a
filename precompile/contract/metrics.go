// Copyright (C) 2022, Telos Foundation & contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts precompile calls by method and exit code. A nil *Metrics
// is valid and records nothing; outcomes never depend on it.
type Metrics struct {
	calls      *prometheus.CounterVec
	revertCost prometheus.Counter
}

func NewMetrics(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "calls",
				Help:      "number of precompile calls by method and exit code",
			},
			[]string{"method", "exit"},
		),
		revertCost: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "revert_cost",
				Help:      "total partial gas charged on reverted calls",
			},
		),
	}
	if err := reg.Register(m.calls); err != nil {
		return nil, err
	}
	if err := reg.Register(m.revertCost); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) observe(function *StatefulPrecompileFunction, outcome Outcome) {
	if m == nil {
		return
	}
	method := "unknown"
	if function != nil {
		method = function.Name()
	}
	m.calls.WithLabelValues(method, outcome.Code.String()).Inc()
	if outcome.Kind == KindRevert {
		m.revertCost.Add(float64(outcome.Cost))
	}
}
