// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package execute

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mExecutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hedera",
		Subsystem: "execute",
		Name:      "executions",
		Help:      "Number of executions, by outcome",
	}, []string{"outcome"})
	mAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hedera",
		Subsystem: "execute",
		Name:      "attempts",
		Help:      "Number of attempts across all executions",
	})
	mFailovers = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hedera",
		Subsystem: "execute",
		Name:      "failovers",
		Help:      "Number of times a request moved on to the next node",
	})
	mBackoff = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hedera",
		Subsystem: "execute",
		Name:      "backoff_seconds",
		Help:      "Time spent backing off between attempts",
		Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
	})
)
