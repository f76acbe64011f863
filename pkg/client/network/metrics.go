// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package network

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Node health metrics
var (
	mNodeUnhealthy = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hedera",
		Subsystem: "network",
		Name:      "node_unhealthy",
		Help:      "Number of times a node has been marked unhealthy",
	}, []string{"node"})
	mNodeHealthy = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hedera",
		Subsystem: "network",
		Name:      "node_healthy",
		Help:      "Number of times a node has been marked healthy",
	}, []string{"node"})
	mDial = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hedera",
		Subsystem: "network",
		Name:      "dial",
		Help:      "Number of node channels created",
	})
)
