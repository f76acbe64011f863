// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package query

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var mPayments = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "hedera",
	Subsystem: "query",
	Name:      "payments_tinybars",
	Help:      "Tinybars paid to nodes for answering queries",
})
