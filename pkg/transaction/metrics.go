// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package transaction

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var mChunks = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "hedera",
	Subsystem: "transaction",
	Name:      "chunks_submitted",
	Help:      "Number of chunks accepted by a node, by method",
}, []string{"method"})
