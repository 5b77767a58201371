package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GenerationDuration tracks the latency of bulk voucher generation
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "voucher_generation_duration_seconds",
			Help: "Duration of bulk voucher generation requests in seconds",
			Buckets: []float64{
				0.01,
				0.05,
				0.1,
				0.25,
				0.5,
				1.0,
				2.5,
				5.0,
				10.0,
				30.0,
			},
		},
		[]string{"result"}, // success or partial
	)

	// VouchersInserted counts voucher rows actually stored
	VouchersInserted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vouchers_inserted_total",
		Help: "Number of voucher rows actually inserted",
	})

	// CodeCollisions counts generated codes dropped as duplicates of stored ones
	CodeCollisions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voucher_code_collisions_total",
		Help: "Number of generated codes dropped because the code already existed",
	})
)

// RecordGenerationDuration records the duration of one generation request
func RecordGenerationDuration(result string, seconds float64) {
	GenerationDuration.WithLabelValues(result).Observe(seconds)
}

func AddVouchersInserted(n float64) {
	VouchersInserted.Add(n)
}

func AddCodeCollisions(n float64) {
	CodeCollisions.Add(n)
}
