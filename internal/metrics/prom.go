// README: Prometheus sink for dispatch outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Dispatch outcome labels.
const (
	OutcomeMatched    = "matched"
	OutcomeNoHospital = "no_eligible_hospital"
	OutcomeError      = "error"
)

// PromSink records dispatch events in Prometheus metrics.
type PromSink struct {
	dispatches *prometheus.CounterVec
	distance   prometheus.Histogram
	resolved   *prometheus.CounterVec
}

// NewPromSink registers dispatch metrics on the provided registerer. If
// reg is nil, the default registerer is used. Already-registered
// collectors are reused so repeated construction is safe.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	dispatches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_requests_total",
		Help: "Total number of dispatch attempts by outcome",
	}, []string{"outcome"})
	distance := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dispatch_matched_distance_km",
		Help:    "Great-circle distance to the matched hospital",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
	})
	resolved := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_resolutions_total",
		Help: "Total number of request resolutions by decision",
	}, []string{"decision"})

	if err := reg.Register(dispatches); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			dispatches = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(distance); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			distance = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(resolved); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			resolved = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{dispatches: dispatches, distance: distance, resolved: resolved}, nil
}

// RecordDispatch increments the outcome counter.
func (s *PromSink) RecordDispatch(outcome string) {
	s.dispatches.WithLabelValues(outcome).Inc()
}

// RecordMatchDistance records the distance of a successful match.
func (s *PromSink) RecordMatchDistance(km float64) {
	s.distance.Observe(km)
}

// RecordResolution increments the decision counter.
func (s *PromSink) RecordResolution(decision string) {
	s.resolved.WithLabelValues(decision).Inc()
}
