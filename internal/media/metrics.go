package media

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Observer captures telemetry for media store calls.
type Observer interface {
	RecordUpload(duration time.Duration, sizeBytes int, err error)
	RecordDelete(duration time.Duration, objects int, err error)
}

type PrometheusObserver struct {
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
	bytes    prometheus.Counter
	deleted  prometheus.Counter
}

// NewPrometheusObserver registers the media metrics on reg, reusing collectors
// that are already registered.
func NewPrometheusObserver(namespace string, reg prometheus.Registerer) (*PrometheusObserver, error) {
	if namespace == "" {
		namespace = "offer_media"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	o := &PrometheusObserver{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of media store operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_errors_total",
			Help:      "Failed media store operations.",
		}, []string{"operation"}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploaded_bytes_total",
			Help:      "Bytes successfully uploaded to the media store.",
		}),
		deleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deleted_objects_total",
			Help:      "Objects removed from the media store.",
		}),
	}

	register := func(c prometheus.Collector) (prometheus.Collector, error) {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				return are.ExistingCollector, nil
			}
			return nil, fmt.Errorf("register media metric: %w", err)
		}
		return c, nil
	}

	c, err := register(o.duration)
	if err != nil {
		return nil, err
	}
	o.duration = c.(*prometheus.HistogramVec)
	if c, err = register(o.failures); err != nil {
		return nil, err
	}
	o.failures = c.(*prometheus.CounterVec)
	if c, err = register(o.bytes); err != nil {
		return nil, err
	}
	o.bytes = c.(prometheus.Counter)
	if c, err = register(o.deleted); err != nil {
		return nil, err
	}
	o.deleted = c.(prometheus.Counter)
	return o, nil
}

func (o *PrometheusObserver) RecordUpload(duration time.Duration, sizeBytes int, err error) {
	if o == nil {
		return
	}
	o.duration.WithLabelValues("upload").Observe(duration.Seconds())
	if err != nil {
		o.failures.WithLabelValues("upload").Inc()
		return
	}
	o.bytes.Add(float64(sizeBytes))
}

func (o *PrometheusObserver) RecordDelete(duration time.Duration, objects int, err error) {
	if o == nil {
		return
	}
	o.duration.WithLabelValues("delete").Observe(duration.Seconds())
	if err != nil {
		o.failures.WithLabelValues("delete").Inc()
		return
	}
	o.deleted.Add(float64(objects))
}

type nopObserver struct{}

func (nopObserver) RecordUpload(time.Duration, int, error) {}
func (nopObserver) RecordDelete(time.Duration, int, error) {}

func resolveObserver(o Observer) Observer {
	if o == nil {
		return nopObserver{}
	}
	return o
}
