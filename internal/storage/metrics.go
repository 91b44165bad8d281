package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Observer receives telemetry for storage operations.
type Observer interface {
	RecordUpload(bucket Bucket, duration time.Duration, sizeBytes int64, err error)
	RecordOperation(op string, bucket Bucket, duration time.Duration, err error)
	RecordRejected(bucket Bucket)
}

// PrometheusObserver exports storage metrics to Prometheus.
type PrometheusObserver struct {
	duration  *prometheus.HistogramVec
	failures  *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	bytesSent *prometheus.CounterVec
}

// NewPrometheusObserver registers the storage collectors on reg, reusing
// collectors that are already registered under the same names.
func NewPrometheusObserver(namespace string, reg prometheus.Registerer) (*PrometheusObserver, error) {
	if namespace == "" {
		namespace = "csomedia_storage"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	o := &PrometheusObserver{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of object storage operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "bucket"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_errors_total",
			Help:      "Count of failed object storage operations.",
		}, []string{"operation", "bucket"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_rejections_total",
			Help:      "Uploads rejected by validation before reaching storage.",
		}, []string{"bucket"}),
		bytesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploaded_bytes_total",
			Help:      "Payload bytes successfully uploaded.",
		}, []string{"bucket"}),
	}

	var err error
	if o.duration, err = register(reg, o.duration); err != nil {
		return nil, err
	}
	if o.failures, err = register(reg, o.failures); err != nil {
		return nil, err
	}
	if o.rejected, err = register(reg, o.rejected); err != nil {
		return nil, err
	}
	if o.bytesSent, err = register(reg, o.bytesSent); err != nil {
		return nil, err
	}
	return o, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	return c, fmt.Errorf("register storage metric: %w", err)
}

func (o *PrometheusObserver) RecordUpload(bucket Bucket, duration time.Duration, sizeBytes int64, err error) {
	if o == nil {
		return
	}
	o.RecordOperation("upload", bucket, duration, err)
	if err == nil {
		o.bytesSent.WithLabelValues(bucket.String()).Add(float64(sizeBytes))
	}
}

func (o *PrometheusObserver) RecordOperation(op string, bucket Bucket, duration time.Duration, err error) {
	if o == nil {
		return
	}
	o.duration.WithLabelValues(op, bucket.String()).Observe(duration.Seconds())
	if err != nil {
		o.failures.WithLabelValues(op, bucket.String()).Inc()
	}
}

func (o *PrometheusObserver) RecordRejected(bucket Bucket) {
	if o == nil {
		return
	}
	o.rejected.WithLabelValues(bucket.String()).Inc()
}

type nopObserver struct{}

func (nopObserver) RecordUpload(Bucket, time.Duration, int64, error) {}

func (nopObserver) RecordOperation(string, Bucket, time.Duration, error) {}

func (nopObserver) RecordRejected(Bucket) {}
