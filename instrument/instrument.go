// Package instrument wraps a jsonfrag.Codec with Prometheus metrics.
package instrument

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/RobertWHurst/jsonfrag"
)

// Metrics holds the collectors shared by all instrumented codecs registered
// against the same registerer.
type Metrics struct {
	duration    *prometheus.HistogramVec
	payloadSize *prometheus.HistogramVec
	errors      *prometheus.CounterVec
}

// NewMetrics creates and registers the codec metrics with reg. A nil reg
// creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "jsonfrag",
			Name:      "codec_operation_duration_seconds",
			Help:      "Time spent encoding and decoding documents.",
			// Most documents are small: smallest bucket is 1us, biggest ~1s.
			Buckets: prometheus.ExponentialBuckets(0.000001, 4, 11),
		}, []string{"codec", "method", "status"}),

		payloadSize: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "jsonfrag",
			Name:      "codec_payload_size_bytes",
			Help:      "Size of encoded documents produced or consumed.",
			// 64B to 16MB.
			Buckets: prometheus.ExponentialBuckets(64, 4, 10),
		}, []string{"codec", "method"}),

		errors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jsonfrag",
			Name:      "codec_errors_total",
			Help:      "Total count of failed codec operations by error kind.",
		}, []string{"codec", "method", "kind"}),
	}
}

// Instrument returns a codec that records metrics for every call to c under
// the given name.
func Instrument(name string, c jsonfrag.Codec, m *Metrics) jsonfrag.Codec {
	return &instrumentedCodec{
		name:    name,
		Codec:   c,
		metrics: m,

		encodedSize: m.payloadSize.WithLabelValues(name, "encode"),
		decodedSize: m.payloadSize.WithLabelValues(name, "decode"),
	}
}

type instrumentedCodec struct {
	name string
	jsonfrag.Codec
	metrics *Metrics

	encodedSize, decodedSize prometheus.Observer
}

func (i *instrumentedCodec) Encode(v any) ([]byte, error) {
	start := time.Now()
	data, err := i.Codec.Encode(v)
	i.observe("encode", start, err)
	if err == nil {
		i.encodedSize.Observe(float64(len(data)))
	}
	return data, err
}

func (i *instrumentedCodec) Decode(data []byte, v any) error {
	i.decodedSize.Observe(float64(len(data)))
	start := time.Now()
	err := i.Codec.Decode(data, v)
	i.observe("decode", start, err)
	return err
}

func (i *instrumentedCodec) observe(method string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
		i.metrics.errors.WithLabelValues(i.name, method, jsonfrag.KindOf(err)).Inc()
	}
	i.metrics.duration.WithLabelValues(i.name, method, status).Observe(time.Since(start).Seconds())
}
