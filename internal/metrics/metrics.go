// Package metrics records portal requests and upload outcomes for one run
// and writes them in the Prometheus text format, for pickup by the node
// exporter textfile collector.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Upload results used as the "result" label.
const (
	ResultUploaded = "uploaded"
	ResultSkipped  = "skipped"
	ResultFailed   = "failed"
	ResultDryRun   = "dry_run"
)

// Recorder owns a private registry so that runs and tests never share
// state through the global one.
type Recorder struct {
	reg *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	files           *prometheus.CounterVec
	uploadedBytes   prometheus.Counter
	lastRun         prometheus.Gauge
}

func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dataportal_requests_total",
				Help: "Portal API requests by method, endpoint and status code (0 = no response).",
			},
			[]string{"method", "endpoint", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dataportal_request_duration_seconds",
				Help:    "Portal API request duration, headers and body included.",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"method", "endpoint"},
		),
		files: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dataportal_files_total",
				Help: "Source files handled by upload, by result.",
			},
			[]string{"result"},
		),
		uploadedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dataportal_uploaded_bytes_total",
			Help: "Bytes of source files uploaded successfully.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dataportal_last_run_timestamp_seconds",
			Help: "Unix time the metrics file was written.",
		}),
	}
	r.reg.MustRegister(r.requests, r.requestDuration, r.files, r.uploadedBytes, r.lastRun)
	return r
}

// ObserveRequest implements portal.Observer.
func (r *Recorder) ObserveRequest(method, endpoint string, status int, elapsed time.Duration) {
	r.requests.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	r.requestDuration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}

// ObserveFile counts one source file. size is added to the uploaded byte
// total only for ResultUploaded.
func (r *Recorder) ObserveFile(result string, size int64) {
	r.files.WithLabelValues(result).Inc()
	if result == ResultUploaded && size > 0 {
		r.uploadedBytes.Add(float64(size))
	}
}

// Registry exposes the underlying registry for inspection.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// WriteFile stamps the run time and writes every metric to path. The file
// is replaced atomically.
func (r *Recorder) WriteFile(path string, now time.Time) error {
	r.lastRun.Set(float64(now.Unix()))
	return prometheus.WriteToTextfile(path, r.reg)
}
