package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/amorell/av1batch/pkg/models"
)

var (
	// FilesProcessed counts candidate files by outcome.
	FilesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "av1batch",
			Name:      "files_processed_total",
			Help:      "Total number of candidate files by outcome",
		},
		[]string{"outcome"},
	)

	// ProbeDuration tracks the time taken by ffprobe calls.
	ProbeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "av1batch",
			Name:      "probe_duration_seconds",
			Help:      "Time taken to probe a file's codec",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5},
		},
	)

	// EncodeDuration tracks the time taken by ffmpeg encodes.
	EncodeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "av1batch",
			Name:      "encode_duration_seconds",
			Help:      "Time taken to encode a file to AV1",
			Buckets:   []float64{10, 30, 60, 120, 300, 600, 1200},
		},
	)

	// UploadDuration tracks the time taken to upload converted files to S3.
	UploadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "av1batch",
			Name:      "upload_duration_seconds",
			Help:      "Time taken to upload converted files to S3",
			Buckets:   []float64{1, 5, 10, 30, 60, 120},
		},
	)

	// InputBytes counts bytes of successfully converted source files.
	InputBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "av1batch",
			Name:      "input_bytes_total",
			Help:      "Bytes of source files that were converted",
		},
	)

	// OutputBytes counts bytes of produced AV1 files.
	OutputBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "av1batch",
			Name:      "output_bytes_total",
			Help:      "Bytes of AV1 files produced",
		},
	)
)

// RecordOutcome records the outcome of one candidate file.
func RecordOutcome(o models.Outcome) {
	FilesProcessed.WithLabelValues(string(o)).Inc()
}

// RecordSizes records source and output sizes for a successful conversion.
func RecordSizes(in, out int64) {
	InputBytes.Add(float64(in))
	OutputBytes.Add(float64(out))
}
