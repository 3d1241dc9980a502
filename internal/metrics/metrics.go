// Package metrics exports the outcome of a scoring run in the Prometheus text
// format so node exporters and CI dashboards can pick it up.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"werscore/internal/corpus"
)

// Recorder owns a private registry holding the metrics of one run.
type Recorder struct {
	registry *prometheus.Registry

	corpusWER      prometheus.Gauge
	referenceWords prometheus.Gauge
	errors         *prometheus.GaugeVec
	utterances     prometheus.Gauge
	skipped        prometheus.Gauge
	utteranceWER   prometheus.Histogram
	duration       prometheus.Gauge
}

// NewRecorder registers the run metrics on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		corpusWER: factory.NewGauge(prometheus.GaugeOpts{
			Name: "werscore_corpus_wer",
			Help: "Corpus word error rate of the last run",
		}),
		referenceWords: factory.NewGauge(prometheus.GaugeOpts{
			Name: "werscore_reference_words",
			Help: "Reference words scored in the last run",
		}),
		errors: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "werscore_errors",
			Help: "Word errors of the last run by type",
		}, []string{"type"}),
		utterances: factory.NewGauge(prometheus.GaugeOpts{
			Name: "werscore_utterances",
			Help: "Utterances scored in the last run",
		}),
		skipped: factory.NewGauge(prometheus.GaugeOpts{
			Name: "werscore_utterances_skipped",
			Help: "Utterances skipped for an empty reference",
		}),
		utteranceWER: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "werscore_utterance_wer",
			Help:    "Per-utterance word error rate",
			Buckets: []float64{0, 0.05, 0.1, 0.2, 0.3, 0.5, 0.75, 1.0, 1.5, 2.0},
		}),
		duration: factory.NewGauge(prometheus.GaugeOpts{
			Name: "werscore_run_duration_seconds",
			Help: "Wall time spent scoring the last run",
		}),
	}
}

// Observe records stats and the time the run took.
func (r *Recorder) Observe(stats *corpus.CorpusStats, elapsed time.Duration) {
	subs, dels, ins := stats.Counts()
	r.corpusWER.Set(stats.WER)
	r.referenceWords.Set(float64(stats.RefWords))
	r.errors.WithLabelValues("substitution").Set(float64(subs))
	r.errors.WithLabelValues("deletion").Set(float64(dels))
	r.errors.WithLabelValues("insertion").Set(float64(ins))
	r.utterances.Set(float64(len(stats.Utterances)))
	r.skipped.Set(float64(len(stats.Skipped)))
	for _, u := range stats.Utterances {
		r.utteranceWER.Observe(u.WER)
	}
	r.duration.Set(elapsed.Seconds())
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes every recorded metric to path. The file is replaced
// atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
