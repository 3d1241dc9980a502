package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"werscore/internal/config"
	"werscore/internal/corpus"
	"werscore/internal/history"
	"werscore/internal/logging"
	"werscore/internal/metrics"
	"werscore/internal/report"
	"werscore/internal/textutil"
	"werscore/internal/transcript"
)

type scoreOptions struct {
	detailsPath     string
	output          string
	top             int
	workers         int
	emptyReference  string
	caseFold        bool
	unicodeNFC      bool
	metricsTextfile string
	noHistory       bool
}

func (o *scoreOptions) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&o.detailsPath, "wer-details", "", "Write per-utterance detail statistics to this file")
	flags.StringVarP(&o.output, "output", "o", string(report.FormatText), "Output format: text, json or yaml")
	flags.IntVar(&o.top, "top", 0, "Show the N most frequent substitutions, deletions and insertions")
	flags.IntVar(&o.workers, "workers", 0, "Number of concurrent alignments (default from config)")
	flags.StringVar(&o.emptyReference, "empty-ref", "", "Empty reference policy: abort or skip (default from config)")
	flags.BoolVar(&o.caseFold, "case-fold", false, "Fold case before comparing tokens")
	flags.BoolVar(&o.unicodeNFC, "nfc", false, "Apply Unicode NFC normalization before comparing tokens")
	flags.StringVar(&o.metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics for the run to this file")
	flags.BoolVar(&o.noHistory, "no-history", false, "Do not record the run in the history database")
}

// scoreSettings is the effective configuration of one run after flags have
// been layered over the config file.
type scoreSettings struct {
	format          report.Format
	policy          corpus.EmptyReferencePolicy
	workers         int
	normalization   textutil.Normalization
	metricsTextfile string
	recordHistory   bool
}

func (o *scoreOptions) resolve(cmd *cobra.Command, cfg *config.Config) (scoreSettings, error) {
	flags := cmd.Flags()
	format, err := report.ParseFormat(strings.TrimSpace(o.output))
	if err != nil {
		return scoreSettings{}, err
	}
	if o.top < 0 {
		return scoreSettings{}, fmt.Errorf("--top must not be negative, got %d", o.top)
	}

	policyValue := cfg.Scoring.EmptyReference
	if flags.Changed("empty-ref") {
		policyValue = strings.TrimSpace(o.emptyReference)
	}
	policy, err := corpus.ParsePolicy(policyValue)
	if err != nil {
		return scoreSettings{}, err
	}

	workers := cfg.Scoring.Workers
	if flags.Changed("workers") {
		if o.workers < 1 {
			return scoreSettings{}, fmt.Errorf("--workers must be positive, got %d", o.workers)
		}
		workers = o.workers
	}

	textfile := cfg.Metrics.Textfile
	if flags.Changed("metrics-textfile") {
		textfile, err = config.ExpandPath(strings.TrimSpace(o.metricsTextfile))
		if err != nil {
			return scoreSettings{}, fmt.Errorf("resolve metrics textfile: %w", err)
		}
	}

	return scoreSettings{
		format:  format,
		policy:  policy,
		workers: workers,
		normalization: textutil.Normalization{
			CaseFold: cfg.Scoring.CaseFold || o.caseFold,
			NFC:      cfg.Scoring.UnicodeNFC || o.unicodeNFC,
		},
		metricsTextfile: textfile,
		recordHistory:   cfg.History.Enabled && !o.noHistory,
	}, nil
}

func runScore(cmd *cobra.Command, ctx *commandContext, opts *scoreOptions, refPath, hypPath string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	settings, err := opts.resolve(cmd, cfg)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	runCtx := logging.WithRunID(cmd.Context(), runID)
	logger = logging.WithContext(runCtx, logging.NewComponentLogger(logger, "score"))

	refs, err := transcript.Load(refPath)
	if err != nil {
		return err
	}
	hyps, err := transcript.Load(hypPath)
	if err != nil {
		return err
	}
	logger.Info("transcripts loaded",
		logging.String("reference", refPath),
		logging.Int("reference_utterances", refs.Len()),
		logging.String("hypothesis", hypPath),
		logging.Int("hypothesis_utterances", hyps.Len()),
	)

	pairs, err := corpus.Pair(refs, hyps, textutil.NewTokenizer(settings.normalization), logger)
	if err != nil {
		return err
	}

	started := time.Now()
	stats, err := corpus.Aggregate(runCtx, pairs, corpus.Options{
		EmptyReference: settings.policy,
		Workers:        settings.workers,
		Logger:         logger,
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(started)
	logger.Info("scoring complete",
		logging.Float64("wer", stats.WER),
		logging.Int("errors", stats.Errors()),
		logging.Int("reference_words", stats.RefWords),
		logging.Duration("elapsed", elapsed),
	)

	if path := strings.TrimSpace(opts.detailsPath); path != "" {
		if err := report.SaveDetails(path, stats); err != nil {
			return fmt.Errorf("write details: %w", err)
		}
		logger.Info("detail report written", logging.String("path", path))
	}

	if settings.metricsTextfile != "" {
		rec := metrics.NewRecorder()
		rec.Observe(stats, elapsed)
		if err := rec.WriteTextfile(settings.metricsTextfile); err != nil {
			return err
		}
		logger.Info("metrics written", logging.String("path", settings.metricsTextfile))
	}

	createdAt := time.Now().UTC()
	if err := writeScoreOutput(cmd, settings.format, opts.top, stats, report.Summary{
		RunID:      runID,
		CreatedAt:  createdAt,
		Reference:  refPath,
		Hypothesis: hypPath,
	}); err != nil {
		return err
	}

	if settings.recordHistory {
		detail := history.NewRunDetail(stats, refPath, hypPath, history.Options{
			EmptyReference: string(settings.policy),
			CaseFold:       settings.normalization.CaseFold,
			UnicodeNFC:     settings.normalization.NFC,
			Workers:        settings.workers,
		})
		detail.ID = runID
		detail.CreatedAt = createdAt
		if err := recordRun(runCtx, cfg, detail); err != nil {
			logger.Warn("run history not recorded", logging.Error(err))
		}
	}
	return nil
}

func writeScoreOutput(cmd *cobra.Command, format report.Format, top int, stats *corpus.CorpusStats, meta report.Summary) error {
	out := cmd.OutOrStdout()
	switch format {
	case report.FormatJSON, report.FormatYAML:
		summary := report.NewSummary(stats)
		summary.RunID = meta.RunID
		summary.CreatedAt = meta.CreatedAt
		summary.Reference = meta.Reference
		summary.Hypothesis = meta.Hypothesis
		return writeStructured(cmd, format, summary)
	default:
		if _, err := fmt.Fprintln(out, report.PrimaryLine(stats)); err != nil {
			return err
		}
		if top > 0 {
			return writeConfusionTables(out, report.TopConfusions(stats, top))
		}
		return nil
	}
}
