package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"werscore/internal/config"
	"werscore/internal/history"
	"werscore/internal/report"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded scoring runs",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))

	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent scoring runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("limit") {
				limit = cfg.History.ListLimit
			}
			return withHistoryStore(cfg, func(store *history.Store) error {
				runs, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						shortID(run.ID),
						run.CreatedAt.Local().Format(time.DateTime),
						formatPercent(run.WER),
						strconv.Itoa(run.Errors()),
						strconv.Itoa(run.ReferenceWords),
						strconv.Itoa(run.UtteranceCount),
						run.ReferencePath,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Created", "WER", "Errors", "Words", "Utterances", "Reference"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
					shouldColorize(out),
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of runs to show (default from config)")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Show one scoring run with its per-utterance results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(strings.TrimSpace(output))
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return withHistoryStore(cfg, func(store *history.Store) error {
				detail, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if format != report.FormatText {
					return writeStructured(cmd, format, detail)
				}
				renderRunDetail(cmd, detail)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", string(report.FormatText), "Output format: text, json or yaml")
	return cmd
}

func renderRunDetail(cmd *cobra.Command, detail *history.RunDetail) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:        %s\n", detail.ID)
	fmt.Fprintf(out, "Created:    %s\n", detail.CreatedAt.Local().Format(time.DateTime))
	if detail.ReferencePath != "" {
		fmt.Fprintf(out, "Reference:  %s\n", detail.ReferencePath)
	}
	if detail.HypothesisPath != "" {
		fmt.Fprintf(out, "Hypothesis: %s\n", detail.HypothesisPath)
	}
	fmt.Fprintf(out, "%%WER %.2f [ %d / %d, %d ins, %d del, %d sub ]\n",
		detail.WER*100, detail.Errors(), detail.ReferenceWords, detail.Insertions, detail.Deletions, detail.Substitutions)
	fmt.Fprintf(out, "Policy:     %s (case fold: %s, nfc: %s, workers: %d)\n",
		detail.Options.EmptyReference, yesNo(detail.Options.CaseFold), yesNo(detail.Options.UnicodeNFC), detail.Options.Workers)
	if len(detail.Skipped) > 0 {
		fmt.Fprintf(out, "Skipped:    %s\n", strings.Join(detail.Skipped, ", "))
	}
	if len(detail.Utterances) == 0 {
		return
	}

	rows := make([][]string, 0, len(detail.Utterances))
	for _, u := range detail.Utterances {
		rows = append(rows, []string{
			u.UtteranceID,
			formatPercent(u.WER),
			strconv.Itoa(u.Substitutions),
			strconv.Itoa(u.Deletions),
			strconv.Itoa(u.Insertions),
			strconv.Itoa(u.ReferenceWords),
		})
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderTable(
		[]string{"Utterance", "WER", "Sub", "Del", "Ins", "Words"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
		shouldColorize(out),
	))
}

func withHistoryStore(cfg *config.Config, fn func(*history.Store) error) error {
	store, err := history.Open(cfg)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func recordRun(ctx context.Context, cfg *config.Config, detail history.RunDetail) error {
	return withHistoryStore(cfg, func(store *history.Store) error {
		_, err := store.Record(ctx, detail)
		return err
	})
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatPercent(rate float64) string {
	return strconv.FormatFloat(rate*100, 'f', 2, 64)
}
