package main

import (
	"context"
	"encoding/json"
	"testing"

	"werscore/internal/history"
	"werscore/internal/testsupport"
)

func TestHistoryListAndShow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"history", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	requireContains(t, out, "No runs recorded")

	ref, hyp := env.writeTranscripts(t, sampleRef, sampleHyp)
	if _, _, err := runCLI(t, []string{ref, hyp, "--empty-ref", "skip"}, env.configPath); err != nil {
		t.Fatalf("score: %v", err)
	}

	store := testsupport.MustOpenStore(t, env.cfg)
	runs, err := store.List(context.Background(), 1)
	if err != nil || len(runs) != 1 {
		t.Fatalf("List: %v (%d runs)", err, len(runs))
	}
	runID := runs[0].ID

	out, _, err = runCLI(t, []string{"history", "list", "--limit", "5"}, env.configPath)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	requireContains(t, out, runID[:8])
	requireContains(t, out, "40.00")

	out, _, err = runCLI(t, []string{"history", "show", runID[:8]}, env.configPath)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, runID)
	requireContains(t, out, "%WER 40.00 [ 2 / 5, 1 ins, 1 del, 0 sub ]")
	requireContains(t, out, "Policy:     skip")
	requireContains(t, out, "u2")

	out, _, err = runCLI(t, []string{"history", "show", runID, "--output", "json"}, env.configPath)
	if err != nil {
		t.Fatalf("history show json: %v", err)
	}
	var detail history.RunDetail
	if err := json.Unmarshal([]byte(out), &detail); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if detail.ID != runID || len(detail.Utterances) != 2 || detail.Utterances[0].UtteranceID != "u1" {
		t.Fatalf("unexpected detail: %+v", detail)
	}

	if _, _, err := runCLI(t, []string{"history", "show", "does-not-exist"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown run")
	}
}
