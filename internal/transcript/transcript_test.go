package transcript_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"werscore/internal/transcript"
)

func TestParsePreservesDocumentOrder(t *testing.T) {
	set, err := transcript.Parse("ref.json", []byte(`{"utt3": "c", "utt1": "a b", "utt2": ""}`))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if set.Len() != 3 {
		t.Fatalf("Len = %d, want 3", set.Len())
	}
	wantIDs := []string{"utt3", "utt1", "utt2"}
	for i, id := range wantIDs {
		if set.Utterances[i].ID != id {
			t.Fatalf("position %d: got %q want %q", i, set.Utterances[i].ID, id)
		}
	}
	if text, ok := set.Lookup("utt1"); !ok || text != "a b" {
		t.Fatalf("Lookup(utt1) = %q, %v", text, ok)
	}
	if _, ok := set.Lookup("missing"); ok {
		t.Fatal("expected missing id lookup to fail")
	}
}

func TestParseDuplicateKeepsFirstPositionLastValue(t *testing.T) {
	set, err := transcript.Parse("hyp.json", []byte(`{"a": "one", "b": "two", "a": "three"}`))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("Len = %d, want 2", set.Len())
	}
	if set.Utterances[0].ID != "a" || set.Utterances[0].Text != "three" {
		t.Fatalf("unexpected first utterance: %+v", set.Utterances[0])
	}
}

func TestParseDecodesEscapes(t *testing.T) {
	set, err := transcript.Parse("ref.json", []byte(`{"u1": "café \"quoted\""}`))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	text, ok := set.Lookup("u1")
	if !ok || text != "café \"quoted\"" {
		t.Fatalf("Lookup(u1) = %q, %v", text, ok)
	}
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	cases := map[string]string{
		"malformed":  `{"a": "b"`,
		"array":      `["a", "b"]`,
		"non_string": `{"a": 1}`,
		"nested":     `{"a": {"b": "c"}}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := transcript.Parse("bad.json", []byte(doc))
			if !errors.Is(err, transcript.ErrInvalidTranscript) {
				t.Fatalf("expected ErrInvalidTranscript, got %v", err)
			}
		})
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.json")
	if err := os.WriteFile(path, []byte(`{"x": "hello world"}`), 0o644); err != nil {
		t.Fatalf("write transcript: %v", err)
	}
	set, err := transcript.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if set.Source != path || set.Len() != 1 {
		t.Fatalf("unexpected set: %+v", set)
	}
	if _, err := transcript.Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
