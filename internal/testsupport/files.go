package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Transcript builds a transcript document from alternating id/text values,
// preserving their order.
func Transcript(t testing.TB, idText ...string) string {
	t.Helper()

	if len(idText)%2 != 0 {
		t.Fatalf("Transcript needs id/text pairs, got %d values", len(idText))
	}
	var b strings.Builder
	b.WriteByte('{')
	for i := 0; i < len(idText); i += 2 {
		if i > 0 {
			b.WriteString(", ")
		}
		key, err := json.Marshal(idText[i])
		if err != nil {
			t.Fatalf("marshal id: %v", err)
		}
		value, err := json.Marshal(idText[i+1])
		if err != nil {
			t.Fatalf("marshal text: %v", err)
		}
		b.Write(key)
		b.WriteString(": ")
		b.Write(value)
	}
	b.WriteByte('}')
	return b.String()
}

// WriteTranscript writes a transcript document into dir and returns its path.
func WriteTranscript(t testing.TB, dir, name, doc string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write transcript %s: %v", name, err)
	}
	return path
}
