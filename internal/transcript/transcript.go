// Package transcript reads reference and hypothesis transcript files.
//
// A transcript file is a single JSON object mapping utterance ids to text.
// Utterances are returned in document order because that order drives the
// processing and reporting order of a scoring run.
package transcript

import (
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// ErrInvalidTranscript marks documents that are not an object of strings.
var ErrInvalidTranscript = errors.New("invalid transcript")

// Utterance is one id/text entry of a transcript file.
type Utterance struct {
	ID   string
	Text string
}

// Set is an ordered collection of utterances with id lookup.
type Set struct {
	Source     string
	Utterances []Utterance
	index      map[string]int
}

// Lookup returns the text stored for id.
func (s *Set) Lookup(id string) (string, bool) {
	if s == nil {
		return "", false
	}
	idx, ok := s.index[id]
	if !ok {
		return "", false
	}
	return s.Utterances[idx].Text, true
}

// Len returns the number of distinct utterance ids.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Utterances)
}

// Load reads a transcript file from disk.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes a transcript document. When an id repeats, the last text wins
// and the id keeps the position of its first occurrence.
func Parse(source string, data []byte) (*Set, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: %s: malformed JSON", ErrInvalidTranscript, source)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: %s: expected a JSON object of id to text", ErrInvalidTranscript, source)
	}

	set := &Set{Source: source, index: make(map[string]int)}
	var parseErr error
	doc.ForEach(func(key, value gjson.Result) bool {
		id := key.String()
		if value.Type != gjson.String {
			parseErr = fmt.Errorf("%w: %s: utterance %q: expected string, got %s", ErrInvalidTranscript, source, id, value.Type)
			return false
		}
		if idx, ok := set.index[id]; ok {
			set.Utterances[idx].Text = value.Str
			return true
		}
		set.index[id] = len(set.Utterances)
		set.Utterances = append(set.Utterances, Utterance{ID: id, Text: value.Str})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return set, nil
}
