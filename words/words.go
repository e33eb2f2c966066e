// Package words holds the vocabulary model: words, sets, and the deck a
// drill session plays from.
package words

import (
	"strings"

	"github.com/google/uuid"
)

// Word is one vocabulary entry. English is the drilled term and Chinese its
// translation. Selected marks membership in the drill; Done marks a word the
// user considers learned.
type Word struct {
	ID       string `json:"id"`
	English  string `json:"english"`
	Chinese  string `json:"chinese"`
	Selected bool   `json:"selected"`
	Done     bool   `json:"done,omitempty"`
}

// New creates a selected, not-done word with a fresh id.
func New(english, chinese string) Word {
	return Word{
		ID:       uuid.NewString(),
		English:  strings.TrimSpace(english),
		Chinese:  strings.TrimSpace(chinese),
		Selected: true,
	}
}

// Set is the metadata of one word set. The set's words are stored separately
// under its id.
type Set struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Tags  []string `json:"tags,omitempty"`
}

// NewSet creates a set with a fresh id.
func NewSet(title string, tags ...string) Set {
	return Set{
		ID:    uuid.NewString(),
		Title: strings.TrimSpace(title),
		Tags:  tags,
	}
}

// TagMap groups set ids by tag.
type TagMap map[string][]string

// BuildTagMap indexes sets by their tags, preserving set order within each
// tag.
func BuildTagMap(sets []Set) TagMap {
	m := make(TagMap)
	for _, s := range sets {
		for _, tag := range s.Tags {
			m[tag] = append(m[tag], s.ID)
		}
	}
	return m
}
