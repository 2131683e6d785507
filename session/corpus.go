// Package session tracks the lifecycle of uploaded files through
// extraction: one state machine per file, and an aggregated corpus of
// the distinct text every file contributed.
//
// corpus.go implements the Corpus aggregator. Distinct text values are
// reference-counted: two files contributing byte-identical text share
// one corpus entry, and the entry survives until the last contributing
// file is removed.
package session

import "sync"

// Corpus aggregates extracted text across files, deduplicating identical
// text blocks and supporting removal of one file's contribution.
//
// Thread-Safety:
//   - Corpus is safe for concurrent use.
type Corpus struct {
	mu sync.Mutex

	// byFile maps file id to the exact text that file contributed
	byFile map[string]string

	// refs counts how many files currently contribute each text value
	refs map[string]int

	// order lists distinct text values in first-contribution order
	order []string
}

// NewCorpus creates an empty Corpus.
func NewCorpus() *Corpus {
	return &Corpus{
		byFile: make(map[string]string),
		refs:   make(map[string]int),
	}
}

// AddText records the text a file contributed. A file adding again
// replaces its previous contribution. Text already contributed by
// another file is not duplicated in the corpus.
func (c *Corpus) AddText(fileID, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, ok := c.byFile[fileID]; ok {
		if prev == text {
			return
		}
		c.release(prev)
	}

	c.byFile[fileID] = text
	c.refs[text]++
	if c.refs[text] == 1 {
		c.order = append(c.order, text)
	}
}

// RemoveText removes a file's contribution. The corpus entry disappears
// only when no remaining file contributes the same text. Unknown file
// ids are a no-op.
func (c *Corpus) RemoveText(fileID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	text, ok := c.byFile[fileID]
	if !ok {
		return
	}
	delete(c.byFile, fileID)
	c.release(text)
}

// release drops one reference to a text value; caller holds the lock.
func (c *Corpus) release(text string) {
	c.refs[text]--
	if c.refs[text] > 0 {
		return
	}
	delete(c.refs, text)
	for i, v := range c.order {
		if v == text {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Corpus returns the ordered sequence of distinct text values currently
// contributed by any tracked file. The returned slice is a copy.
func (c *Corpus) Corpus() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of distinct corpus entries.
func (c *Corpus) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// TextFor returns the text a file contributed, if any.
func (c *Corpus) TextFor(fileID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	text, ok := c.byFile[fileID]
	return text, ok
}
