package search

import (
	"context"
	"strings"
)

// Indexer receives every rewritten page of a run.
type Indexer interface {
	IndexPage(ctx context.Context, doc Document) error
	Close() error
}

// Document is one rewritten page.
type Document struct {
	Path    string // output-relative, slash separated
	Title   string
	Content string // normalized body text
}

// Part returns the top-level directory of the page, which groups the pages
// of one part of the document set. Pages at the root have no part.
func (d Document) Part() string {
	if i := strings.IndexByte(d.Path, '/'); i > 0 {
		return d.Path[:i]
	}
	return ""
}
