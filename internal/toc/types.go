// Package toc reads the table of contents of the root index page and
// flattens each entry's sub-document into an ordered list of member pages.
package toc

import "errors"

// ErrNoTOC is wrapped when an index page has no table-of-contents container.
var ErrNoTOC = errors.New("no table of contents container")

// Entry is one anchor of the root table of contents.
type Entry struct {
	Path  string // relative to the input root, slash separated
	Title string
}

// Section groups consecutive entries under the most recent section label.
// Label is empty when no label preceded the list.
type Section struct {
	Label   string
	Entries []Entry
}
