// Package rewrite implements the page cleanup pipeline applied to every HTML
// file of the source tree.
//
// The pipeline runs as a sequence of named stages over one parsed page:
//  1. Rewrite the declared charset of Content-Type metas
//  2. Remove (or, when preserving titles, rewrite) the page title
//  3. Remove the site toc and page header chrome
//  4. Remove the inline chapter toc inside the content container
//  5. Remove the return-to-top footer and everything after it
//  6. Unwrap the content container
//  7. Demote headings one level when the page has an h1
//  8. Rename element ids already used earlier in the run
//
// Later stages depend on earlier removals: the title rewrite reads the toc
// before stage 3 drops it, and stage 6 must run after stage 4 has scanned
// the container's direct children.
package rewrite

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/togaf-epub/togafcleanup/internal/config"
)

// Doc is one page moving through the pipeline. Stages edit Root in place.
type Doc struct {
	RelPath string // input-relative, slash separated
	Root    *html.Node
	IDs     *IDRegistry

	Title    string // normalized <title> text; the rewritten title when Retitled
	Retitled bool   // set by stage 2 in title-preserving mode for index pages
}

// Stage is one in-place tree edit.
type Stage struct {
	Name  string
	Apply func(doc *Doc, cfg *config.Config) error
}

// Stages returns the pipeline in execution order.
func Stages() []Stage {
	return []Stage{
		{Name: "fix charset", Apply: stageFixCharset},
		{Name: "title", Apply: stageTitle},
		{Name: "remove chrome", Apply: stageRemoveChrome},
		{Name: "remove chapter toc", Apply: stageRemoveChapterTOC},
		{Name: "remove footer", Apply: stageRemoveFooter},
		{Name: "unwrap content", Apply: stageUnwrapContent},
		{Name: "shift headings", Apply: stageShiftHeadings},
		{Name: "dedupe ids", Apply: stageDedupeIDs},
	}
}

// Pipeline runs every stage on doc.
func Pipeline(doc *Doc, cfg *config.Config) error {
	if doc.IDs == nil {
		doc.IDs = NewIDRegistry()
	}
	for _, s := range Stages() {
		if err := s.Apply(doc, cfg); err != nil {
			return fmt.Errorf("%s: %w", s.Name, err)
		}
	}
	return nil
}

// Rewriter applies the pipeline to successive pages of one run, sharing a
// single identifier registry between them.
type Rewriter struct {
	Config *config.Config
	IDs    *IDRegistry
}

func NewRewriter(cfg *config.Config, ids *IDRegistry) *Rewriter {
	if ids == nil {
		ids = NewIDRegistry()
	}
	return &Rewriter{Config: cfg, IDs: ids}
}

// Rewrite cleans the parsed page at relPath in place.
func (r *Rewriter) Rewrite(relPath string, root *html.Node) (*Doc, error) {
	doc := &Doc{RelPath: relPath, Root: root, IDs: r.IDs}
	if err := Pipeline(doc, r.Config); err != nil {
		return doc, fmt.Errorf("rewrite %s: %w", relPath, err)
	}
	return doc, nil
}
