package toc

import (
	"fmt"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/togaf-epub/togafcleanup/internal/config"
	"github.com/togaf-epub/togafcleanup/internal/htmltree"
)

// Parse reads the root index document's table of contents. Each list that is
// a direct child of the container becomes one Section labelled by the most
// recent section-title child; lists that yield no entries are dropped.
func Parse(root *html.Node, cfg *config.Config) ([]Section, error) {
	container := htmltree.ElementByID(root, cfg.IDs.TOC)
	if container == nil {
		return nil, &htmltree.StructuralError{Path: "index.html", Reason: "root index", Err: ErrNoTOC}
	}

	var (
		sections []Section
		label    string
		err      error
	)
	goquery.NewDocumentFromNode(container).Children().EachWithBreak(func(_ int, child *goquery.Selection) bool {
		if id, _ := child.Attr("id"); cfg.IDs.SectionTitle != "" && id == cfg.IDs.SectionTitle {
			label = htmltree.NormalizeText(child.Text())
			return true
		}
		if !child.Is("ul, ol") {
			return true
		}
		var entries []Entry
		entries, err = parseList(child, cfg)
		if err != nil {
			return false
		}
		if len(entries) > 0 {
			sections = append(sections, Section{Label: label, Entries: entries})
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return sections, nil
}

// parseList turns every list item under list into an entry, in document
// order. An item owns the anchors whose nearest enclosing li is the item
// itself, so nested lists contribute their own items.
func parseList(list *goquery.Selection, cfg *config.Config) ([]Entry, error) {
	var (
		entries []Entry
		err     error
	)
	list.Find("li").EachWithBreak(func(i int, li *goquery.Selection) bool {
		item := li.Get(0)
		anchors := li.Find("a").FilterFunction(func(_ int, a *goquery.Selection) bool {
			return a.Closest("li").Get(0) == item
		})
		if anchors.Length() != 1 {
			err = &htmltree.StructuralError{
				Path:   "index.html",
				Reason: fmt.Sprintf("toc list item %d has %d anchors, want 1", i, anchors.Length()),
			}
			return false
		}

		href, _ := anchors.Attr("href")
		if strings.Contains(href, "://") {
			return true
		}
		if cfg.Redirects(href) {
			href = path.Join(path.Dir(href), "index.html")
		}
		entries = append(entries, Entry{
			Path:  href,
			Title: htmltree.NormalizeText(anchors.Text()),
		})
		return true
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
