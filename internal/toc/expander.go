package toc

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/togaf-epub/togafcleanup/internal/config"
	"github.com/togaf-epub/togafcleanup/internal/htmltree"
)

// Expander resolves a TOC entry into the pages that make up its section.
type Expander struct {
	InputDir string
	Config   *config.Config
}

// Expand returns the member pages of entry in first-seen order. When the
// entry's folder has its own index.html, the anchors of that page's table
// of contents are flattened; otherwise the entry path alone is returned.
func (e *Expander) Expand(entry Entry) ([]string, error) {
	dir := path.Dir(entry.Path)
	indexRel := path.Join(dir, "index.html")
	indexPath := filepath.Join(e.InputDir, filepath.FromSlash(indexRel))

	if _, err := os.Stat(indexPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{entry.Path}, nil
		}
		return nil, fmt.Errorf("stat %s: %w", indexRel, err)
	}

	doc, err := htmltree.Load(indexPath)
	if err != nil {
		return nil, err
	}
	container := htmltree.ElementByID(doc, e.Config.IDs.TOC)
	if container == nil {
		return nil, &htmltree.StructuralError{Path: indexRel, Reason: "section index", Err: ErrNoTOC}
	}

	seen := map[string]bool{}
	var members []string
	goquery.NewDocumentFromNode(container).Find("a").Each(func(_ int, a *goquery.Selection) {
		if htmltree.NormalizeText(a.Text()) == "" {
			return
		}
		href, _ := a.Attr("href")
		href = e.memberHref(href)
		if href == "" {
			return
		}
		joined := path.Join(dir, href)
		if seen[joined] {
			return
		}
		seen[joined] = true
		members = append(members, joined)
	})
	return members, nil
}

// memberHref strips the fragment from href and returns "" for links that
// never name a member page: parent traversals, external links and the
// search page.
func (e *Expander) memberHref(href string) string {
	href, _, _ = strings.Cut(href, "#")
	switch {
	case href == "":
		return ""
	case strings.Contains(href, ".."):
		return ""
	case strings.Contains(href, "://"):
		return ""
	case e.Config.SearchPage != "" && path.Base(href) == e.Config.SearchPage:
		return ""
	}
	return href
}
