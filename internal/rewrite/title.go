package rewrite

import (
	"path"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/togaf-epub/togafcleanup/internal/config"
	"github.com/togaf-epub/togafcleanup/internal/htmltree"
)

// stageTitle records the page title, then either removes every <title>
// element or, in title-preserving mode, prefixes the title of index pages.
func stageTitle(doc *Doc, cfg *config.Config) error {
	titles := htmltree.Elements(doc.Root, atom.Title)
	if len(titles) > 0 {
		doc.Title = htmltree.NormalizeText(htmltree.Text(titles[0]))
	}

	if !cfg.PreserveTitles() {
		for _, t := range titles {
			htmltree.Remove(t)
		}
		return nil
	}

	if path.Base(doc.RelPath) != "index.html" || len(titles) == 0 {
		return nil
	}
	text := doc.Title
	if label := selfLinkLabel(doc.Root, cfg.IDs.TOC); label != "" {
		text = label
	}
	doc.Title = cfg.TitlePrefix + text
	doc.Retitled = true
	setText(titles[0], doc.Title)
	return nil
}

// selfLinkLabel returns the text of the toc anchor that links to the index
// page itself, which names the section better than the generic <title>.
func selfLinkLabel(root *html.Node, tocID string) string {
	container := htmltree.ElementByID(root, tocID)
	if container == nil {
		return ""
	}
	var label string
	goquery.NewDocumentFromNode(container).Find(`a[href="index.html"]`).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		label = htmltree.NormalizeText(a.Text())
		return label == ""
	})
	return label
}

func setText(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}
