package rewrite

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/togaf-epub/togafcleanup/internal/config"
	"github.com/togaf-epub/togafcleanup/internal/htmltree"
)

// demoted maps each heading to the next level down. h6 has no lower level
// and stays as is.
var demoted = map[atom.Atom]atom.Atom{
	atom.H1: atom.H2,
	atom.H2: atom.H3,
	atom.H3: atom.H4,
	atom.H4: atom.H5,
	atom.H5: atom.H6,
	atom.H6: atom.H6,
}

// stageShiftHeadings demotes every heading by one level when the page has a
// top-level heading; pages without an h1 keep their levels.
func stageShiftHeadings(doc *Doc, _ *config.Config) error {
	if len(htmltree.Elements(doc.Root, atom.H1)) == 0 {
		return nil
	}
	var headings []*html.Node
	htmltree.Walk(doc.Root, func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			if _, ok := demoted[n.DataAtom]; ok {
				headings = append(headings, n)
			}
		}
		return true
	})
	for _, h := range headings {
		next := demoted[h.DataAtom]
		h.DataAtom = next
		h.Data = next.String()
	}
	return nil
}
