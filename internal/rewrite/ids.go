package rewrite

import (
	"golang.org/x/net/html"

	"github.com/togaf-epub/togafcleanup/internal/config"
	"github.com/togaf-epub/togafcleanup/internal/htmltree"
)

// stageDedupeIDs renames every element id that an earlier element of this
// run, on this page or a previous one, already claimed.
func stageDedupeIDs(doc *Doc, _ *config.Config) error {
	htmltree.Walk(doc.Root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		id, ok := htmltree.Attr(n, "id")
		if !ok || id == "" {
			return true
		}
		if claimed := doc.IDs.Claim(id); claimed != id {
			htmltree.SetAttr(n, "id", claimed)
		}
		return true
	})
	return nil
}
