package rewrite

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/togaf-epub/togafcleanup/internal/config"
	"github.com/togaf-epub/togafcleanup/internal/htmltree"
)

func stageRemoveChrome(doc *Doc, cfg *config.Config) error {
	for _, id := range []string{cfg.IDs.TOC, cfg.IDs.Header} {
		if id == "" {
			continue
		}
		htmltree.Remove(htmltree.ElementByID(doc.Root, id))
	}
	return nil
}

// stageRemoveChapterTOC drops the run of content children delimited by the
// chapter toc start and end comments, both comments included.
func stageRemoveChapterTOC(doc *Doc, cfg *config.Config) error {
	content := htmltree.ElementByID(doc.Root, cfg.IDs.Content)
	if content == nil {
		return nil
	}
	inTOC := false
	for _, c := range htmltree.Children(content) {
		if isCommentContaining(c, cfg.Markers.ChapterTOCStart) {
			inTOC = true
		}
		if inTOC {
			content.RemoveChild(c)
		}
		if isCommentContaining(c, cfg.Markers.ChapterTOCEnd) {
			inTOC = false
		}
	}
	return nil
}

func isCommentContaining(n *html.Node, marker string) bool {
	return n.Type == html.CommentNode && strings.Contains(n.Data, marker)
}

// stageRemoveFooter removes the return-to-top marker and all of its
// following siblings.
func stageRemoveFooter(doc *Doc, cfg *config.Config) error {
	marker, err := findReturnToTop(doc.Root, cfg.Markers)
	if err != nil {
		return err
	}
	if marker != nil {
		htmltree.RemoveFrom(marker)
	}
	return nil
}

// Footer marker ranks, in priority order.
const (
	notReturnToTop = iota
	returnToTopByClass
	returnToTopByText
)

// returnToTopRank classifies n as a footer marker. A div carrying the marker
// class ranks first; a p whose whole text is the marker phrase is the
// fallback.
func returnToTopRank(n *html.Node, m config.Markers) int {
	switch {
	case m.ReturnToTopClass != "" && htmltree.IsElement(n, atom.Div) && htmltree.HasClass(n, m.ReturnToTopClass):
		return returnToTopByClass
	case m.ReturnToTopText != "" && htmltree.IsElement(n, atom.P) && htmltree.NormalizeText(htmltree.Text(n)) == m.ReturnToTopText:
		return returnToTopByText
	}
	return notReturnToTop
}

// findReturnToTop returns the single footer marker of the best rank present,
// or nil. Two markers of that rank break the page template contract.
func findReturnToTop(root *html.Node, m config.Markers) (*html.Node, error) {
	byRank := map[int][]*html.Node{}
	htmltree.Walk(root, func(n *html.Node) bool {
		if r := returnToTopRank(n, m); r != notReturnToTop {
			byRank[r] = append(byRank[r], n)
		}
		return true
	})
	for _, rank := range []int{returnToTopByClass, returnToTopByText} {
		switch found := byRank[rank]; len(found) {
		case 0:
			continue
		case 1:
			return found[0], nil
		default:
			return nil, &htmltree.StructuralError{
				Reason: fmt.Sprintf("%d return-to-top markers, want at most 1", len(found)),
			}
		}
	}
	return nil, nil
}

func stageUnwrapContent(doc *Doc, cfg *config.Config) error {
	if content := htmltree.ElementByID(doc.Root, cfg.IDs.Content); content != nil {
		htmltree.Unwrap(content)
	}
	return nil
}
