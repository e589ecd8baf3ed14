package rewrite

import (
	"regexp"
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/togaf-epub/togafcleanup/internal/config"
	"github.com/togaf-epub/togafcleanup/internal/htmltree"
)

// stageFixCharset rewrites the legacy charset named by Content-Type metas
// (and HTML5 charset metas) to the configured replacement. Other attributes
// are left untouched.
func stageFixCharset(doc *Doc, cfg *config.Config) error {
	if cfg.Charset.From == "" {
		return nil
	}
	from := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(cfg.Charset.From))

	for _, meta := range htmltree.Elements(doc.Root, atom.Meta) {
		if equiv, ok := htmltree.Attr(meta, "http-equiv"); ok && strings.EqualFold(equiv, "Content-Type") {
			if content, ok := htmltree.Attr(meta, "content"); ok {
				htmltree.SetAttr(meta, "content", from.ReplaceAllLiteralString(content, cfg.Charset.To))
			}
		}
		if cs, ok := htmltree.Attr(meta, "charset"); ok && strings.EqualFold(strings.TrimSpace(cs), cfg.Charset.From) {
			htmltree.SetAttr(meta, "charset", cfg.Charset.To)
		}
	}
	return nil
}
