// Package htmltree adapts golang.org/x/net/html into the small set of tree
// operations the cleanup passes need: charset-aware loading, identifier
// lookup, attribute access, node removal and unwrapping, and text
// extraction.
package htmltree

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

var (
	metaCharsetPattern   = regexp.MustCompile(`(?i)<meta[^>]+charset\s*=\s*["']?([^"'\s;/>]+)`)
	utf8BOM              = []byte{0xEF, 0xBB, 0xBF}
	whitespaceRunPattern = regexp.MustCompile(`[\s\x{00A0}]+`)
)

// Load reads an HTML file, decodes it from its declared charset and parses it.
func Load(path string) (*html.Node, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	decoded, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	doc, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// Parse parses UTF-8 HTML from r.
func Parse(r io.Reader) (*html.Node, error) {
	return html.Parse(r)
}

// Decode converts raw bytes to UTF-8 using the charset declared in the first
// meta tag that names one. Undeclared or unknown charsets are returned as-is.
func Decode(raw []byte) ([]byte, error) {
	enc := declaredEncoding(raw)
	if enc == nil {
		return raw, nil
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func declaredEncoding(raw []byte) encoding.Encoding {
	if bytes.HasPrefix(raw, utf8BOM) {
		return nil
	}
	m := metaCharsetPattern.FindSubmatch(raw)
	if m == nil {
		return nil
	}
	enc, err := htmlindex.Get(string(m[1]))
	if err != nil {
		return nil
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return nil
	}
	return enc
}

// Render serializes the tree rooted at n.
func Render(n *html.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Attr returns the value of the named attribute.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or adds the named attribute, keeping attribute order.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// HasClass reports whether n's class attribute contains class.
func HasClass(n *html.Node, class string) bool {
	v, ok := Attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// IsElement reports whether n is an element with the given atom.
func IsElement(n *html.Node, a atom.Atom) bool {
	return n != nil && n.Type == html.ElementNode && n.DataAtom == a
}

// Walk visits n and its descendants in document order. Returning false from
// fn skips the node's children.
func Walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		Walk(c, fn)
		c = next
	}
}

// Elements returns every descendant element of root with the given atom,
// in document order. The slice is a snapshot, so callers may mutate the tree
// while ranging over it.
func Elements(root *html.Node, a atom.Atom) []*html.Node {
	var out []*html.Node
	Walk(root, func(n *html.Node) bool {
		if IsElement(n, a) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// ElementByID returns the first element whose id attribute equals id.
func ElementByID(root *html.Node, id string) *html.Node {
	var found *html.Node
	Walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n.Type == html.ElementNode {
			if v, ok := Attr(n, "id"); ok && v == id {
				found = n
				return false
			}
		}
		return true
	})
	return found
}

// Children returns a snapshot of n's direct children.
func Children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// Remove detaches n from its parent. Detached nodes are left alone.
func Remove(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// RemoveFrom detaches n and every sibling that follows it.
func RemoveFrom(n *html.Node) int {
	removed := 0
	for n != nil {
		next := n.NextSibling
		Remove(n)
		removed++
		n = next
	}
	return removed
}

// Unwrap moves n's children into n's parent at n's position, then removes n.
func Unwrap(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
		c = next
	}
	parent.RemoveChild(n)
}

// Text concatenates the text nodes under n.
func Text(n *html.Node) string {
	var b strings.Builder
	Walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}

// NormalizeText collapses whitespace runs (including no-break spaces) into a
// single space and trims the result. Entities are already decoded by the
// parser, so the input is not unescaped a second time.
func NormalizeText(s string) string {
	return strings.TrimSpace(whitespaceRunPattern.ReplaceAllString(s, " "))
}
