package toc

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/togaf-epub/togafcleanup/internal/config"
	"github.com/togaf-epub/togafcleanup/internal/htmltree"
)

func parseHTML(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := htmltree.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestParseSections(t *testing.T) {
	doc := parseHTML(t, `<body><div id="toc">
<p id="toctitle">Part&nbsp;I:
   Introduction</p>
<ul>
  <li><a href="a/index.html">Chapter&nbsp;A</a></li>
  <li><a href="https://www.opengroup.org">The Open Group</a></li>
  <li><a href="b/index.html">Chapter   B</a></li>
</ul>
<p id="toctitle">Part II</p>
<ul><li><a href="http://example.com/">external only</a></li></ul>
<ol><li><a href="c/chap01.html">Chapter C</a></li></ol>
</div></body>`)

	sections, err := Parse(doc, config.Default())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []Section{
		{Label: "Part I: Introduction", Entries: []Entry{
			{Path: "a/index.html", Title: "Chapter A"},
			{Path: "b/index.html", Title: "Chapter B"},
		}},
		{Label: "Part II", Entries: []Entry{
			{Path: "c/chap01.html", Title: "Chapter C"},
		}},
	}
	if !reflect.DeepEqual(sections, want) {
		t.Fatalf("unexpected sections:\n got: %+v\nwant: %+v", sections, want)
	}
}

func TestParseNoLabel(t *testing.T) {
	doc := parseHTML(t, `<div id="toc"><ul><li><a href="x.html">X</a></li></ul></div>`)
	sections, err := Parse(doc, config.Default())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(sections) != 1 || sections[0].Label != "" {
		t.Fatalf("expected one unlabelled section, got: %+v", sections)
	}
}

func TestParseNestedListsDepthFirst(t *testing.T) {
	doc := parseHTML(t, `<div id="toc"><ul>
<li><a href="a/index.html">A</a>
  <ul><li><a href="a/one.html">A.1</a></li><li><a href="a/two.html">A.2</a></li></ul>
</li>
<li><a href="b/index.html">B</a></li>
</ul></div>`)

	sections, err := Parse(doc, config.Default())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var paths []string
	for _, e := range sections[0].Entries {
		paths = append(paths, e.Path)
	}
	want := []string{"a/index.html", "a/one.html", "a/two.html", "b/index.html"}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("expected depth-first order %v, got: %v", want, paths)
	}
}

func TestParseListItemWithoutAnchorIsStructural(t *testing.T) {
	doc := parseHTML(t, `<div id="toc"><ul><li>no link here</li></ul></div>`)
	_, err := Parse(doc, config.Default())
	var se *htmltree.StructuralError
	if !errors.As(err, &se) {
		t.Fatalf("expected structural error, got: %v", err)
	}
	if !strings.Contains(se.Reason, "0 anchors") {
		t.Fatalf("unexpected reason: %s", se.Reason)
	}
}

func TestParseListItemWithTwoAnchorsIsStructural(t *testing.T) {
	doc := parseHTML(t, `<div id="toc"><ul><li><a href="a.html">a</a><a href="b.html">b</a></li></ul></div>`)
	_, err := Parse(doc, config.Default())
	var se *htmltree.StructuralError
	if !errors.As(err, &se) {
		t.Fatalf("expected structural error, got: %v", err)
	}
}

func TestParseMissingContainer(t *testing.T) {
	doc := parseHTML(t, `<body><p>nothing</p></body>`)
	_, err := Parse(doc, config.Default())
	if !errors.Is(err, ErrNoTOC) {
		t.Fatalf("expected ErrNoTOC, got: %v", err)
	}
}

func TestParseLegacyRedirect(t *testing.T) {
	cfg := config.Default()
	cfg.RedirectToIndex = []string{"guide/chap00.html"}
	doc := parseHTML(t, `<div id="toc"><ul><li><a href="guide/chap00.html">Guide</a></li></ul></div>`)

	sections, err := Parse(doc, cfg)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := sections[0].Entries[0].Path; got != "guide/index.html" {
		t.Fatalf("expected redirect to folder index, got: %s", got)
	}
}

func TestExpandFlattensLocalTOC(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a/index.html", `<html><body><div id="toc"><ul>
<li><a href="page1.html#frag">Page 1</a></li>
<li><a href="page2.html">Page 2</a></li>
<li><a href="page1.html">Page 1 again</a></li>
<li><a href="../index.html">Up</a></li>
<li><a href="https://www.opengroup.org/">External</a></li>
<li><a href="search.html">Search</a></li>
<li><a href="#top">Top</a></li>
<li><a href="page3.html"> </a></li>
</ul></div></body></html>`)

	exp := &Expander{InputDir: dir, Config: config.Default()}
	members, err := exp.Expand(Entry{Path: "a/index.html", Title: "Chapter A"})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	want := []string{"a/page1.html", "a/page2.html"}
	if !reflect.DeepEqual(members, want) {
		t.Fatalf("unexpected members:\n got: %v\nwant: %v", members, want)
	}
}

func TestExpandWithoutLocalIndex(t *testing.T) {
	dir := t.TempDir()
	exp := &Expander{InputDir: dir, Config: config.Default()}
	members, err := exp.Expand(Entry{Path: "c/chap01.html"})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if !reflect.DeepEqual(members, []string{"c/chap01.html"}) {
		t.Fatalf("expected singleton fallback, got: %v", members)
	}
}

func TestExpandLocalIndexWithoutTOC(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a/index.html", `<html><body><p>no toc</p></body></html>`)
	exp := &Expander{InputDir: dir, Config: config.Default()}
	_, err := exp.Expand(Entry{Path: "a/index.html"})
	if !errors.Is(err, ErrNoTOC) {
		t.Fatalf("expected ErrNoTOC, got: %v", err)
	}
}

func TestExpandRootEntry(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.html", `<div id="toc"><a href="preface.html">Preface</a><a href="index.html">Home</a></div>`)
	exp := &Expander{InputDir: dir, Config: config.Default()}
	members, err := exp.Expand(Entry{Path: "preface.html"})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if !reflect.DeepEqual(members, []string{"preface.html", "index.html"}) {
		t.Fatalf("unexpected members: %v", members)
	}
}
