package rewrite

import (
	"strings"
	"testing"

	"github.com/togaf-epub/togafcleanup/internal/config"
)

func preserveConfig() *config.Config {
	cfg := config.Default()
	cfg.Mode = config.ModePreserveTitles
	return cfg
}

func TestTitleStripped(t *testing.T) {
	doc := &Doc{RelPath: "p.html", Root: parse(t, `<head><title> A  page </title></head><body><title>stray</title></body>`)}
	if err := stageTitle(doc, config.Default()); err != nil {
		t.Fatal(err)
	}
	if out := render(t, doc.Root); strings.Contains(out, "<title>") {
		t.Fatalf("expected all titles removed, got: %s", out)
	}
	if doc.Title != "A page" {
		t.Fatalf("expected normalized title, got: %q", doc.Title)
	}
}

func TestTitlePreservedOnIndexUsesSelfLink(t *testing.T) {
	src := `<head><title>The TOGAF Standard</title></head><body>` +
		`<div id="toc"><ul><li><a href="../index.html">Up</a></li><li><a href="index.html">Part I: Introduction</a></li></ul></div></body>`
	doc := &Doc{RelPath: "part1/index.html", Root: parse(t, src)}
	if err := stageTitle(doc, preserveConfig()); err != nil {
		t.Fatal(err)
	}
	if !doc.Retitled || doc.Title != "TOGAF® Standard 10 - Part I: Introduction" {
		t.Fatalf("unexpected title: %q (retitled=%v)", doc.Title, doc.Retitled)
	}
	if out := render(t, doc.Root); !strings.Contains(out, "<title>TOGAF® Standard 10 - Part I: Introduction</title>") {
		t.Fatalf("expected title element rewritten, got: %s", out)
	}
}

func TestTitlePreservedFallsBackToTitleText(t *testing.T) {
	doc := &Doc{RelPath: "index.html", Root: parse(t, `<head><title>Home</title></head><body></body>`)}
	if err := stageTitle(doc, preserveConfig()); err != nil {
		t.Fatal(err)
	}
	if doc.Title != "TOGAF® Standard 10 - Home" {
		t.Fatalf("unexpected title: %q", doc.Title)
	}
}

func TestTitlePreservedOnlyOnIndex(t *testing.T) {
	doc := &Doc{RelPath: "part1/chap01.html", Root: parse(t, `<head><title>Chapter 1</title></head><body></body>`)}
	if err := stageTitle(doc, preserveConfig()); err != nil {
		t.Fatal(err)
	}
	if doc.Retitled {
		t.Fatal("non-index pages must keep their title")
	}
	if out := render(t, doc.Root); !strings.Contains(out, "<title>Chapter 1</title>") {
		t.Fatalf("expected title kept, got: %s", out)
	}
}
