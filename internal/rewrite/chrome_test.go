package rewrite

import (
	"errors"
	"strings"
	"testing"

	"github.com/togaf-epub/togafcleanup/internal/config"
	"github.com/togaf-epub/togafcleanup/internal/htmltree"
)

func TestRemoveChrome(t *testing.T) {
	src := `<body><div id="header">h</div><div id="toc">t</div><div id="content">c</div></body>`
	doc := &Doc{Root: parse(t, src)}
	if err := stageRemoveChrome(doc, config.Default()); err != nil {
		t.Fatal(err)
	}
	if out := render(t, doc.Root); !strings.Contains(out, `<body><div id="content">c</div></body>`) {
		t.Fatalf("expected header and toc removed, got: %s", out)
	}
}

func TestRemoveChapterTOCOnlyInContent(t *testing.T) {
	src := `<body>` +
		`<!-- chapter toc start --><p>outside</p><!-- chapter toc end -->` +
		`<div id="content"><p>keep</p><!-- chapter toc start --><ul><li>x</li></ul><!-- chapter toc end --><p>after</p></div>` +
		`</body>`
	doc := &Doc{Root: parse(t, src)}
	if err := stageRemoveChapterTOC(doc, config.Default()); err != nil {
		t.Fatal(err)
	}
	out := render(t, doc.Root)
	if !strings.Contains(out, `<div id="content"><p>keep</p><p>after</p></div>`) {
		t.Fatalf("expected chapter toc removed from content, got: %s", out)
	}
	if !strings.Contains(out, `<!-- chapter toc start --><p>outside</p>`) {
		t.Fatalf("markers outside content must stay, got: %s", out)
	}
}

func TestRemoveChapterTOCUnterminated(t *testing.T) {
	src := `<body><div id="content"><p>keep</p><!-- chapter toc start --><p>a</p><p>b</p></div></body>`
	doc := &Doc{Root: parse(t, src)}
	if err := stageRemoveChapterTOC(doc, config.Default()); err != nil {
		t.Fatal(err)
	}
	if out := render(t, doc.Root); !strings.Contains(out, `<div id="content"><p>keep</p></div>`) {
		t.Fatalf("expected run removed to the end, got: %s", out)
	}
}

func TestRemoveFooterByClass(t *testing.T) {
	src := `<body><p>body</p><div class="nav returntotop"><a href="#top">Top</a></div><p>Return to Top</p><p>legal</p></body>`
	doc := &Doc{Root: parse(t, src)}
	if err := stageRemoveFooter(doc, config.Default()); err != nil {
		t.Fatal(err)
	}
	if out := render(t, doc.Root); !strings.Contains(out, `<body><p>body</p></body>`) {
		t.Fatalf("expected class marker and followers removed, got: %s", out)
	}
}

func TestRemoveFooterByText(t *testing.T) {
	src := `<body><p>body</p><p> Return&nbsp;to
Top </p><p>legal</p></body>`
	doc := &Doc{Root: parse(t, src)}
	if err := stageRemoveFooter(doc, config.Default()); err != nil {
		t.Fatal(err)
	}
	if out := render(t, doc.Root); !strings.Contains(out, `<body><p>body</p></body>`) {
		t.Fatalf("expected text marker and followers removed, got: %s", out)
	}
}

func TestRemoveFooterAbsent(t *testing.T) {
	src := `<body><p>body</p><p>Return to Top of page</p></body>`
	doc := &Doc{Root: parse(t, src)}
	if err := stageRemoveFooter(doc, config.Default()); err != nil {
		t.Fatal(err)
	}
	if out := render(t, doc.Root); !strings.Contains(out, `<p>Return to Top of page</p>`) {
		t.Fatalf("expected page unchanged, got: %s", out)
	}
}

func TestRemoveFooterDuplicateTextMarkers(t *testing.T) {
	src := `<body><p>Return to Top</p><p>Return to Top</p></body>`
	doc := &Doc{Root: parse(t, src)}
	err := stageRemoveFooter(doc, config.Default())
	var serr *htmltree.StructuralError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StructuralError, got: %v", err)
	}
}

func TestUnwrapContent(t *testing.T) {
	src := `<body><p>before</p><div id="content"><h1>A</h1><p>b</p></div><p>after</p></body>`
	doc := &Doc{Root: parse(t, src)}
	if err := stageUnwrapContent(doc, config.Default()); err != nil {
		t.Fatal(err)
	}
	if out := render(t, doc.Root); !strings.Contains(out, `<body><p>before</p><h1>A</h1><p>b</p><p>after</p></body>`) {
		t.Fatalf("expected children in place of container, got: %s", out)
	}
}

func TestStagesToleratePageWithoutContainer(t *testing.T) {
	doc := &Doc{Root: parse(t, `<body><p>plain</p></body>`)}
	if err := Pipeline(doc, config.Default()); err != nil {
		t.Fatalf("Pipeline: %v", err)
	}
	if out := render(t, doc.Root); !strings.Contains(out, `<body><p>plain</p></body>`) {
		t.Fatalf("expected page unchanged, got: %s", out)
	}
}
