package search

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func buildIndex(t *testing.T, docs ...Document) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index", "search.db")
	idx, err := NewSQLiteIndexer(path)
	if err != nil {
		t.Fatalf("NewSQLiteIndexer: %v", err)
	}
	for _, d := range docs {
		if err := idx.IndexPage(context.Background(), d); err != nil {
			t.Fatalf("IndexPage: %v", err)
		}
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return path
}

func openSearcher(t *testing.T, path string) *SQLiteSearcher {
	t.Helper()
	s, err := NewSQLiteSearcher(path)
	if err != nil {
		t.Fatalf("NewSQLiteSearcher: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSearch(t *testing.T) {
	path := buildIndex(t,
		Document{Path: "part1/chap01.html", Title: "Introduction", Content: "The Architecture Development Method describes phases."},
		Document{Path: "part2/chap05.html", Title: "Preliminary Phase", Content: "Governance frameworks and principles."},
		Document{Path: "index.html", Title: "Home", Content: "Welcome."},
	)
	s := openSearcher(t, path)

	resp, err := s.Search(context.Background(), "architec", "", 10, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Total != 1 || len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got: %+v", resp)
	}
	r := resp.Results[0]
	if r.Path != "part1/chap01.html" || r.Part != "part1" || r.Title != "Introduction" {
		t.Fatalf("unexpected result: %+v", r)
	}
	if !strings.Contains(r.Snippet, "<mark>Architecture</mark>") {
		t.Fatalf("expected highlighted snippet, got: %s", r.Snippet)
	}
}

func TestSearchMatchesTitleAndFiltersPart(t *testing.T) {
	path := buildIndex(t,
		Document{Path: "part1/a.html", Title: "Phase A", Content: "vision"},
		Document{Path: "part2/b.html", Title: "Phase B", Content: "business"},
	)
	s := openSearcher(t, path)

	resp, err := s.Search(context.Background(), "phase", "", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 2 {
		t.Fatalf("expected 2 results, got: %d", resp.Total)
	}

	resp, err = s.Search(context.Background(), "phase", "part2", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || resp.Results[0].Path != "part2/b.html" {
		t.Fatalf("expected part2 only, got: %+v", resp)
	}
}

func TestSearchPaging(t *testing.T) {
	path := buildIndex(t,
		Document{Path: "a.html", Title: "One", Content: "togaf"},
		Document{Path: "b.html", Title: "Two", Content: "togaf"},
		Document{Path: "c.html", Title: "Three", Content: "togaf"},
	)
	s := openSearcher(t, path)

	resp, err := s.Search(context.Background(), "togaf", "", 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 3 || len(resp.Results) != 1 {
		t.Fatalf("expected last page of 1 out of 3, got: %+v", resp)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	s := openSearcher(t, buildIndex(t))
	resp, err := s.Search(context.Background(), " ** ", "", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 0 || resp.Results == nil {
		t.Fatalf("expected empty non-nil results, got: %+v", resp)
	}
}

func TestSanitizeQuery(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", ""},
		{"adm", `"adm"*`},
		{"phase AND vision", `"phase"* "vision"*`},
		{`"quoted" (x)`, `"quoted"* "x"*`},
		{"entreprise Über", `"entreprise"* "Über"*`},
		{"or not", ""},
	}
	for _, tt := range tests {
		if got := sanitizeQuery(tt.input); got != tt.want {
			t.Errorf("sanitizeQuery(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDocumentPart(t *testing.T) {
	if got := (Document{Path: "part1/x/y.html"}).Part(); got != "part1" {
		t.Fatalf("expected part1, got: %s", got)
	}
	if got := (Document{Path: "index.html"}).Part(); got != "" {
		t.Fatalf("expected no part, got: %s", got)
	}
}
