// Package pipeline drives a cleanup run: pass 1 writes the manifest and
// section header stubs from the root table of contents, pass 2 mirrors the
// input tree, rewriting every HTML page and copying everything else.
package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/togaf-epub/togafcleanup/internal/config"
	"github.com/togaf-epub/togafcleanup/internal/epub"
	"github.com/togaf-epub/togafcleanup/internal/htmltree"
	"github.com/togaf-epub/togafcleanup/internal/logging"
	"github.com/togaf-epub/togafcleanup/internal/manifest"
	"github.com/togaf-epub/togafcleanup/internal/rewrite"
	"github.com/togaf-epub/togafcleanup/internal/search"
	"github.com/togaf-epub/togafcleanup/internal/storage"
	"github.com/togaf-epub/togafcleanup/internal/toc"
)

type Runner struct {
	Config   *config.Config
	InputDir string
	Storage  *storage.FSStorage
	Indexer  search.Indexer // optional
	Logger   *slog.Logger
	Progress io.Writer // receives each processed input path, one per line

	SkipManifest bool
	SkipRewrite  bool

	stats Stats
}

// Run executes both passes. The indexer, when set, is closed before Run
// returns.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	if r.Config == nil || r.Storage == nil || r.InputDir == "" {
		return Stats{}, errors.New("pipeline runner missing dependencies")
	}
	if r.Logger == nil {
		r.Logger = logging.Discard()
	}
	if r.Progress == nil {
		r.Progress = io.Discard
	}
	r.stats = Stats{}

	err := r.run(ctx)
	if r.Indexer != nil {
		if cerr := r.Indexer.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close indexer: %w", cerr)
		}
	}
	if err != nil {
		return r.stats, err
	}

	r.Logger.Info("run complete",
		"records", r.stats.Records,
		"rewritten", r.stats.Rewritten,
		"copied", r.stats.Copied,
		"sidecars", r.stats.Sidecars,
		"indexed", r.stats.Indexed,
		"ids", r.stats.IDs,
	)
	return r.stats, nil
}

func (r *Runner) run(ctx context.Context) error {
	if !r.SkipManifest {
		if err := r.BuildManifest(ctx); err != nil {
			return err
		}
	}
	if !r.SkipRewrite {
		if err := r.RewriteTree(ctx); err != nil {
			return err
		}
	}
	return nil
}

// BuildManifest parses the root index page, writes one header stub per TOC
// entry and the manifest listing each stub with its member pages.
func (r *Runner) BuildManifest(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	root, err := htmltree.Load(filepath.Join(r.InputDir, "index.html"))
	if err != nil {
		return fmt.Errorf("load root index: %w", err)
	}
	sections, err := toc.Parse(root, r.Config)
	if err != nil {
		return fmt.Errorf("parse root toc: %w", err)
	}
	r.Logger.Debug("parsed root toc", "sections", len(sections))

	f, err := r.Storage.Create(r.Config.ManifestName)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	defer func() { _ = f.Close() }()

	bw := bufio.NewWriter(f)
	w := manifest.NewWriter(bw, r.Storage, &toc.Expander{InputDir: r.InputDir, Config: r.Config}, r.Config.StubPrefix)
	records, err := w.WriteSections(sections)
	r.stats.Records = len(records)
	if err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush manifest: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close manifest: %w", err)
	}
	r.Logger.Info("manifest written", "path", r.Config.ManifestName, "records", len(records))
	return nil
}

// RewriteTree mirrors the input tree into the output tree. All pages share
// one id registry, so ids stay unique across the whole output.
func (r *Runner) RewriteTree(ctx context.Context) error {
	files, err := InputFiles(r.InputDir)
	if err != nil {
		return err
	}
	rw := rewrite.NewRewriter(r.Config, nil)
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(r.Progress, rel); err != nil {
			return fmt.Errorf("report progress: %w", err)
		}
		if err := r.processFile(ctx, rw, rel); err != nil {
			return &FileError{Path: rel, Err: err}
		}
	}
	r.stats.IDs = rw.IDs.Len()
	return nil
}

func (r *Runner) processFile(ctx context.Context, rw *rewrite.Rewriter, rel string) error {
	src := filepath.Join(r.InputDir, filepath.FromSlash(rel))
	if !IsHTML(rel) {
		if err := r.Storage.CopyFile(src, rel); err != nil {
			return err
		}
		r.stats.Copied++
		return nil
	}

	root, err := htmltree.Load(src)
	if err != nil {
		return err
	}
	doc, err := rw.Rewrite(rel, root)
	if err != nil {
		return err
	}
	out, err := htmltree.Render(doc.Root)
	if err != nil {
		return err
	}
	if err := r.Storage.WriteFile(rel, out); err != nil {
		return err
	}
	r.stats.Rewritten++

	if doc.Retitled {
		if err := epub.WriteSidecars(r.Storage, rel, r.Config.Meta, doc.Title); err != nil {
			return err
		}
		r.stats.Sidecars++
	}
	if r.Indexer != nil {
		if err := r.index(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) index(ctx context.Context, doc *rewrite.Doc) error {
	title := doc.Title
	if title == "" {
		title = path.Base(doc.RelPath)
	}
	err := r.Indexer.IndexPage(ctx, search.Document{
		Path:    doc.RelPath,
		Title:   title,
		Content: pageText(doc.Root),
	})
	if err != nil {
		return err
	}
	r.stats.Indexed++
	return nil
}

// pageText returns the normalized body text of a page, with a space between
// adjacent text nodes so words of sibling blocks do not run together.
func pageText(root *html.Node) string {
	body := root
	if bodies := htmltree.Elements(root, atom.Body); len(bodies) > 0 {
		body = bodies[0]
	}
	var b strings.Builder
	htmltree.Walk(body, func(n *html.Node) bool {
		switch {
		case htmltree.IsElement(n, atom.Script), htmltree.IsElement(n, atom.Style):
			return false
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		return true
	})
	return htmltree.NormalizeText(b.String())
}

// OpenIndexer opens the search index configured for cfg, or returns nil
// when indexing is off.
func OpenIndexer(cfg *config.Config) (search.Indexer, error) {
	if cfg.IndexPath == "" {
		return nil, nil
	}
	idx, err := search.NewSQLiteIndexer(cfg.IndexPath)
	if err != nil {
		return nil, fmt.Errorf("open search index: %w", err)
	}
	return idx, nil
}
