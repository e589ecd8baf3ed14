// Package manifest writes the reading-order manifest consumed by the
// downstream book assembly: one record per TOC entry, made of a generated
// section header page followed by the entry's member pages.
package manifest

import (
	"bufio"
	"fmt"
	htmlutil "html"
	"io"
	"path"
	"strings"

	"github.com/togaf-epub/togafcleanup/internal/storage"
	"github.com/togaf-epub/togafcleanup/internal/toc"
)

// Record is one manifest line.
type Record struct {
	Stub    string   `json:"stub"`
	Members []string `json:"members"`
}

// Expander resolves an entry into its member pages.
type Expander interface {
	Expand(entry toc.Entry) ([]string, error)
}

// Writer emits records and their header stub pages. Stub numbering starts at
// zero and increases once per entry for the lifetime of the Writer.
type Writer struct {
	out        io.Writer
	storage    *storage.FSStorage
	expander   Expander
	stubPrefix string
	next       int
}

func NewWriter(out io.Writer, st *storage.FSStorage, exp Expander, stubPrefix string) *Writer {
	return &Writer{out: out, storage: st, expander: exp, stubPrefix: stubPrefix}
}

// Count returns the number of records written so far.
func (w *Writer) Count() int {
	return w.next
}

// WriteSections writes one record per entry, sections and entries in order.
func (w *Writer) WriteSections(sections []toc.Section) ([]Record, error) {
	var records []Record
	for _, s := range sections {
		for _, e := range s.Entries {
			rec, err := w.WriteEntry(e)
			if err != nil {
				return records, err
			}
			records = append(records, rec)
		}
	}
	return records, nil
}

// WriteEntry creates the entry's output folder, writes its header stub and
// appends the manifest record.
func (w *Writer) WriteEntry(entry toc.Entry) (Record, error) {
	dir := path.Dir(entry.Path)
	if err := w.storage.MkdirAll(dir); err != nil {
		return Record{}, fmt.Errorf("create %s: %w", dir, err)
	}

	stub := path.Join(dir, fmt.Sprintf("%s%d.html", w.stubPrefix, w.next))
	w.next++
	if err := w.storage.WriteFile(stub, StubHTML(entry.Title)); err != nil {
		return Record{}, fmt.Errorf("write stub %s: %w", stub, err)
	}

	members, err := w.expander.Expand(entry)
	if err != nil {
		return Record{}, fmt.Errorf("expand %s: %w", entry.Path, err)
	}

	rec := Record{Stub: stub, Members: members}
	if err := WriteRecord(w.out, rec); err != nil {
		return Record{}, fmt.Errorf("write manifest record: %w", err)
	}
	return rec, nil
}

// StubHTML is the header page for a section: a lone top-level heading.
func StubHTML(title string) []byte {
	return []byte("<h1>" + htmlutil.EscapeString(title) + "</h1>")
}

// WriteRecord writes rec as one line. Every path is followed by a single
// space, including the last, and the line ends with a newline.
func WriteRecord(out io.Writer, rec Record) error {
	var b strings.Builder
	b.WriteString(rec.Stub)
	b.WriteByte(' ')
	for _, m := range rec.Members {
		b.WriteString(m)
		b.WriteByte(' ')
	}
	b.WriteByte('\n')
	_, err := io.WriteString(out, b.String())
	return err
}

// Read parses a manifest back into records. Blank lines are skipped.
func Read(r io.Reader) ([]Record, error) {
	var records []Record
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		records = append(records, Record{Stub: fields[0], Members: fields[1:]})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return records, nil
}
