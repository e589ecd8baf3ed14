// Package epub writes the sidecar files an e-book converter reads next to
// each section index page: metadata.xml with Dublin Core fields and
// title.txt with the section title.
package epub

import (
	"bytes"
	"fmt"
	"path"

	"github.com/beevik/etree"

	"github.com/togaf-epub/togafcleanup/internal/config"
)

const (
	MetadataFile = "metadata.xml"
	TitleFile    = "title.txt"
)

// FileWriter stores content at a root-relative, slash separated path.
type FileWriter interface {
	WriteFile(rel string, content []byte) error
}

// MetadataXML renders the dc:language, dc:creator and dc:rights elements as
// a rootless fragment, one element per line. Empty fields are omitted.
func MetadataXML(meta config.Metadata) ([]byte, error) {
	doc := etree.NewDocument()
	for _, f := range []struct{ tag, value string }{
		{"dc:language", meta.Language},
		{"dc:creator", meta.Creator},
		{"dc:rights", meta.Rights},
	} {
		if f.value == "" {
			continue
		}
		doc.CreateElement(f.tag).SetText(f.value)
	}
	doc.Indent(0)

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("render metadata: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteSidecars writes metadata.xml and title.txt into the directory that
// holds the index page at indexRel.
func WriteSidecars(w FileWriter, indexRel string, meta config.Metadata, title string) error {
	dir := path.Dir(indexRel)

	data, err := MetadataXML(meta)
	if err != nil {
		return err
	}
	if err := w.WriteFile(path.Join(dir, MetadataFile), data); err != nil {
		return fmt.Errorf("write %s: %w", MetadataFile, err)
	}
	if err := w.WriteFile(path.Join(dir, TitleFile), []byte(title)); err != nil {
		return fmt.Errorf("write %s: %w", TitleFile, err)
	}
	return nil
}
