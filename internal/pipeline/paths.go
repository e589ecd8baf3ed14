package pipeline

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
)

// IsHTML reports whether rel names a page the rewriter handles. Only the
// exact ".html" extension counts; everything else is copied unchanged.
func IsHTML(rel string) bool {
	return path.Ext(rel) == ".html"
}

// InputFiles lists every non-directory entry under root as slash separated
// root-relative paths, in lexical walk order.
func InputFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}
