package pipeline

// Stats counts what one run produced.
type Stats struct {
	Records   int // manifest records, one per TOC entry
	Rewritten int // HTML pages rewritten
	Copied    int // other files copied unchanged
	Sidecars  int // index pages given metadata.xml and title.txt
	Indexed   int // pages added to the search index
	IDs       int // distinct element ids across the run
}

// FileError wraps the failure of one input file so callers can report
// which file stopped the run.
type FileError struct {
	Path string // input-relative, slash separated
	Err  error
}

func (e *FileError) Error() string { return e.Err.Error() }
func (e *FileError) Unwrap() error { return e.Err }
