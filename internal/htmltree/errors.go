package htmltree

import "fmt"

// StructuralError reports a page that breaks an assumption about the source
// document set, such as a TOC list item without exactly one anchor. These
// abort the run; missing optional elements are never reported this way.
type StructuralError struct {
	Path   string
	Reason string
	Err    error
}

func (e *StructuralError) Error() string {
	msg := e.Reason
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StructuralError) Unwrap() error { return e.Err }
