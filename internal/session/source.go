package session

import (
	"fmt"
	"os"
	"path/filepath"
)

// SourceKind distinguishes where a dataset came from.
type SourceKind string

const (
	SourceLocal  SourceKind = "local"
	SourceUpload SourceKind = "upload"
)

// Source is a delimited-text input, either a local path or uploaded bytes.
type Source struct {
	Kind SourceKind
	Name string
	Path string
	Data []byte
}

// LocalFile returns a source read from path on load.
func LocalFile(path string) Source {
	return Source{Kind: SourceLocal, Name: filepath.Base(path), Path: path}
}

// Upload returns a source backed by an in-memory buffer.
func Upload(name string, data []byte) Source {
	if name == "" {
		name = "upload"
	}
	return Source{Kind: SourceUpload, Name: name, Data: data}
}

// SourceError reports a source whose bytes could not be obtained.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string { return fmt.Sprintf("read %s: %v", e.Path, e.Err) }

func (e *SourceError) Unwrap() error { return e.Err }

func (s Source) bytes() ([]byte, error) {
	if s.Kind != SourceLocal {
		return s.Data, nil
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, &SourceError{Path: s.Path, Err: err}
	}
	return b, nil
}
