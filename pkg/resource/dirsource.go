package resource

import (
	"io"
	"os"
	"path/filepath"
)

// DirSource is a Source backed by a plain directory of *.json.gz files, the
// simplest way to exercise this module without a network fetch or an
// embedded resource bundle.
type DirSource struct {
	Dir string
}

// Open implements Source.
func (d DirSource) Open(name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(d.Dir, name))
}
