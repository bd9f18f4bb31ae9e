package imaging

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
)

// ErrUnsupportedScheme is returned by FileSource for URIs it cannot resolve.
var ErrUnsupportedScheme = errors.New("unsupported uri scheme")

// Source resolves an opaque resource identifier to a readable stream.
//
// Loader opens a fresh stream for every decode pass, so implementations must
// be able to serve the same uri more than once. The caller closes the stream.
type Source interface {
	Open(uri string) (io.ReadCloser, error)
}

// FileSource resolves plain file paths and file:// URIs against the local
// file system. Relative paths are joined to Root when Root is set.
type FileSource struct {
	Root string
}

// Path returns the local file path that uri refers to.
func (s FileSource) Path(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Plain path (a one letter scheme is a Windows drive letter).
		return s.join(uri), nil
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}
	if u.Host != "" && u.Host != "localhost" {
		return "", fmt.Errorf("%w: remote file host %q", ErrUnsupportedScheme, u.Host)
	}
	return s.join(filepath.FromSlash(u.Path)), nil
}

func (s FileSource) join(p string) string {
	if s.Root == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.Root, p)
}

// Open opens the file that uri refers to.
func (s FileSource) Open(uri string) (io.ReadCloser, error) {
	p, err := s.Path(uri)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return f, nil
}

// Size returns the size in bytes of the file that uri refers to.
func (s FileSource) Size(uri string) (int64, error) {
	p, err := s.Path(uri)
	if err != nil {
		return 0, err
	}
	stat, err := os.Stat(p)
	if err != nil {
		return 0, fmt.Errorf("failed to stat file: %w", err)
	}
	return stat.Size(), nil
}

// sizer is implemented by sources that know the byte size of a resource.
type sizer interface {
	Size(uri string) (int64, error)
}
