package storage

import (
	"errors"
	"io"
)

// ErrBadKey rejects empty keys and keys that would escape the store root.
var ErrBadKey = errors.New("storage: invalid key")

// BlobStore holds lesson media: slides, worksheets, video posters. Keys are
// slash-separated relative paths, e.g. "lessons/3/slides.pdf".
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns the canonical key
	Get(key string) (io.ReadCloser, error)
}
