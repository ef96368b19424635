// Package storage keeps uploaded product and profile images on local disk.
package storage

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var allowedExt = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
}

type Store struct {
	Dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{Dir: dir}, nil
}

// SaveImage writes the upload under a fresh uuid name and returns the stored
// filename. Non-image extensions are silently dropped (nil, nil), the same
// way the legacy upload filter behaved; a nil header is also fine.
func (s *Store) SaveImage(fh *multipart.FileHeader) (*string, error) {
	if fh == nil {
		return nil, nil
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := allowedExt[ext]; !ok {
		return nil, nil
	}

	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, err
	}
	return &name, nil
}
