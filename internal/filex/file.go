// Package filex opens local files for upload.
package filex

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/csomedia/internal/storage"
)

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// DetectContentType guesses the MIME type of a file from its extension,
// falling back to sniffing head.
func DetectContentType(name string, head []byte) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		if mt, _, err := mime.ParseMediaType(t); err == nil {
			return mt
		}
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(head))
	return mt
}

// OpenFile opens path for upload. The caller closes the returned *os.File.
func OpenFile(path string) (storage.File, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return storage.File{}, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return storage.File{}, nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return storage.File{}, nil, fmt.Errorf("%s is a directory", path)
	}

	head := make([]byte, 512)
	n, _ := f.ReadAt(head, 0)

	return storage.File{
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: DetectContentType(path, head[:n]),
		Content:     f,
	}, f, nil
}
