package site

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Package returns a zip archive with index.html, style.css and script.js
func Package(b Bundle) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteZip(&buf, b); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteZip streams the packaged site as a zip archive to w
func WriteZip(w io.Writer, b Bundle) error {
	zw := zip.NewWriter(w)
	modified := time.Now()

	for _, f := range Files(b) {
		header := &zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: modified,
		}
		entry, err := zw.CreateHeader(header)
		if err != nil {
			return &PackageError{Message: fmt.Sprintf("failed to create %s", f.Name), Cause: err}
		}
		if _, err := io.WriteString(entry, f.Content); err != nil {
			return &PackageError{Message: fmt.Sprintf("failed to write %s", f.Name), Cause: err}
		}
	}

	if err := zw.Close(); err != nil {
		return &PackageError{Message: "failed to finalize archive", Cause: err}
	}
	return nil
}

// WriteDir writes the packaged files into dir, creating it if needed.
// It returns the paths written.
func WriteDir(dir string, b Bundle) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &PackageError{Message: fmt.Sprintf("failed to create directory %s", dir), Cause: err}
	}

	files := Files(b)
	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.Name)
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			return paths, &PackageError{Message: fmt.Sprintf("failed to write %s", path), Cause: err}
		}
		paths = append(paths, path)
	}
	return paths, nil
}
