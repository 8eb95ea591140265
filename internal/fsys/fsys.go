// Package fsys provides the file-system operations the pipeline depends on.
//
// The pipeline talks to the FileSystem interface only, so tests can inject
// failures (for example a backup that cannot be written) without touching
// permissions on a real directory.
package fsys

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// defaultFileMode is used for files that do not exist yet.
const defaultFileMode fs.FileMode = 0o644

// FileSystem is the set of operations needed to process a directory.
type FileSystem interface {
	// ReadFile returns the content of path.
	ReadFile(path string) ([]byte, error)

	// WriteFile replaces the content of path, keeping its permissions when it exists.
	WriteFile(path string, data []byte) error

	// CopyFile copies src to dst byte for byte, overwriting dst.
	CopyFile(src, dst string) error

	// IsDir reports whether path exists and is a directory.
	IsDir(path string) bool

	// Discover returns every regular file under root whose name ends with ext,
	// in lexical walk order.
	Discover(root, ext string) ([]string, error)
}

// OS implements FileSystem on the host file system.
type OS struct{}

// NewOS creates an OS file system.
func NewOS() *OS {
	return &OS{}
}

// ReadFile implements FileSystem.
func (OS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path) //nolint:gosec // paths come from walking the user-chosen root
}

// WriteFile implements FileSystem.
func (OS) WriteFile(path string, data []byte) error {
	mode := defaultFileMode
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(path, data, mode)
}

// CopyFile implements FileSystem.
func (OS) CopyFile(src, dst string) (err error) {
	in, err := os.Open(src) //nolint:gosec // paths come from walking the user-chosen root
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s: %w", src, ErrIsDirectory)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm()) //nolint:gosec
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return nil
}

// IsDir implements FileSystem.
func (OS) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Discover implements FileSystem. Unreadable subdirectories are skipped;
// an unreadable root is an error.
func (OS) Discover(root, ext string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return files, nil
}

// ErrIsDirectory is returned when a file operation is given a directory.
var ErrIsDirectory = errors.New("is a directory")
