// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package uploads

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/danielhkuo/party-registry/metrics"
	"github.com/danielhkuo/party-registry/validation"
)

// URLPrefix is where stored files are served from
const URLPrefix = "/uploads/"

// FieldName is the multipart part carrying the logo
const FieldName = "logo"

var (
	ErrStorage    = errors.New("logo storage failed")
	ErrInvalidRef = errors.New("not an upload reference")
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Resolver stores logo files under collision-free names and serves them
type Resolver struct {
	dir     string
	maxSize int64
	newName func() string
}

// New creates dir if needed. maxSize <= 0 disables the size cap.
func New(dir string, maxSize int64) (*Resolver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &Resolver{dir: dir, maxSize: maxSize, newName: uuid.NewString}, nil
}

// Save writes src to disk and returns its reference, e.g.
// "/uploads/0d6c...e1.png". The original filename only contributes its
// extension. The file is synced and renamed into place before Save
// returns, so a returned reference always points at a complete file.
//
// A bad extension or oversize file yields a *validation.Error on "logo";
// disk problems yield ErrStorage.
func (r *Resolver) Save(src io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", validation.FieldError(FieldName, "logo must be a .jpg, .jpeg or .png file.")
	}

	tmp, err := os.CreateTemp(r.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStorage, err)
	}
	tmpName := tmp.Name()
	keep := false
	defer func() {
		if !keep {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	var n int64
	if r.maxSize > 0 {
		n, err = io.Copy(tmp, io.LimitReader(src, r.maxSize+1))
	} else {
		n, err = io.Copy(tmp, src)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if r.maxSize > 0 && n > r.maxSize {
		return "", validation.FieldError(FieldName,
			fmt.Sprintf("logo must be at most %s.", humanize.Bytes(uint64(r.maxSize))))
	}

	if err := tmp.Sync(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return "", fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrStorage, err)
	}

	name := r.newName() + ext
	if err := os.Rename(tmpName, filepath.Join(r.dir, name)); err != nil {
		return "", fmt.Errorf("%w: %w", ErrStorage, err)
	}
	keep = true

	metrics.LogoUploadBytes.Add(float64(n))
	slog.Debug("logo stored", "name", name, "size", humanize.Bytes(uint64(n)))

	return URLPrefix + name, nil
}

// Remove deletes the file behind ref. Missing files are not an error.
func (r *Resolver) Remove(ref string) error {
	name, err := nameFromRef(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(r.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}

// Open returns the stored file behind ref
func (r *Resolver) Open(ref string) (*os.File, error) {
	name, err := nameFromRef(ref)
	if err != nil {
		return nil, err
	}
	return os.Open(filepath.Join(r.dir, name))
}

// ValidRef reports whether ref names a file this package could have stored
func ValidRef(ref string) bool {
	_, err := nameFromRef(ref)
	return err == nil
}

func nameFromRef(ref string) (string, error) {
	name, ok := strings.CutPrefix(ref, URLPrefix)
	if !ok || name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	return name, nil
}

// Handler serves stored files read-only under URLPrefix. Directories and
// in-flight temp files answer 404.
func (r *Resolver) Handler() http.Handler {
	files := http.FileServer(filesOnly{http.Dir(r.dir)})
	return http.StripPrefix(strings.TrimSuffix(URLPrefix, "/"), files)
}

type filesOnly struct {
	root http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	if strings.HasPrefix(filepath.Base(name), ".") {
		return nil, fs.ErrNotExist
	}
	file, err := f.root.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil || info.IsDir() {
		file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}
