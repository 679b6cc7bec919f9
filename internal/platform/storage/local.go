// Package storage writes uploaded files under the upload root and, when
// configured, mirrors them to an S3 compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var ErrInvalidPath = errors.New("invalid upload path")

// Mirror receives a copy of every stored file. Failures are logged, the
// local copy stays authoritative.
type Mirror interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

type Local struct {
	Root   string
	mirror Mirror
}

func NewLocal(root string, mirror Mirror) *Local {
	return &Local{Root: root, mirror: mirror}
}

// EnsureFolder creates <root>/<folder> on first use.
func (l *Local) EnsureFolder(folder string) (string, error) {
	dir := filepath.Join(l.Root, filepath.Clean("/"+folder))
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("create upload folder %s: %w", folder, err)
	}
	return dir, nil
}

// Save writes data to <root>/<folder>/<name> and returns the public
// reference "/<folder>/<name>".
func (l *Local) Save(ctx context.Context, folder, name, contentType string, data []byte) (string, error) {
	if strings.ContainsAny(name, `/\`) || name == "" || name == "." || name == ".." {
		return "", ErrInvalidPath
	}
	dir, err := l.EnsureFolder(folder)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o640); err != nil {
		return "", fmt.Errorf("write upload %s: %w", name, err)
	}
	ref := path.Join("/", folder, name)
	if l.mirror != nil {
		if err := l.mirror.Put(ctx, strings.TrimPrefix(ref, "/"), data, contentType); err != nil {
			slog.Warn("upload mirror failed", "path", ref, "err", err)
		}
	}
	return ref, nil
}

// Open resolves a public reference back to the stored file.
func (l *Local) Open(ref string) (io.ReadCloser, error) {
	full, err := l.resolve(ref)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

func (l *Local) ReadFile(ref string) ([]byte, error) {
	full, err := l.resolve(ref)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(full)
}

func (l *Local) resolve(ref string) (string, error) {
	cleaned := path.Clean("/" + strings.TrimSpace(ref))
	if cleaned == "/" {
		return "", ErrInvalidPath
	}
	return filepath.Join(l.Root, filepath.FromSlash(cleaned)), nil
}
