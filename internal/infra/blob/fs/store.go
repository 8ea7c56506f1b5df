// Package fs stores artifacts as files under a root directory, with a JSON
// sidecar per object for its content type, checksum and metadata.
package fs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"growcore/internal/blob/core"
)

// DefaultRoot is used when no root is configured.
const DefaultRoot = "./artifacts"

const sidecarSuffix = ".meta.json"

type sidecar struct {
	ContentType string            `json:"contentType,omitempty"`
	Checksum    string            `json:"checksum"`
	Size        int64             `json:"size"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	StoredAt    time.Time         `json:"storedAt"`
}

func (m sidecar) object(key string) core.Object {
	return core.Object{
		Key:         key,
		Size:        m.Size,
		ContentType: m.ContentType,
		Checksum:    m.Checksum,
		Metadata:    core.CloneMetadata(m.Metadata),
		StoredAt:    m.StoredAt,
	}
}

// Store is a directory-backed core.Store.
type Store struct {
	root string
}

// New creates root if needed.
func New(root string) (*Store, error) {
	if root == "" {
		root = DefaultRoot
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &Store{root: root}, nil
}

// Root returns the base directory.
func (s *Store) Root() string { return s.root }

// Driver implements core.Store.
func (s *Store) Driver() core.Driver { return core.DriverFilesystem }

func (s *Store) paths(key string) (clean, data, meta string, err error) {
	clean, err = core.CleanKey(key)
	if err != nil {
		return "", "", "", err
	}
	if strings.HasSuffix(clean, sidecarSuffix) {
		return "", "", "", fmt.Errorf("%w: %q", core.ErrInvalidKey, key)
	}
	data = filepath.Join(s.root, filepath.FromSlash(clean))
	return clean, data, data + sidecarSuffix, nil
}

// Put writes through a temp file and renames it into place.
func (s *Store) Put(_ context.Context, key string, r io.Reader, opts core.PutOptions) (core.Object, error) {
	clean, dataPath, metaPath, err := s.paths(key)
	if err != nil {
		return core.Object{}, err
	}
	if _, err := os.Stat(dataPath); err == nil {
		return core.Object{}, fmt.Errorf("%w: %s", core.ErrExists, clean)
	}
	dir := filepath.Dir(dataPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return core.Object{}, err
	}
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return core.Object{}, err
	}
	defer os.Remove(tmp.Name())

	h := sha256.New()
	size, err := io.Copy(io.MultiWriter(tmp, h), r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return core.Object{}, fmt.Errorf("write %s: %w", clean, err)
	}
	if err := os.Rename(tmp.Name(), dataPath); err != nil {
		return core.Object{}, err
	}
	meta := sidecar{
		ContentType: opts.ContentType,
		Checksum:    hex.EncodeToString(h.Sum(nil)),
		Size:        size,
		Metadata:    core.CloneMetadata(opts.Metadata),
		StoredAt:    time.Now().UTC(),
	}
	b, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return core.Object{}, err
	}
	if err := os.WriteFile(metaPath, b, 0o644); err != nil {
		return core.Object{}, err
	}
	return meta.object(clean), nil
}

// Open implements core.Store.
func (s *Store) Open(ctx context.Context, key string) (core.Object, io.ReadCloser, error) {
	obj, err := s.Stat(ctx, key)
	if err != nil {
		return core.Object{}, nil, err
	}
	_, dataPath, _, _ := s.paths(key)
	f, err := os.Open(dataPath)
	if err != nil {
		return core.Object{}, nil, notFound(err, obj.Key)
	}
	return obj, f, nil
}

// Stat reads the sidecar.
func (s *Store) Stat(_ context.Context, key string) (core.Object, error) {
	clean, _, metaPath, err := s.paths(key)
	if err != nil {
		return core.Object{}, err
	}
	meta, err := readSidecar(metaPath)
	if err != nil {
		return core.Object{}, notFound(err, clean)
	}
	return meta.object(clean), nil
}

// Delete removes the object and its sidecar.
func (s *Store) Delete(_ context.Context, key string) (bool, error) {
	_, dataPath, metaPath, err := s.paths(key)
	if err != nil {
		return false, err
	}
	if err := os.Remove(dataPath); err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	_ = os.Remove(metaPath)
	return true, nil
}

// List walks the root for sidecars whose key has prefix.
func (s *Store) List(_ context.Context, prefix string) ([]core.Object, error) {
	var out []core.Object
	err := filepath.WalkDir(s.root, func(p string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, sidecarSuffix) {
			return nil
		}
		rel, err := filepath.Rel(s.root, strings.TrimSuffix(p, sidecarSuffix))
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		meta, err := readSidecar(p)
		if err != nil {
			return err
		}
		out = append(out, meta.object(key))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// URL is unsupported; files are served through the API instead.
func (s *Store) URL(context.Context, string, time.Duration) (string, error) {
	return "", core.ErrUnsupported
}

func readSidecar(path string) (sidecar, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return sidecar{}, err
	}
	var m sidecar
	if err := json.Unmarshal(b, &m); err != nil {
		return sidecar{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return m, nil
}

func notFound(err error, key string) error {
	if errors.Is(err, iofs.ErrNotExist) {
		return fmt.Errorf("%w: %s", core.ErrNotFound, key)
	}
	return err
}
