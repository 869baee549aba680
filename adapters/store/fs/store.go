package storefs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/export"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const sidecarSuffix = ".meta.yaml"

// Store keeps exported workbooks and PDFs under Root. Each artifact gets a
// YAML sidecar with its ArtifactMeta. Keys are slash separated and cleaned,
// so "../x.pdf" lands at Root/x.pdf; all file access goes through os.Root.
type Store struct {
	Root string
	Now  func() time.Time
}

// NewStore creates a filesystem-backed artifact store.
func NewStore(root string) *Store {
	return &Store{Root: root, Now: time.Now}
}

var _ export.ArtifactStore = (*Store)(nil)

// Put replaces key with the contents of r. The payload is written to a
// temporary name first so readers never see a partial file.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, meta export.ArtifactMeta) (export.ArtifactRef, error) {
	name, err := s.name(ctx, key)
	if err != nil {
		return export.ArtifactRef{}, err
	}
	root, err := s.open(true)
	if err != nil {
		return export.ArtifactRef{}, err
	}
	defer root.Close()

	if dir := path.Dir(name); dir != "." {
		if err := root.MkdirAll(dir, 0o755); err != nil {
			return export.ArtifactRef{}, export.NewError(export.KindInternal, "create artifact dir", err)
		}
	}
	size, err := replace(root, name, func(w io.Writer) (int64, error) { return io.Copy(w, r) })
	if err != nil {
		return export.ArtifactRef{}, export.NewError(export.KindInternal, fmt.Sprintf("write artifact %q", key), err)
	}

	meta.Size = size
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = s.now()
	}
	if meta.ContentType == "" {
		meta.ContentType = contentType(meta.Format, name)
	}
	if meta.Filename == "" {
		meta.Filename = path.Base(name)
	}
	sidecar, err := yaml.Marshal(meta)
	if err != nil {
		return export.ArtifactRef{}, export.NewError(export.KindInternal, "encode artifact meta", err)
	}
	if _, err := replace(root, name+sidecarSuffix, func(w io.Writer) (int64, error) {
		n, err := w.Write(sidecar)
		return int64(n), err
	}); err != nil {
		return export.ArtifactRef{}, export.NewError(export.KindInternal, "write artifact meta", err)
	}
	return export.ArtifactRef{Key: name, Meta: meta}, nil
}

// Open returns the artifact and its metadata. A missing or unreadable sidecar
// is rebuilt from the file itself.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, export.ArtifactMeta, error) {
	name, err := s.name(ctx, key)
	if err != nil {
		return nil, export.ArtifactMeta{}, err
	}
	root, err := s.open(false)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, export.ArtifactMeta{}, export.NewError(export.KindNotFound, fmt.Sprintf("artifact %q not found", key), err)
	}
	if err != nil {
		return nil, export.ArtifactMeta{}, err
	}
	defer root.Close()

	file, err := root.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, export.ArtifactMeta{}, export.NewError(export.KindNotFound, fmt.Sprintf("artifact %q not found", key), err)
	}
	if err != nil {
		return nil, export.ArtifactMeta{}, export.NewError(export.KindInternal, fmt.Sprintf("open artifact %q", key), err)
	}

	var meta export.ArtifactMeta
	if data, err := root.ReadFile(name + sidecarSuffix); err == nil {
		_ = yaml.Unmarshal(data, &meta)
	}
	if meta.ContentType == "" {
		meta.ContentType = contentType(meta.Format, name)
	}
	if meta.Filename == "" {
		meta.Filename = path.Base(name)
	}
	if info, err := file.Stat(); err == nil {
		meta.Size = info.Size()
		if meta.CreatedAt.IsZero() {
			meta.CreatedAt = info.ModTime()
		}
	}
	return file, meta, nil
}

// Delete removes an artifact and its sidecar. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	name, err := s.name(ctx, key)
	if err != nil {
		return err
	}
	root, err := s.open(false)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer root.Close()
	for _, target := range []string{name, name + sidecarSuffix} {
		if err := root.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return export.NewError(export.KindInternal, fmt.Sprintf("delete artifact %q", key), err)
		}
	}
	return nil
}

// List returns the keys stored under prefix, sorted.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	root, err := s.open(false)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer root.Close()

	var keys []string
	err = fs.WalkDir(root.FS(), ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") || strings.HasSuffix(name, sidecarSuffix) {
			return nil
		}
		if strings.HasPrefix(name, prefix) {
			keys = append(keys, name)
		}
		return nil
	})
	if err != nil {
		return nil, export.NewError(export.KindInternal, "list artifacts", err)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) ready(ctx context.Context) error {
	if s == nil {
		return export.NewError(export.KindInternal, "store is nil", nil)
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if strings.TrimSpace(s.Root) == "" {
		return export.NewError(export.KindValidation, "store root is required", nil)
	}
	return nil
}

// name validates key and returns its cleaned, root-relative form.
func (s *Store) name(ctx context.Context, key string) (string, error) {
	if err := s.ready(ctx); err != nil {
		return "", err
	}
	name := strings.TrimPrefix(path.Clean("/"+key), "/")
	if key == "" || name == "" || strings.HasSuffix(name, sidecarSuffix) {
		return "", export.NewError(export.KindValidation, fmt.Sprintf("invalid artifact key %q", key), nil)
	}
	return name, nil
}

func (s *Store) open(create bool) (*os.Root, error) {
	if create {
		if err := os.MkdirAll(s.Root, 0o755); err != nil {
			return nil, export.NewError(export.KindInternal, "create store root", err)
		}
	}
	root, err := os.OpenRoot(s.Root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, export.NewError(export.KindInternal, "open store root", err)
	}
	return root, nil
}

func (s *Store) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// replace writes name through a uniquely named sibling and renames it into
// place.
func replace(root *os.Root, name string, fill func(io.Writer) (int64, error)) (int64, error) {
	tmp := path.Join(path.Dir(name), ".tmp-"+uuid.NewString())
	f, err := root.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, err
	}
	defer func() { _ = root.Remove(tmp) }()

	n, err := fill(f)
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, err
	}
	return n, root.Rename(tmp, name)
}

func contentType(format export.Format, name string) string {
	if format != "" {
		return format.ContentType()
	}
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
