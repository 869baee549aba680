package export

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

// TemplateStore serves template bytes from a file system. Loaded bytes are
// cached and never handed out directly, so concurrent readers cannot alias them.
type TemplateStore struct {
	fsys    fs.FS
	noCache bool

	mu    sync.RWMutex
	cache map[string][]byte
}

// TemplateStoreOption configures a TemplateStore.
type TemplateStoreOption func(*TemplateStore)

// WithoutTemplateCache reads the file system on every call.
func WithoutTemplateCache() TemplateStoreOption {
	return func(s *TemplateStore) {
		s.noCache = true
	}
}

// NewTemplateStore creates a store rooted at fsys.
func NewTemplateStore(fsys fs.FS, opts ...TemplateStoreOption) *TemplateStore {
	store := &TemplateStore{fsys: fsys, cache: make(map[string][]byte)}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store
}

// Template returns a copy of the template bytes for id.
func (s *TemplateStore) Template(ctx context.Context, id string) ([]byte, error) {
	if s == nil || s.fsys == nil {
		return nil, NewError(KindInternal, "template store is not configured", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name, err := templatePath(id)
	if err != nil {
		return nil, err
	}

	if !s.noCache {
		s.mu.RLock()
		cached, ok := s.cache[name]
		s.mu.RUnlock()
		if ok {
			return bytes.Clone(cached), nil
		}
	}

	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewError(KindNotFound, "template "+quote(id)+" not found", err)
		}
		return nil, NewError(KindTemplate, "template "+quote(id)+" unreadable", err)
	}

	if !s.noCache {
		s.mu.Lock()
		s.cache[name] = data
		s.mu.Unlock()
	}
	return bytes.Clone(data), nil
}

// openTemplate parses a fresh workbook for one export call.
func openTemplate(ctx context.Context, src TemplateSource, id string) (*excelize.File, error) {
	data, err := src.Template(ctx, id)
	if err != nil {
		if KindFromError(err) == KindInternal {
			return nil, NewError(KindTemplate, "template "+quote(id)+" unreadable", err)
		}
		return nil, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, NewError(KindTemplate, "template "+quote(id)+" is not a valid workbook", err)
	}
	return f, nil
}

func templatePath(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", NewError(KindValidation, "template id is required", nil)
	}
	clean := path.Clean("/" + strings.ReplaceAll(id, "\\", "/"))
	name := strings.TrimPrefix(clean, "/")
	if name == "" || name == "." || !fs.ValidPath(name) {
		return "", NewError(KindValidation, "invalid template id "+quote(id), nil)
	}
	if path.Ext(name) == "" {
		name += ".xlsx"
	}
	return name, nil
}
