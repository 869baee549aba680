package export

import (
	"bytes"
	"context"
	"io"
	"path"
	"time"
)

// ArtifactMeta describes a stored export.
type ArtifactMeta struct {
	Definition  string    `json:"definition" yaml:"definition"`
	Format      Format    `json:"format" yaml:"format"`
	ContentType string    `json:"content_type" yaml:"content_type"`
	Filename    string    `json:"filename" yaml:"filename"`
	Size        int64     `json:"size" yaml:"size"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// ArtifactRef references a stored export.
type ArtifactRef struct {
	Key  string
	Meta ArtifactMeta
}

// ArtifactStore keeps copies of rendered exports.
type ArtifactStore interface {
	Put(ctx context.Context, key string, r io.Reader, meta ArtifactMeta) (ArtifactRef, error)
	Open(ctx context.Context, key string) (io.ReadCloser, ArtifactMeta, error)
	Delete(ctx context.Context, key string) error
}

// ArtifactKey is the store key for a result: "<definition>/<filename>".
func ArtifactKey(result ExportResult) string {
	return path.Join(result.Definition, result.Filename)
}

// StoreResult writes result to store under ArtifactKey.
func StoreResult(ctx context.Context, store ArtifactStore, result ExportResult) (ArtifactRef, error) {
	if store == nil {
		return ArtifactRef{}, NewError(KindInternal, "artifact store is nil", nil)
	}
	return store.Put(ctx, ArtifactKey(result), bytes.NewReader(result.Data), ArtifactMeta{
		Definition:  result.Definition,
		Format:      result.Format,
		ContentType: result.ContentType,
		Filename:    result.Filename,
	})
}
