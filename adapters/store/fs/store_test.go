package storefs

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/export"
)

func TestStore_PutOpenDelete(t *testing.T) {
	store := NewStore(t.TempDir())
	store.Now = func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }

	ref, err := store.Put(context.Background(), "general_inventory/inventario.xlsx", bytes.NewBufferString("hello"), export.ArtifactMeta{
		Definition: "general_inventory",
		Format:     export.FormatXLSX,
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if ref.Meta.Size != 5 || ref.Meta.Filename != "inventario.xlsx" {
		t.Fatalf("unexpected meta %+v", ref.Meta)
	}
	if !ref.Meta.CreatedAt.Equal(store.Now()) {
		t.Fatalf("expected created_at from clock, got %v", ref.Meta.CreatedAt)
	}
	if ref.Meta.ContentType == "" {
		t.Fatalf("expected content type from extension")
	}

	reader, meta, err := store.Open(context.Background(), "general_inventory/inventario.xlsx")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	data, err := io.ReadAll(reader)
	_ = reader.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("expected payload, got %q", string(data))
	}
	if meta.Definition != "general_inventory" || meta.Format != export.FormatXLSX {
		t.Fatalf("expected sidecar meta, got %+v", meta)
	}

	if err := store.Delete(context.Background(), "general_inventory/inventario.xlsx"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, _, err := store.Open(context.Background(), "general_inventory/inventario.xlsx"); export.KindFromError(err) != export.KindNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestStore_RejectsBadKeys(t *testing.T) {
	store := NewStore(t.TempDir())
	for _, key := range []string{"", "/", "a.xlsx.meta.yaml"} {
		if _, err := store.Put(context.Background(), key, bytes.NewBufferString("x"), export.ArtifactMeta{}); export.KindFromError(err) != export.KindValidation {
			t.Fatalf("key %q: expected validation error, got %v", key, err)
		}
	}
	if _, err := NewStore("").Put(context.Background(), "a", bytes.NewBufferString("x"), export.ArtifactMeta{}); export.KindFromError(err) != export.KindValidation {
		t.Fatalf("expected root required error, got %v", err)
	}
}

func TestStore_KeyStaysUnderRoot(t *testing.T) {
	store := NewStore(t.TempDir())
	ref, err := store.Put(context.Background(), "../../escape.pdf", bytes.NewBufferString("x"), export.ArtifactMeta{})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	keys, err := store.List(context.Background(), "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(keys) != 1 || keys[0] != "escape.pdf" {
		t.Fatalf("expected key cleaned into root, got %v (ref %+v)", keys, ref)
	}
}

func TestStore_List(t *testing.T) {
	store := NewStore(t.TempDir())
	for _, key := range []string{"transfer_register/b.pdf", "transfer_register/a.xlsx", "transfer_catalog/c.xlsx"} {
		if _, err := store.Put(context.Background(), key, bytes.NewBufferString("x"), export.ArtifactMeta{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	keys, err := store.List(context.Background(), "transfer_register/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(keys) != 2 || keys[0] != "transfer_register/a.xlsx" || keys[1] != "transfer_register/b.pdf" {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestStoreResult(t *testing.T) {
	store := NewStore(t.TempDir())
	ref, err := export.StoreResult(context.Background(), store, export.ExportResult{
		Definition:  "transfer_catalog",
		Format:      export.FormatPDF,
		Filename:    "catalogo_1.pdf",
		ContentType: export.FormatPDF.ContentType(),
		Data:        []byte("%PDF"),
	})
	if err != nil {
		t.Fatalf("store result: %v", err)
	}
	if ref.Key != "transfer_catalog/catalogo_1.pdf" || ref.Meta.Size != 4 {
		t.Fatalf("unexpected ref %+v", ref)
	}
}

func TestStore_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewStore(t.TempDir()).Put(ctx, "a.pdf", bytes.NewBufferString("x"), export.ArtifactMeta{}); export.KindFromError(err) != export.KindCanceled {
		t.Fatalf("expected canceled, got %v", err)
	}
}

func TestStore_SidecarIsYAML(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	if _, err := store.Put(context.Background(), "transfer_catalog/c.pdf", bytes.NewBufferString("%PDF"), export.ArtifactMeta{Definition: "transfer_catalog", Format: export.FormatPDF}); err != nil {
		t.Fatalf("put: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "transfer_catalog", "c.pdf.meta.yaml"))
	if err != nil {
		t.Fatalf("read sidecar: %v", err)
	}
	if !strings.Contains(string(data), "definition: transfer_catalog") || !strings.Contains(string(data), "content_type: application/pdf") {
		t.Fatalf("unexpected sidecar %s", data)
	}
}

func TestStore_MissingRoot(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent"))
	if _, _, err := store.Open(context.Background(), "a.pdf"); export.KindFromError(err) != export.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if keys, err := store.List(context.Background(), ""); err != nil || len(keys) != 0 {
		t.Fatalf("expected empty list, got %v %v", keys, err)
	}
	if err := store.Delete(context.Background(), "a.pdf"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}
