package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/app"
	"github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/config"
	"github.com/gofiber/fiber/v2"
)

func newTestServer(t *testing.T) *fiber.App {
	t.Helper()
	cfg := config.Defaults()
	cfg.Export.TemplateDir = t.TempDir()
	cfg.Export.ArtifactDir = t.TempDir()
	cfg.Export.Timezone = "UTC"
	cfg.Export.ScaffoldMissing = true
	a, err := app.New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("app: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return newServer(a, false).WrappedRouter()
}

func TestServerHealth(t *testing.T) {
	resp, err := newTestServer(t).Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if health.Status != "ok" || health.Definitions != 3 || !health.Artifacts || health.PDF != config.EngineGoFPDF {
		t.Fatalf("unexpected health %+v", health)
	}
}

func TestServerExports(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.Test(httptest.NewRequest(http.MethodGet, "/api/exports", nil))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.StatusCode)
	}

	body := `{"header": {"titulo": "Catálogo 2024"}, "details": [{"numeroItem": 1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/exports/transfer_catalog.pdf", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = srv.Test(req, -1)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export: expected 200, got %d: %s", resp.StatusCode, data)
	}
	if !strings.HasPrefix(string(data), "%PDF-") {
		t.Fatalf("expected pdf body")
	}
	if !strings.HasPrefix(resp.Header.Get("X-Export-Artifact"), "transfer_catalog/") {
		t.Fatalf("expected artifact header, got %q", resp.Header.Get("X-Export-Artifact"))
	}
}

func TestServerNotFound(t *testing.T) {
	resp, err := newTestServer(t).Test(httptest.NewRequest(http.MethodPost, "/api/exports/ledger.xlsx", strings.NewReader("{}")))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestServerRoutesThroughRouter(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.Test(httptest.NewRequest(http.MethodGet, "/api/exports/general_inventory/template", nil), -1)
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(string(data), "PK") {
		t.Fatalf("template: expected workbook, got %d %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(resp.Header.Get("Content-Disposition"), "Plantilla_Inventario_General.xlsx") {
		t.Fatalf("template: unexpected disposition %q", resp.Header.Get("Content-Disposition"))
	}

	req := httptest.NewRequest(http.MethodPost, "/api/exports/general_inventory.xlsx", strings.NewReader(`{"header": {"fechaTransferencia": "yesterday"}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = srv.Test(req, -1)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "validation" {
		t.Fatalf("expected validation code, got %q", body.Error.Code)
	}
}
