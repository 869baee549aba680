package main

import (
	"net/http"
	"time"

	exporthttp "github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/adapters/http"
	"github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/app"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
)

type healthResponse struct {
	Status      string    `json:"status"`
	Definitions int       `json:"definitions"`
	PDF         string    `json:"pdf"`
	Artifacts   bool      `json:"artifacts"`
	Started     time.Time `json:"started"`
}

// setupRoutes registers the health check and the export endpoints.
func setupRoutes(r router.Router[*fiber.App], a *app.App) {
	started := time.Now().UTC()
	r.Get("/healthz", func(c router.Context) error {
		return c.JSON(http.StatusOK, healthResponse{
			Status:      "ok",
			Definitions: len(a.Registry.Names()),
			PDF:         a.Config.PDF.Engine,
			Artifacts:   a.Store != nil,
			Started:     started,
		})
	})

	exportHandler := exporthttp.NewHandler(exporthttp.Config{
		Service:  a.Service,
		BasePath: a.Config.Server.BasePath,
		Decoder:  exporthttp.JSONRequestDecoder{MaxBodyBytes: a.Config.Export.MaxBodyBytes},
		Logger:   a.Logger,
	})
	exportHandler.RegisterRoutes(r)
}
