package main

import (
	"github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/app"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/goliatone/go-router"
)

// newServer builds the go-router fiber server and mounts the routes.
func newServer(a *app.App, accessLog bool) router.Server[*fiber.App] {
	srv := router.NewFiberAdapter(fiberAppInitializer(a, accessLog))
	setupRoutes(srv.Router(), a)
	return srv
}

func fiberAppInitializer(a *app.App, accessLog bool) func(*fiber.App) *fiber.App {
	return func(*fiber.App) *fiber.App {
		cfg := a.Config
		bodyLimit := int(cfg.Export.MaxBodyBytes)
		if bodyLimit <= 0 {
			bodyLimit = fiber.DefaultBodyLimit
		}

		fiberApp := fiber.New(fiber.Config{
			AppName:               "archivexd",
			BodyLimit:             bodyLimit,
			DisableStartupMessage: true,
		})
		if accessLog {
			fiberApp.Use(logger.New(logger.Config{
				Format: "[${time}] ${status} ${method} ${path} ${latency}\n",
			}))
		}
		fiberApp.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.Server.CORSOrigins,
			AllowMethods:  "GET,HEAD,POST,OPTIONS",
			ExposeHeaders: "Content-Disposition,X-Export-Artifact",
		}))
		return fiberApp
	}
}
