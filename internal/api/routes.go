package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(app *fiber.App, d Deps) {
	h := NewHandler(d)

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(Metrics())
	app.Use(RequestLogger(d.Log))

	app.Get("/health", h.Health)
	app.Get("/models", h.ListModels)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Post("/route", h.Route)

	s := app.Group("/sessions")
	s.Post("/", h.CreateSession)
	s.Get("/:id", h.GetSession)
	s.Delete("/:id", h.DeleteSession)
	s.Post("/:id/messages", h.PostMessage)
	s.Post("/:id/audio", h.PostAudio)
	s.Post("/:id/document", h.UploadDocument)
}
