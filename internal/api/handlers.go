package api

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/katakuxiko/agentchat/internal/model"
	"github.com/katakuxiko/agentchat/internal/pdf"
	"github.com/katakuxiko/agentchat/internal/router"
	"github.com/katakuxiko/agentchat/internal/service"
	"github.com/katakuxiko/agentchat/internal/session"
	"github.com/katakuxiko/agentchat/internal/util"
)

const maxAudioBytes = 25 << 20

type Chatter interface {
	Interact(ctx context.Context, sess *session.Session, in service.Input) (service.Reply, error)
	Route(ctx context.Context, query string) router.Decision
}

type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the HTTP handlers use.
type Deps struct {
	Chat       Chatter
	Sessions   *session.Manager
	Models     ModelLister
	SalesDB    Pinger
	DefaultDoc *pdf.Document
	UploadDir  string
	ChunkSize  int
	Overlap    int
	Log        zerolog.Logger
}

// Handler serves the chat API.
type Handler struct {
	Deps
}

func NewHandler(d Deps) *Handler {
	return &Handler{Deps: d}
}

type documentInfo struct {
	Path   string     `json:"path"`
	Status pdf.Status `json:"status"`
	Chunks int        `json:"chunks"`
	Error  string     `json:"error,omitempty"`
}

func describe(doc *pdf.Document) documentInfo {
	if doc == nil {
		return documentInfo{Status: pdf.StatusEmpty}
	}
	info := documentInfo{Path: doc.Path, Status: doc.Status, Chunks: doc.Len()}
	if doc.Err != nil {
		info.Error = doc.Err.Error()
	}
	return info
}

type check struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}

// Health reports the sales database and the default document.
func (h *Handler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	checks := map[string]check{}
	healthy := true

	if h.SalesDB == nil {
		checks["sales_db"] = check{Status: "fail", Message: "not configured"}
		healthy = false
	} else {
		start := time.Now()
		if err := h.SalesDB.Ping(ctx); err != nil {
			checks["sales_db"] = check{Status: "fail", Message: err.Error()}
			healthy = false
		} else {
			checks["sales_db"] = check{Status: "pass", Latency: time.Since(start).String()}
		}
	}

	doc := describe(h.DefaultDoc)
	if doc.Status == pdf.StatusLoaded {
		checks["document"] = check{Status: "pass"}
	} else {
		checks["document"] = check{Status: "fail", Message: string(doc.Status)}
		healthy = false
	}

	status, code := "healthy", fiber.StatusOK
	if !healthy {
		status, code = "degraded", fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status":    status,
		"checks":    checks,
		"document":  doc,
		"sessions":  h.Sessions.Len(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ListModels proxies the generation endpoint's model list.
func (h *Handler) ListModels(c *fiber.Ctx) error {
	if h.Models == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "model listing not configured"})
	}
	models, err := h.Models.ListModels(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"models": models})
}

// Route classifies a query without answering it.
func (h *Handler) Route(c *fiber.Ctx) error {
	var req model.AskRequest
	if err := c.BodyParser(&req); err != nil || req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": `invalid request, expected JSON: {"query":"..."}`})
	}
	d := h.Chat.Route(c.UserContext(), req.Query)
	resp := fiber.Map{"route": d.Route, "rule": d.Rule}
	if d.Err != nil {
		resp["warnings"] = []string{"router: " + d.Err.Error()}
	}
	return c.JSON(resp)
}

func (h *Handler) CreateSession(c *fiber.Ctx) error {
	s := h.Sessions.Create(h.DefaultDoc)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":       s.ID,
		"document": describe(s.Document()),
	})
}

func (h *Handler) GetSession(c *fiber.Ctx) error {
	s, ok := h.session(c)
	if !ok {
		return notFound(c)
	}
	return c.JSON(fiber.Map{
		"id":       s.ID,
		"document": describe(s.Document()),
		"messages": s.Transcript.Messages(),
		"pending":  s.Transcript.AwaitingReply(),
	})
}

func (h *Handler) DeleteSession(c *fiber.Ctx) error {
	if err := h.Sessions.Delete(c.Params("id")); err != nil {
		return notFound(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PostMessage handles a typed question.
func (h *Handler) PostMessage(c *fiber.Ctx) error {
	s, ok := h.session(c)
	if !ok {
		return notFound(c)
	}
	var req model.AskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": `invalid request, expected JSON: {"query":"..."}`})
	}
	return h.interact(c, s, service.Input{Text: req.Query})
}

// PostAudio handles a recorded question (multipart field "audio"). An
// optional "query" field is used when nothing is recognized.
func (h *Handler) PostAudio(c *fiber.Ctx) error {
	s, ok := h.session(c)
	if !ok {
		return notFound(c)
	}
	fh, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "audio is required (form field: audio)"})
	}
	if fh.Size > maxAudioBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "audio too large"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot read audio"})
	}
	defer f.Close()
	audio, err := io.ReadAll(io.LimitReader(f, maxAudioBytes))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot read audio"})
	}
	return h.interact(c, s, service.Input{Text: c.FormValue("query"), Audio: audio})
}

func (h *Handler) interact(c *fiber.Ctx, s *session.Session, in service.Input) error {
	reply, err := h.Chat.Interact(c.UserContext(), s, in)
	if errors.Is(err, service.ErrEmptyInput) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":    err.Error(),
			"warnings": reply.Warnings,
		})
	}
	if err != nil {
		h.Log.Error().Err(err).Str("session", s.ID).Msg("interaction failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(reply.Response())
}

// UploadDocument replaces the session's document with an uploaded PDF. A
// PDF that cannot be read leaves the current document in place.
func (h *Handler) UploadDocument(c *fiber.Ctx) error {
	s, ok := h.session(c)
	if !ok {
		return notFound(c)
	}
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required (form field: file)"})
	}
	if !util.HasExt(file.Filename, ".pdf") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "only PDF files are accepted"})
	}

	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		h.Log.Error().Err(err).Str("dir", h.UploadDir).Msg("mkdir failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to prepare storage"})
	}
	savePath := filepath.Join(h.UploadDir, util.Timestamped(file.Filename))
	if err := c.SaveFile(file, savePath); err != nil {
		h.Log.Error().Err(err).Str("path", savePath).Msg("save file failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save file"})
	}

	doc := pdf.Load(savePath, h.ChunkSize, h.Overlap)
	if doc.Status == pdf.StatusFailed {
		h.Log.Warn().Err(doc.Err).Str("path", savePath).Msg("uploaded document unreadable")
		if err := os.Remove(savePath); err != nil {
			h.Log.Warn().Err(err).Str("path", savePath).Msg("remove unreadable upload failed")
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":    "failed to extract text from pdf",
			"document": describe(doc),
		})
	}
	s.SetDocument(doc)
	h.Log.Info().Str("session", s.ID).Str("path", savePath).Int("chunks", doc.Len()).Msg("document loaded")

	return c.JSON(fiber.Map{"document": describe(doc)})
}

func (h *Handler) session(c *fiber.Ctx) (*session.Session, bool) {
	s, err := h.Sessions.Get(c.Params("id"))
	return s, err == nil
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
}
