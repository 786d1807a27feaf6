package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"relay_server/core/domain"
	"relay_server/core/port/in"
	"relay_server/pkg/apperr"
	"relay_server/pkg/logger"
	"relay_server/pkg/response"
)

// SessionHandler handles conversation upload and session management.
type SessionHandler struct {
	sessions in.SessionService
	analyses in.AnalysisService
}

func NewSessionHandler(sessions in.SessionService, analyses in.AnalysisService) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		analyses: analyses,
	}
}

// Register registers session routes.
func (h *SessionHandler) Register(router fiber.Router) {
	sessions := router.Group("/sessions")

	sessions.Post("/", h.Upload)
	sessions.Get("/", h.List)
	sessions.Get("/:id", h.Get)
	sessions.Delete("/:id", h.Delete)
}

// UploadResult is the upload response payload: the stored session, the
// parsed statistics and the analysis run over the messages.
type UploadResult struct {
	Session    *domain.ChatSession      `json:"session"`
	Statistics domain.ConversationStats `json:"statistics"`
	Analysis   *domain.AnalysisRecord   `json:"analysis"`
}

// Upload accepts a multipart CSV export, stores the session and runs
// the analysis pipeline over the parsed messages in the same request.
// Messages themselves are never persisted.
func (h *SessionHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperr.MissingField("file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apperr.BadRequest("cannot read uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return apperr.BadRequest("cannot read uploaded file")
	}

	session, conversation, err := h.sessions.ImportCSV(c.Context(), fileHeader.Filename, data)
	if err != nil {
		return err
	}

	record, err := h.analyses.Analyze(c.Context(), session.ID, conversation.Messages)
	if err != nil {
		// The session is already stored; report the analysis failure.
		logger.WithError(err).WithField("session_id", session.ID.String()).
			Error("analysis failed after upload")
		return err
	}

	return response.Created(c, UploadResult{
		Session:    session,
		Statistics: conversation.Stats,
		Analysis:   record,
	})
}

// List returns recent sessions, newest first.
func (h *SessionHandler) List(c *fiber.Ctx) error {
	page := response.GetPagination(c, 20, 100)

	sessions, err := h.sessions.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return err
	}

	return response.OKWithMeta(c, sessions, &response.Meta{
		Limit:    page.Limit,
		Offset:   page.Offset,
		Returned: len(sessions),
	})
}

// Get returns one session by id.
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	id, err := sessionIDParam(c)
	if err != nil {
		return err
	}

	session, err := h.sessions.Get(c.Context(), id)
	if err != nil {
		return err
	}

	return response.OK(c, session)
}

// Delete removes a session and its stored documents.
func (h *SessionHandler) Delete(c *fiber.Ctx) error {
	id, err := sessionIDParam(c)
	if err != nil {
		return err
	}

	if err := h.sessions.Delete(c.Context(), id); err != nil {
		return err
	}

	return response.NoContent(c)
}
