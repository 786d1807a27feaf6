package http

import (
	"github.com/gofiber/fiber/v2"

	"relay_server/core/port/in"
	"relay_server/pkg/response"
)

// AnalysisHandler serves stored conversation analyses.
type AnalysisHandler struct {
	analyses in.AnalysisService
}

func NewAnalysisHandler(analyses in.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analyses: analyses}
}

// Register registers analysis routes under the session group.
func (h *AnalysisHandler) Register(router fiber.Router) {
	router.Get("/sessions/:id/analysis", h.Get)
}

// Get returns the stored analysis record for a session.
func (h *AnalysisHandler) Get(c *fiber.Ctx) error {
	id, err := sessionIDParam(c)
	if err != nil {
		return err
	}

	record, err := h.analyses.GetAnalysis(c.Context(), id)
	if err != nil {
		return err
	}

	return response.OK(c, record)
}
