package http

import (
	"github.com/gofiber/fiber/v2"

	"relay_server/core/domain"
	"relay_server/core/port/in"
	"relay_server/pkg/apperr"
	"relay_server/pkg/response"
)

// RecommendationHandler serves recommendation generation and retrieval.
type RecommendationHandler struct {
	recommendations in.RecommendationService
}

func NewRecommendationHandler(recommendations in.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommendations: recommendations}
}

// Register registers recommendation routes under the session group.
func (h *RecommendationHandler) Register(router fiber.Router) {
	sessions := router.Group("/sessions/:id")

	sessions.Post("/recommendations", h.Generate)
	sessions.Get("/recommendations", h.GetBatch)
	sessions.Get("/mood", h.Mood)
	sessions.Post("/playlist", h.CreatePlaylist)
}

// GenerateRequest is the request body for recommendation generation.
type GenerateRequest struct {
	Preferences *domain.UserPreferenceProfile `json:"preferences"`
	Limit       int                           `json:"limit"`
}

// Generate runs the recommendation pipeline for a stored analysis.
func (h *RecommendationHandler) Generate(c *fiber.Ctx) error {
	id, err := sessionIDParam(c)
	if err != nil {
		return err
	}

	var req GenerateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperr.BadRequest("invalid request body")
		}
	}

	recs, err := h.recommendations.Generate(c.Context(), &in.RecommendationRequest{
		SessionID:   id,
		Preferences: req.Preferences,
		Limit:       req.Limit,
	})
	if err != nil {
		return err
	}

	return response.Created(c, recs)
}

// GetBatch returns the most recently generated batch for a session.
func (h *RecommendationHandler) GetBatch(c *fiber.Ctx) error {
	id, err := sessionIDParam(c)
	if err != nil {
		return err
	}

	recs, err := h.recommendations.GetBatch(c.Context(), id)
	if err != nil {
		return err
	}

	return response.OK(c, recs)
}

// MoodResult describes the analysed mood of a session.
type MoodResult struct {
	Description  string             `json:"description"`
	AudioTargets map[string]float64 `json:"audio_targets"`
}

// Mood returns the mood description and derived audio targets.
func (h *RecommendationHandler) Mood(c *fiber.Ctx) error {
	id, err := sessionIDParam(c)
	if err != nil {
		return err
	}

	description, err := h.recommendations.MoodDescription(c.Context(), id)
	if err != nil {
		return err
	}

	targets, err := h.recommendations.AudioTargets(c.Context(), id)
	if err != nil {
		return err
	}

	return response.OK(c, MoodResult{
		Description:  description,
		AudioTargets: targets,
	})
}

// PlaylistRequest is the request body for playlist creation.
type PlaylistRequest struct {
	Name string `json:"name"`
}

// CreatePlaylist publishes the stored batch as a catalog playlist.
func (h *RecommendationHandler) CreatePlaylist(c *fiber.Ctx) error {
	id, err := sessionIDParam(c)
	if err != nil {
		return err
	}

	var req PlaylistRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperr.BadRequest("invalid request body")
		}
	}

	url, err := h.recommendations.CreatePlaylist(c.Context(), id, req.Name)
	if err != nil {
		return err
	}

	return response.Created(c, fiber.Map{"playlist_url": url})
}
