package handlers

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/pokerconnect/backend/internal/repositories"
	"github.com/pokerconnect/backend/internal/tips"
	"github.com/pokerconnect/backend/pkg/logger"
)

// TipsHandler serves the AI poker tips widget
type TipsHandler struct {
	generator      tips.Generator
	userRepository repositories.UserRepository
}

// NewTipsHandler creates a new TipsHandler
func NewTipsHandler(generator tips.Generator, userRepo repositories.UserRepository) *TipsHandler {
	return &TipsHandler{
		generator:      generator,
		userRepository: userRepo,
	}
}

// RegisterRoutes registers tips routes to the given echo group
func (h *TipsHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/tips", h.GenerateTips)
}

// GenerateTipsRequest carries the caller's recent activity summary. Skill
// level and interests default to the caller's profile when omitted.
type GenerateTipsRequest struct {
	RecentActivity string   `json:"recent_activity" validate:"required,max=2000"`
	SkillLevel     string   `json:"skill_level,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Interests      []string `json:"interests,omitempty"`
}

// GenerateTips asks the tip service for personalized poker tips. The widget
// is advisory: an upstream failure maps to 502 and never touches any other
// state.
func (h *TipsHandler) GenerateTips(c echo.Context) error {
	user, err := requireUser(c, h.userRepository)
	if err != nil {
		return err
	}

	var req GenerateTipsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	skillLevel := req.SkillLevel
	if skillLevel == "" {
		skillLevel = user.SkillLevel
	}
	interests := req.Interests
	if len(interests) == 0 && user.Interests != "" {
		for _, interest := range strings.Split(user.Interests, ",") {
			if trimmed := strings.TrimSpace(interest); trimmed != "" {
				interests = append(interests, trimmed)
			}
		}
	}

	generated, err := h.generator.Generate(c.Request().Context(), tips.Request{
		RecentActivity: req.RecentActivity,
		SkillLevel:     skillLevel,
		Interests:      interests,
	})
	if err != nil {
		logger.Warn("tip generation failed", zap.Uint("user_id", user.ID), zap.Error(err))
		return echo.NewHTTPError(http.StatusBadGateway, "Tip service is unavailable")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"tips": generated}})
}
