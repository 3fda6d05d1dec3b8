package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pzaman/portfolio-backend-go/internal/service"
	"github.com/pzaman/portfolio-backend-go/pkg/response"
)

// ProfileHandler serves the about-me page
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetProfile handles GET /api/v1/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	p, err := h.profileService.GetProfile()
	if err != nil {
		respondError(c, "Failed to get profile", err)
		return
	}
	response.Success(c, p)
}

// GetTimeline handles GET /api/v1/profile/timeline
func (h *ProfileHandler) GetTimeline(c *gin.Context) {
	timeline, err := h.profileService.GetTimeline()
	if err != nil {
		respondError(c, "Failed to get timeline", err)
		return
	}
	response.Success(c, timeline)
}
