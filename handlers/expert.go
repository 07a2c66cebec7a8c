package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	expertRepo "github.com/FacundoLlamas/sme-booking-app-sub002/database/repository/expert"
	"github.com/FacundoLlamas/sme-booking-app-sub002/models"
	"github.com/FacundoLlamas/sme-booking-app-sub002/utils"
)

// ExpertHandler exposes administrative expert management.
type ExpertHandler struct {
	Repo   expertRepo.ExpertRepository
	Logger *zap.Logger
}

// NewExpertHandler constructs the handler.
func NewExpertHandler(repo expertRepo.ExpertRepository, logger *zap.Logger) *ExpertHandler {
	return &ExpertHandler{Repo: repo, Logger: logger}
}

// ListAvailableExperts returns all available experts for a business.
func (h *ExpertHandler) ListAvailableExperts(c *gin.Context) {
	experts, err := h.Repo.ListAvailable(c.Request.Context(), c.Query("businessId"))
	if err != nil {
		h.Logger.Error("failed to list experts", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to list experts", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"experts": experts})
}

// UpsertExpert creates or replaces an expert. Skills may arrive either as a
// structured list or as a single comma-delimited string.
func (h *ExpertHandler) UpsertExpert(c *gin.Context) {
	var input struct {
		ID         int      `json:"id" binding:"required"`
		Name       string   `json:"name" binding:"required"`
		BusinessID string   `json:"businessId"`
		Skills     []string `json:"skills"`
		SkillsRaw  string   `json:"skillsRaw"`
		Status     string   `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	skills := input.Skills
	if len(skills) == 0 && input.SkillsRaw != "" {
		skills = models.ParseSkills(input.SkillsRaw)
	}
	status := input.Status
	if status == "" {
		status = models.ExpertAvailable
	}

	expert := &models.Expert{
		ID:         input.ID,
		Name:       input.Name,
		BusinessID: input.BusinessID,
		Skills:     skills,
		Status:     status,
	}
	if err := h.Repo.Upsert(c.Request.Context(), expert); err != nil {
		h.Logger.Error("failed to upsert expert", zap.Int("expertID", input.ID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to save expert", "")
		return
	}
	c.JSON(http.StatusOK, expert)
}

// SetExpertStatus flips an expert between available and unavailable.
func (h *ExpertHandler) SetExpertStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("expertID"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid expert id", err.Error())
		return
	}
	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if input.Status != models.ExpertAvailable && input.Status != models.ExpertUnavailable {
		utils.JSONError(c, http.StatusBadRequest, "invalid status", "must be available or unavailable")
		return
	}

	if err := h.Repo.UpdateStatus(c.Request.Context(), id, input.Status); err != nil {
		utils.JSONError(c, http.StatusNotFound, "expert not found", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": input.Status})
}
