package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	profileUC "github.com/khoahotran/devconnector/internal/application/usecase/profile"
	"github.com/khoahotran/devconnector/internal/application/validation"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/logger"
)

const MsgUserRemoved = "User Removed"

type ProfileHandler struct {
	profileUseCase *profileUC.ProfileUseCase
	gate           *validation.Gate
	logger         logger.Logger
}

func NewProfileHandler(uc *profileUC.ProfileUseCase, gate *validation.Gate, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: uc,
		gate:           gate,
		logger:         log,
	}
}

// bind decodes the JSON body into req and runs rules against values().
func bind[T interface{ values() map[string]string }](c *gin.Context, gate *validation.Gate, rules validation.Ruleset) (T, bool) {
	var req T
	// An empty body is checked like an empty object so the caller gets the
	// list of missing fields.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.Error(apperror.NewInvalidInput("invalid JSON body", err))
		return req, false
	}
	if err := gate.Check(rules, req.values()); err != nil {
		c.Error(err)
		return req, false
	}
	return req, true
}

func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	p, err := h.profileUseCase.GetMine(c.Request.Context(), ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) UpsertProfile(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	req, ok := bind[ProfileRequest](c, h.gate, validation.ProfileRules)
	if !ok {
		return
	}

	p, err := h.profileUseCase.Upsert(c.Request.Context(), ownerID, profileUC.BuildProfileUpdate(req.ToFields()))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	profiles, err := h.profileUseCase.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTOs(profiles))
}

func (h *ProfileHandler) GetProfileByUser(c *gin.Context) {
	p, err := h.profileUseCase.GetByUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	if err := h.profileUseCase.DeleteAccount(c.Request.Context(), ownerID); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": MsgUserRemoved})
}

func (h *ProfileHandler) AddExperience(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	req, ok := bind[ExperienceRequest](c, h.gate, validation.ExperienceRules)
	if !ok {
		return
	}

	p, err := h.profileUseCase.AddExperience(c.Request.Context(), ownerID, req.ToInput())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) RemoveExperience(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	p, err := h.profileUseCase.RemoveExperience(c.Request.Context(), ownerID, c.Param("exp_id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) AddEducation(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	req, ok := bind[EducationRequest](c, h.gate, validation.EducationRules)
	if !ok {
		return
	}

	p, err := h.profileUseCase.AddEducation(c.Request.Context(), ownerID, req.ToInput())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) RemoveEducation(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	p, err := h.profileUseCase.RemoveEducation(c.Request.Context(), ownerID, c.Param("edu_id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}
