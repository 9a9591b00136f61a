package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepiq/prepiq-service/internal/services"
	"github.com/prepiq/prepiq-service/internal/utils"
)

type ScheduleHandler struct {
	BaseHandler
	scheduleService services.ScheduleService
}

func NewScheduleHandler(scheduleService services.ScheduleService, logger utils.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		BaseHandler:     NewBaseHandler(logger),
		scheduleService: scheduleService,
	}
}

// ===== SUBJECTS =====

// CreateSubject adds a study subject
// @Summary Create subject
// @Description Adds a subject competing for weekly schedule slots
// @Tags schedule
// @Accept json
// @Produce json
// @Param subject body services.CreateSubjectRequest true "Subject data"
// @Success 201 {object} models.Subject
// @Failure 400 {object} ErrorResponse
// @Router /subjects [post]
func (h *ScheduleHandler) CreateSubject(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}

	var req services.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	req.UserID = userID

	subject, err := h.scheduleService.CreateSubject(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subject)
}

// GetSubjects lists the caller's subjects
// @Summary List subjects
// @Tags schedule
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /subjects [get]
func (h *ScheduleHandler) GetSubjects(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}

	subjects, err := h.scheduleService.GetSubjects(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Subjects",
		Data:    subjects,
	})
}

// DeleteSubject removes a subject
// @Summary Delete subject
// @Tags schedule
// @Produce json
// @Param id path uint true "Subject ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /subjects/{id} [delete]
func (h *ScheduleHandler) DeleteSubject(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.scheduleService.DeleteSubject(c.Request.Context(), userID, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Subject deleted"})
}

// ===== GOALS =====

// SetGoals stores the caller's study goals
// @Summary Set study goals
// @Description Creates or replaces the caller's scheduling preferences
// @Tags schedule
// @Accept json
// @Produce json
// @Param goals body services.SetGoalsRequest true "Goals data"
// @Success 200 {object} models.StudyGoals
// @Failure 400 {object} ErrorResponse
// @Router /goals [put]
func (h *ScheduleHandler) SetGoals(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}

	var req services.SetGoalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	req.UserID = userID

	goals, err := h.scheduleService.SetGoals(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, goals)
}

// GetGoals returns the caller's study goals
// @Summary Get study goals
// @Tags schedule
// @Produce json
// @Success 200 {object} models.StudyGoals
// @Failure 404 {object} ErrorResponse
// @Router /goals [get]
func (h *ScheduleHandler) GetGoals(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}

	goals, err := h.scheduleService.GetGoals(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, goals)
}

// ===== SCHEDULE =====

// GenerateSchedule builds a fresh weekly schedule
// @Summary Generate schedule
// @Description Replaces the stored weekly schedule with one generated from subjects and goals
// @Tags schedule
// @Produce json
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /schedule/generate [post]
func (h *ScheduleHandler) GenerateSchedule(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Generating weekly schedule")

	slots, err := h.scheduleService.GenerateSchedule(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Schedule generated",
		Data:    slots,
	})
}

// GetSchedule returns the stored weekly schedule
// @Summary Get schedule
// @Tags schedule
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /schedule [get]
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}

	slots, err := h.scheduleService.GetSchedule(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Schedule",
		Data:    slots,
	})
}

// CreateSlot adds a manual time slot
// @Summary Create time slot
// @Tags schedule
// @Accept json
// @Produce json
// @Param slot body services.UpsertSlotRequest true "Slot data"
// @Success 201 {object} models.TimeSlot
// @Failure 400 {object} ErrorResponse
// @Router /schedule/slots [post]
func (h *ScheduleHandler) CreateSlot(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}

	var req services.UpsertSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	req.UserID = userID

	slot, err := h.scheduleService.CreateSlot(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, slot)
}

// UpdateSlot rewrites a time slot
// @Summary Update time slot
// @Tags schedule
// @Accept json
// @Produce json
// @Param id path uint true "Slot ID"
// @Param slot body services.UpsertSlotRequest true "Slot data"
// @Success 200 {object} models.TimeSlot
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /schedule/slots/{id} [put]
func (h *ScheduleHandler) UpdateSlot(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpsertSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	req.UserID = userID

	slot, err := h.scheduleService.UpdateSlot(c.Request.Context(), userID, id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, slot)
}

// DeleteSlot removes a time slot
// @Summary Delete time slot
// @Tags schedule
// @Produce json
// @Param id path uint true "Slot ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /schedule/slots/{id} [delete]
func (h *ScheduleHandler) DeleteSlot(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.scheduleService.DeleteSlot(c.Request.Context(), userID, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Time slot deleted"})
}
