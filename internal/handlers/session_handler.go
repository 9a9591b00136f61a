package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepiq/prepiq-service/internal/services"
	"github.com/prepiq/prepiq-service/internal/utils"
)

type SessionHandler struct {
	BaseHandler
	sessions services.SessionManager
}

func NewSessionHandler(sessions services.SessionManager, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler: NewBaseHandler(logger),
		sessions:    sessions,
	}
}

type answerRequest struct {
	QuestionIndex int    `json:"question_index"`
	Answer        string `json:"answer"`
}

type questionIndexRequest struct {
	QuestionIndex int `json:"question_index"`
}

type submitRequest struct {
	Confirmed bool `json:"confirmed"`
}

// StartSession starts the timed session for a generated quiz
// @Summary Start session
// @Description Starts the countdown session for a quiz; reattaches if one is already running for the caller
// @Tags sessions
// @Produce json
// @Param quiz_id path string true "Quiz ID"
// @Success 201 {object} services.SessionState
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{quiz_id}/start [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}
	quizID := ParseStringIDParam(c, "quiz_id")
	if quizID == "" {
		return
	}

	h.LogRequest(c, "Starting exam session", "quiz_id", quizID)

	state, err := h.sessions.Start(c.Request.Context(), quizID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, state)
}

// GetSession returns the current session state
// @Summary Get session state
// @Description Returns the live state of the exam session, draining pending notifications
// @Tags sessions
// @Produce json
// @Param quiz_id path string true "Quiz ID"
// @Success 200 {object} services.SessionState
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{quiz_id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}
	quizID := ParseStringIDParam(c, "quiz_id")
	if quizID == "" {
		return
	}

	state, err := h.sessions.Get(quizID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// SelectAnswer records an answer for a question
// @Summary Select answer
// @Description Stores the answer for a question; an empty answer clears it
// @Tags sessions
// @Accept json
// @Produce json
// @Param quiz_id path string true "Quiz ID"
// @Param answer body answerRequest true "Answer payload"
// @Success 200 {object} services.SessionState
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{quiz_id}/answer [post]
func (h *SessionHandler) SelectAnswer(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}
	quizID := ParseStringIDParam(c, "quiz_id")
	if quizID == "" {
		return
	}

	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	state, err := h.sessions.SelectAnswer(c.Request.Context(), quizID, userID, req.QuestionIndex, req.Answer)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// MarkForReview flags a question for review
// @Summary Mark for review
// @Description Flags a question for review; the mark survives answer clearing
// @Tags sessions
// @Accept json
// @Produce json
// @Param quiz_id path string true "Quiz ID"
// @Param question body questionIndexRequest true "Question index"
// @Success 200 {object} services.SessionState
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{quiz_id}/mark [post]
func (h *SessionHandler) MarkForReview(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}
	quizID := ParseStringIDParam(c, "quiz_id")
	if quizID == "" {
		return
	}

	var req questionIndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	state, err := h.sessions.MarkForReview(c.Request.Context(), quizID, userID, req.QuestionIndex)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// ToggleBookmark bookmarks or unbookmarks a question
// @Summary Toggle bookmark
// @Description Adds or removes an in-session bookmark on a question
// @Tags sessions
// @Accept json
// @Produce json
// @Param quiz_id path string true "Quiz ID"
// @Param question body questionIndexRequest true "Question index"
// @Success 200 {object} services.SessionState
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{quiz_id}/bookmark [post]
func (h *SessionHandler) ToggleBookmark(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}
	quizID := ParseStringIDParam(c, "quiz_id")
	if quizID == "" {
		return
	}

	var req questionIndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	state, err := h.sessions.ToggleBookmark(c.Request.Context(), quizID, userID, req.QuestionIndex)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// Navigate moves the session cursor
// @Summary Navigate
// @Description Moves the cursor to a question; allowed while a submission is in flight
// @Tags sessions
// @Accept json
// @Produce json
// @Param quiz_id path string true "Quiz ID"
// @Param question body questionIndexRequest true "Question index"
// @Success 200 {object} services.SessionState
// @Failure 400 {object} ErrorResponse
// @Router /sessions/{quiz_id}/navigate [post]
func (h *SessionHandler) Navigate(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}
	quizID := ParseStringIDParam(c, "quiz_id")
	if quizID == "" {
		return
	}

	var req questionIndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	state, err := h.sessions.Navigate(quizID, userID, req.QuestionIndex)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// SubmitSession submits the exam manually
// @Summary Submit session
// @Description Scores and stores the attempt. With unattempted questions and confirmed=false, returns 409 with the unattempted count
// @Tags sessions
// @Accept json
// @Produce json
// @Param quiz_id path string true "Quiz ID"
// @Param submit body submitRequest true "Submit options"
// @Success 200 {object} services.SubmitResult
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{quiz_id}/submit [post]
func (h *SessionHandler) SubmitSession(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}
	quizID := ParseStringIDParam(c, "quiz_id")
	if quizID == "" {
		return
	}

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Submitting exam session", "quiz_id", quizID, "confirmed", req.Confirmed)

	result, err := h.sessions.Submit(c.Request.Context(), quizID, userID, req.Confirmed)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
