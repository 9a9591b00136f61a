package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/prepiq/prepiq-service/internal/services"
	"github.com/prepiq/prepiq-service/internal/session"
	"github.com/prepiq/prepiq-service/internal/utils"
)

type QuizHandler struct {
	BaseHandler
	quizService services.QuizService
}

func NewQuizHandler(quizService services.QuizService, logger utils.Logger) *QuizHandler {
	return &QuizHandler{
		BaseHandler: NewBaseHandler(logger),
		quizService: quizService,
	}
}

// GenerateQuiz generates a new quiz
// @Summary Generate quiz
// @Description Generates a timed quiz for the given subject, module and exam format
// @Tags quiz
// @Accept json
// @Produce json
// @Param quiz body services.GenerateQuizRequest true "Quiz parameters"
// @Success 201 {object} models.QuizConfig
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /quiz/generate [post]
func (h *QuizHandler) GenerateQuiz(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}

	var req services.GenerateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Generating quiz", "subject", req.Subject, "module", req.Module)

	cfg, err := h.quizService.Generate(c.Request.Context(), userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, cfg)
}

// GetQuiz retrieves a generated quiz by ID
// @Summary Get quiz
// @Description Retrieves the configuration of a previously generated quiz
// @Tags quiz
// @Produce json
// @Param quiz_id path string true "Quiz ID"
// @Success 200 {object} models.QuizConfig
// @Failure 404 {object} ErrorResponse
// @Router /quiz/{quiz_id} [get]
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quizID := ParseStringIDParam(c, "quiz_id")
	if quizID == "" {
		return
	}

	cfg, err := h.quizService.GetQuiz(c.Request.Context(), quizID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, cfg)
}

// SubmitQuiz scores and stores a quiz submission
// @Summary Submit quiz
// @Description Scores a submission assembled by a client-driven session and stores the attempt
// @Tags quiz
// @Accept json
// @Produce json
// @Param submission body session.Submission true "Submission payload"
// @Success 201 {object} models.QuizAttempt
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /quiz/submit [post]
func (h *QuizHandler) SubmitQuiz(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}

	var sub session.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	sub.UserID = userID
	sub.Manual = true

	attempt, err := h.quizService.Submit(c.Request.Context(), &sub)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, attempt)
}

// GetHistory lists past quiz attempts
// @Summary Quiz history
// @Description Lists the caller's quiz attempts, most recent first
// @Tags quiz
// @Produce json
// @Param limit query int false "Maximum attempts to return"
// @Success 200 {object} SuccessResponse
// @Failure 500 {object} ErrorResponse
// @Router /quiz/history [get]
func (h *QuizHandler) GetHistory(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	attempts, err := h.quizService.History(c.Request.Context(), userID, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Quiz history",
		Data:    attempts,
	})
}

// AddBookmark saves a question for later revision
// @Summary Add bookmark
// @Description Saves a question with its options and correct answer
// @Tags bookmarks
// @Accept json
// @Produce json
// @Param bookmark body services.AddBookmarkRequest true "Bookmark payload"
// @Success 201 {object} models.Bookmark
// @Failure 400 {object} ErrorResponse
// @Router /bookmarks [post]
func (h *QuizHandler) AddBookmark(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}

	var req services.AddBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	req.UserID = userID

	bookmark, err := h.quizService.AddBookmark(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bookmark)
}

// GetBookmarks lists saved bookmarks
// @Summary List bookmarks
// @Description Lists the caller's saved questions, most recent first
// @Tags bookmarks
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 500 {object} ErrorResponse
// @Router /bookmarks [get]
func (h *QuizHandler) GetBookmarks(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}

	bookmarks, err := h.quizService.GetBookmarks(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Bookmarks",
		Data:    bookmarks,
	})
}
