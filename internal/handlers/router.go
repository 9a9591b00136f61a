package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepiq/prepiq-service/internal/services"
	"github.com/prepiq/prepiq-service/internal/utils"
)

type HandlerManager struct {
	quizHandler      *QuizHandler
	sessionHandler   *SessionHandler
	scheduleHandler  *ScheduleHandler
	analyticsHandler *AnalyticsHandler
}

func NewHandlerManager(
	quizService services.QuizService,
	sessions services.SessionManager,
	scheduleService services.ScheduleService,
	analyticsService services.AnalyticsService,
	exportService services.ExportService,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		quizHandler:      NewQuizHandler(quizService, logger),
		sessionHandler:   NewSessionHandler(sessions, logger),
		scheduleHandler:  NewScheduleHandler(scheduleService, logger),
		analyticsHandler: NewAnalyticsHandler(analyticsService, exportService, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(UserIDMiddleware())
	{
		// Quiz routes
		quiz := v1.Group("/quiz")
		{
			quiz.POST("/generate", hm.quizHandler.GenerateQuiz)
			quiz.POST("/submit", hm.quizHandler.SubmitQuiz)
			quiz.GET("/history", hm.quizHandler.GetHistory)
			quiz.GET("/:quiz_id", hm.quizHandler.GetQuiz)
		}

		// Bookmark routes
		bookmarks := v1.Group("/bookmarks")
		{
			bookmarks.POST("", hm.quizHandler.AddBookmark)
			bookmarks.GET("", hm.quizHandler.GetBookmarks)
		}

		// Exam session routes
		sessions := v1.Group("/sessions")
		{
			sessions.POST("/:quiz_id/start", hm.sessionHandler.StartSession)
			sessions.GET("/:quiz_id", hm.sessionHandler.GetSession)
			sessions.POST("/:quiz_id/answer", hm.sessionHandler.SelectAnswer)
			sessions.POST("/:quiz_id/mark", hm.sessionHandler.MarkForReview)
			sessions.POST("/:quiz_id/bookmark", hm.sessionHandler.ToggleBookmark)
			sessions.POST("/:quiz_id/navigate", hm.sessionHandler.Navigate)
			sessions.POST("/:quiz_id/submit", hm.sessionHandler.SubmitSession)
		}

		// Schedule planner routes
		subjects := v1.Group("/subjects")
		{
			subjects.POST("", hm.scheduleHandler.CreateSubject)
			subjects.GET("", hm.scheduleHandler.GetSubjects)
			subjects.DELETE("/:id", hm.scheduleHandler.DeleteSubject)
		}

		goals := v1.Group("/goals")
		{
			goals.PUT("", hm.scheduleHandler.SetGoals)
			goals.GET("", hm.scheduleHandler.GetGoals)
		}

		schedule := v1.Group("/schedule")
		{
			schedule.POST("/generate", hm.scheduleHandler.GenerateSchedule)
			schedule.GET("", hm.scheduleHandler.GetSchedule)
			schedule.POST("/slots", hm.scheduleHandler.CreateSlot)
			schedule.PUT("/slots/:id", hm.scheduleHandler.UpdateSlot)
			schedule.DELETE("/slots/:id", hm.scheduleHandler.DeleteSlot)
		}

		// Analytics routes
		analytics := v1.Group("/analytics")
		{
			analytics.GET("", hm.analyticsHandler.GetReport)
			analytics.GET("/export", hm.analyticsHandler.ExportHistory)
		}
	}
}

// HealthCheck reports service liveness
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "prepiq-service",
	})
}
