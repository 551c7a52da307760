package routes

import (
	"log/slog"
	"net/http"

	"github.com/Pland4r/qcm-creator-hub/handlers"
	"github.com/Pland4r/qcm-creator-hub/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes installs the token gate and registers every endpoint. The gate
// is engine-wide, so it also covers paths that match no route.
func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	quizHandler *handlers.QuizHandler,
	tokens middleware.TokenParser,
	logger *slog.Logger,
) {
	router.Use(middleware.AuthMiddleware(tokens, middleware.DefaultPublicPrefixes, logger))

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", authHandler.Me)
			auth.POST("/logout", authHandler.Logout)
		}

		quizzes := api.Group("/quizzes")
		{
			quizzes.GET("", quizHandler.ListQuizzes)
			quizzes.POST("", quizHandler.CreateQuiz)
			quizzes.GET("/:id", quizHandler.GetQuizByID)
			quizzes.PUT("/:id", quizHandler.UpdateQuiz)
			quizzes.DELETE("/:id", quizHandler.DeleteQuiz)
		}

		api.GET("/me/quizzes", quizHandler.ListMyQuizzes)
	}

	public := router.Group("/public")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		public.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}
