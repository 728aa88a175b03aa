package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/devconnector/pkg/auth"
	"github.com/khoahotran/devconnector/pkg/logger"
)

type RouterConfig struct {
	ProfileHandler *ProfileHandler
	JWTService     *auth.JWTService
	Logger         logger.Logger
	RequestTimeout time.Duration
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(
		RequestIDMiddleware(),
		RecoveryMiddleware(cfg.Logger),
		LoggerMiddleware(cfg.Logger),
		TimeoutMiddleware(cfg.RequestTimeout),
		ErrorMiddleware(cfg.Logger),
	)

	authMiddleware := AuthMiddleware(cfg.JWTService, cfg.Logger)
	h := cfg.ProfileHandler

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "OK"})
		})

		profiles := api.Group("/profile")
		{
			profiles.GET("", h.ListProfiles)
			profiles.GET("/user/:user_id", h.GetProfileByUser)

			private := profiles.Group("")
			private.Use(authMiddleware)
			{
				private.GET("/me", h.GetMyProfile)
				private.POST("", h.UpsertProfile)
				private.DELETE("", h.DeleteAccount)
				private.PUT("/experience", h.AddExperience)
				private.DELETE("/experience/:exp_id", h.RemoveExperience)
				private.PUT("/education", h.AddEducation)
				private.DELETE("/education/:edu_id", h.RemoveEducation)
			}
		}
	}

	return router
}
