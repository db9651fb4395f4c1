package api

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler, allowedOrigins []string) {
	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	if len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	})

	api := router.Group("/api")
	{
		api.GET("/properties", handler.GetProperties)
		api.GET("/properties/:id", handler.GetProperty)
		api.POST("/underwriting", handler.Underwrite)
		api.POST("/underwriting/batch", handler.UnderwriteBatch)
		api.POST("/underwriting/workbook", handler.BuildWorkbook)
		api.POST("/offering-memorandum", handler.OfferingMemorandum)
		api.POST("/loi", handler.DraftLOI)
		api.GET("/assumptions", handler.GetAssumptions)
	}
}
