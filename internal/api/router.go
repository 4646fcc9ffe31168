package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vladimiradmaev/calorie-tracker/internal/logger"
)

func NewRouter(h *Handler) *gin.Engine {
	route := gin.New()
	route.Use(gin.Recovery(), requestLogger())

	route.GET("/read-probe", h.Probe)
	route.GET("/check-live", h.CheckAlive)

	api := route.Group("/api")
	{
		api.GET("/foods/search", h.SearchFoods)
		api.GET("/foods/custom", h.ListCustomFoods)
		api.POST("/foods/custom", h.CreateCustomFood)
		api.PUT("/foods/custom/:id", h.UpdateCustomFood)
		api.DELETE("/foods/custom/:id", h.DeleteCustomFood)
		api.POST("/foods/recipes", h.CreateRecipe)
		api.PUT("/foods/recipes/:id", h.UpdateRecipe)
		api.GET("/foods/recipes/:id/ingredients", h.RecipeIngredients)
		api.GET("/foods/:id", h.GetFood)

		api.GET("/favorites", h.ListFavorites)
		api.PUT("/favorites/:food_id", h.PutFavorite)
		api.DELETE("/favorites/:food_id", h.DeleteFavorite)
		api.GET("/recents", h.Recents)
		api.GET("/frequents", h.Frequents)

		api.GET("/diary/:day", h.GetDay)
		api.POST("/entries", h.CreateEntry)
		api.GET("/entries/:id", h.GetEntry)
		api.PATCH("/entries/:id", h.UpdateEntry)
		api.DELETE("/entries/:id", h.DeleteEntry)
		api.GET("/calendar/:month", h.GetCalendar)
		api.GET("/streak", h.GetStreak)

		api.GET("/settings", h.GetSettings)
		api.PUT("/settings", h.PutSettings)
		api.PUT("/settings/goals/:nutrient", h.PutGoal)

		api.POST("/photo", h.EstimatePhoto)
		api.GET("/changes", h.Changes)
	}

	return route
}

func requestLogger() gin.HandlerFunc {
	log := logger.Component("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("Request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	}
}
