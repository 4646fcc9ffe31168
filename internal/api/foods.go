package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vladimiradmaev/calorie-tracker/internal/services"
)

type favoriteRequest struct {
	ServingLabel    string  `json:"serving_label"`
	ServingQuantity float64 `json:"serving_quantity"`
}

func (h *Handler) SearchFoods(c *gin.Context) {
	results, err := h.svcs.Foods.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *Handler) GetFood(c *gin.Context) {
	food, err := h.svcs.Foods.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, food)
}

func (h *Handler) ListCustomFoods(c *gin.Context) {
	foods, err := h.svcs.Foods.ListCustom(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, foods)
}

func (h *Handler) CreateCustomFood(c *gin.Context) {
	var in services.FoodInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, err)
		return
	}
	food, err := h.svcs.Foods.CreateCustom(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, food)
}

func (h *Handler) UpdateCustomFood(c *gin.Context) {
	var in services.FoodInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, err)
		return
	}
	food, err := h.svcs.Foods.UpdateCustom(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, food)
}

func (h *Handler) DeleteCustomFood(c *gin.Context) {
	if err := h.svcs.Foods.DeleteCustom(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	noContent(c)
}

func (h *Handler) CreateRecipe(c *gin.Context) {
	var in services.RecipeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, err)
		return
	}
	food, err := h.svcs.Foods.CreateRecipe(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, food)
}

func (h *Handler) UpdateRecipe(c *gin.Context) {
	var in services.RecipeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, err)
		return
	}
	food, err := h.svcs.Foods.UpdateRecipe(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, food)
}

func (h *Handler) RecipeIngredients(c *gin.Context) {
	items, err := h.svcs.Foods.Ingredients(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) ListFavorites(c *gin.Context) {
	favs, err := h.svcs.Foods.Favorites(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, favs)
}

func (h *Handler) PutFavorite(c *gin.Context) {
	var req favoriteRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.badRequest(c, err)
			return
		}
	}
	fav, err := h.svcs.Foods.AddFavorite(c.Request.Context(), c.Param("food_id"), req.ServingLabel, req.ServingQuantity)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, fav)
}

func (h *Handler) DeleteFavorite(c *gin.Context) {
	if err := h.svcs.Foods.RemoveFavorite(c.Request.Context(), c.Param("food_id")); err != nil {
		h.fail(c, err)
		return
	}
	noContent(c)
}

func (h *Handler) Recents(c *gin.Context) {
	usage, err := h.svcs.Foods.Recent(c.Request.Context(), limitParam(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, usage)
}

func (h *Handler) Frequents(c *gin.Context) {
	usage, err := h.svcs.Foods.Frequent(c.Request.Context(), limitParam(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, usage)
}
