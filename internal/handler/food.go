package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/developer-az/food-tracker/internal/forms"
	"github.com/developer-az/food-tracker/internal/middleware"
	"github.com/developer-az/food-tracker/internal/service"
	"github.com/developer-az/food-tracker/internal/util"
)

const duplicateFoodMsg = "Food with this Name already exists."

// FoodHandler serves the catalog pages and the food search API.
type FoodHandler struct {
	Foods       *service.FoodService
	SearchLimit int
	log         *logrus.Entry
}

func NewFoodHandler(foods *service.FoodService, searchLimit int, log *logrus.Logger) *FoodHandler {
	if searchLimit <= 0 {
		searchLimit = 10
	}
	return &FoodHandler{Foods: foods, SearchLimit: searchLimit, log: log.WithField("handler", "food")}
}

// List renders the catalog, optionally filtered by ?search=.
func (h *FoodHandler) List(c *gin.Context) {
	query := c.Query("search")
	foods, err := h.Foods.List(c.Request.Context(), query)
	if err != nil {
		serverError(c, h.log, err)
		return
	}
	render(c, http.StatusOK, "food_list.html", gin.H{
		"foods":        foods,
		"search_query": query,
	})
}

// AddPage renders the empty add-food form.
func (h *FoodHandler) AddPage(c *gin.Context) {
	render(c, http.StatusOK, "food_form.html", gin.H{"form": forms.NewFoodForm()})
}

// Add creates a food and redirects to the catalog.
func (h *FoodHandler) Add(c *gin.Context) {
	var form forms.FoodForm
	_ = c.ShouldBind(&form)

	food, err := form.Validate()
	if err == nil {
		err = h.Foods.Create(c.Request.Context(), food)
	}
	if err != nil {
		if ve, ok := formErrors(err, "name", duplicateFoodMsg); ok {
			render(c, http.StatusOK, "food_form.html", gin.H{"form": form, "errors": ve})
			return
		}
		serverError(c, h.log, err)
		return
	}

	c.Set(middleware.AuditAction, fmt.Sprintf("added food %q", food.Name))
	addFlash(c, "success", fmt.Sprintf("Food %q added successfully!", food.Name))
	c.Redirect(http.StatusFound, "/foods/")
}

func (h *FoodHandler) foodParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *FoodHandler) notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "error.html", gin.H{
		"title":   "Not found",
		"user":    middleware.CurrentUser(c),
		"status":  http.StatusNotFound,
		"message": "Food not found.",
	})
}

// EditPage renders the form pre-filled with an existing food.
func (h *FoodHandler) EditPage(c *gin.Context) {
	id, ok := h.foodParam(c)
	if !ok {
		h.notFound(c)
		return
	}
	food, err := h.Foods.Get(c.Request.Context(), id)
	if errors.Is(err, util.ErrNotFound) {
		h.notFound(c)
		return
	}
	if err != nil {
		serverError(c, h.log, err)
		return
	}
	render(c, http.StatusOK, "food_form.html", gin.H{"form": forms.FoodFormFrom(food), "food": food})
}

// Edit updates a food and redirects to the catalog.
func (h *FoodHandler) Edit(c *gin.Context) {
	id, ok := h.foodParam(c)
	if !ok {
		h.notFound(c)
		return
	}
	var form forms.FoodForm
	_ = c.ShouldBind(&form)

	food, err := form.Validate()
	if err == nil {
		food, err = h.Foods.Update(c.Request.Context(), id, food)
	}
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			h.notFound(c)
			return
		}
		if ve, ok := formErrors(err, "name", duplicateFoodMsg); ok {
			current, _ := h.Foods.Get(c.Request.Context(), id)
			render(c, http.StatusOK, "food_form.html", gin.H{"form": form, "errors": ve, "food": current})
			return
		}
		serverError(c, h.log, err)
		return
	}

	c.Set(middleware.AuditAction, fmt.Sprintf("updated food %q", food.Name))
	addFlash(c, "success", fmt.Sprintf("Food %q updated successfully!", food.Name))
	c.Redirect(http.StatusFound, "/foods/")
}

// foodHit carries calories as a fixed two-place decimal string.
type foodHit struct {
	Name            string `json:"name"`
	CaloriesPer100g string `json:"calories_per_100g"`
}

// Search answers the quick-log autocomplete: {"foods":[{name, calories_per_100g}]}.
func (h *FoodHandler) Search(c *gin.Context) {
	foods, err := h.Foods.Search(c.Request.Context(), c.Query("q"), h.SearchLimit)
	if err != nil {
		h.log.WithError(err).Error("food search")
		c.JSON(http.StatusInternalServerError, gin.H{"foods": []foodHit{}})
		return
	}
	hits := make([]foodHit, 0, len(foods))
	for _, f := range foods {
		hits = append(hits, foodHit{Name: f.Name, CaloriesPer100g: f.CaloriesPer100g.StringFixed(2)})
	}
	c.JSON(http.StatusOK, gin.H{"foods": hits})
}
