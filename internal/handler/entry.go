package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/developer-az/food-tracker/internal/forms"
	"github.com/developer-az/food-tracker/internal/middleware"
	"github.com/developer-az/food-tracker/internal/service"
	"github.com/developer-az/food-tracker/internal/util"
)

// EntryHandler serves the dashboard, logging pages, history, weekly summary
// and goal settings.
type EntryHandler struct {
	Foods        *service.FoodService
	Entries      *service.EntryService
	Goals        *service.GoalService
	Summary      *service.SummaryService
	HistoryLimit int
	RecentFoods  int

	// Now is the clock; tests replace it.
	Now func() time.Time

	log *logrus.Entry
}

func NewEntryHandler(foods *service.FoodService, entries *service.EntryService, goals *service.GoalService,
	summary *service.SummaryService, historyLimit int, log *logrus.Logger) *EntryHandler {
	if historyLimit <= 0 {
		historyLimit = 50
	}
	return &EntryHandler{
		Foods:        foods,
		Entries:      entries,
		Goals:        goals,
		Summary:      summary,
		HistoryLimit: historyLimit,
		RecentFoods:  5,
		Now:          time.Now,
		log:          log.WithField("handler", "entry"),
	}
}

// Home shows the landing page, or the dashboard to a signed-in user.
func (h *EntryHandler) Home(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		h.Dashboard(c)
		return
	}
	ctx := c.Request.Context()
	total, err := h.Foods.Count(ctx)
	if err != nil {
		serverError(c, h.log, err)
		return
	}
	recent, err := h.Foods.Recent(ctx, h.RecentFoods)
	if err != nil {
		serverError(c, h.log, err)
		return
	}
	render(c, http.StatusOK, "home.html", gin.H{
		"total_foods":  total,
		"recent_foods": recent,
	})
}

// Dashboard shows today's totals, goal progress and meals.
func (h *EntryHandler) Dashboard(c *gin.Context) {
	user := middleware.CurrentUser(c)
	sum, err := h.Summary.Daily(c.Request.Context(), user.ID, h.Now())
	if err != nil {
		serverError(c, h.log, err)
		return
	}
	render(c, http.StatusOK, "dashboard.html", gin.H{
		"today":          sum.Date,
		"today_totals":   sum.Totals,
		"goal":           sum.Goal,
		"progress":       sum.Progress,
		"meals":          sum.Meals,
		"recent_entries": sum.Recent,
	})
}

func (h *EntryHandler) renderLogForm(c *gin.Context, form forms.EntryForm, ve *util.ValidationError) {
	foods, err := h.Foods.List(c.Request.Context(), "")
	if err != nil {
		serverError(c, h.log, err)
		return
	}
	render(c, http.StatusOK, "log_food.html", gin.H{
		"form":   form,
		"foods":  foods,
		"errors": ve,
	})
}

// LogPage renders the full logging form.
func (h *EntryHandler) LogPage(c *gin.Context) {
	h.renderLogForm(c, forms.NewEntryForm(h.Now().In(h.Entries.Location())), nil)
}

// Log records an entry picked from the catalog.
func (h *EntryHandler) Log(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var form forms.EntryForm
	_ = c.ShouldBind(&form)

	in, err := form.Validate(h.Entries.Location())
	if err != nil {
		ve, _ := util.AsValidation(err)
		h.renderLogForm(c, form, ve)
		return
	}
	entry, err := h.Entries.Create(c.Request.Context(), service.NewEntry{
		UserID:     user.ID,
		FoodID:     in.FoodID,
		QuantityG:  in.QuantityG,
		MealType:   in.MealType,
		ConsumedAt: in.ConsumedAt,
	}, h.Now())
	if err != nil {
		if ve, ok := util.AsValidation(err); ok {
			h.renderLogForm(c, form, ve)
			return
		}
		serverError(c, h.log, err)
		return
	}

	msg := fmt.Sprintf("Logged %sg of %s!", entry.QuantityG.String(), entry.Food.Name)
	c.Set(middleware.AuditAction, msg)
	addFlash(c, "success", msg)
	c.Redirect(http.StatusFound, "/dashboard/")
}

// QuickLogPage renders the name-based logging form.
func (h *EntryHandler) QuickLogPage(c *gin.Context) {
	render(c, http.StatusOK, "quick_log.html", gin.H{"form": forms.QuickEntryForm{MealType: "breakfast"}})
}

// QuickLog resolves the typed food name and records an entry. An unknown
// name re-renders the form with an error and writes nothing.
func (h *EntryHandler) QuickLog(c *gin.Context) {
	user := middleware.CurrentUser(c)
	ctx := c.Request.Context()
	var form forms.QuickEntryForm
	_ = c.ShouldBind(&form)

	in, err := form.Validate()
	if err != nil {
		ve, _ := util.AsValidation(err)
		render(c, http.StatusOK, "quick_log.html", gin.H{"form": form, "errors": ve})
		return
	}

	food, err := h.Foods.GetByName(ctx, in.FoodName)
	if errors.Is(err, util.ErrNotFound) {
		render(c, http.StatusOK, "quick_log.html", gin.H{"form": form},
			Flash{Level: "error", Message: fmt.Sprintf("Food %q not found. Please add it first.", in.FoodName)})
		return
	}
	if err != nil {
		serverError(c, h.log, err)
		return
	}

	entry, err := h.Entries.Create(ctx, service.NewEntry{
		UserID:    user.ID,
		FoodID:    food.ID,
		QuantityG: in.QuantityG,
		MealType:  in.MealType,
	}, h.Now())
	if err != nil {
		if ve, ok := util.AsValidation(err); ok {
			render(c, http.StatusOK, "quick_log.html", gin.H{"form": form, "errors": ve})
			return
		}
		serverError(c, h.log, err)
		return
	}

	msg := fmt.Sprintf("Logged %sg of %s!", entry.QuantityG.String(), food.Name)
	c.Set(middleware.AuditAction, msg)
	addFlash(c, "success", msg)
	c.Redirect(http.StatusFound, "/dashboard/")
}

// History lists the user's most recent entries.
func (h *EntryHandler) History(c *gin.Context) {
	user := middleware.CurrentUser(c)
	entries, err := h.Entries.Recent(c.Request.Context(), user.ID, h.HistoryLimit)
	if err != nil {
		serverError(c, h.log, err)
		return
	}
	render(c, http.StatusOK, "history.html", gin.H{"entries": entries})
}

// Weekly shows the Monday to Sunday rollup of the current week.
func (h *EntryHandler) Weekly(c *gin.Context) {
	user := middleware.CurrentUser(c)
	sum, err := h.Summary.Weekly(c.Request.Context(), user.ID, h.Now())
	if err != nil {
		serverError(c, h.log, err)
		return
	}
	render(c, http.StatusOK, "weekly.html", gin.H{
		"days":        sum.Days,
		"week_totals": sum.Totals,
		"week_start":  sum.Start,
		"week_end":    sum.End,
		"goal":        sum.Goal,
	})
}

// GoalsPage renders the goal form, creating the default goal if needed.
func (h *EntryHandler) GoalsPage(c *gin.Context) {
	user := middleware.CurrentUser(c)
	goal, _, err := h.Goals.GetOrCreate(c.Request.Context(), user.ID)
	if err != nil {
		serverError(c, h.log, err)
		return
	}
	render(c, http.StatusOK, "goals.html", gin.H{"form": forms.GoalFormFrom(goal), "goal": goal})
}

// SaveGoals saves new targets.
func (h *EntryHandler) SaveGoals(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var form forms.GoalForm
	_ = c.ShouldBind(&form)

	targets, err := form.Validate()
	if err == nil {
		_, err = h.Goals.Update(c.Request.Context(), user.ID, targets)
	}
	if err != nil {
		if ve, ok := util.AsValidation(err); ok {
			render(c, http.StatusOK, "goals.html", gin.H{"form": form, "errors": ve})
			return
		}
		serverError(c, h.log, err)
		return
	}

	c.Set(middleware.AuditAction, "updated goals")
	addFlash(c, "success", "Goals updated successfully!")
	c.Redirect(http.StatusFound, "/dashboard/")
}
