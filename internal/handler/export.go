package handler

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/developer-az/food-tracker/internal/middleware"
	"github.com/developer-az/food-tracker/internal/models"
	"github.com/developer-az/food-tracker/internal/service"
)

// ExportHandler downloads the user's consumption log.
type ExportHandler struct {
	Entries *service.EntryService
	log     *logrus.Entry
}

func NewExportHandler(entries *service.EntryService, log *logrus.Logger) *ExportHandler {
	return &ExportHandler{Entries: entries, log: log.WithField("handler", "export")}
}

var exportHeader = []string{"Consumed at", "Meal", "Food", "Quantity (g)", "Calories", "Protein (g)", "Carbs (g)", "Fat (g)"}

func exportRow(e *models.FoodEntry) []string {
	return []string{
		e.ConsumedAt.Format("2006-01-02 15:04"),
		e.MealType,
		e.Food.Name,
		e.QuantityG.StringFixed(1),
		e.CaloriesConsumed().StringFixed(1),
		e.ProteinConsumed().StringFixed(1),
		e.CarbsConsumed().StringFixed(1),
		e.FatConsumed().StringFixed(1),
	}
}

func exportName(ext string) string {
	return fmt.Sprintf("attachment; filename=\"food_log_%s.%s\"", time.Now().Format("20060102"), ext)
}

// ExportCSV downloads the log as CSV.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	entries, err := h.Entries.All(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		serverError(c, h.log, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", exportName("csv"))

	// UTF-8 BOM so spreadsheet apps detect the encoding
	_, _ = c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	w := csv.NewWriter(c.Writer)
	_ = w.Write(exportHeader)
	for i := range entries {
		_ = w.Write(exportRow(&entries[i]))
	}
	w.Flush()
	if err := w.Error(); err != nil {
		h.log.WithError(err).Warn("write csv")
	}
}

// ExportXLSX downloads the log as a spreadsheet.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	entries, err := h.Entries.All(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		serverError(c, h.log, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Food log"
	index, err := f.NewSheet(sheet)
	if err != nil {
		serverError(c, h.log, err)
		return
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	for i, title := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, title)
	}
	for idx := range entries {
		e := &entries[idx]
		row := idx + 2
		for col, v := range exportRow(e) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			// numeric columns are written as numbers so they can be summed
			if col >= 3 {
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					_ = f.SetCellValue(sheet, cell, n)
					continue
				}
			}
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 18)
	_ = f.SetColWidth(sheet, "B", "B", 10)
	_ = f.SetColWidth(sheet, "C", "C", 24)
	_ = f.SetColWidth(sheet, "D", "H", 12)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", exportName("xlsx"))
	if err := f.Write(c.Writer); err != nil {
		h.log.WithError(err).Error("write xlsx")
	}
}
