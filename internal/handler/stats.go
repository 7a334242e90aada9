package handler

import (
	"net/http"
	"time"

	"github.com/gitKrishh/finance-tracker/internal/report"
	"github.com/gitKrishh/finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves the aggregated dashboard and report views.
type ReportHandler struct {
	Engine *report.Engine
}

func NewReportHandler(engine *report.Engine) *ReportHandler {
	return &ReportHandler{Engine: engine}
}

// Stats returns overall income/expense totals and the balance.
func (h *ReportHandler) Stats(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		util.Fail(c, util.Unauthorized("Unauthorized request"))
		return
	}

	totals, err := h.Engine.Totals(c.Request.Context(), user.ID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.JSON(c, http.StatusOK, totals, "Transaction stats retrieved successfully")
}

// CategorySummary returns expense totals grouped by category, largest first.
func (h *ReportHandler) CategorySummary(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		util.Fail(c, util.Unauthorized("Unauthorized request"))
		return
	}

	breakdown, err := h.Engine.CategoryBreakdown(c.Request.Context(), user.ID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.JSON(c, http.StatusOK, breakdown, "Category breakdown retrieved successfully")
}

// Reports returns the combined trend/category/summary report for a date
// range. Both bounds are required; the end bound is inclusive through the
// final instant of that calendar day.
func (h *ReportHandler) Reports(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		util.Fail(c, util.Unauthorized("Unauthorized request"))
		return
	}

	startStr := c.Query("startDate")
	endStr := c.Query("endDate")
	if startStr == "" || endStr == "" {
		util.Fail(c, util.BadRequest("startDate and endDate are required"))
		return
	}

	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		util.Fail(c, util.BadRequest("Invalid startDate, expected YYYY-MM-DD"))
		return
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		util.Fail(c, util.BadRequest("Invalid endDate, expected YYYY-MM-DD"))
		return
	}

	rep, err := h.Engine.Report(c.Request.Context(), user.ID, start, end.AddDate(0, 0, 1))
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.JSON(c, http.StatusOK, rep, "Report data retrieved successfully")
}
