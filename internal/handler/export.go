package handler

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/gitKrishh/finance-tracker/internal/models"
	"github.com/gitKrishh/finance-tracker/internal/store"
	"github.com/gitKrishh/finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler streams the user's full transaction history as a file.
type ExportHandler struct {
	Store *store.TransactionStore
}

func NewExportHandler(s *store.TransactionStore) *ExportHandler {
	return &ExportHandler{Store: s}
}

var exportHeaders = []string{"Date", "Type", "Category", "Description", "Amount", "Receipt URL"}

func exportRow(t *models.Transaction) []string {
	return []string{
		t.Date.Format("2006-01-02"),
		t.Type,
		t.Category,
		t.Description,
		strconv.FormatFloat(t.Amount(), 'f', 2, 64),
		t.ReceiptURL,
	}
}

// ExportCSV writes all the user's transactions as CSV, newest first.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		util.Fail(c, util.Unauthorized("Unauthorized request"))
		return
	}

	txs, err := h.Store.ListForOwner(user.ID, store.ListFilter{})
	if err != nil {
		util.Fail(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for i := range txs {
		writer.Write(exportRow(&txs[i]))
	}
}

// ExportXLSX writes all the user's transactions as an XLSX workbook.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		util.Fail(c, util.Unauthorized("Unauthorized request"))
		return
	}

	txs, err := h.Store.ListForOwner(user.ID, store.ListFilter{})
	if err != nil {
		util.Fail(c, err)
		return
	}

	f := excelize.NewFile()
	sheetName := "Transactions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Fail(c, util.Internal("Failed to create worksheet"))
		return
	}
	f.SetActiveSheet(index)

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for idx := range txs {
		row := idx + 2
		for col, value := range exportRow(&txs[idx]) {
			cell := fmt.Sprintf("%c%d", 'A'+col, row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "C", 14)
	f.SetColWidth(sheetName, "D", "D", 30)
	f.SetColWidth(sheetName, "E", "E", 12)
	f.SetColWidth(sheetName, "F", "F", 30)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Fail(c, util.Internal("Failed to write workbook"))
	}
}
